package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/fruits/internal/api"
	"github.com/idilsaglam/fruits/internal/config"
	"github.com/idilsaglam/fruits/internal/logging"
	"github.com/idilsaglam/fruits/internal/resource"
	"github.com/idilsaglam/fruits/internal/tui"
	"github.com/idilsaglam/fruits/internal/ui"
)

// Options carry the resolved config and where output goes.
type Options struct {
	Config config.Config
	Logger *logrus.Entry

	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		PrintHelp(opt.Stderr)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0

	case "ls":
		return doList(opt)

	case "search":
		return doSearch(opt, strings.Join(a, " "))

	case "get":
		if len(a) != 1 || strings.TrimSpace(a[0]) == "" {
			ui.Fail(opt.Stderr, "usage: fruits get <id>")
			return 2
		}
		return doGet(opt, a[0])

	case "add":
		name := strings.TrimSpace(strings.Join(a, " "))
		if name == "" {
			ui.Fail(opt.Stderr, "usage: fruits add <name...>")
			return 2
		}
		return doAdd(opt, name)

	case "update":
		if len(a) < 2 || strings.TrimSpace(a[0]) == "" {
			ui.Fail(opt.Stderr, "usage: fruits update <id> <name...>")
			return 2
		}
		name := strings.TrimSpace(strings.Join(a[1:], " "))
		if name == "" {
			ui.Fail(opt.Stderr, "update: empty name")
			return 2
		}
		return doUpdate(opt, a[0], name)

	case "rm":
		if len(a) != 1 || strings.TrimSpace(a[0]) == "" {
			ui.Fail(opt.Stderr, "usage: fruits rm <id>")
			return 2
		}
		return doRemove(opt, a[0])

	case "health":
		return doHealth(opt)

	case "info":
		return doInfo(opt)

	case "tui":
		return doTUI(opt)
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `fruits - client for the /api/fruits REST service

Usage:
  fruits [flags] <subcommand> [args]

Subcommands:
  ls                      List every fruit
  search <key...>         List fruits matching a name (empty key lists all)
  get <id>                Show one fruit
  add <name...>           Create a fruit
  update <id> <name...>   Rename a fruit (needs -allow-update)
  rm <id>                 Delete a fruit
  health                  Show the server's JDBC health check
  info                    Show the server's datasource description
  tui                     Interactive list/detail screen

Examples:
  fruits ls
  fruits add "Blood Orange"
  fruits -host fruits.local -port 9090 rm 42
  fruits tui
`)
}

// -------------- subcommand impls ----------------

// session wires a resource client to a console view.
type session struct {
	api  *api.Client
	view *ui.ConsoleView
	rc   *resource.Client
}

func newAPI(opt Options) (*api.Client, error) {
	return api.NewClient(opt.Config.BaseURL(),
		api.WithTimeout(opt.Config.Timeout),
		api.WithLogger(opt.Logger.WithField("component", "api")),
	)
}

func newSession(opt Options) (*session, error) {
	cl, err := newAPI(opt)
	if err != nil {
		return nil, err
	}
	view := ui.NewConsoleView(opt.Stdout, opt.Stderr)
	rc := resource.New(cl, view,
		resource.WithExecutor(resource.SerialExecutor()),
		resource.WithLogger(opt.Logger.WithField("component", "resource")),
		resource.WithUpdates(opt.Config.AllowUpdate),
	)
	return &session{api: cl, view: view, rc: rc}, nil
}

// run starts a session, lets fn trigger operations and waits for every
// response to land.
func run(opt Options, fn func(s *session)) (*session, int) {
	s, err := newSession(opt)
	if err != nil {
		ui.Fail(opt.Stderr, "init: "+err.Error())
		return nil, 1
	}
	fn(s)
	s.rc.Wait()
	if s.view.Failed() {
		return s, 1
	}
	return s, 0
}

func doList(opt Options) int {
	s, code := run(opt, func(s *session) { s.rc.ListAll() })
	if code == 0 && !s.view.Listed() {
		ui.Fail(opt.Stderr, "ls: could not load fruits from "+s.api.BaseURL())
		return 1
	}
	return code
}

func doSearch(opt Options, key string) int {
	s, code := run(opt, func(s *session) { s.rc.Search(key) })
	if code == 0 && !s.view.Listed() {
		ui.Fail(opt.Stderr, "search: could not load fruits from "+s.api.BaseURL())
		return 1
	}
	return code
}

func doGet(opt Options, id string) int {
	s, code := run(opt, func(s *session) { s.rc.SelectByID(id) })
	if code == 0 && s.rc.Current().ID == "" {
		ui.Fail(opt.Stderr, "get: fruit "+id+" not found")
		return 1
	}
	return code
}

func doAdd(opt Options, name string) int {
	_, code := run(opt, func(s *session) {
		s.rc.CreateNew()
		s.view.SetForm("", name)
		s.rc.Save()
	})
	return code
}

func doUpdate(opt Options, id, name string) int {
	_, code := run(opt, func(s *session) {
		s.view.SetForm(id, name)
		s.rc.Save()
	})
	return code
}

func doRemove(opt Options, id string) int {
	_, code := run(opt, func(s *session) {
		s.view.SetForm(id, "")
		s.rc.DeleteCurrent()
	})
	return code
}

func doHealth(opt Options) int {
	cl, err := newAPI(opt)
	if err != nil {
		ui.Fail(opt.Stderr, "init: "+err.Error())
		return 1
	}
	h, err := cl.Health(context.Background())
	if err != nil {
		ui.Fail(opt.Stderr, "health: "+api.StatusText(err))
		return 1
	}
	t := ui.Current()
	status := ui.C(t.Success, "UP")
	if !h.Up() {
		status = ui.C(t.Error, strings.ToUpper(h.Result))
	}
	lines := []string{
		ui.C(t.Title, "Health") + "  " + h.ID,
		"",
		ui.C(t.Label, "status:     ") + status,
	}
	if n := h.TableSize(); n >= 0 {
		lines = append(lines, ui.C(t.Label, "table size: ")+fmt.Sprint(n))
	}
	ui.Panel(opt.Stdout, lines)
	if !h.Up() {
		return 1
	}
	return 0
}

func doInfo(opt Options) int {
	cl, err := newAPI(opt)
	if err != nil {
		ui.Fail(opt.Stderr, "init: "+err.Error())
		return 1
	}
	text, err := cl.Datasource(context.Background())
	if err != nil {
		ui.Fail(opt.Stderr, "info: "+api.StatusText(err))
		return 1
	}
	ui.Panel(opt.Stdout, []string{ui.C(ui.Current().Title, "Datasource"), "", text})
	return 0
}

func doTUI(opt Options) int {
	cl, err := newAPI(opt)
	if err != nil {
		ui.Fail(opt.Stderr, "init: "+err.Error())
		return 1
	}
	if err := tui.Run(cl, tui.Options{
		AllowUpdate: opt.Config.AllowUpdate,
		Logger:      opt.Logger.WithField("component", "tui"),
		Input:       opt.Stdin,
		Output:      opt.Stdout,
	}); err != nil {
		ui.Fail(opt.Stderr, "tui: "+err.Error())
		return 1
	}
	return 0
}
