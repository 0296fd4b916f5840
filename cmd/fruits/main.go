package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/fruits/internal/cli"
	"github.com/idilsaglam/fruits/internal/config"
	"github.com/idilsaglam/fruits/internal/logging"
	"github.com/idilsaglam/fruits/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	cfgPath := flag.String("config", "", "config file (default ./fruits.yaml)")
	baseURL := flag.String("url", "", "collection URL, overrides host/port/path")
	host := flag.String("host", "", "server host")
	port := flag.Int("port", 0, "server port")
	timeout := flag.Duration("timeout", 0, "request timeout (0 waits forever)")
	allowUpdate := flag.Bool("allow-update", false, "save existing fruits with PUT instead of refusing")
	theme := flag.String("theme", "", "console theme: classic, neon or mono")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "write logs to this file")
	noColor := flag.Bool("no-color", false, "disable colors")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		return 2
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		return 1
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.URL = *baseURL
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "timeout":
			cfg.Timeout = *timeout
		case "allow-update":
			cfg.AllowUpdate = *allowUpdate
		case "theme":
			cfg.Theme = *theme
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		}
	})
	if err := cfg.Validate(); err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		return 2
	}

	ui.SetTheme(cfg.Theme)
	if *noColor {
		ui.SetColorForcing(false, true)
	}

	// Logs would tear the alt screen apart, so the TUI only logs to a file.
	var logOut io.Writer = os.Stderr
	if args[0] == "tui" {
		logOut = io.Discard
	}
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			ui.Fail(os.Stderr, err.Error())
			return 1
		}
		defer f.Close()
		logOut = f
	}
	logger, err := logging.New(cfg.LogLevel, logOut)
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		return 2
	}
	logger.WithFields(logrus.Fields{"url": cfg.BaseURL(), "command": args[0]}).Debug("starting")

	code := cli.Run(args, cli.Options{
		Config: cfg,
		Logger: logrus.NewEntry(logger),
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
