package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/fruits/internal/resource"
)

// Controller is what the screen triggers. *resource.Client satisfies it.
type Controller interface {
	ListAll()
	Search(key string)
	SelectByID(id string)
	CreateNew()
	Save()
	DeleteCurrent()
}

// applyMsg carries a request completion onto the event loop.
type applyMsg func()

type startMsg struct{}

type keyMap struct {
	Search, Select, New, Edit, Save, Delete, Refresh, Quit, Dismiss key.Binding
}

var keys = keyMap{
	Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:    key.NewBinding(key.WithKeys("e", "tab"), key.WithHelp("e", "edit name")),
	Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Dismiss: key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("enter", "dismiss")),
}

// Model is the Bubble Tea model. State lives behind the screen pointer so
// the resource client can render into it.
type Model struct {
	s *screen
}

func newModel() Model { return Model{s: newScreen()} }

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case applyMsg:
		msg()
		return m, nil
	case startMsg:
		m.s.ctl.ListAll()
		return m, nil
	case tea.WindowSizeMsg:
		m.s.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// notices block everything else until dismissed
		if m.s.notice() != nil {
			if key.Matches(msg, keys.Dismiss) {
				m.s.dismiss()
			}
			return m, nil
		}
		switch m.s.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusName:
			return m.updateName(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	switch m.s.focus {
	case focusSearch:
		m.s.search, cmd = m.s.search.Update(msg)
	case focusName:
		m.s.name, cmd = m.s.name.Update(msg)
	default:
		m.s.list, cmd = m.s.list.Update(msg)
	}
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.s.ctl.Search(m.s.search.Value())
		return m, m.s.setFocus(focusList)
	case "esc":
		return m, m.s.setFocus(focusList)
	}
	var cmd tea.Cmd
	m.s.search, cmd = m.s.search.Update(msg)
	return m, cmd
}

func (m Model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Save), msg.String() == "enter":
		cmd := m.s.setFocus(focusList)
		m.save()
		return m, cmd
	case msg.String() == "esc", msg.String() == "tab":
		return m, m.s.setFocus(focusList)
	}
	var cmd tea.Cmd
	m.s.name, cmd = m.s.name.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit), msg.String() == "esc":
		return m, tea.Quit
	case key.Matches(msg, keys.Search):
		return m, m.s.setFocus(focusSearch)
	case key.Matches(msg, keys.New):
		m.s.ctl.CreateNew()
		return m, m.s.setFocus(focusName)
	case key.Matches(msg, keys.Edit):
		return m, m.s.setFocus(focusName)
	case key.Matches(msg, keys.Save):
		m.save()
		return m, nil
	case key.Matches(msg, keys.Delete):
		if m.s.showDelete {
			m.s.ctl.DeleteCurrent()
		}
		return m, nil
	case key.Matches(msg, keys.Refresh):
		m.s.ctl.ListAll()
		return m, nil
	case key.Matches(msg, keys.Select):
		if it, ok := m.s.selected(); ok {
			m.s.ctl.SelectByID(it.id)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.s.list, cmd = m.s.list.Update(msg)
	return m, cmd
}

// save enforces the only validation there is: the name must not be empty.
func (m Model) save() {
	if blank(m.s.name.Value()) {
		m.s.Notify(resource.Notice{Op: "save", Text: "name must not be empty", Failed: true})
		return
	}
	m.s.ctl.Save()
}

func (m Model) View() string {
	s := m.s
	if s.notice() != nil {
		return m.noticeView()
	}

	listPanel := panelStyle(s.focus == focusList).Render(s.list.View())
	detailPanel := panelStyle(s.focus == focusName).Render(m.detailView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, " ", detailPanel)

	searchBar := panelStyle(s.focus == focusSearch).Width(max(s.width-4, 20)).Render(s.search.View())
	return lipgloss.JoinVertical(lipgloss.Left, searchBar, body, m.helpView())
}

func (m Model) detailView() string {
	s := m.s
	id := s.formID
	if id == "" {
		id = mutedStyle.Render("(new)")
	}
	lines := []string{
		titleStyle.Render("Details"),
		"",
		labelStyle.Render("ID   ") + id,
		labelStyle.Render("Name ") + s.name.View(),
		"",
	}
	actions := []string{accentStyle.Render("[n] new"), accentStyle.Render("[ctrl+s] save")}
	if s.showDelete {
		actions = append(actions, errorStyle.Render("[d] delete"))
	}
	lines = append(lines, strings.Join(actions, "  "))
	return strings.Join(lines, "\n")
}

func (m Model) helpView() string {
	var parts []string
	for _, b := range []key.Binding{keys.Search, keys.Select, keys.New, keys.Edit, keys.Save, keys.Delete, keys.Refresh, keys.Quit} {
		if b.Help().Key == "d" && !m.s.showDelete {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

func (m Model) noticeView() string {
	n := m.s.notice()
	text := successStyle.Render("✔ " + n.Text)
	if n.Failed {
		text = errorStyle.Render("✖ " + n.Text)
	}
	box := noticeStyle(n.Failed).Render(text + "\n\n" + helpStyle.Render("press enter to continue"))
	return lipgloss.Place(m.s.width, m.s.height, lipgloss.Center, lipgloss.Center, box)
}

// Options configure Run.
type Options struct {
	AllowUpdate bool
	Logger      *logrus.Entry
	Input       io.Reader
	Output      io.Writer
}

// Run starts the interactive screen against a and blocks until the user quits.
func Run(a resource.API, opt Options) error {
	m := newModel()
	popts := []tea.ProgramOption{tea.WithAltScreen()}
	if opt.Input != nil {
		popts = append(popts, tea.WithInput(opt.Input))
	}
	if opt.Output != nil {
		popts = append(popts, tea.WithOutput(opt.Output))
	}

	p := tea.NewProgram(m, popts...)
	rc := resource.New(a, m.s,
		resource.WithExecutor(func(fn func()) { p.Send(applyMsg(fn)) }),
		resource.WithLogger(opt.Logger),
		resource.WithUpdates(opt.AllowUpdate),
	)
	m.s.ctl = rc
	_, err := p.Run()
	return err
}
