package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/fruits/internal/model"
	"github.com/idilsaglam/fruits/internal/resource"
)

// listItem adapts a Fruit to bubbles/list.Item. It keeps only what the list
// shows: the id as identity and the name as text.
type listItem struct {
	id   string
	name string
}

func (i listItem) FilterValue() string { return i.name }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	line := fmt.Sprintf("%s %s", it.name, mutedStyle.Render("#"+it.id))
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type focus int

const (
	focusList focus = iota
	focusSearch
	focusName
)

// screen is the state behind the TUI. It implements resource.View; every
// method runs inside Update, on the Bubble Tea event loop.
type screen struct {
	ctl Controller

	list   list.Model
	search textinput.Model
	name   textinput.Model

	formID     string
	showDelete bool
	notices    []resource.Notice // FIFO; the head is on screen
	focus      focus

	width, height int
}

func newScreen() *screen {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Fruits"
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("fruit", "fruits")

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search by name (empty lists all)"
	search.CharLimit = 120

	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "fruit name..."
	name.CharLimit = 200

	return &screen{
		list:   l,
		search: search,
		name:   name,
		width:  80,
		height: 24,
	}
}

func (s *screen) RenderList(fruits []model.Fruit) {
	items := make([]list.Item, 0, len(fruits))
	for _, f := range fruits {
		items = append(items, listItem{id: f.ID, name: f.Name})
	}
	s.list.SetItems(items)
	s.list.ResetSelected()
}

func (s *screen) RenderDetails(f model.Fruit) {
	s.formID = f.ID
	s.name.SetValue(f.Name)
	s.name.CursorEnd()
}

func (s *screen) ShowDelete(visible bool) { s.showDelete = visible }

// Notify queues n behind any notice still waiting to be dismissed.
func (s *screen) Notify(n resource.Notice) { s.notices = append(s.notices, n) }

// notice returns the notice on screen, nil when none is pending.
func (s *screen) notice() *resource.Notice {
	if len(s.notices) == 0 {
		return nil
	}
	return &s.notices[0]
}

func (s *screen) dismiss() {
	if len(s.notices) > 0 {
		s.notices = s.notices[1:]
	}
}

func (s *screen) Form() model.Fruit {
	return model.Fruit{ID: s.formID, Name: s.name.Value()}
}

// selected returns the highlighted list entry.
func (s *screen) selected() (listItem, bool) {
	it, ok := s.list.SelectedItem().(listItem)
	return it, ok
}

func (s *screen) entries() []listItem {
	out := make([]listItem, 0, len(s.list.Items()))
	for _, it := range s.list.Items() {
		if li, ok := it.(listItem); ok {
			out = append(out, li)
		}
	}
	return out
}

func (s *screen) setFocus(f focus) tea.Cmd {
	s.focus = f
	s.search.Blur()
	s.name.Blur()
	switch f {
	case focusSearch:
		return s.search.Focus()
	case focusName:
		return s.name.Focus()
	}
	return nil
}

func (s *screen) resize(w, h int) {
	s.width, s.height = w, h
	listW := w/2 - 4
	if listW < 20 {
		listW = 20
	}
	listH := h - 8
	if listH < 5 {
		listH = 5
	}
	s.list.SetSize(listW, listH)
	s.name.Width = w/2 - 14
	s.search.Width = w - 8
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
