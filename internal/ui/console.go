package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/idilsaglam/fruits/internal/model"
	"github.com/idilsaglam/fruits/internal/resource"
)

// ConsoleView renders the list/detail surface as printed panels.
// It satisfies resource.View for one-shot subcommands.
type ConsoleView struct {
	out, errOut io.Writer

	mu          sync.Mutex
	form        model.Fruit
	deleteShown bool
	listed      bool
	failed      bool
}

func NewConsoleView(out, errOut io.Writer) *ConsoleView {
	return &ConsoleView{out: out, errOut: errOut}
}

// SetForm fills the detail form as a user would before pressing a button.
func (v *ConsoleView) SetForm(id, name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = model.Fruit{ID: id, Name: name}
}

func (v *ConsoleView) Form() model.Fruit {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

func (v *ConsoleView) RenderList(fruits []model.Fruit) {
	v.mu.Lock()
	v.listed = true
	v.mu.Unlock()

	t := Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d", C(t.Title, "Fruits"), C(t.Accent, "Total"), len(fruits)),
		"",
	}
	if len(fruits) == 0 {
		lines = append(lines, C(t.Muted, "no fruits"))
	}
	for _, f := range fruits {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			C(t.Muted, t.Bullet), C(dim, fmt.Sprintf("%4s", f.ID)), Truncate(f.Name, 60)))
	}
	Panel(v.out, lines)
}

// RenderDetails stores the record in the form. Only non-empty records are
// printed; clearing the form is silent.
func (v *ConsoleView) RenderDetails(f model.Fruit) {
	v.mu.Lock()
	v.form = f
	v.mu.Unlock()
	if f.ID == "" && f.Name == "" {
		return
	}
	t := Current()
	Panel(v.out, []string{
		C(t.Title, "Fruit"),
		"",
		C(t.Label, "id:   ") + f.ID,
		C(t.Label, "name: ") + f.Name,
	})
}

func (v *ConsoleView) ShowDelete(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deleteShown = visible
}

func (v *ConsoleView) Notify(n resource.Notice) {
	if n.Failed {
		v.mu.Lock()
		v.failed = true
		v.mu.Unlock()
		Fail(v.errOut, n.String())
		return
	}
	OK(v.out, n.String())
}

// DeleteShown reports whether the delete control is currently visible.
func (v *ConsoleView) DeleteShown() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deleteShown
}

// Listed reports whether any list was rendered.
func (v *ConsoleView) Listed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.listed
}

// Failed reports whether a failure notice was shown.
func (v *ConsoleView) Failed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.failed
}
