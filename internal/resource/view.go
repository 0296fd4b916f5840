package resource

import (
	"context"
	"sync"

	"github.com/idilsaglam/fruits/internal/model"
)

// API is the server surface the Client drives. *api.Client satisfies it.
type API interface {
	List(ctx context.Context) ([]model.Fruit, error)
	Search(ctx context.Context, key string) ([]model.Fruit, error)
	Get(ctx context.Context, id string) (model.Fruit, error)
	Create(ctx context.Context, f model.Fruit) (*model.Fruit, error)
	Update(ctx context.Context, f model.Fruit) (*model.Fruit, error)
	Delete(ctx context.Context, id string) error
}

// View is the list/detail surface. All methods are called on the UI thread.
type View interface {
	// RenderList replaces every list entry with one entry per fruit.
	RenderList(fruits []model.Fruit)
	// RenderDetails writes id and name into the detail form.
	RenderDetails(f model.Fruit)
	ShowDelete(visible bool)
	// Notify surfaces a blocking notice to the user.
	Notify(n Notice)
	// Form returns what the detail form currently holds.
	Form() model.Fruit
}

// Notice is a user-facing notification.
type Notice struct {
	Op     string
	Text   string
	Failed bool
}

// String is the text shown to the user.
func (n Notice) String() string { return n.Text }

// Executor runs fn on the UI thread.
type Executor func(fn func())

// SerialExecutor runs callbacks one at a time on the calling goroutine.
// It stands in for a UI thread where there is no event loop.
func SerialExecutor() Executor {
	var mu sync.Mutex
	return func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}
}
