package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/fruits/internal/api"
	"github.com/idilsaglam/fruits/internal/logging"
	"github.com/idilsaglam/fruits/internal/model"
)

// ErrUpdateUnsupported is reported when saving a record that already has an id
// while updates are disabled.
var ErrUpdateUnsupported = errors.New("updating fruits is not supported")

// Option configures a Client.
type Option func(*Client)

// WithExecutor sets how completions reach the UI thread.
func WithExecutor(e Executor) Option {
	return func(c *Client) {
		if e != nil {
			c.exec = e
		}
	}
}

// WithLogger sets the logger used for request outcomes. Defaults to discarding.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithUpdates makes Save issue a PUT for records that have an id.
// Off by default: such saves only produce a "not supported" notice.
func WithUpdates(enabled bool) Option {
	return func(c *Client) { c.allowUpdate = enabled }
}

// Client binds the list/detail view to the fruits endpoints.
//
// Operations are triggered from the UI thread. Each starts at most one
// request on its own goroutine and applies the outcome through the
// executor, so responses land in arrival order. There is no sequencing,
// cancellation or retry.
type Client struct {
	api         API
	view        View
	exec        Executor
	log         *logrus.Entry
	allowUpdate bool

	current model.Fruit
	pending sync.WaitGroup
}

// New binds a to v. Completions run on a SerialExecutor unless
// WithExecutor says otherwise.
func New(a API, v View, opts ...Option) *Client {
	c := &Client{
		api:  a,
		view: v,
		log:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.exec == nil {
		c.exec = SerialExecutor()
	}
	return c
}

// Current returns the record shown in the detail form, empty if none.
func (c *Client) Current() model.Fruit { return c.current }

// Wait blocks until every request started so far, including follow-up
// list refreshes, has been applied to the view.
func (c *Client) Wait() { c.pending.Wait() }

// ListAll clears the selection, hides the delete control and reloads the
// whole list.
func (c *Client) ListAll() {
	c.view.ShowDelete(false)
	c.refresh()
}

// refresh clears the selection and reloads the list. Unlike ListAll it
// leaves the delete control alone; create and delete refresh this way.
func (c *Client) refresh() {
	c.clear()
	c.log.Debug("list all")
	c.fetchList("list", func(ctx context.Context) ([]model.Fruit, error) {
		return c.api.List(ctx)
	})
}

// Search lists the fruits matching key; an empty key lists everything.
func (c *Client) Search(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		c.ListAll()
		return
	}
	c.clear()
	c.view.ShowDelete(false)
	c.log.WithField("key", key).Debug("search")
	c.fetchList("search", func(ctx context.Context) ([]model.Fruit, error) {
		return c.api.Search(ctx, key)
	})
}

// SelectByID loads one fruit into the detail form. Failures only get logged.
func (c *Client) SelectByID(id string) {
	log := c.log.WithField("id", id)
	log.Debug("select")
	c.launch(func(ctx context.Context) func() {
		f, err := c.api.Get(ctx, id)
		return func() {
			if err != nil {
				log.WithError(err).Warn("select failed")
				return
			}
			c.current = f
			c.view.RenderDetails(f)
			c.view.ShowDelete(true)
		}
	})
}

// CreateNew shows an empty form. No request is made.
func (c *Client) CreateNew() {
	c.view.ShowDelete(false)
	c.clear()
}

// Save creates the form's record when it has no id and updates it otherwise.
func (c *Client) Save() {
	if c.view.Form().IsNew() {
		c.Create()
		return
	}
	c.Update()
}

// Create posts the form. On success the list is reloaded.
func (c *Client) Create() {
	form := c.view.Form()
	log := c.log.WithField("name", form.Name)
	log.Debug("create")
	c.launch(func(ctx context.Context) func() {
		_, err := c.api.Create(ctx, form)
		return func() {
			if err != nil {
				log.WithError(err).Warn("create failed")
				c.fail("create", err)
				return
			}
			c.view.Notify(Notice{Op: "create", Text: "fruit created successfully"})
			c.view.ShowDelete(true)
			c.refresh()
		}
	})
}

// Update saves the form over the record with the same id, or reports
// ErrUpdateUnsupported without touching the network when updates are off.
func (c *Client) Update() {
	if !c.allowUpdate {
		c.view.Notify(Notice{Op: "update", Text: ErrUpdateUnsupported.Error(), Failed: true})
		return
	}
	form := c.view.Form()
	log := c.log.WithField("id", form.ID)
	log.Debug("update")
	c.launch(func(ctx context.Context) func() {
		updated, err := c.api.Update(ctx, form)
		return func() {
			if err != nil {
				log.WithError(err).Warn("update failed")
				c.fail("update", err)
				return
			}
			if updated != nil {
				c.current = *updated
				c.view.RenderDetails(*updated)
			}
			c.view.Notify(Notice{Op: "update", Text: "fruit updated successfully"})
		}
	})
}

// DeleteCurrent deletes the record whose id is in the form, then reloads the list.
func (c *Client) DeleteCurrent() {
	id := c.view.Form().ID
	log := c.log.WithField("id", id)
	log.Debug("delete")
	c.launch(func(ctx context.Context) func() {
		err := c.api.Delete(ctx, id)
		return func() {
			if err != nil {
				log.WithError(err).Warn("delete failed")
				c.fail("delete", err)
				return
			}
			c.view.Notify(Notice{Op: "delete", Text: "fruit deleted successfully"})
			c.refresh()
		}
	})
}

func (c *Client) clear() {
	c.current = model.Fruit{}
	c.view.RenderDetails(c.current)
}

func (c *Client) fail(op string, err error) {
	c.view.Notify(Notice{
		Op:     op,
		Text:   fmt.Sprintf("%s error: %s", op, api.StatusText(err)),
		Failed: true,
	})
}

func (c *Client) fetchList(op string, fetch func(context.Context) ([]model.Fruit, error)) {
	c.launch(func(ctx context.Context) func() {
		list, err := fetch(ctx)
		return func() {
			if err != nil {
				c.log.WithError(err).WithField("op", op).Warn("list failed")
				return
			}
			c.view.RenderList(list)
		}
	})
}

// launch runs call off the UI thread and hands the continuation it returns
// to the executor.
func (c *Client) launch(call func(ctx context.Context) func()) {
	c.pending.Add(1)
	go func() {
		apply := call(context.Background())
		c.exec(func() {
			defer c.pending.Done()
			apply()
		})
	}()
}
