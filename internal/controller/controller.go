package controller

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-console/internal/derive"
	"github.com/noah-isme/sma-adp-console/internal/form"
	"github.com/noah-isme/sma-adp-console/internal/list"
	"github.com/noah-isme/sma-adp-console/internal/schema"
	"github.com/noah-isme/sma-adp-console/internal/view"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// State labels the controller's position in its load/submit cycle.
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateLoaded     State = "loaded"
	StateSubmitting State = "submitting"
	StateDeleting   State = "deleting"
)

// API is the REST collaborator the controller mutates through.
type API interface {
	List(ctx context.Context, endpointBase string, page, size int) (list.Page, error)
	Get(ctx context.Context, endpointBase, id string) (schema.Entity, error)
	Create(ctx context.Context, endpointBase string, entity schema.Entity) (schema.Entity, error)
	Update(ctx context.Context, endpointBase, id string, entity schema.Entity) (schema.Entity, error)
	Delete(ctx context.Context, endpointBase, id string) error
}

// EntityList orchestrates one management screen: load a page, filter it
// client-side, and run the create/edit/delete cycle through the API. One
// instance serves one screen and is confined to the UI goroutine; the only
// suspension points are the API calls, and at most one mutating request is
// outstanding at a time.
type EntityList struct {
	schema    schema.Schema
	api       API
	store     *list.Store
	filter    *list.Engine
	form      *form.Binder
	transform derive.Transform
	logger    *zap.Logger
	now       func() time.Time

	pageSize  int
	pageIndex int

	state     State
	inFlight  bool
	closed    bool
	loadErr   string
	actionErr string
	fieldErrs map[string]string
}

// Option tweaks controller construction.
type Option func(*EntityList)

// WithPageSize overrides the default page size of 20.
func WithPageSize(size int) Option {
	return func(c *EntityList) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithClock injects the time source used for derived date stamps.
func WithClock(now func() time.Time) Option {
	return func(c *EntityList) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a controller for one entity schema. Everything is injected;
// there is no ambient global state.
func New(s schema.Schema, apiClient API, binder *form.Binder, logger *zap.Logger, opts ...Option) *EntityList {
	if logger == nil {
		logger = zap.NewNop()
	}
	if binder == nil {
		binder = form.NewBinder(s, nil)
	}
	c := &EntityList{
		schema:    s,
		api:       apiClient,
		store:     list.NewStore(),
		filter:    list.NewEngine(s),
		form:      binder,
		transform: derive.ForSchema(s.Name),
		logger:    logger.With(zap.String("entity", s.Name)),
		now:       time.Now,
		pageSize:  20,
		state:     StateIdle,
		fieldErrs: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schema returns the schema this controller serves.
func (c *EntityList) Schema() schema.Schema {
	return c.schema
}

// State returns the current lifecycle state.
func (c *EntityList) State() State {
	return c.state
}

// Load fetches the current page. A failed load degrades to an empty page
// with a user-visible message; it never retries on its own. Auth expiry is
// escalated through the API client's hook, not shown inline.
func (c *EntityList) Load(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.state = StateLoading
	c.loadErr = ""

	page, err := c.api.List(ctx, c.schema.EndpointBase, c.pageIndex, c.pageSize)
	if c.closed {
		return nil
	}
	c.state = StateLoaded
	if err != nil {
		c.store.Load(list.Page{PageIndex: c.pageIndex, PageSize: c.pageSize})
		if !appErrors.IsAuthExpired(err) {
			c.loadErr = fmt.Sprintf("failed to load %s: %s", c.schema.Name, appErrors.FromError(err).Message)
		}
		c.logger.Warn("load failed", zap.Error(err))
		return err
	}

	c.store.Load(page)
	c.pageIndex = page.PageIndex
	return nil
}

// LoadError returns the message for the error row, empty when the last load
// succeeded.
func (c *EntityList) LoadError() string {
	return c.loadErr
}

// ActionError returns the inline message from the last failed save or
// delete.
func (c *EntityList) ActionError() string {
	return c.actionErr
}

// Page returns the cached pagination metadata.
func (c *EntityList) Page() list.Page {
	return c.store.CurrentPage()
}

// Search updates the free-text term. Purely client-side: it re-derives the
// visible rows from the already-fetched page and never touches the network.
func (c *EntityList) Search(text string) {
	c.store.SetSearch(text)
}

// SetFilter updates one dropdown filter; an empty value clears it.
func (c *EntityList) SetFilter(key, value string) {
	c.store.SetFieldFilter(key, value)
}

// ResetFilters restores the pristine filter state.
func (c *EntityList) ResetFilters() {
	c.store.ResetFilters()
}

// Filters exposes the active filter state.
func (c *EntityList) Filters() list.FilterState {
	return c.store.Filters()
}

// VisibleItems returns the rows currently visible under search and filters.
// Filtering only narrows the loaded page; it does not re-query the server,
// so matches outside the current page stay hidden. That mirrors the system
// this console fronts.
func (c *EntityList) VisibleItems() []schema.Entity {
	return c.filter.Apply(c.store.CurrentItems(), c.store.Filters())
}

// Rows projects the visible items into render-ready table rows.
func (c *EntityList) Rows() []view.Row {
	return view.Project(c.schema, c.VisibleItems())
}

// NextPage advances to the next page when one exists.
func (c *EntityList) NextPage(ctx context.Context) error {
	page := c.store.CurrentPage()
	if page.TotalPages > 0 && c.pageIndex >= page.TotalPages-1 {
		return nil
	}
	c.pageIndex++
	return c.Load(ctx)
}

// PrevPage steps back one page.
func (c *EntityList) PrevPage(ctx context.Context) error {
	if c.pageIndex == 0 {
		return nil
	}
	c.pageIndex--
	return c.Load(ctx)
}

// Close marks the screen unmounted. Every later completion or call becomes
// a no-op; nothing panics after navigation away.
func (c *EntityList) Close() {
	c.closed = true
	c.form.Close()
}
