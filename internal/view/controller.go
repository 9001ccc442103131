package view

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rpggio/roster/internal/domain/student"
)

// DefaultPageSize is the number of students fetched per page.
const DefaultPageSize = 50

// PagingMode selects how the controller addresses the next page.
type PagingMode string

const (
	// PagingOffset fetches by numeric offset. Local adds and deletes adjust the
	// offset approximately; RefreshAll restores it.
	PagingOffset PagingMode = "offset"
	// PagingCursor fetches rows after the last store ID seen.
	PagingCursor PagingMode = "cursor"
)

// ParsePagingMode converts a configuration value to a PagingMode.
func ParsePagingMode(s string) (PagingMode, error) {
	switch PagingMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", PagingOffset:
		return PagingOffset, nil
	case PagingCursor:
		return PagingCursor, nil
	default:
		return "", fmt.Errorf("unknown paging mode %q", s)
	}
}

// Students is the store gateway used by the controller.
type Students interface {
	AddStudent(ctx context.Context, name string) student.Result[*student.Student]
	GetSection(ctx context.Context, offset, limit int) student.Result[[]student.Student]
	GetSectionAfter(ctx context.Context, afterID int64, limit int) student.Result[[]student.Student]
	UpdateStudent(ctx context.Context, rec *student.Student) student.Result[bool]
	DeleteStudent(ctx context.Context, id int64) student.Result[bool]
}

// NamePrompt asks the user for a new name for item. It returns false when the
// user cancels.
type NamePrompt func(ctx context.Context, item Item) (string, bool)

// ConfirmPrompt asks the user to confirm deleting item.
type ConfirmPrompt func(ctx context.Context, item Item) bool

// Options configures a Controller.
type Options struct {
	PageSize int
	Paging   PagingMode
	Logger   *slog.Logger
}

// Controller keeps an ordered in-memory view of the store consistent with
// user actions and incremental page loads.
//
// At most one page fetch is in flight. RefreshAll supersedes a fetch already
// running: its page is discarded instead of landing in the cleared view.
// Mutations are expected to arrive one at a time from a single caller.
//
// Every operation returns the Result of its own store call. Status reports
// the latest one for presentation and is shared by all callers.
type Controller struct {
	students Students
	items    *List
	pageSize int
	paging   PagingMode
	logger   *slog.Logger

	mu          sync.Mutex
	generation  uint64
	loadedCount int
	lastID      int64
	isLoading   bool
	hasMore     bool
	status      string
}

// NewController creates a controller with an empty view. Nothing is fetched
// until LoadNextPage or RefreshAll is called.
func NewController(students Students, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Paging == "" {
		opts.Paging = PagingOffset
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		students: students,
		items:    NewList(),
		pageSize: opts.PageSize,
		paging:   opts.Paging,
		logger:   opts.Logger,
		hasMore:  true,
	}
}

// LoadNextPage appends the next page of students. Value is the number of
// records fetched. While another load is in flight, or once the store is
// exhausted, nothing is fetched and the Result is zero with no message.
func (c *Controller) LoadNextPage(ctx context.Context) student.Result[int] {
	c.mu.Lock()
	if c.isLoading || !c.hasMore {
		c.mu.Unlock()
		return student.Result[int]{}
	}
	c.isLoading = true
	gen, offset, afterID := c.generation, c.loadedCount, c.lastID
	c.mu.Unlock()

	return c.load(ctx, gen, offset, afterID)
}

// load fetches one page for generation gen. The caller has claimed the
// loading slot. The page is committed and appended in one step, and dropped
// if RefreshAll started a newer generation meanwhile.
func (c *Controller) load(ctx context.Context, gen uint64, offset int, afterID int64) student.Result[int] {
	var res student.Result[[]student.Student]
	if c.paging == PagingCursor {
		res = c.students.GetSectionAfter(ctx, afterID, c.pageSize)
	} else {
		res = c.students.GetSection(ctx, offset, c.pageSize)
	}
	batch := res.Value

	items := make([]Item, 0, len(batch))
	for _, s := range batch {
		items = append(items, Decorate(s))
	}

	current := true
	added := c.items.AppendWhen(func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation != gen {
			current = false
			return false
		}
		c.status = res.Message
		c.isLoading = false
		if len(batch) == 0 || len(batch) < c.pageSize {
			c.hasMore = false
		}
		if len(batch) > 0 {
			c.loadedCount += len(batch)
			c.lastID = max(c.lastID, batch[len(batch)-1].ID)
		}
		return true
	}, items...)

	if !current {
		c.logger.Debug("discarded superseded page", "offset", offset, "after_id", afterID, "count", len(batch))
		return student.Result[int]{}
	}
	if added < len(items) {
		c.logger.Debug("skipped items already in view", "count", len(items)-added)
	}
	c.logger.Debug("page loaded", "offset", offset, "after_id", afterID, "count", len(batch))
	return student.Result[int]{Value: len(batch), Kind: res.Kind, Message: res.Message}
}

// OnThresholdReached is called when the visible position nears the end of the
// loaded items.
func (c *Controller) OnThresholdReached(ctx context.Context) student.Result[int] {
	return c.LoadNextPage(ctx)
}

// RefreshAll clears the view and loads the first page again. A load still in
// flight from before the refresh is discarded when it returns.
func (c *Controller) RefreshAll(ctx context.Context) student.Result[int] {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.loadedCount = 0
	c.lastID = 0
	c.hasMore = true
	c.isLoading = true
	c.mu.Unlock()

	c.items.Reset()
	return c.load(ctx, gen, 0, 0)
}

// AddItem stores a new student and shows it at the top of the view.
func (c *Controller) AddItem(ctx context.Context, name string) student.Result[Item] {
	res := c.students.AddStudent(ctx, name)
	c.setStatus(res.Message)
	out := student.Result[Item]{Kind: res.Kind, Message: res.Message}
	if res.Value == nil {
		return out
	}

	out.Value = Decorate(*res.Value)
	c.items.InsertFront(out.Value)

	c.mu.Lock()
	c.loadedCount++
	c.mu.Unlock()
	return out
}

// EditItem renames the student with id. On success the item is replaced at
// its current position.
func (c *Controller) EditItem(ctx context.Context, id int64, newName string) student.Result[Item] {
	name := strings.TrimSpace(newName)
	res := c.students.UpdateStudent(ctx, &student.Student{ID: id, Name: name})
	c.setStatus(res.Message)
	out := student.Result[Item]{Kind: res.Kind, Message: res.Message}
	if !res.Value {
		return out
	}

	out.Value = Decorate(student.Student{ID: id, Name: name})
	c.items.Replace(out.Value)
	return out
}

// DeleteItem removes the student with id from the store and the view.
func (c *Controller) DeleteItem(ctx context.Context, id int64) student.Result[bool] {
	res := c.students.DeleteStudent(ctx, id)
	c.setStatus(res.Message)
	if !res.Value {
		return res
	}

	c.items.Remove(id)

	c.mu.Lock()
	c.loadedCount = max(0, c.loadedCount-1)
	c.mu.Unlock()
	return res
}

// RequestEdit prompts for a new name for the item with id and applies it. A
// cancelled or blank answer leaves everything untouched.
func (c *Controller) RequestEdit(ctx context.Context, id int64, prompt NamePrompt) (Item, bool) {
	current, ok := c.items.Get(id)
	if !ok {
		return Item{}, false
	}
	name, ok := prompt(ctx, current)
	if !ok || strings.TrimSpace(name) == "" {
		return Item{}, false
	}
	res := c.EditItem(ctx, id, name)
	return res.Value, res.OK()
}

// RequestDelete asks for confirmation before deleting the item with id.
func (c *Controller) RequestDelete(ctx context.Context, id int64, confirm ConfirmPrompt) bool {
	current, ok := c.items.Get(id)
	if !ok {
		return false
	}
	if !confirm(ctx, current) {
		return false
	}
	return c.DeleteItem(ctx, id).Value
}

// Items returns a copy of the view in display order.
func (c *Controller) Items() []Item {
	return c.items.Snapshot()
}

// List exposes the observable view for presentation bindings.
func (c *Controller) List() *List {
	return c.items
}

// Subscribe registers fn for view changes. fn may call back into the
// controller.
func (c *Controller) Subscribe(fn func(Change)) func() {
	return c.items.Subscribe(fn)
}

// Len returns the number of items in view.
func (c *Controller) Len() int {
	return c.items.Len()
}

// LoadedCount returns the paging offset bookkeeping.
func (c *Controller) LoadedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadedCount
}

// HasMore reports whether another page may exist.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// IsLoading reports whether a page fetch is in flight.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isLoading
}

// Status returns the message of the latest store-backed operation.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// PageSize returns the configured page size.
func (c *Controller) PageSize() int {
	return c.pageSize
}

func (c *Controller) setStatus(message string) {
	c.mu.Lock()
	c.status = message
	c.mu.Unlock()
}
