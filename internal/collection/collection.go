// Package collection keeps a client-side, paginated copy of a remote resource.
// Mutations are applied locally only after the remote call confirms them.
package collection

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// DefaultPageSize is used when Options.PageSize is not positive.
const DefaultPageSize = 10

// Remote is the CRUD resource behind a collection. P is the partial-update payload.
type Remote[T any, P any] interface {
	GetAll(ctx context.Context) ([]T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id int64, patch P) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Messages are the user-visible outcome strings of each operation.
type Messages struct {
	LoadFailed   string
	Created      string
	CreateFailed string
	Updated      string
	UpdateFailed string
	Deleted      string
	DeleteFailed string
}

// Options configure a Paginated collection. Key is required.
type Options[T any] struct {
	Key      func(T) int64
	Filter   func(T) bool // nil keeps everything
	Map      func(T) T    // applied to fetched, created and updated items
	PageSize int
	Messages Messages
	Logger   *zap.Logger
}

// Paginated is a paginated remote collection. It is safe for concurrent use.
type Paginated[T any, P any] struct {
	mu     sync.Mutex
	remote Remote[T, P]
	opts   Options[T]
	log    *zap.Logger

	items      []T
	page       int
	pageSize   int
	totalPages int
	message    string
}

// New returns an empty collection on page 1.
func New[T any, P any](remote Remote[T, P], opts Options[T]) *Paginated[T, P] {
	if opts.Key == nil {
		panic("collection: Options.Key is required")
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Paginated[T, P]{
		remote:   remote,
		opts:     opts,
		log:      log,
		page:     1,
		pageSize: opts.PageSize,
	}
}

// Load fetches everything and keeps what passes the configured filter.
func (c *Paginated[T, P]) Load(ctx context.Context) error {
	return c.LoadFiltered(ctx, c.opts.Filter)
}

// LoadFiltered fetches everything and keeps the items accepted by keep (all
// items when keep is nil), in their original order. On failure the previous
// items stay and the load error message is set.
func (c *Paginated[T, P]) LoadFiltered(ctx context.Context, keep func(T) bool) error {
	all, err := c.remote.GetAll(ctx)
	if err != nil {
		c.log.Warn("load failed", zap.Error(err))
		c.SetMessage(c.opts.Messages.LoadFailed)
		return err
	}
	items := make([]T, 0, len(all))
	for _, v := range all {
		if keep != nil && !keep(v) {
			continue
		}
		items = append(items, c.mapped(v))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.repaginate()
	c.log.Debug("loaded", zap.Int("count", len(items)), zap.Int("total_pages", c.totalPages))
	return nil
}

// Paginate moves to page with the given page size. The page is clamped into
// [1, max(TotalPages, 1)]; a page size <= 0 keeps the current one.
func (c *Paginated[T, P]) Paginate(page, pageSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pageSize > 0 {
		c.pageSize = pageSize
	}
	c.page = page
	c.repaginate()
}

// Next moves one page forward. It reports false on the last page.
func (c *Paginated[T, P]) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page >= c.totalPages {
		return false
	}
	c.page++
	return true
}

// Prev moves one page back. It reports false on the first page.
func (c *Paginated[T, P]) Prev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page <= 1 {
		return false
	}
	c.page--
	return true
}

// Create sends v and appends the stored result.
func (c *Paginated[T, P]) Create(ctx context.Context, v T) (T, error) {
	created, err := c.remote.Create(ctx, v)
	if err != nil {
		c.log.Warn("create failed", zap.Error(err))
		c.SetMessage(c.opts.Messages.CreateFailed)
		return created, err
	}
	created = c.mapped(created)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, created)
	c.repaginate()
	c.message = c.opts.Messages.Created
	return created, nil
}

// Update sends patch and replaces the item with the same key by the result.
// An item missing locally is appended so the local copy matches the server.
func (c *Paginated[T, P]) Update(ctx context.Context, id int64, patch P) (T, error) {
	updated, err := c.remote.Update(ctx, id, patch)
	if err != nil {
		c.log.Warn("update failed", zap.Int64("id", id), zap.Error(err))
		c.SetMessage(c.opts.Messages.UpdateFailed)
		return updated, err
	}
	updated = c.mapped(updated)

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = updated
	} else {
		c.items = append(c.items, updated)
	}
	c.repaginate()
	c.message = c.opts.Messages.Updated
	return updated, nil
}

// Delete removes id remotely, then locally.
func (c *Paginated[T, P]) Delete(ctx context.Context, id int64) error {
	if err := c.remote.Delete(ctx, id); err != nil {
		c.log.Warn("delete failed", zap.Int64("id", id), zap.Error(err))
		c.SetMessage(c.opts.Messages.DeleteFailed)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, v := range c.items {
		if c.opts.Key(v) != id {
			kept = append(kept, v)
		}
	}
	c.items = kept
	c.repaginate()
	c.message = c.opts.Messages.Deleted
	return nil
}

// Patch sends patch without touching the local copy. Callers re-fetch afterwards.
func (c *Paginated[T, P]) Patch(ctx context.Context, id int64, patch P) (T, error) {
	return c.remote.Update(ctx, id, patch)
}

// Items returns a copy of every item held.
func (c *Paginated[T, P]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Visible returns the items of the current page.
func (c *Paginated[T, P]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := (c.page - 1) * c.pageSize
	if start >= len(c.items) {
		return []T{}
	}
	end := start + c.pageSize
	if end > len(c.items) {
		end = len(c.items)
	}
	out := make([]T, end-start)
	copy(out, c.items[start:end])
	return out
}

// Find returns the held item with key id.
func (c *Paginated[T, P]) Find(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Len is the number of items held.
func (c *Paginated[T, P]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Page is the current 1-based page.
func (c *Paginated[T, P]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// PageSize is the number of items per page.
func (c *Paginated[T, P]) PageSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSize
}

// TotalPages is the page count for the items held.
func (c *Paginated[T, P]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages
}

// Message is the last user-visible message.
func (c *Paginated[T, P]) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// SetMessage replaces the user-visible message.
func (c *Paginated[T, P]) SetMessage(msg string) {
	c.mu.Lock()
	c.message = msg
	c.mu.Unlock()
}

// ClearMessage empties the user-visible message.
func (c *Paginated[T, P]) ClearMessage() { c.SetMessage("") }

func (c *Paginated[T, P]) mapped(v T) T {
	if c.opts.Map == nil {
		return v
	}
	return c.opts.Map(v)
}

func (c *Paginated[T, P]) indexOf(id int64) int {
	for i, v := range c.items {
		if c.opts.Key(v) == id {
			return i
		}
	}
	return -1
}

// repaginate recomputes the page count and clamps the current page. Callers hold mu.
func (c *Paginated[T, P]) repaginate() {
	c.totalPages = TotalPages(len(c.items), c.pageSize)
	last := c.totalPages
	if last < 1 {
		last = 1
	}
	switch {
	case c.page < 1:
		c.page = 1
	case c.page > last:
		c.page = last
	}
}

// TotalPages is ceil(n / pageSize).
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}
