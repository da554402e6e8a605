// Package review holds the admin-facing in-memory working set of
// confessions. The controller loads one snapshot from the store, answers
// search queries locally, and keeps the snapshot consistent with mutations
// it issues by patching in place after each successful store call, never by
// re-fetching per action.
//
// The snapshot is an explicitly optimistic read-through cache: it can drift
// from the store if another session mutates the same rows (last write wins
// there), and Load is the escape hatch that re-synchronizes it.
//
// Concurrency: the set is mutated only by this controller, only on the
// completion of its own store calls. Calls against the same record may be in
// flight concurrently; each patch writes only the value captured when its
// call was issued, so out-of-order completions never touch the other flag.
package review

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/https-aaryannn/anonbox/internal/domain"
	"github.com/https-aaryannn/anonbox/internal/export"
)

// Store is the moderation store contract the controller depends on.
// *services.ConfessionService satisfies it.
type Store interface {
	// List returns confessions, nominally newest first. The controller
	// treats the ordering as advisory and re-sorts.
	List(ctx context.Context) ([]domain.Confession, error)

	// SetRead updates only the read flag of the target record.
	SetRead(ctx context.Context, id string, value bool) error

	// SetArchived updates only the archived flag.
	SetArchived(ctx context.Context, id string, value bool) error

	// Delete permanently removes the record; repeats are not an error.
	Delete(ctx context.Context, id string) error
}

// Controller owns the working set. Safe for concurrent use.
type Controller struct {
	store Store

	mu      sync.RWMutex
	items   []domain.Confession
	loading bool
}

// NewController returns a controller with an empty working set. Call Load
// before serving queries.
func NewController(store Store) *Controller {
	return &Controller{store: store}
}

// Load fetches a fresh snapshot and replaces the entire working set. The
// loading flag is true for the duration of the call. Store ordering is
// advisory only: the result is always re-sorted by createdAt descending
// before it becomes visible.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	items, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		return err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	c.items = items
	return nil
}

// Loading reports whether a Load call is currently outstanding.
func (c *Controller) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Len returns the size of the current working set.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Filter returns the records whose content contains query as a
// case-insensitive substring (Unicode case folding, content only; tags and
// summaries are not searched). An empty query returns the full set. Order is
// preserved. The result is a copy; mutating it does not touch the set.
func (c *Controller) Filter(query string) []domain.Confession {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if query == "" {
		out := make([]domain.Confession, len(c.items))
		copy(out, c.items)
		return out
	}

	fold := cases.Fold()
	q := fold.String(query)
	out := make([]domain.Confession, 0, len(c.items))
	for _, item := range c.items {
		if strings.Contains(fold.String(item.Content), q) {
			out = append(out, item)
		}
	}
	return out
}

// ApplyReadToggle flips the read flag of the record: it issues the store
// update with the inverse of the current in-memory value and, only when the
// store call succeeds, patches that one flag in the working set. On failure
// the set is left untouched and the error propagates. An id absent from the
// set is a no-op.
func (c *Controller) ApplyReadToggle(ctx context.Context, id string) error {
	cur, ok := c.get(id)
	if !ok {
		return nil
	}
	target := !cur.IsRead

	if err := c.store.SetRead(ctx, id, target); err != nil {
		return err
	}

	c.patch(id, func(item *domain.Confession) { item.IsRead = target })
	return nil
}

// ApplyArchiveToggle flips the archived flag, symmetric to ApplyReadToggle.
func (c *Controller) ApplyArchiveToggle(ctx context.Context, id string) error {
	cur, ok := c.get(id)
	if !ok {
		return nil
	}
	target := !cur.Archived

	if err := c.store.SetArchived(ctx, id, target); err != nil {
		return err
	}

	c.patch(id, func(item *domain.Confession) { item.Archived = target })
	return nil
}

// ApplyDelete issues the store delete and, on success, removes the record
// from the working set. Deletion is terminal; repeating it is not an error.
// On failure the set is left untouched and the error propagates.
func (c *Controller) ApplyDelete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return nil
}

// ExportCSV renders the currently displayed (filtered) records as CSV text.
func (c *Controller) ExportCSV(query string) (string, error) {
	return export.CSV(c.Filter(query))
}

// get returns a copy of the record with the given id.
func (c *Controller) get(id string) (domain.Confession, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.Confession{}, false
}

// patch applies fn to the record with the given id, if it is still present.
// A record deleted while the call was in flight simply misses its patch.
func (c *Controller) patch(id string, fn func(*domain.Confession)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			fn(&c.items[i])
			return
		}
	}
}
