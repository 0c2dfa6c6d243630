// Package tentative keeps edits a caller has shown to the user but the
// coordinator has not confirmed yet, and projects them over committed notes.
package tentative

import (
	"slices"
	"sync"
	"time"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/storage"
)

type change struct {
	togglePin bool
	pinnedAt  time.Time
	title     *string
	content   *string
}

// Overlay holds pending changes keyed by note id. The zero value is not
// usable; call New.
type Overlay struct {
	mu      sync.Mutex
	pending map[string]change
	now     func() time.Time
}

// New returns an empty overlay. A nil clock means time.Now.
func New(now func() time.Time) *Overlay {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Overlay{pending: make(map[string]change), now: now}
}

// TogglePin records a pending pin toggle. Two toggles cancel out.
func (o *Overlay) TogglePin(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	c := o.pending[id]
	c.togglePin = !c.togglePin
	c.pinnedAt = o.now()
	o.set(id, c)
}

// Edit records a pending title and/or content change. Nil fields keep any
// earlier pending value.
func (o *Overlay) Edit(id string, title, content *string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	c := o.pending[id]
	if title != nil {
		v := *title
		c.title = &v
	}
	if content != nil {
		v := *content
		c.content = &v
	}
	o.set(id, c)
}

func (o *Overlay) set(id string, c change) {
	if !c.togglePin && c.title == nil && c.content == nil {
		delete(o.pending, id)
		return
	}
	o.pending[id] = c
}

// Commit drops the pending change for id once the coordinator accepted it.
func (o *Overlay) Commit(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.pending, id)
}

// Discard drops the pending change for id after the coordinator rejected
// it. It reports whether anything was pending.
func (o *Overlay) Discard(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.pending[id]
	delete(o.pending, id)
	return ok
}

// Pending returns the number of notes with unconfirmed changes.
func (o *Overlay) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Merge returns committed with pending changes applied, in display order.
// committed is left untouched. Pending changes for notes not in committed
// are ignored.
func (o *Overlay) Merge(committed []model.Note) []model.Note {
	out := slices.Clone(committed)
	if out == nil {
		out = []model.Note{}
	}

	o.mu.Lock()
	for i := range out {
		c, ok := o.pending[out[i].ID]
		if !ok {
			continue
		}
		n := &out[i]
		if c.title != nil {
			n.Title = *c.title
		}
		if c.content != nil {
			n.Content = *c.content
		}
		if c.togglePin {
			n.IsPinned = !n.IsPinned
			if n.IsPinned {
				at := c.pinnedAt
				n.PinnedAt = &at
			} else {
				n.PinnedAt = nil
			}
		}
	}
	o.mu.Unlock()

	storage.SortForDisplay(out)
	return out
}
