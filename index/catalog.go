package index

import (
	"sync/atomic"
	"time"

	"github.com/vipresearch/bibchat/core"
)

// Catalog is the full collection of indexed entries produced by a single
// build pass. It is immutable: concurrent readers need no locking, and a
// rebuild produces a fresh Catalog rather than mutating this one.
type Catalog struct {
	entries []core.Entry
	builtAt time.Time
}

// NewCatalog creates a catalog over a copy of entries.
func NewCatalog(entries []core.Entry) *Catalog {
	copied := make([]core.Entry, len(entries))
	copy(copied, entries)
	return &Catalog{entries: copied, builtAt: time.Now().UTC()}
}

// Len returns the number of indexed entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// At returns the entry at position i in catalog order.
func (c *Catalog) At(i int) core.Entry {
	return c.entries[i]
}

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []core.Entry {
	if c == nil {
		return nil
	}
	out := make([]core.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// BuiltAt reports when the build pass produced this catalog.
func (c *Catalog) BuiltAt() time.Time {
	return c.builtAt
}

// Holder publishes catalog generations atomically. Readers always observe
// either the previous generation or the new one in full, never a catalog
// mid-build.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder creates a holder starting with an empty catalog.
func NewHolder() *Holder {
	h := &Holder{}
	h.current.Store(NewCatalog(nil))
	return h
}

// Current returns the latest published catalog.
func (h *Holder) Current() *Catalog {
	return h.current.Load()
}

// Publish replaces the current catalog with a new generation.
func (h *Holder) Publish(c *Catalog) {
	if c == nil {
		c = NewCatalog(nil)
	}
	h.current.Store(c)
}
