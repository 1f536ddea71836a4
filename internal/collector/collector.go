// Package collector accumulates dropped file and folder references.
package collector

import (
	"sync"

	"github.com/harrison/atpath/internal/models"
)

// Collector is an insertion-ordered set of entries keyed by relative path.
// The first entry added for a path wins; later adds of the same path are
// no-ops even when the type differs. Safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	entries []models.PathEntry
	index   map[string]struct{}
}

// New returns an empty collector
func New() *Collector {
	return &Collector{index: make(map[string]struct{})}
}

// Add appends unseen entries and returns the full collected list
func (c *Collector) Add(entries ...models.PathEntry) []models.PathEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index == nil {
		c.index = make(map[string]struct{})
	}
	for _, e := range entries {
		if _, ok := c.index[e.RelativePath]; ok {
			continue
		}
		c.index[e.RelativePath] = struct{}{}
		c.entries = append(c.entries, e)
	}
	return c.snapshot()
}

// Clear drops every collected entry
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.index = make(map[string]struct{})
}

// Paths returns the collected entries in first-seen order
func (c *Collector) Paths() []models.PathEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Len returns the number of collected entries
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Collector) snapshot() []models.PathEntry {
	out := make([]models.PathEntry, len(c.entries))
	copy(out, c.entries)
	return out
}
