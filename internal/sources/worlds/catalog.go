// Package worlds loads the world/datacenter catalog used to validate and
// autocomplete world names.
package worlds

import (
	"sort"
	"strings"
	"sync"
)

// Catalog is a concurrency-safe, case-insensitive set of worlds.
// An empty catalog accepts any world name.
type Catalog struct {
	mu     sync.RWMutex
	byName map[string]World
	sorted []World
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{byName: map[string]World{}}
}

// Replace swaps the catalog content atomically.
func (c *Catalog) Replace(worlds []World) {
	byName := make(map[string]World, len(worlds))
	sorted := make([]World, 0, len(worlds))
	for _, w := range worlds {
		byName[strings.ToLower(w.Name)] = w
		sorted = append(sorted, w)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	c.mu.Lock()
	c.byName = byName
	c.sorted = sorted
	c.mu.Unlock()
}

// Len returns the number of known worlds.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sorted)
}

// Resolve returns the canonical spelling of name. With an empty catalog the
// trimmed input is returned as-is.
func (c *Catalog) Resolve(name string) (World, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return World{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.byName) == 0 {
		return World{Name: name}, true
	}
	w, ok := c.byName[strings.ToLower(name)]
	return w, ok
}

// Suggest returns up to limit worlds whose name starts with prefix
// (case-insensitive), then those containing it.
func (c *Catalog) Suggest(prefix string, limit int) []World {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	c.mu.RLock()
	defer c.mu.RUnlock()

	var head, tail []World
	for _, w := range c.sorted {
		lower := strings.ToLower(w.Name)
		switch {
		case strings.HasPrefix(lower, prefix):
			head = append(head, w)
		case strings.Contains(lower, prefix):
			tail = append(tail, w)
		}
	}
	out := append(head, tail...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
