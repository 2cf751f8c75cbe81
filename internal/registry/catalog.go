package registry

import (
	"sort"

	"modelhost/pkg/types"
)

// Catalog holds the current snapshot for one models directory and the
// "loaded" bookkeeping flag. It is not safe for concurrent use; the manager
// serializes access under its own lock.
type Catalog struct {
	dir        string
	extensions []string
	snap       Snapshot
	loaded     string
}

// NewCatalog returns an empty catalog for dir. Call Rescan to populate it.
func NewCatalog(dir string, extensions []string) *Catalog {
	return &Catalog{dir: dir, extensions: append([]string(nil), extensions...), snap: Snapshot{}}
}

// Dir returns the configured models directory.
func (c *Catalog) Dir() string { return c.dir }

// Rescan replaces the snapshot. The loaded flag survives when its id still
// exists; otherwise it is dropped. A DiscoveryError leaves an empty snapshot.
func (c *Catalog) Rescan() error {
	snap, err := Scan(c.dir, c.extensions)
	c.snap = snap
	if c.loaded != "" {
		if m, ok := c.snap[c.loaded]; ok {
			m.Loaded = true
			c.snap[c.loaded] = m
		} else {
			c.loaded = ""
		}
	}
	return err
}

// List returns copies of all records sorted by id.
func (c *Catalog) List() []types.Model {
	out := make([]types.Model, 0, len(c.snap))
	for _, m := range c.snap {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a copy of the record for id.
func (c *Catalog) Get(id string) (types.Model, bool) {
	m, ok := c.snap[id]
	return m, ok
}

// Len returns the number of records in the snapshot.
func (c *Catalog) Len() int { return len(c.snap) }

// MarkLoaded flags id as loaded and clears the flag on any previous record.
// It reports false when id is not in the snapshot.
func (c *Catalog) MarkLoaded(id string) bool {
	m, ok := c.snap[id]
	if !ok {
		return false
	}
	c.ClearLoaded()
	m.Loaded = true
	c.snap[id] = m
	c.loaded = id
	return true
}

// ClearLoaded drops the loaded flag.
func (c *Catalog) ClearLoaded() {
	if c.loaded == "" {
		return
	}
	if m, ok := c.snap[c.loaded]; ok {
		m.Loaded = false
		c.snap[c.loaded] = m
	}
	c.loaded = ""
}

// Loaded returns the id marked as loaded, or "".
func (c *Catalog) Loaded() string { return c.loaded }
