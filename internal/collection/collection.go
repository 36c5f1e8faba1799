// Package collection owns the ordered set of panels and is the only place
// panels are created or destroyed.
package collection

import (
	"slices"
	"strconv"

	"go.uber.org/zap"

	"mapdeck/internal/panel"
	"mapdeck/internal/trace"
)

// IDPrefix precedes the counter in every panel id.
const IDPrefix = "map-"

// initialCount is how many panels exist at startup and after Reset.
const initialCount = 2

// Factory builds the controller for a freshly allocated id.
type Factory func(id string) *panel.Controller

// Collection is an ordered list of panels plus the id counter. It is not
// safe for concurrent use.
type Collection struct {
	factory Factory
	rec     *trace.Recorder

	ids     []string
	panels  map[string]*panel.Controller
	counter int
}

// New creates a collection holding the initial panels.
func New(factory Factory, rec *trace.Recorder) *Collection {
	c := &Collection{factory: factory, rec: rec}
	c.populate()
	return c
}

// InitialIDs returns the ids a fresh or reset collection starts with.
func InitialIDs() []string {
	ids := make([]string, initialCount)
	for i := range ids {
		ids[i] = IDPrefix + strconv.Itoa(i+1)
	}
	return ids
}

// Add appends a panel with the next id and returns that id.
func (c *Collection) Add() string {
	id := IDPrefix + strconv.Itoa(c.counter)
	c.counter++
	c.insert(id)
	return id
}

// Remove tears down and drops the panel with id. Unknown ids are ignored.
func (c *Collection) Remove(id string) bool {
	idx := slices.Index(c.ids, id)
	if idx < 0 {
		return false
	}
	c.teardown(id)
	c.ids = slices.Delete(c.ids, idx, idx+1)
	return true
}

// RemoveAll tears down every panel.
func (c *Collection) RemoveAll() {
	for _, id := range c.ids {
		c.teardown(id)
	}
	c.ids = nil
}

// Reset tears down every panel, including ones whose ids are about to be
// reused, then rebuilds the initial set and rewinds the counter.
func (c *Collection) Reset() {
	c.RemoveAll()
	c.populate()
	c.rec.Event("", trace.EventReset, "")
}

// IDs returns the panel ids in insertion order.
func (c *Collection) IDs() []string {
	return slices.Clone(c.ids)
}

// Get returns the controller for id.
func (c *Collection) Get(id string) (*panel.Controller, bool) {
	p, ok := c.panels[id]
	return p, ok
}

// Len returns the number of panels.
func (c *Collection) Len() int {
	return len(c.ids)
}

// Next returns the id the next Add will allocate.
func (c *Collection) Next() string {
	return IDPrefix + strconv.Itoa(c.counter)
}

func (c *Collection) populate() {
	c.ids = nil
	c.panels = make(map[string]*panel.Controller)
	for _, id := range InitialIDs() {
		c.insert(id)
	}
	c.counter = initialCount + 1
}

func (c *Collection) insert(id string) {
	c.ids = append(c.ids, id)
	c.panels[id] = c.factory(id)
	c.rec.Event(id, trace.EventPanelAdded, "")
}

func (c *Collection) teardown(id string) {
	p, ok := c.panels[id]
	if !ok {
		return
	}
	delete(c.panels, id)
	if err := p.Destroy(); err != nil {
		c.rec.Logger().Error("panel teardown failed", zap.String("panel", id), zap.Error(err))
	}
	c.rec.Event(id, trace.EventPanelRemoved, "")
}
