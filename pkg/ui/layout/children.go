package layout

import (
	"math"

	"github.com/odvcencio/lattice/pkg/ui/runtime"
)

// Transaction stages edge writes for one child so that a solve pass is
// applied to the child's region in a single step.
type Transaction struct {
	edges [edgeCount]float64
	set   [edgeCount]bool
}

// Set stages value for edge, replacing any earlier staged value.
func (t *Transaction) Set(edge Edge, value float64) {
	t.edges[edge] = value
	t.set[edge] = true
}

// Child is one laid-out component: its last preferred size, its solved
// container-local edges and its committed region.
type Child struct {
	Component runtime.Component

	size    runtime.Size
	edges   [edgeCount]float64
	region  runtime.Region
	pending *Transaction
}

func newChild(c runtime.Component) *Child {
	return &Child{Component: c}
}

// Region returns the committed region in absolute coordinates.
func (c *Child) Region() runtime.Region {
	return c.region
}

// Size returns the preferred size last given to the solver.
func (c *Child) Size() runtime.Size {
	return c.size
}

// Pending returns the child's transaction, creating it on first use.
func (c *Child) Pending() *Transaction {
	if c.pending == nil {
		c.pending = &Transaction{}
	}
	return c.pending
}

// Rollback drops staged edits.
func (c *Child) Rollback() {
	c.pending = nil
}

// Commit applies staged edits and recomputes the region at origin.
// Edges are rounded to the nearest cell and an inverted span collapses to
// zero area.
func (c *Child) Commit(origin runtime.Point) {
	if t := c.pending; t != nil {
		for edge := EdgeLeftX; edge < edgeCount; edge++ {
			if t.set[edge] {
				c.edges[edge] = t.edges[edge]
			}
		}
		c.pending = nil
	}

	left := runtime.Point{X: round(c.edges[EdgeLeftX]), Y: round(c.edges[EdgeLeftY])}
	right := runtime.Point{X: round(c.edges[EdgeRightX]) + 1, Y: round(c.edges[EdgeRightY]) + 1}
	c.region = runtime.NewRegion(origin.Add(left), origin.Add(right))
}

func round(v float64) int {
	return int(math.Round(v))
}

// Children is the ordered child list of a composition. A child's index is
// its element index in the solver.
type Children struct {
	items []*Child
}

func newChildren(components []runtime.Component) Children {
	items := make([]*Child, len(components))
	for i, c := range components {
		items[i] = newChild(c)
	}
	return Children{items: items}
}

func (cs Children) Len() int {
	return len(cs.items)
}

func (cs Children) At(i int) *Child {
	return cs.items[i]
}

func (cs Children) rollback() {
	for _, c := range cs.items {
		c.Rollback()
	}
}
