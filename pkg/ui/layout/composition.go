package layout

import (
	"github.com/odvcencio/lattice/pkg/state"
	"github.com/odvcencio/lattice/pkg/ui/cassowary"
	"github.com/odvcencio/lattice/pkg/ui/runtime"
)

type direction int

const (
	horizontal direction = iota
	vertical
)

// composition is the shared engine of Line and Column. The two differ only
// in the adjacency constraints and the axis SizeHint sums along.
type composition struct {
	dir      direction
	children state.State[[]runtime.Component]
	solver   *Solver
	kids     Children
	solved   bool
}

// Line lays its children out left to right in a single row sharing the
// top edge.
type Line struct {
	composition
}

// NewLine creates a horizontal composition of children.
func NewLine(children state.State[[]runtime.Component]) *Line {
	return &Line{composition{dir: horizontal, children: children, solver: NewSolver()}}
}

// Column lays its children out top to bottom in a single column sharing
// the left edge.
type Column struct {
	composition
}

// NewColumn creates a vertical composition of children.
func NewColumn(children state.State[[]runtime.Component]) *Column {
	return &Column{composition{dir: vertical, children: children, solver: NewSolver()}}
}

// SizeHint sums child hints along the main axis and takes the largest on
// the cross axis.
func (c *composition) SizeHint(ctx *state.Context) runtime.WidgetSize {
	var hint runtime.WidgetSize
	for _, child := range c.children.Get(ctx) {
		h := child.SizeHint(ctx)
		if c.dir == horizontal {
			hint.Min.Width += h.Min.Width
			hint.Max.Width += h.Max.Width
			hint.Min.Height = max(hint.Min.Height, h.Min.Height)
			hint.Max.Height = max(hint.Max.Height, h.Max.Height)
		} else {
			hint.Min.Height += h.Min.Height
			hint.Max.Height += h.Max.Height
			hint.Min.Width = max(hint.Min.Width, h.Min.Width)
			hint.Max.Width = max(hint.Max.Width, h.Max.Width)
		}
	}
	return hint
}

// Layout solves child regions inside region and lays the children out.
//
// The first call, a change of the children state, or a change in child
// count rebuilds the constraint system. Otherwise only the container and
// child sizes are re-suggested. On a solver error the staged edits are
// dropped, the previous regions are kept and the next call rebuilds.
func (c *composition) Layout(region runtime.Region, ctx *state.Context) error {
	components := c.children.Get(ctx)
	rebuild := !c.solved || c.children.Changed(ctx) || len(components) != c.kids.Len()

	kids := c.kids
	if rebuild {
		kids = newChildren(components)
	}
	if err := c.solve(kids, rebuild, region.Size(), ctx); err != nil {
		kids.rollback()
		c.solved = false
		return err
	}
	c.kids = kids
	c.solved = true

	for _, kid := range kids.items {
		kid.Commit(region.Min)
	}

	var first error
	for _, kid := range kids.items {
		if err := kid.Component.Layout(kid.Region(), ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (c *composition) solve(kids Children, rebuild bool, size runtime.Size, ctx *state.Context) error {
	if rebuild {
		c.solver.Clear()
		for _, kid := range kids.items {
			kid.size = kid.Component.SizeHint(ctx).Preferred()
			if _, err := c.solver.AddChild(kid.size); err != nil {
				return err
			}
		}
		if err := c.addAdjacency(); err != nil {
			return err
		}
	} else {
		for i, kid := range kids.items {
			preferred := kid.Component.SizeHint(ctx).Preferred()
			if preferred == kid.size {
				continue
			}
			if err := c.solver.SuggestChildSize(i, preferred); err != nil {
				return err
			}
			kid.size = preferred
		}
	}

	if err := c.solver.SuggestSize(size); err != nil {
		return err
	}
	for _, change := range c.solver.Changes() {
		kids.At(change.Index).Pending().Set(change.Edge, change.Value)
	}
	return nil
}

func (c *composition) addAdjacency() error {
	for i := 1; i < c.solver.Len(); i++ {
		prev, next := c.solver.Element(i-1), c.solver.Element(i)
		var flow, align *cassowary.Constraint
		if c.dir == horizontal {
			flow = cassowary.Equal(prev.RightX.Expr().Add(1), next.LeftX.Expr(), cassowary.Required)
			align = cassowary.Equal(prev.LeftY.Expr(), next.LeftY.Expr(), cassowary.Required)
		} else {
			flow = cassowary.Equal(prev.RightY.Expr().Add(1), next.LeftY.Expr(), cassowary.Required)
			align = cassowary.Equal(prev.LeftX.Expr(), next.LeftX.Expr(), cassowary.Required)
		}
		for _, constraint := range []*cassowary.Constraint{flow, align} {
			if err := c.solver.AddConstraint(constraint); err != nil {
				return err
			}
		}
	}
	return nil
}

// Draw draws each child into a view clipped to its region.
func (c *composition) Draw(view *runtime.View, ctx *state.Context) {
	for _, kid := range c.kids.items {
		kid.Component.Draw(view.Sub(kid.Region()), ctx)
	}
}

// Regions returns the committed child regions in child order.
func (c *composition) Regions() []runtime.Region {
	regions := make([]runtime.Region, c.kids.Len())
	for i, kid := range c.kids.items {
		regions[i] = kid.Region()
	}
	return regions
}

// Children returns the laid-out children.
func (c *composition) Children() Children {
	return c.kids
}

// Release drops the composition's reference to its children state.
func (c *composition) Release() {
	c.children.Release()
}

var (
	_ runtime.Component = (*Line)(nil)
	_ runtime.Component = (*Column)(nil)
	_ state.Releaser    = (*Line)(nil)
)
