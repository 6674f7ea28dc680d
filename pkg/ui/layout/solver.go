// Package layout arranges components with a linear constraint solver.
//
// Every child owns an Element: four edge variables (inclusive cell
// coordinates, local to the container) plus two preferred-size edit
// variables. Line and Column add adjacency constraints between siblings,
// solve, and write the changed edges back into each child's region.
package layout

import (
	"errors"
	"fmt"

	lerrors "github.com/odvcencio/lattice/pkg/errors"
	"github.com/odvcencio/lattice/pkg/ui/cassowary"
	"github.com/odvcencio/lattice/pkg/ui/runtime"
)

// Edge names one of an element's four edge variables.
type Edge int

const (
	EdgeLeftX Edge = iota
	EdgeLeftY
	EdgeRightX
	EdgeRightY
	edgeCount
)

func (e Edge) String() string {
	switch e {
	case EdgeLeftX:
		return "left_x"
	case EdgeLeftY:
		return "left_y"
	case EdgeRightX:
		return "right_x"
	case EdgeRightY:
		return "right_y"
	default:
		return "edge?"
	}
}

// Element is the set of solver variables for one child.
type Element struct {
	LeftX, LeftY   *cassowary.Variable
	RightX, RightY *cassowary.Variable
	Width, Height  *cassowary.Variable
}

func (e Element) edge(which Edge) *cassowary.Variable {
	switch which {
	case EdgeLeftX:
		return e.LeftX
	case EdgeLeftY:
		return e.LeftY
	case EdgeRightX:
		return e.RightX
	default:
		return e.RightY
	}
}

// EdgeChange is a solved edge value that differs from the previous fetch.
type EdgeChange struct {
	Index int
	Edge  Edge
	Value float64
}

type owner struct {
	index int
	edge  Edge
}

// Solver wraps a cassowary solver with per-child elements and container
// width and height edit variables.
type Solver struct {
	solver   *cassowary.Solver
	width    *cassowary.Variable
	height   *cassowary.Variable
	elements []Element
	owners   map[*cassowary.Variable]owner
}

// NewSolver creates a solver with no children.
func NewSolver() *Solver {
	s := &Solver{}
	s.Clear()
	return s
}

// Clear resets the constraint system and drops every element.
func (s *Solver) Clear() {
	if s.solver == nil {
		s.solver = cassowary.NewSolver()
	} else {
		s.solver.Reset()
	}
	s.width = cassowary.NewVariable("width")
	s.height = cassowary.NewVariable("height")
	s.elements = nil
	s.owners = make(map[*cassowary.Variable]owner)

	// Fresh solver and fresh variables: these cannot collide.
	_ = s.solver.AddEditVariable(s.width, cassowary.Strong)
	_ = s.solver.AddEditVariable(s.height, cassowary.Strong)
}

// Len returns the number of elements.
func (s *Solver) Len() int {
	return len(s.elements)
}

// Element returns the variables of child i.
func (s *Solver) Element(i int) Element {
	return s.elements[i]
}

// ContainerWidth and ContainerHeight return the container edit variables.
func (s *Solver) ContainerWidth() *cassowary.Variable  { return s.width }
func (s *Solver) ContainerHeight() *cassowary.Variable { return s.height }

// SuggestSize sets the container size.
func (s *Solver) SuggestSize(size runtime.Size) error {
	if err := s.solver.SuggestValue(s.width, float64(size.Width)); err != nil {
		return wrapSolverError(err, "suggest container width")
	}
	if err := s.solver.SuggestValue(s.height, float64(size.Height)); err != nil {
		return wrapSolverError(err, "suggest container height")
	}
	return nil
}

// strengthStep separates the preferred-size strengths of neighbouring
// children.
const strengthStep = 1e-3

// preferredStrength ranks earlier children above later ones so that
// overflow compresses the tail first. It stays above Weak: children from
// index (Medium-Weak-1)/strengthStep, about 999,000, on share the floor
// and lose the ordering between them.
func preferredStrength(index int) cassowary.Strength {
	return max(cassowary.Medium-cassowary.Strength(float64(index)*strengthStep), cassowary.Weak+1)
}

// AddChild adds an element with the default constraints and returns its
// index.
func (s *Solver) AddChild(size runtime.Size) (int, error) {
	index := len(s.elements)
	name := func(field string) string { return fmt.Sprintf("child%d.%s", index, field) }
	e := Element{
		LeftX:  cassowary.NewVariable(name("left_x")),
		LeftY:  cassowary.NewVariable(name("left_y")),
		RightX: cassowary.NewVariable(name("right_x")),
		RightY: cassowary.NewVariable(name("right_y")),
		Width:  cassowary.NewVariable(name("width")),
		Height: cassowary.NewVariable(name("height")),
	}

	one := cassowary.Constant(1)
	zero := cassowary.Constant(0)
	spanX := e.RightX.Expr().Minus(e.LeftX.Expr()).Plus(one)
	spanY := e.RightY.Expr().Minus(e.LeftY.Expr()).Plus(one)
	preferred := preferredStrength(index)

	constraints := []*cassowary.Constraint{
		cassowary.GreaterEqual(spanX, zero, cassowary.Required),
		cassowary.GreaterEqual(spanY, zero, cassowary.Required),
		cassowary.GreaterEqual(e.LeftX.Expr(), zero, cassowary.Required),
		cassowary.GreaterEqual(e.LeftY.Expr(), zero, cassowary.Required),
		cassowary.LessEqual(e.RightX.Expr(), s.width.Expr().Add(-1), cassowary.Required),
		cassowary.LessEqual(e.RightY.Expr(), s.height.Expr().Add(-1), cassowary.Required),
		cassowary.Equal(spanX, e.Width.Expr(), preferred),
		cassowary.Equal(spanY, e.Height.Expr(), preferred),
	}
	if index == 0 {
		constraints = append(constraints,
			cassowary.Equal(e.LeftX.Expr(), zero, cassowary.Required),
			cassowary.Equal(e.LeftY.Expr(), zero, cassowary.Required),
		)
	}

	for _, v := range []*cassowary.Variable{e.Width, e.Height} {
		if err := s.solver.AddEditVariable(v, cassowary.Strong); err != nil {
			return -1, wrapSolverError(err, "add child size variable").WithContext("child", index)
		}
	}
	for _, c := range constraints {
		if err := s.solver.AddConstraint(c); err != nil {
			return -1, wrapSolverError(err, "add child constraint").
				WithContext("child", index).
				WithContext("constraint", c.String())
		}
	}

	s.elements = append(s.elements, e)
	for edge := EdgeLeftX; edge < edgeCount; edge++ {
		s.owners[e.edge(edge)] = owner{index: index, edge: edge}
	}
	if err := s.SuggestChildSize(index, size); err != nil {
		return -1, err
	}
	return index, nil
}

// SuggestChildSize updates the preferred size of child i.
func (s *Solver) SuggestChildSize(i int, size runtime.Size) error {
	e := s.elements[i]
	if err := s.solver.SuggestValue(e.Width, float64(size.Width)); err != nil {
		return wrapSolverError(err, "suggest child width").WithContext("child", i)
	}
	if err := s.solver.SuggestValue(e.Height, float64(size.Height)); err != nil {
		return wrapSolverError(err, "suggest child height").WithContext("child", i)
	}
	return nil
}

// AddConstraint adds a composition-specific constraint.
func (s *Solver) AddConstraint(c *cassowary.Constraint) error {
	if err := s.solver.AddConstraint(c); err != nil {
		return wrapSolverError(err, "add constraint").WithContext("constraint", c.String())
	}
	return nil
}

// Owner returns the child index and edge that v belongs to.
func (s *Solver) Owner(v *cassowary.Variable) (int, Edge, bool) {
	o, ok := s.owners[v]
	return o.index, o.edge, ok
}

// Changes returns the edge variables whose solved value changed since the
// previous call, in child order. Edges start at 0 after Clear.
func (s *Solver) Changes() []EdgeChange {
	var out []EdgeChange
	for _, c := range s.solver.FetchChanges() {
		index, edge, ok := s.Owner(c.Variable)
		if !ok {
			continue
		}
		out = append(out, EdgeChange{Index: index, Edge: edge, Value: c.Value})
	}
	return out
}

func wrapSolverError(err error, op string) *lerrors.Error {
	code := lerrors.ErrCodeLayoutSolverInternal
	switch {
	case errors.Is(err, cassowary.ErrDuplicateConstraint), errors.Is(err, cassowary.ErrDuplicateEditVariable):
		code = lerrors.ErrCodeLayoutDuplicateConstraint
	case errors.Is(err, cassowary.ErrUnsatisfiableConstraint):
		code = lerrors.ErrCodeLayoutUnsatisfiable
	}
	return lerrors.Wrap(err, code, op)
}
