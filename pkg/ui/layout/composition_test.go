package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/odvcencio/lattice/pkg/errors"
	"github.com/odvcencio/lattice/pkg/state"
	"github.com/odvcencio/lattice/pkg/ui/backend"
	"github.com/odvcencio/lattice/pkg/ui/cassowary"
	"github.com/odvcencio/lattice/pkg/ui/runtime"
)

// box is a fixed-size component that fills its region with a glyph and
// records the regions it was laid out in.
type box struct {
	size    runtime.Size
	glyph   string
	regions []runtime.Region
	err     error
}

func newBox(w, h int) *box {
	return &box{size: runtime.Size{Width: w, Height: h}, glyph: "#"}
}

func (b *box) SizeHint(*state.Context) runtime.WidgetSize { return runtime.Fixed(b.size) }

func (b *box) Layout(r runtime.Region, _ *state.Context) error {
	b.regions = append(b.regions, r)
	return b.err
}

func (b *box) Draw(v *runtime.View, _ *state.Context) { v.Fill(b.glyph, backend.DefaultStyle()) }

func components(cs ...runtime.Component) state.State[[]runtime.Component] {
	return state.Value(cs)
}

func emptyContext() *state.Context {
	return state.NewContext(state.NewController(), state.NewWatcher(), 80, 24)
}

func region(x0, y0, x1, y1 int) runtime.Region {
	return runtime.NewRegion(runtime.Point{X: x0, Y: y0}, runtime.Point{X: x1, Y: y1})
}

func TestLine_PreferredSizes(t *testing.T) {
	line := NewLine(components(newBox(1, 1), newBox(1, 1), newBox(3, 1)))

	require.NoError(t, line.Layout(region(0, 0, 5, 5), emptyContext()))
	assert.Equal(t, []runtime.Region{
		region(0, 0, 1, 1),
		region(1, 0, 2, 1),
		region(2, 0, 5, 1),
	}, line.Regions())
}

func TestColumn_PreferredSizes(t *testing.T) {
	col := NewColumn(components(newBox(1, 1), newBox(1, 1), newBox(1, 3)))

	require.NoError(t, col.Layout(region(0, 0, 5, 5), emptyContext()))
	assert.Equal(t, []runtime.Region{
		region(0, 0, 1, 1),
		region(0, 1, 1, 2),
		region(0, 2, 1, 5),
	}, col.Regions())
}

func TestLine_OverflowCompressesTail(t *testing.T) {
	line := NewLine(components(newBox(3, 1), newBox(3, 1), newBox(3, 1)))

	require.NoError(t, line.Layout(region(0, 0, 5, 5), emptyContext()))
	regions := line.Regions()
	assert.Equal(t, region(0, 0, 3, 1), regions[0])
	assert.Equal(t, region(3, 0, 5, 1), regions[1])
	assert.Equal(t, 0, regions[2].Width())
	for _, r := range regions {
		assert.LessOrEqual(t, r.Max.X, 5, "region %s escapes container", r)
	}
}

func TestLine_ContiguousAndAligned(t *testing.T) {
	line := NewLine(components(newBox(2, 1), newBox(4, 2), newBox(1, 3)))
	require.NoError(t, line.Layout(region(0, 0, 20, 10), emptyContext()))

	regions := line.Regions()
	for i := 1; i < len(regions); i++ {
		assert.Equal(t, regions[i-1].Max.X, regions[i].Min.X)
		assert.Equal(t, regions[0].Min.Y, regions[i].Min.Y)
	}
	assert.Equal(t, 4, regions[1].Width())
	assert.Equal(t, 3, regions[2].Height())
}

func TestLayout_Idempotent(t *testing.T) {
	line := NewLine(components(newBox(2, 1), newBox(3, 2)))
	ctx := emptyContext()

	require.NoError(t, line.Layout(region(0, 0, 10, 4), ctx))
	first := line.Regions()
	require.NoError(t, line.Layout(region(0, 0, 10, 4), ctx))

	assert.Equal(t, first, line.Regions())
	assert.Empty(t, line.solver.Changes())
}

func TestLayout_MovedContainerTranslatesChildren(t *testing.T) {
	line := NewLine(components(newBox(2, 1), newBox(3, 1)))
	ctx := emptyContext()

	require.NoError(t, line.Layout(region(0, 0, 10, 4), ctx))
	before := line.Regions()
	require.NoError(t, line.Layout(region(7, 2, 17, 6), ctx))

	for i, r := range line.Regions() {
		assert.Equal(t, before[i].Translate(7, 2), r)
	}
}

func TestLayout_ResizeOnlyChangesAffectedEdges(t *testing.T) {
	line := NewLine(components(newBox(2, 1), newBox(30, 1)))
	ctx := emptyContext()

	require.NoError(t, line.Layout(region(0, 0, 40, 2), ctx))
	assert.Equal(t, region(2, 0, 32, 1), line.Regions()[1])

	require.NoError(t, line.Layout(region(0, 0, 10, 2), ctx))
	assert.Equal(t, region(0, 0, 2, 1), line.Regions()[0])
	assert.Equal(t, region(2, 0, 10, 1), line.Regions()[1])
}

func TestLayout_ChildHintChange(t *testing.T) {
	grow := newBox(2, 1)
	line := NewLine(components(grow, newBox(1, 1)))
	ctx := emptyContext()

	require.NoError(t, line.Layout(region(0, 0, 10, 1), ctx))
	grow.size.Width = 5
	require.NoError(t, line.Layout(region(0, 0, 10, 1), ctx))

	assert.Equal(t, []runtime.Region{region(0, 0, 5, 1), region(5, 0, 6, 1)}, line.Regions())
}

func TestLayout_RebuildsWhenChildrenChange(t *testing.T) {
	q := state.NewQueue()
	c := state.NewController()
	w := state.NewWatcher()
	frame := func() *state.Context {
		w.RemoveAll()
		q.Flush(c, w)
		return state.NewContext(c, w, 10, 1)
	}

	kids := state.New[[]runtime.Component](q, []runtime.Component{newBox(1, 1), newBox(1, 1)})
	line := NewLine(kids.State())
	require.NoError(t, line.Layout(region(0, 0, 10, 1), frame()))
	assert.Len(t, line.Regions(), 2)

	kids.Set([]runtime.Component{newBox(4, 1), newBox(1, 1), newBox(2, 1)})
	require.NoError(t, line.Layout(region(0, 0, 10, 1), frame()))
	assert.Equal(t, []runtime.Region{
		region(0, 0, 4, 1),
		region(4, 0, 5, 1),
		region(5, 0, 7, 1),
	}, line.Regions())
	assert.Equal(t, 3, line.solver.Len())
}

func TestLayout_EmptyComposition(t *testing.T) {
	line := NewLine(components())
	require.NoError(t, line.Layout(region(0, 0, 5, 5), emptyContext()))
	assert.Empty(t, line.Regions())
	assert.Equal(t, runtime.WidgetSize{}, line.SizeHint(emptyContext()))
}

func TestLayout_NestedCompositions(t *testing.T) {
	inner := NewLine(components(newBox(1, 1), newBox(2, 1)))
	tail := newBox(3, 2)
	col := NewColumn(components(inner, tail))

	require.NoError(t, col.Layout(region(0, 0, 10, 10), emptyContext()))
	assert.Equal(t, []runtime.Region{region(0, 0, 3, 1), region(0, 1, 3, 3)}, col.Regions())
	assert.Equal(t, []runtime.Region{region(0, 0, 1, 1), region(1, 0, 3, 1)}, inner.Regions())
	assert.Equal(t, []runtime.Region{region(0, 1, 3, 3)}, tail.regions)
}

func TestLayout_ChildErrorPropagates(t *testing.T) {
	failing := newBox(1, 1)
	failing.err = errors.New("child failed")
	ok := newBox(1, 1)
	line := NewLine(components(failing, ok))

	err := line.Layout(region(0, 0, 5, 1), emptyContext())
	require.Error(t, err)
	assert.Equal(t, "child failed", err.Error())
	assert.Len(t, ok.regions, 1, "siblings are still laid out")
}

func TestSizeHint_SumsMainAxis(t *testing.T) {
	line := NewLine(components(newBox(2, 1), newBox(3, 4)))
	col := NewColumn(components(newBox(2, 1), newBox(3, 4)))
	ctx := emptyContext()

	assert.Equal(t, runtime.Fixed(runtime.Size{Width: 5, Height: 4}), line.SizeHint(ctx))
	assert.Equal(t, runtime.Fixed(runtime.Size{Width: 3, Height: 5}), col.SizeHint(ctx))
}

func TestDraw_ClipsChildrenToRegions(t *testing.T) {
	a, b := newBox(2, 1), newBox(2, 1)
	b.glyph = "x"
	line := NewLine(components(a, b))
	ctx := emptyContext()
	require.NoError(t, line.Layout(region(0, 0, 5, 2), ctx))

	buf := runtime.NewBuffer(5, 2)
	line.Draw(runtime.NewView(buf), ctx)

	var row string
	for x := 0; x < 5; x++ {
		row += buf.Get(x, 0).Text
	}
	assert.Equal(t, "##xx ", row)
	assert.Equal(t, " ", buf.Get(0, 1).Text)
}

func TestSolver_DuplicateConstraint(t *testing.T) {
	s := NewSolver()
	_, err := s.AddChild(runtime.Size{Width: 1, Height: 1})
	require.NoError(t, err)

	e := s.Element(0)
	c := cassowary.Equal(e.Width.Expr(), cassowary.Constant(1), cassowary.Weak)
	require.NoError(t, s.AddConstraint(c))
	err = s.AddConstraint(c)
	assert.True(t, lerrors.IsCode(err, lerrors.ErrCodeLayoutDuplicateConstraint))
}

func TestSolver_UnsatisfiableConstraint(t *testing.T) {
	s := NewSolver()
	_, err := s.AddChild(runtime.Size{Width: 1, Height: 1})
	require.NoError(t, err)

	e := s.Element(0)
	err = s.AddConstraint(cassowary.Equal(e.LeftX.Expr(), cassowary.Constant(3), cassowary.Required))
	assert.True(t, lerrors.IsCode(err, lerrors.ErrCodeLayoutUnsatisfiable))
}

func TestSolver_ChangesReportOwners(t *testing.T) {
	s := NewSolver()
	_, err := s.AddChild(runtime.Size{Width: 3, Height: 2})
	require.NoError(t, err)
	require.NoError(t, s.SuggestSize(runtime.Size{Width: 10, Height: 10}))

	got := map[Edge]float64{}
	for _, c := range s.Changes() {
		assert.Equal(t, 0, c.Index)
		got[c.Edge] = c.Value
	}
	assert.Equal(t, map[Edge]float64{EdgeRightX: 2, EdgeRightY: 1}, got)
	assert.Empty(t, s.Changes())
}

func TestPreferredStrength_StaysAboveWeak(t *testing.T) {
	assert.Equal(t, cassowary.Medium, preferredStrength(0))
	assert.Greater(t, preferredStrength(0), preferredStrength(1))
	assert.Equal(t, cassowary.Weak+1, preferredStrength(1<<20))
}

func TestPreferredStrength_OrdersLargeLists(t *testing.T) {
	for _, i := range []int{997, 998, 999, 5000, 100000} {
		assert.Greater(t, preferredStrength(i), preferredStrength(i+1), "index %d", i)
	}
}
