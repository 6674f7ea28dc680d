// Package runtime provides the component runtime for lattice.
// Components report a size hint, receive a region from their parent's
// layout pass, and draw into a view clipped to that region. The Driver
// runs the flush, hint, layout and draw passes once per frame.
package runtime

import (
	"fmt"

	"github.com/odvcencio/lattice/pkg/state"
)

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size is a widget's measured dimensions.
type Size struct {
	Width, Height int
}

// Zero returns true if both dimensions are zero.
func (s Size) Zero() bool {
	return s.Width == 0 && s.Height == 0
}

// Region is a rectangle of cells. Min is inclusive and Max is exclusive, so
// a single cell at (x, y) is Region{Min: (x, y), Max: (x+1, y+1)}.
type Region struct {
	Min, Max Point
}

// NewRegion creates a region, clamping an inverted Max to Min.
func NewRegion(min, max Point) Region {
	if max.X < min.X {
		max.X = min.X
	}
	if max.Y < min.Y {
		max.Y = min.Y
	}
	return Region{Min: min, Max: max}
}

// RegionFromSize creates a region at origin with the given size.
func RegionFromSize(origin Point, s Size) Region {
	return NewRegion(origin, Point{X: origin.X + s.Width, Y: origin.Y + s.Height})
}

func (r Region) Width() int {
	return r.Max.X - r.Min.X
}

func (r Region) Height() int {
	return r.Max.Y - r.Min.Y
}

// Size returns the region's dimensions as a Size.
func (r Region) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Empty reports whether the region covers no cells.
func (r Region) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains returns true if the point is inside the region.
func (r Region) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Intersect returns the overlap of two regions. Disjoint regions yield an
// empty region anchored at the clamped corner.
func (r Region) Intersect(other Region) Region {
	return NewRegion(
		Point{X: max(r.Min.X, other.Min.X), Y: max(r.Min.Y, other.Min.Y)},
		Point{X: min(r.Max.X, other.Max.X), Y: min(r.Max.Y, other.Max.Y)},
	)
}

// Translate moves the region by (dx, dy).
func (r Region) Translate(dx, dy int) Region {
	d := Point{X: dx, Y: dy}
	return Region{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// WidgetSize is a component's size hint.
type WidgetSize struct {
	Min, Max Size
}

// Fixed returns a hint whose min and max are both s.
func Fixed(s Size) WidgetSize {
	return WidgetSize{Min: s, Max: s}
}

// Preferred returns the size a layout should aim for: Max, but never
// smaller than Min.
func (w WidgetSize) Preferred() Size {
	return Size{
		Width:  max(w.Min.Width, w.Max.Width),
		Height: max(w.Min.Height, w.Max.Height),
	}
}

// Component is the core interface all UI components implement.
type Component interface {
	// SizeHint returns the component's min and max size.
	// This is the first pass of a frame, run bottom-up.
	SizeHint(ctx *state.Context) WidgetSize

	// Layout assigns the component's region. Calling Layout twice with the
	// same region and unchanged state must produce the same child regions.
	Layout(region Region, ctx *state.Context) error

	// Draw renders into a view clipped to the component's region.
	Draw(view *View, ctx *state.Context)
}
