package runtime

import (
	lerrors "github.com/odvcencio/lattice/pkg/errors"
	"github.com/odvcencio/lattice/pkg/ui/backend"
	"github.com/odvcencio/lattice/pkg/ui/text"
)

// View is a window onto a Buffer clipped to a region. Coordinates passed to
// a View are relative to its top-left corner, and nothing written through
// a View can land outside its region. The one exception is a wide cluster
// straddling the edge: overwriting its inner half blanks the outer half.
type View struct {
	buf    *Buffer
	region Region
	cursor Point
}

// NewView returns a view of the whole buffer.
func NewView(buf *Buffer) *View {
	return &View{buf: buf, region: buf.Bounds()}
}

// Region returns the view's region in buffer coordinates.
func (v *View) Region() Region {
	return v.region
}

// Size returns the view dimensions.
func (v *View) Size() Size {
	return v.region.Size()
}

// Sub returns a view of r, given in buffer coordinates, clipped to v.
func (v *View) Sub(r Region) *View {
	return &View{buf: v.buf, region: v.region.Intersect(r)}
}

// Cursor returns the cursor position relative to the view.
func (v *View) Cursor() Point {
	return v.cursor
}

func (v *View) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.region.Width() && y < v.region.Height()
}

func (v *View) boundsError(op string, x, y int) error {
	return lerrors.Newf(lerrors.ErrCodeOutOfBounds, "%s outside view", op).
		WithContext("x", x).
		WithContext("y", y).
		WithContext("size", v.region.Size())
}

// TryMoveCursor moves the cursor or returns an OUT_OF_BOUNDS error.
func (v *View) TryMoveCursor(x, y int) error {
	if !v.inside(x, y) {
		return v.boundsError("move cursor", x, y)
	}
	v.cursor = Point{X: x, Y: y}
	return nil
}

// MoveCursor moves the cursor and panics if (x, y) is outside the view.
func (v *View) MoveCursor(x, y int) {
	if err := v.TryMoveCursor(x, y); err != nil {
		panic(err)
	}
}

// TrySet writes one grapheme cluster at (x, y) or returns an OUT_OF_BOUNDS
// error.
func (v *View) TrySet(x, y int, cluster string, style backend.Style) error {
	if !v.inside(x, y) {
		return v.boundsError("set", x, y)
	}
	v.buf.setClipped(v.region.Min.X+x, v.region.Min.Y+y, cluster, text.Width(cluster), style, v.region.Max.X)
	return nil
}

// Set writes one grapheme cluster at (x, y) and panics if it is outside
// the view.
func (v *View) Set(x, y int, cluster string, style backend.Style) {
	if err := v.TrySet(x, y, cluster, style); err != nil {
		panic(err)
	}
}

// Write draws s at the cursor, one grapheme cluster at a time, and
// advances the cursor. Output stops at the right edge of the view. s is a
// single line; newlines and other controls are skipped. Write returns the
// number of cells written.
func (v *View) Write(s string, style backend.Style) int {
	if v.cursor.Y < 0 || v.cursor.Y >= v.region.Height() {
		return 0
	}
	written := 0
	right := v.region.Max.X
	y := v.region.Min.Y + v.cursor.Y
	text.Graphemes(s, func(cluster string, width int) bool {
		if width == 0 && isControl(cluster) {
			return true
		}
		x := v.region.Min.X + v.cursor.X
		if x >= right {
			return false
		}
		n := v.buf.setClipped(x, y, cluster, width, style, right)
		v.cursor.X += n
		written += n
		return true
	})
	return written
}

// Fill paints every cell of the view.
func (v *View) Fill(cluster string, style backend.Style) {
	v.buf.Fill(v.region, cluster, style)
}

func isControl(cluster string) bool {
	for _, r := range cluster {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}
