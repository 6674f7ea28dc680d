package runtime

import (
	"testing"

	lerrors "github.com/odvcencio/lattice/pkg/errors"
	"github.com/odvcencio/lattice/pkg/ui/backend"
)

func TestNewRegion_ClampsInverted(t *testing.T) {
	r := NewRegion(Point{5, 4}, Point{3, 2})
	if r.Width() != 0 || r.Height() != 0 || !r.Empty() {
		t.Errorf("NewRegion inverted = %s, want empty", r)
	}
	if r.Min != (Point{5, 4}) {
		t.Errorf("Min = %+v, want (5,4)", r.Min)
	}
}

func TestRegion_Geometry(t *testing.T) {
	r := RegionFromSize(Point{2, 1}, Size{Width: 3, Height: 2})

	if r.String() != "(2,1)-(5,3)" {
		t.Errorf("String() = %s", r)
	}
	if r.Size() != (Size{Width: 3, Height: 2}) {
		t.Errorf("Size() = %+v", r.Size())
	}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{2, 1}, true},
		{Point{4, 2}, true},
		{Point{5, 1}, false},
		{Point{2, 3}, false},
		{Point{1, 1}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRegion_IntersectAndTranslate(t *testing.T) {
	a := NewRegion(Point{0, 0}, Point{4, 4})
	b := NewRegion(Point{2, 3}, Point{6, 8})

	if got, want := a.Intersect(b), NewRegion(Point{2, 3}, Point{4, 4}); got != want {
		t.Errorf("Intersect = %s, want %s", got, want)
	}
	far := NewRegion(Point{10, 10}, Point{12, 12})
	if !a.Intersect(far).Empty() {
		t.Errorf("disjoint Intersect = %s, want empty", a.Intersect(far))
	}
	if got := a.Translate(1, -1); got != NewRegion(Point{1, -1}, Point{5, 3}) {
		t.Errorf("Translate = %s", got)
	}
}

func TestWidgetSize_Preferred(t *testing.T) {
	ws := WidgetSize{Min: Size{Width: 4, Height: 1}, Max: Size{Width: 2, Height: 3}}
	if got := ws.Preferred(); got != (Size{Width: 4, Height: 3}) {
		t.Errorf("Preferred() = %+v", got)
	}
	if Fixed(Size{Width: 2, Height: 2}).Preferred() != (Size{Width: 2, Height: 2}) {
		t.Error("Fixed preferred mismatch")
	}
}

func TestView_SubClipsToParent(t *testing.T) {
	buf := NewBuffer(10, 5)
	outer := NewView(buf).Sub(NewRegion(Point{2, 1}, Point{6, 4}))
	inner := outer.Sub(NewRegion(Point{4, 0}, Point{20, 20}))

	if got, want := inner.Region(), NewRegion(Point{4, 1}, Point{6, 4}); got != want {
		t.Errorf("inner region = %s, want %s", got, want)
	}
	inner.Fill("#", backend.DefaultStyle())
	if got := rowText(buf, 1); got != "    ##    " {
		t.Errorf("row 1 = %q", got)
	}
	if got := rowText(buf, 0); got != "          " {
		t.Errorf("row 0 = %q", got)
	}
}

func TestView_WriteClipsAtRightEdge(t *testing.T) {
	buf := NewBuffer(8, 1)
	v := NewView(buf).Sub(NewRegion(Point{1, 0}, Point{5, 1}))

	if n := v.Write("abcdef", backend.DefaultStyle()); n != 4 {
		t.Errorf("Write() = %d, want 4", n)
	}
	if got := rowText(buf, 0); got != " abcd   " {
		t.Errorf("row = %q", got)
	}
	if v.Cursor() != (Point{4, 0}) {
		t.Errorf("Cursor() = %+v", v.Cursor())
	}
}

func TestView_WriteWideAtEdge(t *testing.T) {
	buf := NewBuffer(6, 1)
	v := NewView(buf).Sub(NewRegion(Point{0, 0}, Point{3, 1}))

	v.Write("a日本", backend.DefaultStyle())
	if got := rowText(buf, 0); got != "a日   " {
		t.Errorf("row = %q, want %q", got, "a日   ")
	}
	if buf.Get(3, 0).Text != " " {
		t.Error("wide cluster escaped the view")
	}
}

func TestView_WriteSkipsControls(t *testing.T) {
	buf := NewBuffer(5, 1)
	NewView(buf).Write("a\nb\tc", backend.DefaultStyle())
	if got := rowText(buf, 0); got != "abc  " {
		t.Errorf("row = %q", got)
	}
}

func TestView_TryMoveCursor(t *testing.T) {
	v := NewView(NewBuffer(4, 2))

	if err := v.TryMoveCursor(3, 1); err != nil {
		t.Fatalf("TryMoveCursor inside: %v", err)
	}
	err := v.TryMoveCursor(4, 0)
	if !lerrors.IsCode(err, lerrors.ErrCodeOutOfBounds) {
		t.Fatalf("TryMoveCursor outside = %v, want OUT_OF_BOUNDS", err)
	}
	if v.Cursor() != (Point{3, 1}) {
		t.Errorf("failed move changed cursor to %+v", v.Cursor())
	}
}

func TestView_SetPanicsOutside(t *testing.T) {
	v := NewView(NewBuffer(2, 2)).Sub(NewRegion(Point{1, 1}, Point{2, 2}))

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !lerrors.IsCode(err, lerrors.ErrCodeOutOfBounds) {
			t.Errorf("recovered %v, want OUT_OF_BOUNDS error", r)
		}
	}()
	v.Set(1, 0, "x", backend.DefaultStyle())
}

func TestView_TrySetRelative(t *testing.T) {
	buf := NewBuffer(4, 4)
	v := NewView(buf).Sub(NewRegion(Point{2, 2}, Point{4, 4}))

	if err := v.TrySet(1, 1, "q", backend.DefaultStyle()); err != nil {
		t.Fatalf("TrySet: %v", err)
	}
	if buf.Get(3, 3).Text != "q" {
		t.Error("TrySet did not translate to buffer coordinates")
	}
	if err := v.TrySet(-1, 0, "q", backend.DefaultStyle()); err == nil {
		t.Error("TrySet(-1, 0) succeeded")
	}
}
