package widgets

import (
	"github.com/odvcencio/lattice/pkg/state"
	"github.com/odvcencio/lattice/pkg/ui/backend"
	"github.com/odvcencio/lattice/pkg/ui/runtime"
)

// Fixed is a box of constant size filled with one glyph.
type Fixed struct {
	Base
	size  runtime.Size
	glyph string
	style backend.Style
}

// NewFixed creates a w x h box filled with glyph.
func NewFixed(w, h int, glyph string, style backend.Style) *Fixed {
	return &Fixed{size: runtime.Size{Width: w, Height: h}, glyph: glyph, style: style}
}

func (f *Fixed) SizeHint(*state.Context) runtime.WidgetSize {
	return runtime.Fixed(f.size)
}

func (f *Fixed) Draw(v *runtime.View, _ *state.Context) {
	v.Fill(f.glyph, f.style)
}

// Spacer takes no space unless the layout stretches it, and draws nothing.
type Spacer struct {
	Base
}

func NewSpacer() *Spacer { return &Spacer{} }

func (*Spacer) SizeHint(*state.Context) runtime.WidgetSize { return runtime.WidgetSize{} }

func (*Spacer) Draw(*runtime.View, *state.Context) {}
