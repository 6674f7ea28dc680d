package widgets

import (
	"github.com/odvcencio/lattice/pkg/state"
	"github.com/odvcencio/lattice/pkg/ui/backend"
	"github.com/odvcencio/lattice/pkg/ui/runtime"
	"github.com/odvcencio/lattice/pkg/ui/text"
)

// Text displays a possibly multi-line string held in a state handle.
type Text struct {
	Base
	content   state.State[string]
	style     backend.Style
	alignment Alignment
}

// NewText creates a text widget showing content.
func NewText(content state.State[string]) *Text {
	return &Text{content: content, style: backend.DefaultStyle()}
}

// NewLabel creates a text widget with constant content.
func NewLabel(s string) *Text {
	return NewText(state.Value(s))
}

// WithStyle sets the style and returns the widget for chaining.
func (t *Text) WithStyle(style backend.Style) *Text {
	t.style = style
	return t
}

// WithAlignment sets alignment and returns the widget for chaining.
func (t *Text) WithAlignment(align Alignment) *Text {
	t.alignment = align
	return t
}

// Content returns the content handle.
func (t *Text) Content() state.State[string] {
	return t.content
}

// SizeHint asks for exactly the measured text size.
func (t *Text) SizeHint(ctx *state.Context) runtime.WidgetSize {
	w, h := text.Measure(t.content.Get(ctx))
	return runtime.Fixed(runtime.Size{Width: w, Height: h})
}

// Draw writes the text lines, clipped to the view.
func (t *Text) Draw(v *runtime.View, ctx *state.Context) {
	drawLines(v, text.Lines(t.content.Get(ctx)), t.style, t.alignment)
}

// Release drops the widget's reference to its content.
func (t *Text) Release() {
	t.content.Release()
}
