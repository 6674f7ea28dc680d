package widgets

import (
	"strings"

	"github.com/odvcencio/lattice/pkg/state"
	"github.com/odvcencio/lattice/pkg/ui/backend"
	"github.com/odvcencio/lattice/pkg/ui/runtime"
	"github.com/odvcencio/lattice/pkg/ui/theme"
)

// GaugeStyle defines the visual appearance of a gauge.
type GaugeStyle struct {
	Fill  string // filled cell glyph (default "█")
	Empty string // unfilled cell glyph (default "░")

	// Thresholds in ascending Ratio order; each starts a new fill style.
	Thresholds []GaugeThreshold
	EmptyStyle backend.Style
}

// GaugeThreshold is a style breakpoint along the bar.
type GaugeThreshold struct {
	Ratio float64
	Style backend.Style
}

// DefaultGaugeStyle returns a green, yellow, red gradient.
func DefaultGaugeStyle() GaugeStyle {
	base := backend.DefaultStyle()
	return GaugeStyle{
		Thresholds: []GaugeThreshold{
			{Ratio: 0, Style: base.Foreground(backend.ColorGreen)},
			{Ratio: 0.6, Style: base.Foreground(backend.ColorYellow)},
			{Ratio: 0.85, Style: base.Foreground(backend.ColorRed)},
		},
		EmptyStyle: base.Dim(true),
	}
}

func (s GaugeStyle) glyphs() (fill, empty string) {
	fill, empty = s.Fill, s.Empty
	if fill == "" {
		fill = theme.Symbols.ProgressFill
	}
	if empty == "" {
		empty = theme.Symbols.ProgressEmpty
	}
	return fill, empty
}

// styleAt returns the style of the highest threshold at or below ratio.
func (s GaugeStyle) styleAt(ratio float64) backend.Style {
	if len(s.Thresholds) == 0 {
		return backend.DefaultStyle()
	}
	style := s.Thresholds[0].Style
	for _, t := range s.Thresholds {
		if ratio >= t.Ratio {
			style = t.Style
		}
	}
	return style
}

// filled returns how many of width cells a ratio fills, rounding to the
// nearest cell.
func filled(width int, ratio float64) int {
	ratio = min(max(ratio, 0), 1)
	return min(int(float64(width)*ratio+0.5), width)
}

// GaugeString renders a gauge of width cells as plain text.
func GaugeString(width int, ratio float64, style GaugeStyle) string {
	if width <= 0 {
		return ""
	}
	fill, empty := style.glyphs()
	n := filled(width, ratio)
	return strings.Repeat(fill, n) + strings.Repeat(empty, width-n)
}

// Gauge is a one-row horizontal bar showing a ratio in [0, 1].
type Gauge struct {
	Base
	ratio state.State[float64]
	width int
	style GaugeStyle
}

// NewGauge creates a gauge that prefers width cells.
func NewGauge(ratio state.State[float64], width int) *Gauge {
	return &Gauge{ratio: ratio, width: width, style: DefaultGaugeStyle()}
}

// WithStyle sets the style and returns the gauge for chaining.
func (g *Gauge) WithStyle(style GaugeStyle) *Gauge {
	g.style = style
	return g
}

func (g *Gauge) SizeHint(*state.Context) runtime.WidgetSize {
	return runtime.Fixed(runtime.Size{Width: g.width, Height: 1})
}

// Draw fills the first row of the view; the bar spans the view width.
func (g *Gauge) Draw(v *runtime.View, ctx *state.Context) {
	width := v.Size().Width
	if width <= 0 || v.Size().Height <= 0 {
		return
	}
	fill, empty := g.style.glyphs()
	n := filled(width, g.ratio.Get(ctx))
	for x := 0; x < width; x++ {
		if x < n {
			v.Set(x, 0, fill, g.style.styleAt(float64(x)/float64(width)))
		} else {
			v.Set(x, 0, empty, g.style.EmptyStyle)
		}
	}
}

// Release drops the gauge's reference to its ratio.
func (g *Gauge) Release() {
	g.ratio.Release()
}
