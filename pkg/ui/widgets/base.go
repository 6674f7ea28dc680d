// Package widgets provides leaf components for lattice layouts.
package widgets

import (
	"github.com/odvcencio/lattice/pkg/state"
	"github.com/odvcencio/lattice/pkg/ui/backend"
	"github.com/odvcencio/lattice/pkg/ui/runtime"
	"github.com/odvcencio/lattice/pkg/ui/text"
)

// Base records the region a widget was last laid out in.
// Embed this in widget structs to get a default Layout.
type Base struct {
	region runtime.Region
}

// Layout stores the assigned region.
func (b *Base) Layout(region runtime.Region, _ *state.Context) error {
	b.region = region
	return nil
}

// Region returns the widget's assigned region.
func (b *Base) Region() runtime.Region {
	return b.region
}

// Alignment specifies horizontal text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// drawLines writes one line per row, aligned within the view and clipped
// at its edges.
func drawLines(v *runtime.View, lines []string, style backend.Style, align Alignment) {
	size := v.Size()
	for y, line := range lines {
		if y >= size.Height {
			return
		}
		x := 0
		if w := text.Width(line); w < size.Width {
			switch align {
			case AlignCenter:
				x = (size.Width - w) / 2
			case AlignRight:
				x = size.Width - w
			}
		}
		if v.TryMoveCursor(x, y) != nil {
			continue
		}
		v.Write(line, style)
	}
}
