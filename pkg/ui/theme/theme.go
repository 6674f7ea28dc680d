// Package theme provides the shared styles and glyphs of lattice widgets.
package theme

import "github.com/odvcencio/lattice/pkg/ui/backend"

// Theme defines the visual roles components draw with.
type Theme struct {
	// Text hierarchy
	TextPrimary backend.Style
	TextMuted   backend.Style
	Title       backend.Style

	Accent backend.Style
	Border backend.Style

	// Semantic colors
	Success backend.Style
	Warning backend.Style
	Error   backend.Style
}

// DefaultTheme returns warm text on the terminal's own background.
func DefaultTheme() *Theme {
	base := backend.DefaultStyle()
	return &Theme{
		TextPrimary: base.Foreground(backend.ColorRGB(240, 238, 232)),
		TextMuted:   base.Foreground(backend.ColorRGB(100, 98, 92)),
		Title:       base.Foreground(backend.ColorRGB(255, 183, 77)).Bold(true),

		Accent: base.Foreground(backend.ColorRGB(255, 183, 77)),
		Border: base.Foreground(backend.ColorRGB(50, 50, 60)),

		Success: base.Foreground(backend.ColorRGB(134, 239, 172)),
		Warning: base.Foreground(backend.ColorRGB(255, 138, 101)),
		Error:   base.Foreground(backend.ColorRGB(255, 110, 90)),
	}
}

// Symbols provides consistent iconography.
var Symbols = struct {
	Bullet string
	Arrow  string
	Check  string
	Cross  string

	BorderHorizontal string
	BorderVertical   string

	ProgressFill  string
	ProgressEmpty string
}{
	Bullet: "●",
	Arrow:  "›",
	Check:  "✓",
	Cross:  "✗",

	BorderHorizontal: "─",
	BorderVertical:   "│",

	ProgressFill:  "█",
	ProgressEmpty: "░",
}
