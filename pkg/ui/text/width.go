// Package text measures strings in terminal cells.
package text

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Width returns the display width of s in cells, summing grapheme
// cluster widths. Newlines count as zero.
func Width(s string) int {
	return uniseg.StringWidth(strings.ReplaceAll(s, "\n", ""))
}

// Lines splits s on newlines. The empty string is one empty line.
func Lines(s string) []string {
	return strings.Split(s, "\n")
}

// Measure returns the widest line and the number of lines of s.
func Measure(s string) (width, height int) {
	lines := Lines(s)
	for _, line := range lines {
		width = max(width, Width(line))
	}
	return width, len(lines)
}

// Truncate cuts s to at most width cells without splitting a wide rune.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}

// Graphemes calls fn for each grapheme cluster in s with its display width,
// stopping when fn returns false.
func Graphemes(s string, fn func(cluster string, width int) bool) {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if !fn(g.Str(), g.Width()) {
			return
		}
	}
}
