package backend

import (
	"fmt"
	"strings"
)

// Color represents a terminal color.
// Values 0-255 are palette colors, values with the RGB flag are true colors.
type Color int32

const (
	ColorDefault Color = -1
	ColorBlack   Color = 0
	ColorRed     Color = 1
	ColorGreen   Color = 2
	ColorYellow  Color = 3
	ColorBlue    Color = 4
	ColorMagenta Color = 5
	ColorCyan    Color = 6
	ColorWhite   Color = 7

	ColorBrightBlack Color = 8
	ColorBrightWhite Color = 15
)

const rgbFlag = 0x01000000

// ColorRGB creates a true color from RGB components.
func ColorRGB(r, g, b uint8) Color {
	return Color(int32(r)<<16 | int32(g)<<8 | int32(b) | rgbFlag)
}

// IsRGB returns true if this is a true color (not palette).
func (c Color) IsRGB() bool {
	return c != ColorDefault && c&rgbFlag != 0
}

// RGB returns the red, green, blue components of an RGB color.
// Returns 0, 0, 0 for non-RGB colors.
func (c Color) RGB() (r, g, b uint8) {
	if !c.IsRGB() {
		return 0, 0, 0
	}
	return uint8((c >> 16) & 0xFF), uint8((c >> 8) & 0xFF), uint8(c & 0xFF)
}

func (c Color) String() string {
	switch {
	case c == ColorDefault:
		return "default"
	case c.IsRGB():
		r, g, b := c.RGB()
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	default:
		return fmt.Sprintf("palette(%d)", int32(c))
	}
}

// AttrMask represents text attributes.
type AttrMask uint32

const (
	AttrBold AttrMask = 1 << iota
	AttrBlink
	AttrReverse
	AttrUnderline
	AttrDim
	AttrItalic
	AttrStrikeThrough
)

var attrNames = []struct {
	mask AttrMask
	name string
}{
	{AttrBold, "bold"},
	{AttrBlink, "blink"},
	{AttrReverse, "reverse"},
	{AttrUnderline, "underline"},
	{AttrDim, "dim"},
	{AttrItalic, "italic"},
	{AttrStrikeThrough, "strikethrough"},
}

// Style combines foreground, background colors and attributes.
// Styles are comparable values.
type Style struct {
	fg    Color
	bg    Color
	attrs AttrMask
}

// DefaultStyle returns the default style (default colors, no attributes).
func DefaultStyle() Style {
	return Style{fg: ColorDefault, bg: ColorDefault}
}

// Foreground sets the foreground color.
func (s Style) Foreground(c Color) Style {
	s.fg = c
	return s
}

// Background sets the background color.
func (s Style) Background(c Color) Style {
	s.bg = c
	return s
}

// With enables or disables the attributes in mask.
func (s Style) With(mask AttrMask, on bool) Style {
	if on {
		s.attrs |= mask
	} else {
		s.attrs &^= mask
	}
	return s
}

func (s Style) Bold(on bool) Style      { return s.With(AttrBold, on) }
func (s Style) Italic(on bool) Style    { return s.With(AttrItalic, on) }
func (s Style) Dim(on bool) Style       { return s.With(AttrDim, on) }
func (s Style) Underline(on bool) Style { return s.With(AttrUnderline, on) }
func (s Style) Reverse(on bool) Style   { return s.With(AttrReverse, on) }

// Attributes returns all attributes.
func (s Style) Attributes() AttrMask {
	return s.attrs
}

// Decompose returns the foreground, background, and attributes.
func (s Style) Decompose() (fg, bg Color, attrs AttrMask) {
	return s.fg, s.bg, s.attrs
}

func (s Style) String() string {
	var parts []string
	for _, a := range attrNames {
		if s.attrs&a.mask != 0 {
			parts = append(parts, a.name)
		}
	}
	return fmt.Sprintf("fg=%s bg=%s [%s]", s.fg, s.bg, strings.Join(parts, ","))
}
