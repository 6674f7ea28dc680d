// Package tcell provides a Backend implementation using tcell.
package tcell

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	lerrors "github.com/odvcencio/lattice/pkg/errors"
	"github.com/odvcencio/lattice/pkg/ui/backend"
	"github.com/odvcencio/lattice/pkg/ui/text"
)

// Backend implements backend.Backend using tcell. Input is not routed to
// components; the backend only watches for quit keys.
type Backend struct {
	screen tcell.Screen

	mu   sync.Mutex
	x, y int

	quit     chan struct{}
	quitOnce sync.Once
}

// New creates a backend on the controlling terminal.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, lerrors.Wrap(err, lerrors.ErrCodeBackend, "open terminal screen")
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen creates a backend with an existing tcell screen (for testing).
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen, quit: make(chan struct{})}
}

// Screen returns the underlying tcell screen.
func (b *Backend) Screen() tcell.Screen {
	return b.screen
}

// Init initializes the screen and starts the input loop.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return lerrors.Wrap(err, lerrors.ErrCodeBackend, "init terminal screen")
	}
	b.screen.HideCursor()
	go b.poll()
	return nil
}

// Fini restores the terminal. The input loop ends with it.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// MoveCursor positions the write cursor.
func (b *Backend) MoveCursor(x, y int) {
	b.mu.Lock()
	b.x, b.y = x, y
	b.mu.Unlock()
}

// Clear blanks the screen.
func (b *Backend) Clear() {
	b.screen.Clear()
}

// Write places each grapheme cluster of s at the cursor and advances by
// its display width.
func (b *Backend) Write(s string, style backend.Style) {
	ts := convertStyle(style)
	b.mu.Lock()
	defer b.mu.Unlock()
	text.Graphemes(s, func(cluster string, width int) bool {
		runes := []rune(cluster)
		b.screen.SetContent(b.x, b.y, runes[0], runes[1:], ts)
		b.x += width
		return true
	})
}

// Flush shows pending writes.
func (b *Backend) Flush() {
	b.screen.Show()
}

// Quit is closed when the user presses Ctrl-C, Esc or q.
func (b *Backend) Quit() <-chan struct{} {
	return b.quit
}

func (b *Backend) poll() {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		if key, ok := ev.(*tcell.EventKey); ok && isQuitKey(key) {
			b.quitOnce.Do(func() { close(b.quit) })
		}
	}
}

func isQuitKey(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyRune:
		return e.Rune() == 'q'
	}
	return false
}

// convertStyle converts backend.Style to tcell.Style.
func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	return tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg)).
		Bold(attrs&backend.AttrBold != 0).
		Italic(attrs&backend.AttrItalic != 0).
		Underline(attrs&backend.AttrUnderline != 0).
		Dim(attrs&backend.AttrDim != 0).
		Blink(attrs&backend.AttrBlink != 0).
		Reverse(attrs&backend.AttrReverse != 0).
		StrikeThrough(attrs&backend.AttrStrikeThrough != 0)
}

// convertColor converts backend.Color to tcell.Color.
func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

// ConvertStyle converts a tcell style back to backend.Style.
func ConvertStyle(ts tcell.Style) backend.Style {
	fg, bg, attrs := ts.Decompose()
	return backend.DefaultStyle().
		Foreground(convertTcellColor(fg)).
		Background(convertTcellColor(bg)).
		Bold(attrs&tcell.AttrBold != 0).
		Italic(attrs&tcell.AttrItalic != 0).
		Underline(attrs&tcell.AttrUnderline != 0).
		Dim(attrs&tcell.AttrDim != 0).
		With(backend.AttrBlink, attrs&tcell.AttrBlink != 0).
		Reverse(attrs&tcell.AttrReverse != 0).
		With(backend.AttrStrikeThrough, attrs&tcell.AttrStrikeThrough != 0)
}

func convertTcellColor(tc tcell.Color) backend.Color {
	if tc == tcell.ColorDefault {
		return backend.ColorDefault
	}
	if tc&tcell.ColorIsRGB != 0 {
		r, g, b := tc.RGB()
		return backend.ColorRGB(uint8(r), uint8(g), uint8(b))
	}
	return backend.Color(tc & 0xFF)
}

var _ backend.Backend = (*Backend)(nil)
