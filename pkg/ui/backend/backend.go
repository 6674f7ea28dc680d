// Package backend defines the terminal backend interface for the TUI.
// This abstraction allows swapping between tcell (real terminals) and
// simulation backends (testing), enabling golden-frame tests.
package backend

import "github.com/rivo/uniseg"

// Backend is the terminal abstraction layer. The frame driver uses only
// these operations.
type Backend interface {
	// Init initializes the backend (enters alt screen, raw mode, etc).
	Init() error

	// Fini cleans up the backend (restores terminal state).
	Fini()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// MoveCursor positions the write cursor.
	MoveCursor(x, y int)

	// Clear blanks the screen.
	Clear()

	// Write draws text at the cursor and advances it by the text's display
	// width.
	Write(text string, style Style)

	// Flush makes all writes since the previous Flush visible.
	Flush()
}

// Quitter is implemented by backends that can signal a user request to
// quit.
type Quitter interface {
	Quit() <-chan struct{}
}

// Recorder captures backend calls. It is used by tests that assert on the
// exact write stream rather than the screen contents.
type Recorder struct {
	Width, Height int
	Ops           []Op
	cursorX       int
	cursorY       int
}

// Op is one recorded backend call.
type Op struct {
	Name  string
	X, Y  int
	Text  string
	Style Style
}

func (r *Recorder) Init() error { return nil }
func (r *Recorder) Fini()       {}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

func (r *Recorder) MoveCursor(x, y int) {
	r.cursorX, r.cursorY = x, y
	r.Ops = append(r.Ops, Op{Name: "move", X: x, Y: y})
}

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops, Op{Name: "clear"})
}

func (r *Recorder) Write(text string, style Style) {
	r.Ops = append(r.Ops, Op{Name: "write", X: r.cursorX, Y: r.cursorY, Text: text, Style: style})
	r.cursorX += uniseg.StringWidth(text)
}

func (r *Recorder) Flush() {
	r.Ops = append(r.Ops, Op{Name: "flush"})
}

// Writes returns only the recorded write operations.
func (r *Recorder) Writes() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Name == "write" {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops recorded operations.
func (r *Recorder) Reset() {
	r.Ops = nil
}

var _ Backend = (*Recorder)(nil)
