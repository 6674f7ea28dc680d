// Package sim provides a simulation backend for testing and headless runs.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/odvcencio/lattice/pkg/ui/backend"
	"github.com/odvcencio/lattice/pkg/ui/backend/tcell"
	"github.com/odvcencio/lattice/pkg/ui/text"
)

// Backend is a testable backend using tcell's simulation screen.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen

	mu            sync.Mutex
	width, height int
}

// New creates a new simulation backend with the given dimensions.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("UTF-8")
	return &Backend{
		Backend: tcell.NewWithScreen(screen),
		screen:  screen,
		width:   width,
		height:  height,
	}
}

// Init initializes the screen at the configured size.
func (s *Backend) Init() error {
	if err := s.Backend.Init(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.SetSize(s.width, s.height)
	return nil
}

// Resize changes the simulation screen size.
func (s *Backend) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.screen.SetSize(width, height)
}

// InjectKeyRune posts a character keypress.
func (s *Backend) InjectKeyRune(r rune) error {
	return s.screen.PostEvent(tcellv2.NewEventKey(tcellv2.KeyRune, r, tcellv2.ModNone))
}

// InjectKey posts a special key.
func (s *Backend) InjectKey(key tcellv2.Key) error {
	return s.screen.PostEvent(tcellv2.NewEventKey(key, 0, tcellv2.ModNone))
}

// Capture captures the current screen content, one line per row.
func (s *Backend) Capture() string {
	w, h := s.Size()
	return s.CaptureRegion(0, 0, w, h)
}

// CaptureRegion captures a rectangular region of the screen. A wide
// cluster contributes its text once and skips the cell it covers.
func (s *Backend) CaptureRegion(x, y, w, h int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]string, 0, h)
	for row := y; row < y+h; row++ {
		var line strings.Builder
		for col := x; col < x+w; {
			cluster, _ := s.cell(col, row)
			line.WriteString(cluster)
			col += max(text.Width(cluster), 1)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// CaptureCell returns the cluster and style of a single cell.
func (s *Backend) CaptureCell(x, y int) (string, backend.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cell(x, y)
}

func (s *Backend) cell(x, y int) (string, backend.Style) {
	mainc, comb, style, _ := s.screen.GetContent(x, y)
	if mainc == 0 {
		mainc = ' '
	}
	return string(append([]rune{mainc}, comb...)), tcell.ConvertStyle(style)
}

// FindText returns the cell position of the first occurrence of s, or
// (-1, -1).
func (s *Backend) FindText(str string) (x, y int) {
	for row, line := range strings.Split(s.Capture(), "\n") {
		if i := strings.Index(line, str); i >= 0 {
			return text.Width(line[:i]), row
		}
	}
	return -1, -1
}

// ContainsText returns true if the text appears anywhere on screen.
func (s *Backend) ContainsText(str string) bool {
	x, _ := s.FindText(str)
	return x >= 0
}

var _ backend.Backend = (*Backend)(nil)
