package runtime

import (
	"strings"

	"github.com/odvcencio/lattice/pkg/ui/backend"
	"github.com/odvcencio/lattice/pkg/ui/text"
)

// Cell is a single character cell in the buffer. A wide grapheme occupies
// its lead cell (Width 2) and a continuation cell with empty Text.
type Cell struct {
	Text  string
	Width int
	Style backend.Style
}

func blankCell() Cell {
	return Cell{Text: " ", Width: 1, Style: backend.DefaultStyle()}
}

func (c Cell) continuation() bool {
	return c.Width == 0
}

// Buffer is a 2D grid of cells for rendering components.
// Components draw through Views, then the Driver presents the cells that
// differ from what the backend already shows.
type Buffer struct {
	cells  []Cell
	shown  []Cell
	width  int
	height int

	// Dirty tracking - cells touched since the last Commit
	dirty      []bool
	dirtyCount int
	dirtyRect  Region
}

// NewBuffer creates a blank buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	b := &Buffer{}
	b.Resize(w, h)
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Bounds returns the full buffer region.
func (b *Buffer) Bounds() Region {
	return Region{Max: Point{X: b.width, Y: b.height}}
}

// Resize changes the buffer dimensions and invalidates it. Contents are
// blanked; the next frame redraws everything.
func (b *Buffer) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	b.width = w
	b.height = h
	b.cells = make([]Cell, w*h)
	b.shown = make([]Cell, w*h)
	b.dirty = make([]bool, w*h)
	for i := range b.cells {
		b.cells[i] = blankCell()
	}
	b.Invalidate()
}

// Invalidate records that the backend screen is blank, marking every cell
// dirty so the next present writes all non-blank content.
func (b *Buffer) Invalidate() {
	for i := range b.shown {
		b.shown[i] = blankCell()
	}
	b.MarkAllDirty()
}

// Clear fills the buffer with blanks.
func (b *Buffer) Clear() {
	b.Fill(b.Bounds(), " ", backend.DefaultStyle())
}

// Get returns the cell at position (x, y).
// Returns a blank cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return blankCell()
	}
	return b.cells[y*b.width+x]
}

// Set writes a grapheme cluster with style at (x, y) and returns the
// number of cells it covers. A wide cluster that does not fit before the
// right edge is replaced by a blank.
// No-op if out of bounds.
func (b *Buffer) Set(x, y int, cluster string, s backend.Style) int {
	return b.setClipped(x, y, cluster, text.Width(cluster), s, b.width)
}

func (b *Buffer) setClipped(x, y int, cluster string, width int, s backend.Style, right int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height || x >= right {
		return 0
	}
	if width <= 0 {
		width = 1
	}
	if width > 1 && x+width > min(right, b.width) {
		cluster, width = " ", 1
	}

	b.breakWide(x, y)
	b.put(x, y, Cell{Text: cluster, Width: width, Style: s})
	for i := 1; i < width; i++ {
		b.breakWide(x+i, y)
		b.put(x+i, y, Cell{Text: "", Width: 0, Style: s})
	}
	return width
}

// breakWide blanks the other half of a wide cell that (x, y) belongs to.
func (b *Buffer) breakWide(x, y int) {
	row := y * b.width
	cell := b.cells[row+x]
	switch {
	case cell.continuation():
		for lx := x - 1; lx >= 0; lx-- {
			lead := b.cells[row+lx]
			if !lead.continuation() {
				b.put(lx, y, Cell{Text: " ", Width: 1, Style: lead.Style})
				break
			}
			b.put(lx, y, Cell{Text: " ", Width: 1, Style: lead.Style})
		}
	case cell.Width > 1:
		for i := 1; i < cell.Width && x+i < b.width; i++ {
			b.put(x+i, y, Cell{Text: " ", Width: 1, Style: cell.Style})
		}
	}
}

func (b *Buffer) put(x, y int, c Cell) {
	idx := y*b.width + x
	if b.cells[idx] != c {
		b.cells[idx] = c
		b.markCellDirty(x, y, idx)
	}
}

// Fill fills a region with a single-width grapheme and style.
// Marks changed cells as dirty.
func (b *Buffer) Fill(r Region, cluster string, s backend.Style) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.breakWide(x, y)
			b.put(x, y, Cell{Text: cluster, Width: 1, Style: s})
		}
	}
}

// --- Dirty Tracking Methods ---

// markCellDirty marks a single cell as dirty and updates the bounding box.
func (b *Buffer) markCellDirty(x, y, idx int) {
	if b.dirty[idx] {
		return
	}
	b.dirty[idx] = true
	b.dirtyCount++

	if b.dirtyCount == 1 {
		b.dirtyRect = Region{Min: Point{X: x, Y: y}, Max: Point{X: x + 1, Y: y + 1}}
		return
	}
	b.dirtyRect.Min.X = min(b.dirtyRect.Min.X, x)
	b.dirtyRect.Min.Y = min(b.dirtyRect.Min.Y, y)
	b.dirtyRect.Max.X = max(b.dirtyRect.Max.X, x+1)
	b.dirtyRect.Max.Y = max(b.dirtyRect.Max.Y, y+1)
}

// MarkAllDirty marks the entire buffer as dirty.
func (b *Buffer) MarkAllDirty() {
	for i := range b.dirty {
		b.dirty[i] = true
	}
	b.dirtyCount = len(b.dirty)
	b.dirtyRect = b.Bounds()
}

// IsDirty returns true if any cells have been touched.
func (b *Buffer) IsDirty() bool {
	return b.dirtyCount > 0
}

// DirtyCount returns the number of dirty cells.
func (b *Buffer) DirtyCount() int {
	return b.dirtyCount
}

// DirtyRegion returns the bounding box of dirty cells.
// Returns an empty region if nothing is dirty.
func (b *Buffer) DirtyRegion() Region {
	return b.dirtyRect
}

// IsCellDirty returns true if the cell at (x, y) is dirty.
func (b *Buffer) IsCellDirty(x, y int) bool {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return false
	}
	return b.dirty[y*b.width+x]
}

// changed reports whether idx is dirty and differs from the shown frame.
func (b *Buffer) changed(idx int) bool {
	return b.dirty[idx] && b.cells[idx] != b.shown[idx]
}

// Run is a horizontal span of changed cells sharing one style.
type Run struct {
	X, Y  int
	Text  string
	Style backend.Style
	Cells int
}

// ChangedRuns calls fn for each run of cells that differ from the last
// committed frame, scanning only the dirty bounding box.
func (b *Buffer) ChangedRuns(fn func(Run)) {
	if b.dirtyCount == 0 {
		return
	}
	r := b.dirtyRect.Intersect(b.Bounds())
	var sb strings.Builder
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * b.width
		x := r.Min.X
		for x < r.Max.X {
			idx := row + x
			if !b.changed(idx) || b.cells[idx].continuation() {
				x++
				continue
			}
			run := Run{X: x, Y: y, Style: b.cells[idx].Style}
			sb.Reset()
			for x < r.Max.X {
				cell := b.cells[row+x]
				if cell.continuation() {
					if cell.Style != run.Style {
						break
					}
					x++
					continue
				}
				if !b.changed(row+x) || cell.Style != run.Style {
					break
				}
				sb.WriteString(cell.Text)
				run.Cells += cell.Width
				x++
			}
			run.Text = sb.String()
			fn(run)
		}
	}
}

// Commit records the current cells as shown and resets dirty flags.
func (b *Buffer) Commit() {
	copy(b.shown, b.cells)
	clear(b.dirty)
	b.dirtyCount = 0
	b.dirtyRect = Region{}
}
