package cassowary

import (
	"math"
	"sort"
)

const epsilon = 1.0e-8

func nearZero(v float64) bool {
	return math.Abs(v) < epsilon
}

type symbolKind uint8

const (
	invalidSymbol symbolKind = iota
	externalSymbol
	slackSymbol
	errorSymbol
	dummySymbol
)

// symbol identifies a tableau column. The zero symbol is invalid.
type symbol struct {
	id   uint64
	kind symbolKind
}

func (s symbol) valid() bool {
	return s.kind != invalidSymbol
}

// pivotable symbols may enter the basis through a slack or error column.
func (s symbol) pivotable() bool {
	return s.kind == slackSymbol || s.kind == errorSymbol
}

func (s symbol) restricted() bool {
	return s.kind != externalSymbol
}

func sortSymbols(syms []symbol) {
	sort.Slice(syms, func(i, j int) bool { return syms[i].id < syms[j].id })
}

// row is a linear expression over symbols: constant + sum(coeff * symbol).
type row struct {
	cells    map[symbol]float64
	constant float64
}

func newRow(constant float64) *row {
	return &row{cells: make(map[symbol]float64), constant: constant}
}

func (r *row) clone() *row {
	c := &row{cells: make(map[symbol]float64, len(r.cells)), constant: r.constant}
	for s, v := range r.cells {
		c.cells[s] = v
	}
	return c
}

// lowerID reports whether a should win a tie against b. Scans over the
// cell and row maps use it so that pivots do not depend on map order.
func lowerID(a, b symbol) bool {
	return !b.valid() || a.id < b.id
}

func (r *row) add(v float64) float64 {
	r.constant += v
	return r.constant
}

func (r *row) insertSymbol(s symbol, coefficient float64) {
	v := r.cells[s] + coefficient
	if nearZero(v) {
		delete(r.cells, s)
		return
	}
	r.cells[s] = v
}

func (r *row) insertRow(other *row, coefficient float64) {
	r.constant += other.constant * coefficient
	for s, v := range other.cells {
		r.insertSymbol(s, v*coefficient)
	}
}

func (r *row) remove(s symbol) {
	delete(r.cells, s)
}

func (r *row) reverseSign() {
	r.constant = -r.constant
	for s, v := range r.cells {
		r.cells[s] = -v
	}
}

// solveFor rewrites the row as `s = ...` and drops s from the cells.
func (r *row) solveFor(s symbol) {
	coefficient := -1.0 / r.cells[s]
	delete(r.cells, s)
	r.constant *= coefficient
	for k, v := range r.cells {
		r.cells[k] = v * coefficient
	}
}

// solveForPair solves the row `lhs = ...` for rhs.
func (r *row) solveForPair(lhs, rhs symbol) {
	r.insertSymbol(lhs, -1.0)
	r.solveFor(rhs)
}

func (r *row) coefficientFor(s symbol) float64 {
	return r.cells[s]
}

func (r *row) substitute(s symbol, other *row) {
	coefficient, ok := r.cells[s]
	if !ok {
		return
	}
	delete(r.cells, s)
	r.insertRow(other, coefficient)
}

func (r *row) allDummies() bool {
	for s := range r.cells {
		if s.kind != dummySymbol {
			return false
		}
	}
	return true
}
