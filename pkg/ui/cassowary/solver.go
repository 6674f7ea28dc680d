package cassowary

import (
	"fmt"
	"math"
)

type tag struct {
	marker symbol
	other  symbol
}

type editInfo struct {
	tag        tag
	constraint *Constraint
	constant   float64
}

// Change is a variable whose solved value differs from the previous fetch.
type Change struct {
	Variable *Variable
	Value    float64
}

// Solver maintains a simplex tableau over a set of constraints.
// A Solver is not safe for concurrent use.
//
// After AddConstraint fails with ErrUnsatisfiableConstraint or
// ErrInternalSolver the tableau may hold partial state; callers should
// Reset and rebuild.
type Solver struct {
	constraints map[*Constraint]tag
	rows        map[symbol]*row
	vars        map[*Variable]symbol
	edits       map[*Variable]*editInfo
	order       []*Variable
	published   map[*Variable]float64
	infeasible  []symbol
	objective   *row
	artificial  *row
	nextID      uint64
}

// NewSolver creates an empty solver.
func NewSolver() *Solver {
	s := &Solver{}
	s.Reset()
	return s
}

// Reset clears all constraints, edit variables and tracked variables.
func (s *Solver) Reset() {
	s.constraints = make(map[*Constraint]tag)
	s.rows = make(map[symbol]*row)
	s.vars = make(map[*Variable]symbol)
	s.edits = make(map[*Variable]*editInfo)
	s.order = nil
	s.published = make(map[*Variable]float64)
	s.infeasible = nil
	s.objective = newRow(0)
	s.artificial = nil
	s.nextID = 0
}

// HasConstraint reports whether c was added to the solver.
func (s *Solver) HasConstraint(c *Constraint) bool {
	_, ok := s.constraints[c]
	return ok
}

// HasEditVariable reports whether v is an edit variable.
func (s *Solver) HasEditVariable(v *Variable) bool {
	_, ok := s.edits[v]
	return ok
}

// ConstraintCount returns the number of constraints in the solver.
func (s *Solver) ConstraintCount() int {
	return len(s.constraints)
}

// AddConstraint adds c to the solver and re-optimizes.
func (s *Solver) AddConstraint(c *Constraint) error {
	if _, ok := s.constraints[c]; ok {
		return ErrDuplicateConstraint
	}

	var t tag
	r := s.createRow(c, &t)
	subject := s.chooseSubject(r, t)

	if !subject.valid() && r.allDummies() {
		if !nearZero(r.constant) {
			return ErrUnsatisfiableConstraint
		}
		subject = t.marker
	}

	if !subject.valid() {
		ok, err := s.addWithArtificialVariable(r)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnsatisfiableConstraint
		}
	} else {
		r.solveFor(subject)
		s.substitute(subject, r)
		s.rows[subject] = r
	}

	s.constraints[c] = t
	return s.optimize(s.objective)
}

// RemoveConstraint removes c from the solver and re-optimizes.
func (s *Solver) RemoveConstraint(c *Constraint) error {
	t, ok := s.constraints[c]
	if !ok {
		return ErrUnknownConstraint
	}
	delete(s.constraints, c)

	if t.marker.kind == errorSymbol {
		s.removeMarkerEffects(t.marker, c.strength)
	}
	if t.other.kind == errorSymbol {
		s.removeMarkerEffects(t.other, c.strength)
	}

	if _, ok := s.rows[t.marker]; ok {
		delete(s.rows, t.marker)
	} else {
		leaving, ok := s.markerLeavingSymbol(t.marker)
		if !ok {
			return fmt.Errorf("%w: no leaving row for marker", ErrInternalSolver)
		}
		r := s.rows[leaving]
		delete(s.rows, leaving)
		r.solveForPair(leaving, t.marker)
		s.substitute(t.marker, r)
	}

	return s.optimize(s.objective)
}

// AddEditVariable makes v suggestible at the given non-required strength.
func (s *Solver) AddEditVariable(v *Variable, strength Strength) error {
	if _, ok := s.edits[v]; ok {
		return ErrDuplicateEditVariable
	}
	strength = ClipStrength(strength)
	if strength.IsRequired() {
		return ErrBadRequiredStrength
	}

	c := NewConstraint(v.Expr(), EQ, strength)
	if err := s.AddConstraint(c); err != nil {
		return err
	}
	s.edits[v] = &editInfo{tag: s.constraints[c], constraint: c}
	return nil
}

// RemoveEditVariable removes the edit constraint on v.
func (s *Solver) RemoveEditVariable(v *Variable) error {
	info, ok := s.edits[v]
	if !ok {
		return ErrUnknownEditVariable
	}
	if err := s.RemoveConstraint(info.constraint); err != nil {
		return err
	}
	delete(s.edits, v)
	return nil
}

// SuggestValue sets the desired value of edit variable v and re-solves
// with the dual simplex.
func (s *Solver) SuggestValue(v *Variable, value float64) error {
	info, ok := s.edits[v]
	if !ok {
		return ErrUnknownEditVariable
	}

	delta := value - info.constant
	info.constant = value

	if r, ok := s.rows[info.tag.marker]; ok {
		if r.add(-delta) < 0 {
			s.infeasible = append(s.infeasible, info.tag.marker)
		}
		return s.dualOptimize()
	}

	if r, ok := s.rows[info.tag.other]; ok {
		if r.add(delta) < 0 {
			s.infeasible = append(s.infeasible, info.tag.other)
		}
		return s.dualOptimize()
	}

	mark := len(s.infeasible)
	for sym, r := range s.rows {
		coefficient := r.coefficientFor(info.tag.marker)
		if coefficient != 0 && r.add(delta*coefficient) < 0 && sym.restricted() {
			s.infeasible = append(s.infeasible, sym)
		}
	}
	sortSymbols(s.infeasible[mark:])
	return s.dualOptimize()
}

// UpdateVariables writes the solved values into every tracked variable.
func (s *Solver) UpdateVariables() {
	for _, v := range s.order {
		sym := s.vars[v]
		if r, ok := s.rows[sym]; ok {
			v.value = r.constant
		} else {
			v.value = 0
		}
	}
}

// FetchChanges updates variable values and returns the variables whose
// value changed since the previous call, in creation order.
func (s *Solver) FetchChanges() []Change {
	s.UpdateVariables()
	var changes []Change
	for _, v := range s.order {
		if prev := s.published[v]; !nearZero(prev - v.value) {
			changes = append(changes, Change{Variable: v, Value: v.value})
		}
		s.published[v] = v.value
	}
	return changes
}

func (s *Solver) newSymbol(kind symbolKind) symbol {
	s.nextID++
	return symbol{id: s.nextID, kind: kind}
}

func (s *Solver) varSymbol(v *Variable) symbol {
	if sym, ok := s.vars[v]; ok {
		return sym
	}
	sym := s.newSymbol(externalSymbol)
	s.vars[v] = sym
	s.order = append(s.order, v)
	return sym
}

func (s *Solver) createRow(c *Constraint, t *tag) *row {
	expr := c.expression
	r := newRow(expr.Constant)

	for _, term := range expr.Terms {
		if nearZero(term.Coefficient) {
			continue
		}
		sym := s.varSymbol(term.Variable)
		if basic, ok := s.rows[sym]; ok {
			r.insertRow(basic, term.Coefficient)
		} else {
			r.insertSymbol(sym, term.Coefficient)
		}
	}

	strength := float64(c.strength)
	switch c.op {
	case LE, GE:
		coefficient := 1.0
		if c.op == GE {
			coefficient = -1.0
		}
		slack := s.newSymbol(slackSymbol)
		t.marker = slack
		r.insertSymbol(slack, coefficient)
		if !c.strength.IsRequired() {
			errSym := s.newSymbol(errorSymbol)
			t.other = errSym
			r.insertSymbol(errSym, -coefficient)
			s.objective.insertSymbol(errSym, strength)
		}
	case EQ:
		if !c.strength.IsRequired() {
			plus := s.newSymbol(errorSymbol)
			minus := s.newSymbol(errorSymbol)
			t.marker = plus
			t.other = minus
			r.insertSymbol(plus, -1.0)
			r.insertSymbol(minus, 1.0)
			s.objective.insertSymbol(plus, strength)
			s.objective.insertSymbol(minus, strength)
		} else {
			dummy := s.newSymbol(dummySymbol)
			t.marker = dummy
			r.insertSymbol(dummy, 1.0)
		}
	}

	if r.constant < 0 {
		r.reverseSign()
	}
	return r
}

func (s *Solver) chooseSubject(r *row, t tag) symbol {
	var subject symbol
	for sym := range r.cells {
		if sym.kind == externalSymbol && lowerID(sym, subject) {
			subject = sym
		}
	}
	if subject.valid() {
		return subject
	}
	if t.marker.pivotable() && r.coefficientFor(t.marker) < 0 {
		return t.marker
	}
	if t.other.pivotable() && r.coefficientFor(t.other) < 0 {
		return t.other
	}
	return symbol{}
}

func (s *Solver) addWithArtificialVariable(r *row) (bool, error) {
	art := s.newSymbol(slackSymbol)
	s.rows[art] = r.clone()
	s.artificial = r.clone()

	if err := s.optimize(s.artificial); err != nil {
		s.artificial = nil
		return false, err
	}
	success := nearZero(s.artificial.constant)
	s.artificial = nil

	if basic, ok := s.rows[art]; ok {
		delete(s.rows, art)
		if len(basic.cells) == 0 {
			return success, nil
		}
		entering := anyPivotableSymbol(basic)
		if !entering.valid() {
			return false, nil
		}
		basic.solveForPair(art, entering)
		s.substitute(entering, basic)
		s.rows[entering] = basic
	}

	for _, basic := range s.rows {
		basic.remove(art)
	}
	s.objective.remove(art)
	return success, nil
}

func (s *Solver) substitute(sym symbol, r *row) {
	mark := len(s.infeasible)
	for basicSym, basic := range s.rows {
		basic.substitute(sym, r)
		if basicSym.restricted() && basic.constant < 0 {
			s.infeasible = append(s.infeasible, basicSym)
		}
	}
	sortSymbols(s.infeasible[mark:])
	s.objective.substitute(sym, r)
	if s.artificial != nil {
		s.artificial.substitute(sym, r)
	}
}

func (s *Solver) optimize(objective *row) error {
	for {
		entering := enteringSymbol(objective)
		if !entering.valid() {
			return nil
		}
		leaving, ok := s.leavingSymbol(entering)
		if !ok {
			return fmt.Errorf("%w: objective is unbounded", ErrInternalSolver)
		}
		r := s.rows[leaving]
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
}

func (s *Solver) dualOptimize() error {
	for len(s.infeasible) > 0 {
		last := len(s.infeasible) - 1
		leaving := s.infeasible[last]
		s.infeasible = s.infeasible[:last]

		r, ok := s.rows[leaving]
		if !ok || nearZero(r.constant) || r.constant >= 0 {
			continue
		}
		entering := s.dualEnteringSymbol(r)
		if !entering.valid() {
			return fmt.Errorf("%w: dual optimize failed", ErrInternalSolver)
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
	return nil
}

func enteringSymbol(objective *row) symbol {
	var entering symbol
	for sym, c := range objective.cells {
		if sym.kind != dummySymbol && c < 0 && lowerID(sym, entering) {
			entering = sym
		}
	}
	return entering
}

func (s *Solver) dualEnteringSymbol(r *row) symbol {
	var entering symbol
	ratio := math.MaxFloat64
	for sym, c := range r.cells {
		if c > 0 && sym.kind != dummySymbol {
			j := s.objective.coefficientFor(sym)
			if q := j / c; q < ratio || (q == ratio && lowerID(sym, entering)) {
				ratio = q
				entering = sym
			}
		}
	}
	return entering
}

func anyPivotableSymbol(r *row) symbol {
	var pick symbol
	for sym := range r.cells {
		if sym.pivotable() && lowerID(sym, pick) {
			pick = sym
		}
	}
	return pick
}

func (s *Solver) leavingSymbol(entering symbol) (symbol, bool) {
	ratio := math.MaxFloat64
	var leaving symbol
	found := false
	for sym, r := range s.rows {
		if !sym.restricted() {
			continue
		}
		c := r.coefficientFor(entering)
		if c < 0 {
			if q := -r.constant / c; q < ratio || (q == ratio && lowerID(sym, leaving)) {
				ratio = q
				leaving = sym
				found = true
			}
		}
	}
	return leaving, found
}

func (s *Solver) markerLeavingSymbol(marker symbol) (symbol, bool) {
	r1, r2 := math.MaxFloat64, math.MaxFloat64
	var first, second, third symbol
	for sym, r := range s.rows {
		c := r.coefficientFor(marker)
		if c == 0 {
			continue
		}
		switch {
		case sym.kind == externalSymbol:
			if !third.valid() || sym.id > third.id {
				third = sym
			}
		case c < 0:
			if q := -r.constant / c; q < r1 || (q == r1 && lowerID(sym, first)) {
				r1 = q
				first = sym
			}
		default:
			if q := r.constant / c; q < r2 || (q == r2 && lowerID(sym, second)) {
				r2 = q
				second = sym
			}
		}
	}
	switch {
	case first.valid():
		return first, true
	case second.valid():
		return second, true
	case third.valid():
		return third, true
	}
	return symbol{}, false
}

func (s *Solver) removeMarkerEffects(marker symbol, strength Strength) {
	if r, ok := s.rows[marker]; ok {
		s.objective.insertRow(r, -float64(strength))
		return
	}
	s.objective.insertSymbol(marker, -float64(strength))
}
