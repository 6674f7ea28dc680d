package cassowary

import (
	"fmt"
	"strings"
)

// Variable is an unknown solved by a Solver.
// Variables are compared by identity.
type Variable struct {
	name  string
	value float64
}

// NewVariable creates a named variable with value 0.
func NewVariable(name string) *Variable {
	return &Variable{name: name}
}

// Name returns the variable name.
func (v *Variable) Name() string {
	return v.name
}

// Value returns the value assigned by the last UpdateVariables or
// FetchChanges call.
func (v *Variable) Value() float64 {
	return v.value
}

// Term returns coefficient * v.
func (v *Variable) Term(coefficient float64) Term {
	return Term{Variable: v, Coefficient: coefficient}
}

// Expr returns the expression 1 * v.
func (v *Variable) Expr() Expression {
	return Expression{Terms: []Term{{Variable: v, Coefficient: 1}}}
}

func (v *Variable) String() string {
	return v.name
}

// Term is a variable scaled by a coefficient.
type Term struct {
	Variable    *Variable
	Coefficient float64
}

// Expression is a sum of terms plus a constant.
type Expression struct {
	Terms    []Term
	Constant float64
}

// NewExpression builds an expression from a constant and terms.
func NewExpression(constant float64, terms ...Term) Expression {
	return Expression{Terms: append([]Term(nil), terms...), Constant: constant}
}

// Constant returns an expression with no terms.
func Constant(c float64) Expression {
	return Expression{Constant: c}
}

// Plus returns e + other.
func (e Expression) Plus(other Expression) Expression {
	terms := make([]Term, 0, len(e.Terms)+len(other.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, other.Terms...)
	return Expression{Terms: terms, Constant: e.Constant + other.Constant}
}

// Minus returns e - other.
func (e Expression) Minus(other Expression) Expression {
	return e.Plus(other.Scale(-1))
}

// Scale returns e * factor.
func (e Expression) Scale(factor float64) Expression {
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term{Variable: t.Variable, Coefficient: t.Coefficient * factor}
	}
	return Expression{Terms: terms, Constant: e.Constant * factor}
}

// Add returns e + c.
func (e Expression) Add(c float64) Expression {
	return Expression{Terms: append([]Term(nil), e.Terms...), Constant: e.Constant + c}
}

// Value evaluates the expression with the current variable values.
func (e Expression) Value() float64 {
	result := e.Constant
	for _, t := range e.Terms {
		result += t.Coefficient * t.Variable.value
	}
	return result
}

func (e Expression) String() string {
	var sb strings.Builder
	for i, t := range e.Terms {
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(fmt.Sprintf("%g*%s", t.Coefficient, t.Variable.name))
	}
	if len(e.Terms) == 0 || e.Constant != 0 {
		if len(e.Terms) > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(fmt.Sprintf("%g", e.Constant))
	}
	return sb.String()
}

// reduce merges duplicate variables so each appears once.
func (e Expression) reduce() Expression {
	index := make(map[*Variable]int, len(e.Terms))
	terms := make([]Term, 0, len(e.Terms))
	for _, t := range e.Terms {
		if i, ok := index[t.Variable]; ok {
			terms[i].Coefficient += t.Coefficient
			continue
		}
		index[t.Variable] = len(terms)
		terms = append(terms, t)
	}
	return Expression{Terms: terms, Constant: e.Constant}
}
