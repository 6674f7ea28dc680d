package cassowary

import "fmt"

// Operator relates a constraint expression to zero.
type Operator int

const (
	LE Operator = iota // expression <= 0
	GE                 // expression >= 0
	EQ                 // expression == 0
)

func (op Operator) String() string {
	switch op {
	case LE:
		return "<="
	case GE:
		return ">="
	case EQ:
		return "=="
	default:
		return "?"
	}
}

// Constraint is the relation `expression op 0` at a strength.
// Constraints are compared by identity.
type Constraint struct {
	expression Expression
	op         Operator
	strength   Strength
}

// NewConstraint creates a constraint on expr op 0.
func NewConstraint(expr Expression, op Operator, strength Strength) *Constraint {
	return &Constraint{
		expression: expr.reduce(),
		op:         op,
		strength:   ClipStrength(strength),
	}
}

// Equal creates lhs == rhs.
func Equal(lhs, rhs Expression, strength Strength) *Constraint {
	return NewConstraint(lhs.Minus(rhs), EQ, strength)
}

// LessEqual creates lhs <= rhs.
func LessEqual(lhs, rhs Expression, strength Strength) *Constraint {
	return NewConstraint(lhs.Minus(rhs), LE, strength)
}

// GreaterEqual creates lhs >= rhs.
func GreaterEqual(lhs, rhs Expression, strength Strength) *Constraint {
	return NewConstraint(lhs.Minus(rhs), GE, strength)
}

// Expression returns the constraint expression.
func (c *Constraint) Expression() Expression {
	return c.expression
}

// Operator returns the relational operator.
func (c *Constraint) Operator() Operator {
	return c.op
}

// Strength returns the constraint strength.
func (c *Constraint) Strength() Strength {
	return c.strength
}

// Satisfied reports whether the constraint holds for the current variable
// values, within tolerance.
func (c *Constraint) Satisfied() bool {
	v := c.expression.Value()
	switch c.op {
	case LE:
		return v <= epsilon
	case GE:
		return v >= -epsilon
	default:
		return nearZero(v)
	}
}

func (c *Constraint) String() string {
	return fmt.Sprintf("%s %s 0 | %g", c.expression, c.op, float64(c.strength))
}
