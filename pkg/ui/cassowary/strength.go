// Package cassowary implements an incremental linear constraint solver
// using the cassowary simplex algorithm (kiwi variant).
//
// Constraints are linear relations over variables with a strength.
// Required constraints must hold; weaker ones are satisfied as well as the
// hierarchy allows. Edit variables accept suggested values that are
// re-solved incrementally with a dual simplex pass.
package cassowary

// Strength is the priority of a constraint.
type Strength float64

// CreateStrength builds a strength from strong, medium and weak components,
// each clamped to [0, 1000] after applying the weight.
func CreateStrength(a, b, c, w float64) Strength {
	result := 0.0
	result += clampComponent(a*w) * 1000000.0
	result += clampComponent(b*w) * 1000.0
	result += clampComponent(c * w)
	return Strength(result)
}

var (
	Required = CreateStrength(1000, 1000, 1000, 1)
	Strong   = CreateStrength(1, 0, 0, 1)
	Medium   = CreateStrength(0, 1, 0, 1)
	Weak     = CreateStrength(0, 0, 1, 1)
)

// ClipStrength limits s to the range [0, Required].
func ClipStrength(s Strength) Strength {
	if s < 0 {
		return 0
	}
	if s > Required {
		return Required
	}
	return s
}

// IsRequired reports whether s is the required strength.
func (s Strength) IsRequired() bool {
	return ClipStrength(s) >= Required
}

func clampComponent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1000 {
		return 1000
	}
	return v
}
