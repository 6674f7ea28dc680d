package cassowary

import "errors"

var (
	ErrDuplicateConstraint     = errors.New("cassowary: duplicate constraint")
	ErrUnsatisfiableConstraint = errors.New("cassowary: unsatisfiable constraint")
	ErrUnknownConstraint       = errors.New("cassowary: unknown constraint")
	ErrDuplicateEditVariable   = errors.New("cassowary: duplicate edit variable")
	ErrUnknownEditVariable     = errors.New("cassowary: unknown edit variable")
	ErrBadRequiredStrength     = errors.New("cassowary: edit variable cannot be required")
	ErrInternalSolver          = errors.New("cassowary: internal solver error")
)
