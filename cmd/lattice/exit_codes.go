package main

import (
	"errors"

	lerrors "github.com/odvcencio/lattice/pkg/errors"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitConfig  = 3
	exitBackend = 4
	exitLayout  = 5
)

type exitCoder interface {
	ExitCode() int
}

// exitError pins an exit code on an error whose code cannot be derived
// from its lerrors code, such as a flag parse failure.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error { return e.err }

func (e exitError) ExitCode() int {
	if e.code == 0 {
		return exitFailure
	}
	return e.code
}

func withExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return exitError{code: code, err: err}
}

// exitCodeForError maps err to a process exit code. An explicit exitCoder
// wins; otherwise the lerrors code picks the class.
func exitCodeForError(err error) int {
	if err == nil {
		return exitOK
	}
	var coded exitCoder
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	switch lerrors.GetCode(err) {
	case lerrors.ErrCodeConfigLoad, lerrors.ErrCodeConfigParse, lerrors.ErrCodeConfigInvalid:
		return exitConfig
	case lerrors.ErrCodeBackend:
		return exitBackend
	case lerrors.ErrCodeLayoutDuplicateConstraint, lerrors.ErrCodeLayoutUnsatisfiable, lerrors.ErrCodeLayoutSolverInternal:
		return exitLayout
	}
	return exitFailure
}
