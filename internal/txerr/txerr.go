// Package txerr implements the error taxonomy of the generation pipeline:
// every bubbled failure carries a stable Kind so callers can branch on
// category instead of parsing messages.
package txerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the five error categories the orchestrator
// distinguishes.
type Kind string

const (
	Analysis      Kind = "analysis"
	Generation    Kind = "generation"
	Evaluation    Kind = "evaluation"
	Configuration Kind = "configuration"
	Resource      Kind = "resource"
)

// Error wraps an underlying error with a Kind and the operation that
// produced it. The orchestrator never swallows an Error to manufacture a
// partial artifact; it always bubbles one of these.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a tagged Error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
