// Package fault classifies failures of the external collaborators into a
// small closed set of kinds. Each error carries a human-readable detail that
// is turned into display text only at the user-facing boundary.
package fault

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure categories.
type Kind int

const (
	KindUnknown Kind = iota
	// KindEnvironment: model runtime missing, not running, or model not pulled.
	KindEnvironment
	// KindNetwork: connection refused, timeout, non-2xx or undecodable response.
	KindNetwork
	// KindInput: unreadable CSV/PDF, entity not found.
	KindInput
	// KindOutput: destination not creatable or writable.
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindEnvironment:
		return "environment"
	case KindNetwork:
		return "network"
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Error is a kinded failure. Detail is the sentence shown to the user; Err is
// the optional underlying cause.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Detail
	}
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Detail, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

// Environment builds an environment failure.
func Environment(err error, format string, args ...any) error {
	return newError(KindEnvironment, err, format, args...)
}

// Network builds a network failure.
func Network(err error, format string, args ...any) error {
	return newError(KindNetwork, err, format, args...)
}

// Input builds an input failure.
func Input(err error, format string, args ...any) error {
	return newError(KindInput, err, format, args...)
}

// Output builds an output failure.
func Output(err error, format string, args ...any) error {
	return newError(KindOutput, err, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Message renders err as the single descriptive string presented to users.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
