// Package errs defines the error taxonomy shared by every msgpack-strict
// component: schema derivation, wire encoding and decoding, and schema
// persistence all surface one of the four kinds below rather than ad-hoc
// error types, so callers can dispatch on Kind without type-switching on
// package-private structs.
package errs

import (
	"fmt"

	"github.com/mb0/xelf/cor"
	"github.com/pkg/errors"
)

// Kind discriminates the error taxonomy.
type Kind int

const (
	// UnsupportedType is raised at schema derivation when no type provider
	// claims a user type.
	UnsupportedType Kind = iota
	// SchemaInvariantViolation is raised for duplicate field/member names,
	// malformed XML, or an unresolved by-reference schema.
	SchemaInvariantViolation
	// DeserialisationFault is raised for any wire-level mismatch at read
	// time: wrong framing, wrong arity, an unparseable scalar, an unknown
	// enum or union member, a missing required field, an unexpected field
	// under the Throw policy, or a cross-variant mismatch.
	DeserialisationFault
	// SerialisationFault wraps a downstream packer error verbatim.
	SerialisationFault
)

func (k Kind) String() string {
	switch k {
	case UnsupportedType:
		return "UnsupportedType"
	case SchemaInvariantViolation:
		return "SchemaInvariantViolation"
	case DeserialisationFault:
		return "DeserialisationFault"
	case SerialisationFault:
		return "SerialisationFault"
	default:
		return "Unknown"
	}
}

// Error is the single error type raised by every msgpack-strict component.
// Target names the user type in play, if any, so a caller can log or report
// context without re-deriving it.
type Error struct {
	Kind   Kind
	Target string
	msg    string
	cause  error
}

func (e *Error) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Target, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// New builds a plain Error with no wrapped cause, formatting msg with cor's
// invariant, culture-neutral formatter.
func New(kind Kind, target string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Target: target, msg: cor.Errorf(format, args...).Error()}
}

// Wrap builds an Error around a downstream cause, keeping cause's stack
// trace attached via pkg/errors so failures at the packer or store boundary
// remain diagnosable.
func Wrap(kind Kind, target string, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Target: target,
		msg:    fmt.Sprintf(format, args...),
		cause:  errors.WithStack(cause),
	}
}

// Is reports whether err is a msgpack-strict Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
