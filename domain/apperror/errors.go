// Package apperror defines the error kinds surfaced to API callers.
//
// Errors are values: validation failures carry a list of human readable
// messages, lookups that miss carry a single message. Kinds survive a round
// trip through a mono request-reply boundary via Fault.
package apperror

import (
	"errors"
	"strings"
)

// Sentinel kinds usable with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// ValidationError reports malformed or out-of-constraint input.
type ValidationError struct {
	Messages []string
}

// NewValidation returns a ValidationError holding msgs.
func NewValidation(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add appends a message.
func (e *ValidationError) Add(msg string) {
	e.Messages = append(e.Messages, msg)
}

// OrNil returns nil when no messages were collected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Messages) == 0 {
		return nil
	}
	return e
}

// NotFoundError reports that a referenced user or task does not exist for
// the given owner.
type NotFoundError struct {
	Message string
}

// NewNotFound returns a NotFoundError.
func NewNotFound(msg string) *NotFoundError {
	return &NotFoundError{Message: msg}
}

func (e *NotFoundError) Error() string { return e.Message }

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError reports a uniqueness violation, e.g. a duplicate registration.
type ConflictError struct {
	Message string
}

// NewConflict returns a ConflictError.
func NewConflict(msg string) *ConflictError {
	return &ConflictError{Message: msg}
}

func (e *ConflictError) Error() string { return e.Message }

// Is reports whether target is ErrConflict.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Kind names an error category on the wire.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
)

// Fault is the serializable form of an error carried inside service replies.
type Fault struct {
	Kind     Kind     `json:"kind"`
	Messages []string `json:"messages"`
}

// ToFault converts err into a Fault. It returns nil for a nil error.
func ToFault(err error) *Fault {
	if err == nil {
		return nil
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return &Fault{Kind: KindValidation, Messages: append([]string(nil), verr.Messages...)}
	}
	var nerr *NotFoundError
	if errors.As(err, &nerr) {
		return &Fault{Kind: KindNotFound, Messages: []string{nerr.Message}}
	}
	var cerr *ConflictError
	if errors.As(err, &cerr) {
		return &Fault{Kind: KindConflict, Messages: []string{cerr.Message}}
	}
	return &Fault{Kind: KindInternal, Messages: []string{err.Error()}}
}

// Err rebuilds the typed error described by f. It returns nil for a nil Fault.
func (f *Fault) Err() error {
	if f == nil {
		return nil
	}
	switch f.Kind {
	case KindValidation:
		return NewValidation(f.Messages...)
	case KindNotFound:
		return NewNotFound(f.first())
	case KindConflict:
		return NewConflict(f.first())
	default:
		return errors.New(f.first())
	}
}

func (f *Fault) first() string {
	if len(f.Messages) == 0 {
		return string(f.Kind)
	}
	return f.Messages[0]
}
