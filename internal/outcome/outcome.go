// Package outcome carries the failure taxonomy shared by the stores, the
// publisher authority and the notification dispatcher.
//
// Operations return a tagged *Error so callers can branch on Kind, while the
// boolean wrappers on each store keep simple call sites simple.
package outcome

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindDuplicate
	KindAuthorization
	KindBackendUnavailable
	KindTransport
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindAuthorization:
		return "authorization"
	case KindBackendUnavailable:
		return "backend_unavailable"
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ErrBackendUnavailable is wrapped by every KindBackendUnavailable error.
var ErrBackendUnavailable = errors.New("no reachable backend")

// Error is a failure tagged with its Kind and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New tags err with kind. A nil err still produces a non-nil *Error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Validation(op, format string, args ...any) *Error {
	return New(KindValidation, op, fmt.Errorf(format, args...))
}

func Duplicate(op, format string, args ...any) *Error {
	return New(KindDuplicate, op, fmt.Errorf(format, args...))
}

func Authorization(op, format string, args ...any) *Error {
	return New(KindAuthorization, op, fmt.Errorf(format, args...))
}

func NotFound(op, format string, args ...any) *Error {
	return New(KindNotFound, op, fmt.Errorf(format, args...))
}

func Unavailable(op string) *Error {
	return New(KindBackendUnavailable, op, ErrBackendUnavailable)
}

// Wrap tags an unexpected backend error. Errors that are already tagged keep
// their kind.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var oe *Error
	if errors.As(err, &oe) {
		return err
	}
	if errors.Is(err, ErrBackendUnavailable) {
		return New(KindBackendUnavailable, op, err)
	}
	return New(KindUnknown, op, err)
}

// KindOf returns the Kind of err. Untagged errors report KindUnknown.
func KindOf(err error) Kind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindUnknown
}

// Is reports whether err is tagged with kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
