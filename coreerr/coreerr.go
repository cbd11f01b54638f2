// Package coreerr defines the error taxonomy shared by every package in
// the vectorized execution core. Operators use it to decide whether a
// failure can be handled locally (Resource, by spilling) or must propagate
// to the pipeline boundary and abort the query.
package coreerr

import "fmt"

// Kind classifies a core error. See the package doc for how each kind is
// expected to be handled by callers.
type Kind int

const (
	// InvalidInput means caller-supplied values violate a documented
	// contract, e.g. a slice step of zero.
	InvalidInput Kind = iota
	// OutOfRange means a value falls outside the representable range of
	// its declared type.
	OutOfRange
	// Conversion means a layout conversion that is expected to always
	// succeed on a well-formed column failed; this is fatal.
	Conversion
	// Resource means an allocation or page-pin failure that a caller may
	// attempt to recover from by promoting to an external/spilling path.
	Resource
	// NotImplemented marks a documented gap, not a bug.
	NotImplemented
	// Internal means an invariant was violated; it is always a bug.
	Internal
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case OutOfRange:
		return "out of range"
	case Conversion:
		return "conversion"
	case Resource:
		return "resource"
	case NotImplemented:
		return "not implemented"
	case Internal:
		return "internal"
	default:
		return "unknown error kind"
	}
}

// Error makes a bare Kind usable as an errors.Is target.
func (k Kind) Error() string { return k.String() }

// Error is the concrete error type returned across the core/host boundary.
// It always carries a Kind so a caller can dispatch on it with errors.Is
// against the bare Kind value, without needing a type assertion.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets `errors.Is(err, coreerr.InvalidInput)` work directly against a
// bare Kind value.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.Kind == k
}

// New builds an *Error of the given kind.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around an existing cause.
func Wrap(k Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// OfKind reports whether err (or something it wraps) is a core Error of
// kind k.
func OfKind(err error, k Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == k
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
