package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which stage of the witness protocol the error occurred in
type Phase string

const (
	PhaseLoad     Phase = "load"     // module compilation and instantiation
	PhaseDiscover Phase = "discover" // prime and field-size discovery
	PhaseInput    Phase = "input"    // input signal transfer
	PhaseExecute  Phase = "execute"  // circuit execution
	PhaseExtract  Phase = "extract"  // witness read-back
	PhaseEncode   Phase = "encode"   // limb encoding/decoding
	PhaseParse    Phase = "parse"    // input file parsing
)

// Kind categorizes the error
type Kind string

const (
	KindModuleLoad    Kind = "module_load"    // malformed or unparsable module bytes
	KindMissingExport Kind = "missing_export" // required guest function absent
	KindGuestTrap     Kind = "guest_trap"     // guest signaled an error or faulted
	KindNegativeInput Kind = "negative_input" // value not representable on the wire
	KindOverflow      Kind = "overflow"       // value exceeds the limb width
	KindInvalidInput  Kind = "invalid_input"  // malformed caller-supplied data
	KindNotFound      Kind = "not_found"      // named thing absent
)

// Error is the structured error type used throughout the calculator
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Export string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Export != "" {
		b.WriteString(" at ")
		b.WriteString(e.Export)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err is (or wraps) an *Error of the given kind,
// regardless of phase.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Convenience constructors for common error patterns

// ModuleLoad creates an error for malformed or uncompilable module bytes
func ModuleLoad(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindModuleLoad,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingExport creates an error for a required guest function that is absent
func MissingExport(names ...string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindMissingExport,
		Export: strings.Join(names, ", "),
		Detail: "required guest export not found",
	}
}

// GuestTrap creates an error for a guest-side fault. export names the guest
// call in flight when the trap surfaced.
func GuestTrap(phase Phase, export string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindGuestTrap,
		Export: export,
		Cause:  cause,
	}
}

// GuestReport creates an error for a guest that invoked the host's error
// callback with an error code and message.
func GuestReport(phase Phase, code uint32, message string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindGuestTrap,
		Detail: fmt.Sprintf("guest error %d: %s", code, message),
		Value:  code,
	}
}

// NegativeInput creates an error for a value the wire format cannot carry
func NegativeInput(value any) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindNegativeInput,
		Detail: fmt.Sprintf("value %v is negative; the wire format carries only non-negative representatives", value),
		Value:  value,
	}
}

// Overflow creates an error for a value exceeding the field's limb width
func Overflow(value any, width int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("value %v does not fit in %d 32-bit limbs", value, width),
		Value:  value,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// WithPhase returns err re-attributed to the given protocol phase. Guest
// boundary errors are produced before the protocol engine knows which stage
// is in flight; the engine re-phases them on the way out. Non-*Error values
// are wrapped as guest traps in that phase.
func WithPhase(err error, phase Phase) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		clone := *e
		clone.Phase = phase
		return &clone
	}
	return &Error{Phase: phase, Kind: KindGuestTrap, Cause: err}
}

// Wrap wraps an existing error with phase and kind context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
