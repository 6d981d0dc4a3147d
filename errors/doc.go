// Package errors provides structured error types for the witness calculator.
//
// Errors are categorized by Phase (which protocol stage failed) and Kind
// (error category). Every failure at the guest boundary is surfaced as a
// typed *Error; nothing is retried or swallowed internally.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.ModuleLoad("compile module", cause)
//	err := errors.MissingExport("getWitnessSize")
//	err := errors.GuestTrap(errors.PhaseExecute, "setInputSignal", cause)
//
// All errors support errors.Is/As; two *Error values match when Phase and
// Kind agree.
//
// Signal name hash collisions are deliberately NOT an error kind: the
// addressing layer cannot detect them, and avoiding colliding signal names
// is a caller responsibility.
package errors
