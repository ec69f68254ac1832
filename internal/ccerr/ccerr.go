// Package ccerr holds the one error type every compilation stage can raise
// and the Classify helper the CLI uses to pick a message prefix for it.
package ccerr

import "errors"

// InternalError marks an invariant violation inside the compiler itself
// (a pseudo-operand reaching the emitter, an unbound temporary) rather than
// a problem with the user's input. It is reported distinctly from
// IOError/DriverError/LexError/ParseError so the two classes are never
// confused while triaging a failure.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return e.Msg }

// Kind classifies an error for the CLI's exit-message prefix. It does not
// affect the exit code: every failure exits 1.
type Kind int

const (
	KindUser Kind = iota
	KindInternal
)

// Classify reports whether err is an InternalError (KindInternal) or
// anything else (KindUser, the IOError/DriverError/LexError/ParseError
// family each package defines for itself). cmd/dcc uses this to decide
// whether to prepend "internal error:" before printing, so the two classes
// stay visually distinct at the one place the program writes to stderr.
func Classify(err error) Kind {
	var internal *InternalError
	if errors.As(err, &internal) {
		return KindInternal
	}
	return KindUser
}
