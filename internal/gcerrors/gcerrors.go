// Package gcerrors defines the pipeline's own error type: a message plus an
// optional remediation hint shown to the operator, and an optional wrapped
// cause. Mirrors tqerrors' "operator-facing message distinct from the
// technical Error() string" shape.
package gcerrors

import "fmt"

// PipelineError is an error raised by any pipeline stage. Message is the
// technical description (what callers match tests against); Hint, if set,
// is a short remediation suggestion appended for operator-facing output.
type PipelineError struct {
	message string
	hint    string
	wrap    error
}

func (e *PipelineError) Error() string {
	return e.message
}

// Hint returns the remediation suggestion attached to this error, or "" if
// none was set.
func (e *PipelineError) Hint() string {
	return e.hint
}

// Unwrap gives the error this one wraps, if any.
func (e *PipelineError) Unwrap() error {
	return e.wrap
}

// New returns a PipelineError with no hint and no wrapped cause.
func New(message string) error {
	return &PipelineError{message: message}
}

// Newf formats a PipelineError's message.
func Newf(format string, a ...interface{}) error {
	return &PipelineError{message: fmt.Sprintf(format, a...)}
}

// WithHint returns a PipelineError carrying message plus a remediation
// hint, e.g. the syntax-error hints spec.md §4.1 requires ("check for
// unsupported characters or malformed comments").
func WithHint(message, hint string) error {
	return &PipelineError{message: message, hint: hint}
}

// Wrap returns a PipelineError that carries message, an optional hint, and
// wraps cause.
func Wrap(cause error, message, hint string) error {
	return &PipelineError{message: message, hint: hint, wrap: cause}
}

// HintOf returns err's remediation hint if it (or something it wraps) is a
// *PipelineError with one set, else "".
func HintOf(err error) string {
	type hinter interface{ Hint() string }
	for err != nil {
		if h, ok := err.(hinter); ok && h.Hint() != "" {
			return h.Hint()
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ""
}
