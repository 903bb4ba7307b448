package xilcore

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds, per the core's error taxonomy (spec.md §7). OutOfRange,
// InvalidConfiguration and NotImplemented are programming errors:
// raised at the call site (or pre_initialize/initialize for
// InvalidConfiguration) and never caught inside the core. NotApplicable
// is a data-level signal a mapper uses to decline an instruction; it is
// not propagated as an error at all, only returned as a value (an
// empty mapping sequence or a nil IXILMapping).
type kind int

const (
	kindOutOfRange kind = iota
	kindInvalidConfiguration
	kindNotImplemented
)

// CoreError wraps one of the taxonomy kinds with a pkg/errors stack
// trace, so callers that want "the offending component identity and
// the argument that violated the precondition" (spec.md §7) can format
// %+v on it the same way hwsim_test.go's trace() helper does.
type CoreError struct {
	kind kind
	msg  string
	err  error
}

func (e *CoreError) Error() string { return e.msg }

// Unwrap exposes the underlying stack-tracing error for errors.Is/As
// and for StackTrace() callers.
func (e *CoreError) Unwrap() error { return e.err }

// IsOutOfRange reports whether err is (or wraps) an OutOfRange error.
func IsOutOfRange(err error) bool { return isKind(err, kindOutOfRange) }

// IsInvalidConfiguration reports whether err is (or wraps) an
// InvalidConfiguration error.
func IsInvalidConfiguration(err error) bool { return isKind(err, kindInvalidConfiguration) }

// IsNotImplemented reports whether err is (or wraps) a NotImplemented error.
func IsNotImplemented(err error) bool { return isKind(err, kindNotImplemented) }

func isKind(err error, k kind) bool {
	var ce *CoreError
	for err != nil {
		if c, ok := err.(*CoreError); ok {
			ce = c
			break
		}
		err = errors.Unwrap(err)
	}
	return ce != nil && ce.kind == k
}

func newOutOfRange(what string, got interface{}, constraint string) error {
	msg := fmt.Sprintf("%s: value %v out of range (%s)", what, got, constraint)
	return &CoreError{kind: kindOutOfRange, msg: msg, err: errors.New(msg)}
}

// NewOutOfRange constructs an OutOfRange error for a numeric argument
// outside its declared domain (spec.md §7): negative counts, IDs beyond
// element count, latency < 1.
func NewOutOfRange(what string, got interface{}, constraint string) error {
	return newOutOfRange(what, got, constraint)
}

func newInvalidConfiguration(component, reason string) error {
	msg := fmt.Sprintf("%s: invalid configuration: %s", component, reason)
	return &CoreError{kind: kindInvalidConfiguration, msg: msg, err: errors.New(msg)}
}

// NewInvalidConfiguration constructs an InvalidConfiguration error: a
// width or lifecycle precondition violated, raised in pre_initialize
// and fatal to simulation start-up (spec.md §7).
func NewInvalidConfiguration(component, reason string) error {
	return newInvalidConfiguration(component, reason)
}

// NewNotImplemented constructs a NotImplemented error: reached only
// when a XILInstr.Name matched the coarse opcode family check of a
// mapper but not any specific arm, indicating a programming error in
// that mapper (spec.md §7).
func NewNotImplemented(mapper, instr string) error {
	msg := fmt.Sprintf("%s: instruction %q matched opcode family but no mapping arm", mapper, instr)
	return &CoreError{kind: kindNotImplemented, msg: msg, err: errors.New(msg)}
}

// WithStack wraps err with the call site's stack trace, for components
// that want to attach one without going through one of the typed
// constructors above (mirrors errors.Wrap usage across the teacher
// repo's chip.go/wiring.go).
func WithStack(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}
