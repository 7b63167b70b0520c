package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the pointer lifecycle the error occurred
type Phase string

const (
	PhaseCreate Phase = "create" // factory construction
	PhaseQuery  Phase = "query"  // QueryInterface
	PhaseClone  Phase = "clone"  // AddRef on a live pointer
	PhaseParse  Phase = "parse"  // GUID parsing
	PhaseHost   Phase = "host"   // platform runtime calls
)

// Kind categorizes the error
type Kind string

const (
	KindNilPointer    Kind = "nil_pointer"
	KindReleased      Kind = "released"
	KindUnsupported   Kind = "unsupported"
	KindInvalidInput  Kind = "invalid_input"
	KindForeignStatus Kind = "foreign_status"
)

// Error is the structured error type used throughout comptr
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Interface string
	IID       string
	Detail    string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Interface != "" || e.IID != "" {
		b.WriteString(": ")
		if e.Interface != "" && e.IID != "" {
			b.WriteString("interface ")
			b.WriteString(e.Interface)
			b.WriteString(", IID ")
			b.WriteString(e.IID)
		} else if e.Interface != "" {
			b.WriteString("interface ")
			b.WriteString(e.Interface)
		} else {
			b.WriteString("IID ")
			b.WriteString(e.IID)
		}
	}

	if e.Detail != "" {
		if e.Interface != "" || e.IID != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Interface sets the foreign interface type name
func (b *Builder) Interface(name string) *Builder {
	b.err.Interface = name
	return b
}

// IID sets the interface identifier
func (b *Builder) IID(iid string) *Builder {
	b.err.IID = iid
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NilPointer creates an error for a foreign call that reported success
// but produced no object.
func NilPointer(phase Phase, iface, iid string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindNilPointer,
		Interface: iface,
		IID:       iid,
		Detail:    "unexpected nil pointer on reported success",
	}
}

// Released creates an error for an operation on a pointer that no longer
// owns a reference.
func Released(phase Phase, iface string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindReleased,
		Interface: iface,
		Detail:    "pointer already released or detached",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
		Value:  value,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, value string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("parse %s", what),
		Value:  value,
		Cause:  cause,
	}
}

// Foreign wraps a failing platform call whose status is not itself an
// error value (for example a lazily loaded procedure that could not be found).
func Foreign(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindForeignStatus,
		Detail: detail,
		Cause:  cause,
	}
}
