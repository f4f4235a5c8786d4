// Package errors provides structured error handling for shadow tree construction.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfiguration indicates a wiring defect, such as asking a descriptor
	// for a node of another kind or registering into a frozen registry.
	KindConfiguration
	// KindDuplicateKind indicates a kind name registered twice.
	KindDuplicateKind
	// KindUnknownKind indicates a lookup miss for a kind name.
	KindUnknownKind
	// KindInvalidProps indicates props rejected by a descriptor.
	KindInvalidProps
	// KindInvalidChildren indicates a child list rejected by a container.
	KindInvalidChildren
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindDuplicateKind:
		return "duplicate_kind"
	case KindUnknownKind:
		return "unknown_kind"
	case KindInvalidProps:
		return "invalid_props"
	case KindInvalidChildren:
		return "invalid_children"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinels matched by [NodeError] through errors.Is.
var (
	ErrConfiguration   = stderrors.New("configuration error")
	ErrDuplicateKind   = stderrors.New("duplicate kind")
	ErrUnknownKind     = stderrors.New("unknown kind")
	ErrInvalidProps    = stderrors.New("invalid props")
	ErrInvalidChildren = stderrors.New("invalid children")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindDuplicateKind:
		return ErrDuplicateKind
	case KindUnknownKind:
		return ErrUnknownKind
	case KindInvalidProps:
		return ErrInvalidProps
	case KindInvalidChildren:
		return ErrInvalidChildren
	default:
		return nil
	}
}

// NodeError is the error type returned by registries, descriptors and builders.
type NodeError struct {
	// Op is the operation that failed (e.g., "core.Registry.Register").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// KindName is the element kind involved, if any.
	KindName string
	// Err is the underlying cause. May be nil.
	Err error
	// StackTrace contains the call stack, when captured.
	StackTrace string
	// Timestamp is when the error was reported.
	Timestamp time.Time
}

func (e *NodeError) Error() string {
	msg := fmt.Sprintf("%s [%s]", e.Op, e.Kind)
	if e.KindName != "" {
		msg += fmt.Sprintf(" kind=%s", e.KindName)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *NodeError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// New returns a NodeError of the given kind.
func New(op string, kind ErrorKind, kindName string, err error) *NodeError {
	return &NodeError{Op: op, Kind: kind, KindName: kindName, Err: err}
}

// Configuration returns a KindConfiguration error with a formatted cause.
func Configuration(op, kindName, format string, args ...any) *NodeError {
	return New(op, KindConfiguration, kindName, fmt.Errorf(format, args...))
}

// DuplicateKind returns a KindDuplicateKind error.
func DuplicateKind(op, kindName string) *NodeError {
	return New(op, KindDuplicateKind, kindName, nil)
}

// UnknownKind returns a KindUnknownKind error.
func UnknownKind(op, kindName string) *NodeError {
	return New(op, KindUnknownKind, kindName, nil)
}

// InvalidProps wraps a props decoding or validation failure.
func InvalidProps(op, kindName string, err error) *NodeError {
	return New(op, KindInvalidProps, kindName, err)
}

// InvalidChildren returns a KindInvalidChildren error with a formatted cause.
func InvalidChildren(op, kindName, format string, args ...any) *NodeError {
	return New(op, KindInvalidChildren, kindName, fmt.Errorf(format, args...))
}

// KindOf returns the ErrorKind of the first NodeError in err's chain.
func KindOf(err error) ErrorKind {
	var ne *NodeError
	if stderrors.As(err, &ne) {
		return ne.Kind
	}
	var pe *PanicError
	if stderrors.As(err, &pe) {
		return KindPanic
	}
	return KindUnknown
}

// KindNameOf returns the element kind attached to err, or "".
func KindNameOf(err error) string {
	var ne *NodeError
	if stderrors.As(err, &ne) {
		return ne.KindName
	}
	var pe *PanicError
	if stderrors.As(err, &pe) {
		return pe.KindName
	}
	return ""
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "builder.Build").
	Op string
	// KindName is the element kind being materialized, if known.
	KindName string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported through [Report] and [ReportPanic].
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *NodeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
