package builder

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every NotFoundError
	ErrNotFound = errors.New("not found")

	// ErrNoDocument is returned by operations that need a parsed document
	// when none has been parsed yet
	ErrNoDocument = errors.New("no document parsed")
)

// ParseError reports a metamodel file that could not be parsed
type ParseError struct {
	File string
	Err  error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

// Unwrap returns the parser error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// CallbackError reports a failure (or panic) inside a caller supplied function
type CallbackError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *CallbackError) Error() string {
	return fmt.Sprintf("%s callback: %v", e.Op, e.Err)
}

// Unwrap returns the callback's error
func (e *CallbackError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing element or property
type NotFoundError struct {
	// Kind is "element" or "property"
	Kind string
	// Path is the element id, or elementId#propertyName
	Path string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s <%s> does not exist", e.Kind, e.Path)
}

// Is reports whether target is ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IOError reports a failed write of the exported document
type IOError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error
func (e *IOError) Unwrap() error {
	return e.Err
}
