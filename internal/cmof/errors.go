package cmof

import "fmt"

// SyntaxError reports a problem in a metamodel file
type SyntaxError struct {
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Unwrap returns the underlying decoder error, if any
func (e *SyntaxError) Unwrap() error {
	return e.Err
}
