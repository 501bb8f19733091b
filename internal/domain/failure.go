package domain

import "fmt"

// ErrorClass categorizes fill failures for reporting.
type ErrorClass string

const (
	ErrIdentity ErrorClass = "IDENTITY"
	ErrKind     ErrorClass = "KIND"
	ErrTool     ErrorClass = "TOOL"
	ErrPost     ErrorClass = "POST"
	ErrSpec     ErrorClass = "SPEC"
	ErrIO       ErrorClass = "IO"
)

// FillError is the structured error returned by every stage of the fill pipeline.
type FillError struct {
	Class    ErrorClass
	RunID    string
	Module   string
	Message  string
	ExitCode int      // Tool exit code, TOOL class only
	Details  []string // Tool stderr lines, trace file names, mismatches
	Cause    error
}

// Error implements the error interface.
func (e *FillError) Error() string {
	prefix := string(e.Class)
	if e.RunID != "" {
		prefix += " " + e.RunID
	} else if e.Module != "" {
		prefix += " " + e.Module
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *FillError) Unwrap() error {
	return e.Cause
}

// NewError creates a FillError with the given class and message.
func NewError(class ErrorClass, message string) *FillError {
	return &FillError{Class: class, Message: message}
}

// WrapError creates a FillError wrapping an existing error.
func WrapError(class ErrorClass, message string, cause error) *FillError {
	return &FillError{Class: class, Message: message, Cause: cause}
}

// FillFailure is the persisted form of a failed run or module flush.
type FillFailure struct {
	RunID    string   `json:"run_id,omitempty"`
	Module   string   `json:"module"`
	Class    string   `json:"class"`
	Message  string   `json:"message"`
	ExitCode int      `json:"exit_code,omitempty"`
	Details  []string `json:"details,omitempty"`
	Resolved bool     `json:"resolved,omitempty"` // Toggled from the failures viewer
}
