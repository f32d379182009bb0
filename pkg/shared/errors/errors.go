package errors

import (
	"fmt"
)

const (
	ExitCodeInvalidArgs = 1
	ExitCodeReportWrite = 2
)

// ReportWriteError is returned when a finished analysis could not be persisted.
// It is the only pipeline failure that is surfaced to the caller.
type ReportWriteError struct {
	Path string
	Err  error
}

func (e *ReportWriteError) Error() string {
	return fmt.Sprintf("failed to write report %q: %v", e.Path, e.Err)
}

func (e *ReportWriteError) Unwrap() error {
	return e.Err
}

// NewReportWriteError wraps err with the artifact path that could not be written.
func NewReportWriteError(path string, err error) error {
	return &ReportWriteError{Path: path, Err: err}
}

// CommandError represents an error that occurred during command execution along with its exit code.
type CommandError struct {
	ExitCode    int
	CommonError string
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError from err with the given exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
	}
}
