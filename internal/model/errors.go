package model

import "fmt"

// ExitCode defines the samsort process exit codes. These codes let job
// schedulers and pipeline frameworks programmatically distinguish failure
// classes. Codes above the reserved range are container exit codes
// propagated verbatim.
type ExitCode int

const (
	// ExitSuccess indicates the run completed and the sorted BAM was written.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates validation or execution failure: missing
	// required values, input never staged, exec method outside the
	// profile's supported set, or runtime detection failure.
	ExitGeneralError ExitCode = 1

	// ExitUsageError indicates a malformed command line (flag syntax error).
	ExitUsageError ExitCode = 2

	// ExitUnknownFlag indicates an unrecognized flag was given.
	ExitUnknownFlag ExitCode = 3
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes at the single exit boundary.
//
// When the invoked container command fails, Code holds that command's
// exit code unchanged, so schedulers observe the same code they would
// have seen running samtools directly.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
