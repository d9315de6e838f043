// Package cli holds the process plumbing shared by the jiractl commands:
// error reporting and exit codes, signal handling, verbosity and telemetry
// setup.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var errOut io.Writer = os.Stderr

// ExitError ends a command with a non-zero exit code. Err is printed as
// "Error: ..." followed by Hint when set. A nil Err exits without a message,
// for failures the command has already narrated.
type ExitError struct {
	Code int
	Err  error
	Hint string
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Fail returns an error that exits with code 1 after printing err.
//
// Example:
//
//	if err := cfg.ValidateJira(); err != nil {
//	    return cli.Fail(err)
//	}
func Fail(err error) error {
	return &ExitError{Code: 1, Err: err}
}

// Failf is Fail with a formatted message.
func Failf(format string, args ...interface{}) error {
	return Fail(fmt.Errorf(format, args...))
}

// FailWithHint is Fail plus an actionable suggestion printed after the error.
func FailWithHint(err error, hint string) error {
	return &ExitError{Code: 1, Err: err, Hint: hint}
}

// Silent returns an error that exits with code without printing anything.
func Silent(code int) error {
	return &ExitError{Code: code}
}

// Report writes err to stderr and returns the process exit code for it:
// 0 for nil, the ExitError code when err carries one, 1 otherwise.
func Report(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	if exitErr.Err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", exitErr.Err)
	}
	if exitErr.Hint != "" {
		fmt.Fprintf(errOut, "Hint: %s\n", exitErr.Hint)
	}
	return exitErr.Code
}

// WarnError writes a warning message to stderr and returns.
// Use this for optional operations that enhance functionality but aren't required.
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(errOut, "Warning: "+format+"\n", args...)
}
