package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/dynstruct"
	"github.com/roach88/dynstruct/internal/source"
)

// Process exit codes.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failure
	ExitCommandError = 2 // Command error (bad input, unreadable files, rejected sources, etc.)
)

// Error codes the CLI reports besides the loader and record codes.
const (
	ErrCodeGeneric    = "E001"
	ErrCodeTestFailed = "E_TEST_FAILED"
)

// ExitError carries the process exit code a command failure maps to.
type ExitError struct {
	Code    int // ExitFailure or ExitCommandError
	Message string
	Err     error

	// Reported marks errors the command already wrote to its output.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors that carry no
// ExitError, cobra's argument validation among them, exit with ExitFailure.
func GetExitCode(err error) int {
	if ee, ok := asExitError(err); ok {
		return ee.Code
	}
	return ExitFailure
}

func isReported(err error) bool {
	ee, ok := asExitError(err)
	return ok && ee.Reported
}

func asExitError(err error) (*ExitError, bool) {
	var ee *ExitError
	ok := errors.As(err, &ee)
	return ee, ok
}

// errorCode picks the most specific code carried by err.
func errorCode(err error) string {
	var le *source.LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	var ae *dynstruct.ArgumentError
	if errors.As(err, &ae) {
		return string(ae.Code)
	}
	return ErrCodeGeneric
}

// OutputFormatter writes command results as a JSON envelope or as text.
type OutputFormatter struct {
	Format    string // "json" or "text"
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; Writer when nil
	Verbose   bool
}

// CLIResponse is the JSON envelope every command writes in json mode.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error half of CLIResponse.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "INVALID_ARGUMENT", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

func (f *OutputFormatter) isJSON() bool {
	return f.Format == "json"
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// Success writes data. Text mode prints it with fmt.Println semantics.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes a coded failure. Details appear in text mode only with
// Verbose set.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.isJSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// GetErrWriter returns ErrWriter, or Writer when ErrWriter is unset.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter == nil {
		return f.Writer
	}
	return f.ErrWriter
}
