package source

import "fmt"

// Error codes for source loading.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeParseFailed   = "E004" // Document could not be parsed
	ErrCodeNotFound      = "E005" // Path not found or unreadable
	ErrCodeNotMapping    = "E008" // Top level is not a mapping
	ErrCodeUnknownFormat = "E009" // Unrecognized file extension
	ErrCodeBadArgument   = "E010" // Malformed key=value argument
)

// LoadError represents a failure to produce a source collection.
type LoadError struct {
	Code    string
	Message string
	Path    string // File path or offending argument, if any
	Err     error  // Underlying error (optional)
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
