package errors

import (
	"fmt"
	"time"
)

// Error types for the cross-reference index builder
type ErrorType string

const (
	// Startup errors: unreadable/malformed descriptor, unwritable output
	ErrorTypeStartup ErrorType = "startup"

	// Extraction errors: the frontend could not parse a source file
	ErrorTypeExtraction ErrorType = "extraction"

	// Schema errors: merge or row append against an incompatible schema
	ErrorTypeSchema ErrorType = "schema"

	// State errors: mutation attempted on a read-only index
	ErrorTypeState ErrorType = "state"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// StartupError represents a fatal error detected before the pipeline dispatches
// any work. It always terminates the process with a non-zero exit code.
type StartupError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewStartupError creates a new startup error with context
func NewStartupError(op, path string, err error) *StartupError {
	return &StartupError{
		Type:       ErrorTypeStartup,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *StartupError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *StartupError) Unwrap() error {
	return e.Underlying
}

// ExtractionError represents a per-file parse failure. It is always
// recoverable: the owning task contributes an empty per-file index and the
// pipeline proceeds.
type ExtractionError struct {
	Type       ErrorType
	FilePath   string
	Flags      []string
	Underlying error
	Timestamp  time.Time
}

// NewExtractionError creates a new extraction error for a source file
func NewExtractionError(path string, flags []string, err error) *ExtractionError {
	return &ExtractionError{
		Type:       ErrorTypeExtraction,
		FilePath:   path,
		Flags:      flags,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.FilePath, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ExtractionError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable reports whether the pipeline may continue past this error.
// Extraction failures never escalate beyond the owning task.
func (e *ExtractionError) IsRecoverable() bool {
	return true
}

// SchemaError represents a schema mismatch: a row of the wrong width, a
// duplicate table registration, or a merge between structurally different
// indexes. It indicates a programming defect and is treated as fatal.
type SchemaError struct {
	Type      ErrorType
	Table     string
	Operation string
	Detail    string
	Timestamp time.Time
}

// NewSchemaError creates a new schema error
func NewSchemaError(op, table, detail string) *SchemaError {
	return &SchemaError{
		Type:      ErrorTypeSchema,
		Table:     table,
		Operation: op,
		Detail:    detail,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("schema %s failed for table %q: %s", e.Operation, e.Table, e.Detail)
	}
	return fmt.Sprintf("schema %s failed: %s", e.Operation, e.Detail)
}

// StateError represents a mutation attempted on a read-only index. Like
// SchemaError it indicates misuse, not recoverable data.
type StateError struct {
	Type      ErrorType
	Index     string
	Operation string
	Timestamp time.Time
}

// NewStateError creates a new state error
func NewStateError(op, index string) *StateError {
	return &StateError{
		Type:      ErrorTypeState,
		Index:     index,
		Operation: op,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *StateError) Error() string {
	return fmt.Sprintf("%s rejected: index %q is read-only", e.Operation, e.Index)
}
