package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrIndexNotBuilt is returned when a query runs before the first successful rebuild
	ErrIndexNotBuilt = errors.New("index not built")

	// ErrRebuildInProgress is returned when a rebuild is requested while another one holds the writer lock
	ErrRebuildInProgress = errors.New("rebuild already in progress")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrQuerySyntax is returned when a boolean query cannot be parsed
	ErrQuerySyntax = errors.New("query syntax error")

	// ErrSourceUnavailable is returned when the record source cannot be read
	ErrSourceUnavailable = errors.New("record source unavailable")

	// ErrUnsupportedFormat is returned for record files the reader does not understand
	ErrUnsupportedFormat = errors.New("unsupported record format")

	// ErrReportExists is returned when a report target exists and overwrite is disabled
	ErrReportExists = errors.New("report already exists")

	// ErrStorageUnavailable is returned when the index snapshot cannot be written or read
	ErrStorageUnavailable = errors.New("index storage unavailable")

	// ErrClassifierNotTrained is returned when Predict is called before Train
	ErrClassifierNotTrained = errors.New("classifier not trained")

	// ErrMismatchedPositions is returned when two document vectors were built over different term position maps
	ErrMismatchedPositions = errors.New("vectors use different term position maps")
)

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// QuerySyntaxError describes where a boolean query stopped making sense.
// Position is the byte offset in Query, or -1 when the error is about the query as a whole.
type QuerySyntaxError struct {
	Query    string
	Position int
	Message  string
}

func (e *QuerySyntaxError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("query syntax error at position %d in '%s': %s", e.Position, e.Query, e.Message)
	}
	return fmt.Sprintf("query syntax error in '%s': %s", e.Query, e.Message)
}

func (e *QuerySyntaxError) Is(target error) bool {
	return target == ErrQuerySyntax
}

// NewQuerySyntaxError creates a new QuerySyntaxError
func NewQuerySyntaxError(query string, position int, message string) *QuerySyntaxError {
	return &QuerySyntaxError{Query: query, Position: position, Message: message}
}

// SourceError wraps an I/O failure while reading a record or keyword file
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to read records from '%s': %v", e.Path, e.Err)
}

func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError
func NewSourceError(path string, err error) *SourceError {
	return &SourceError{Path: path, Err: err}
}

// UnsupportedFormatError is returned for record files with an unknown extension
type UnsupportedFormatError struct {
	Path      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported record format '%s' for file '%s'", e.Extension, e.Path)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// NewUnsupportedFormatError creates a new UnsupportedFormatError
func NewUnsupportedFormatError(path, extension string) *UnsupportedFormatError {
	return &UnsupportedFormatError{Path: path, Extension: extension}
}

// ReportExistsError is returned when a report file is present and overwrite is false
type ReportExistsError struct {
	Path string
}

func (e *ReportExistsError) Error() string {
	return fmt.Sprintf("report '%s' already exists", e.Path)
}

func (e *ReportExistsError) Is(target error) bool {
	return target == ErrReportExists
}

// NewReportExistsError creates a new ReportExistsError
func NewReportExistsError(path string) *ReportExistsError {
	return &ReportExistsError{Path: path}
}

// StorageError wraps failures of the index snapshot store
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("index storage %s '%s' failed: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(op, path string, err error) *StorageError {
	return &StorageError{Op: op, Path: path, Err: err}
}
