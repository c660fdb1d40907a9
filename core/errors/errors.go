// Package errors provides standardized error types and helpers for the geomkit codebase.
package errors

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Sentinel errors for common cases
var (
	// ErrInvalidGeometry indicates a structural geometry invariant was violated
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrCannotParse indicates a codec could not interpret its input
	ErrCannotParse = errors.New("cannot parse")
	// ErrInvalidXML indicates malformed XML input
	ErrInvalidXML = errors.New("invalid XML")
	// ErrUnsupportedFormat indicates a format tag outside the codec registry
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnsupportedOperation indicates a capability that is not available
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// excerptLimit is the maximum number of characters of offending input
// carried inside a ParseError before ellipsis truncation.
const excerptLimit = 50

// InvalidGeometryError reports a violated construction invariant.
// Construction fails outright; an invalid instance is never produced.
type InvalidGeometryError struct {
	GeomType string // Geometry kind under construction (e.g., "LineString")
	Reason   string // The violated invariant
	Err      error  // Underlying error, if any
}

func (e *InvalidGeometryError) Error() string {
	if e.GeomType != "" {
		return fmt.Sprintf("invalid %s: %s", e.GeomType, e.Reason)
	}
	return fmt.Sprintf("invalid geometry: %s", e.Reason)
}

func (e *InvalidGeometryError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidGeometry
}

// ParseError reports input a codec could not interpret. Excerpt carries a
// truncated sample of the offending bytes for diagnosis.
type ParseError struct {
	Format  string // Format being parsed (e.g., "wkb", "geojson")
	Excerpt string // Truncated sample of the offending input
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Excerpt != "" {
		return fmt.Sprintf("failed to parse %s: %s: %q", e.Format, e.Message, e.Excerpt)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrCannotParse
}

// XMLError reports malformed XML, distinguishable from both ParseError
// (well-formed input the codec cannot interpret) and InvalidGeometryError.
type XMLError struct {
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *XMLError) Error() string {
	return fmt.Sprintf("invalid XML: %s", e.Message)
}

func (e *XMLError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidXML
}

// UnsupportedFormatError reports a format tag that has no registered codec.
type UnsupportedFormatError struct {
	Format string // The unknown format tag
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s", e.Format)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// UnsupportedOperationError reports an operation whose backing capability
// (typically the native geometry engine) is unavailable.
type UnsupportedOperationError struct {
	Operation string // Operation that was attempted
	Reason    string // Why it is not available
	Err       error  // Underlying error, if any
}

func (e *UnsupportedOperationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported operation %s: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("unsupported operation %s", e.Operation)
}

func (e *UnsupportedOperationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupportedOperation
}

// Helper functions for creating common errors

// NewInvalidGeometry creates an InvalidGeometryError.
func NewInvalidGeometry(geomType, reason string) *InvalidGeometryError {
	return &InvalidGeometryError{
		GeomType: geomType,
		Reason:   reason,
	}
}

// NewParse creates a ParseError, truncating input to the excerpt limit.
func NewParse(format string, input []byte, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Excerpt: Excerpt(input),
		Message: message,
	}
}

// NewXML creates an XMLError.
func NewXML(message string, err error) *XMLError {
	return &XMLError{
		Message: message,
		Err:     err,
	}
}

// NewUnsupportedFormat creates an UnsupportedFormatError.
func NewUnsupportedFormat(format string) *UnsupportedFormatError {
	return &UnsupportedFormatError{Format: format}
}

// NewUnsupportedOperation creates an UnsupportedOperationError.
func NewUnsupportedOperation(operation, reason string) *UnsupportedOperationError {
	return &UnsupportedOperationError{
		Operation: operation,
		Reason:    reason,
	}
}

// Excerpt returns a diagnostic sample of raw input, ellipsis-truncated to 50
// characters. Invalid UTF-8 (binary input) is rendered byte-wise so the
// excerpt stays printable.
func Excerpt(input []byte) string {
	s := string(input)
	if !utf8.ValidString(s) {
		s = fmt.Sprintf("% x", input)
	}
	runes := []rune(s)
	if len(runes) <= excerptLimit {
		return s
	}
	return string(runes[:excerptLimit]) + "..."
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
