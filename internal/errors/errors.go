// Package errors provides the structured error type (NavError) used for
// category-based classification of build failures and CLI exit codes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a navtree error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Tree construction and export errors
	CategoryTree       ErrorCategory = "tree"
	CategoryFormat     ErrorCategory = "format"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryPlugin   ErrorCategory = "plugin"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the build
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
)

// Sentinel kinds. Match them with errors.Is; a NavError reports Is(kind) for the
// kind it was created with.
var (
	ErrMissingRootPage          = stderrors.New("missing root page")
	ErrMissingDirectionalBranch = stderrors.New("missing directional branch")
	ErrEmptyPagePath            = stderrors.New("page path has no segments")
	ErrMissingParent            = stderrors.New("missing parent node")
	ErrDuplicateKey             = stderrors.New("duplicate sibling key")
	ErrInvalidConfig            = stderrors.New("invalid configuration")
)

// ContextFields carries structured context for NavError
type ContextFields map[string]any

// NavError is a structured error with category, severity and context
type NavError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Kind     error         `json:"-"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// Error implements the error interface
func (e *NavError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *NavError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel kind of this error.
func (e *NavError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// WithContext adds context information to the error
func (e *NavError) WithContext(key string, value any) *NavError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithKind tags the error with a sentinel kind.
func (e *NavError) WithKind(kind error) *NavError {
	e.Kind = kind
	return e
}

// New creates a new NavError
func New(category ErrorCategory, severity ErrorSeverity, message string) *NavError {
	return &NavError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new NavError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *NavError {
	return &NavError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As extracts the first NavError from an error chain.
func As(err error) (*NavError, bool) {
	var ne *NavError
	if stderrors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// IsCategory checks if an error chain contains a NavError of the given category
func IsCategory(err error, category ErrorCategory) bool {
	if ne, ok := As(err); ok {
		return ne.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a NavError
func GetCategory(err error) ErrorCategory {
	if ne, ok := As(err); ok {
		return ne.Category
	}
	return CategoryInternal
}
