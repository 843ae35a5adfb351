// Package errors provides structured error types for gh-asset.
// These errors carry rich context information that can be formatted
// for human-readable CLI output or machine-readable JSON.
//
//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import "errors"

// Category represents the classification of an error.
type Category string

const (
	CategoryAuth       Category = "auth"
	CategoryValidation Category = "validation"
	CategoryPath       Category = "path"
	CategoryNetwork    Category = "network"
	CategoryIO         Category = "io"
	CategoryConfig     Category = "config"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Auth errors (E1xx)
	CodeAuthUnavailable Code = "E101"
	CodeAuthDenied      Code = "E102"
	CodeAuthEmpty       Code = "E103"

	// Validation errors (E2xx)
	CodeInvalidAssetID   Code = "E201"
	CodeInvalidSourceURL Code = "E202"
	CodeValidationFailed Code = "E203"
	CodeChecksumMismatch Code = "E204"

	// Destination path errors (E3xx)
	CodePathTraversal           Code = "E301"
	CodeSystemDirectoryDenied   Code = "E302"
	CodeOutsideWorkingDirectory Code = "E303"
	CodeInvalidFilename         Code = "E304"

	// Network errors (E4xx)
	CodeNetworkFailed Code = "E401"
	CodeHTTPError     Code = "E402"

	// Filesystem errors (E5xx)
	CodeIO Code = "E501"

	// Config errors (E6xx)
	CodeConfigParse Code = "E601"
)

// Error is the base error type for gh-asset.
// It provides structured information that can be formatted for CLI output.
type Error struct {
	// Category classifies the error type.
	Category Category `json:"category"`

	// Code is a machine-readable error code.
	Code Code `json:"code,omitempty"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Details contains additional context information.
	Details map[string]any `json:"details,omitempty"`

	// Hint provides actionable advice for the user.
	Hint string `json:"hint,omitempty"`

	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error.
// It matches if the target is an *Error with the same Code (if both have codes).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code != "" && t.Code != "" {
		return e.Code == t.Code
	}
	return e.Category == t.Category && e.Message == t.Message
}

// WithHint sets the hint and returns the error for chaining.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithDetail adds a detail and returns the error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// coded is implemented by every structured error in this package.
type coded interface {
	base() *Error
}

func (e *Error) base() *Error { return e }

// CodeOf returns the first non-empty code in err's chain,
// or an empty Code if there is none.
func CodeOf(err error) Code {
	for err != nil {
		if c, ok := err.(coded); ok && c.base().Code != "" {
			return c.base().Code
		}
		err = errors.Unwrap(err)
	}
	return ""
}
