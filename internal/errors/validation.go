//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import "fmt"

// ValidationError represents an input or configuration validation error.
type ValidationError struct {
	Base Error `json:"error"`

	// Field is the input that failed validation.
	Field string `json:"field,omitempty"`

	// Expected describes what was expected.
	Expected string `json:"expected,omitempty"`

	// Got describes what was received.
	Got string `json:"got,omitempty"`
}

// NewValidationError creates a generic ValidationError.
func NewValidationError(field, expected, got string) *ValidationError {
	return &ValidationError{
		Base: Error{
			Category: CategoryValidation,
			Code:     CodeValidationFailed,
			Message:  fmt.Sprintf("validation failed for %s", field),
		},
		Field:    field,
		Expected: expected,
		Got:      got,
	}
}

// NewInvalidAssetID reports an asset identifier that is not accepted.
func NewInvalidAssetID(got string) *ValidationError {
	return &ValidationError{
		Base: Error{
			Category: CategoryValidation,
			Code:     CodeInvalidAssetID,
			Message:  "invalid asset ID format",
			Hint:     "Copy the ID from the asset URL: https://github.com/user-attachments/assets/<id>",
		},
		Field:    "asset ID",
		Expected: "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx",
		Got:      got,
	}
}

// NewInvalidSourceURL reports an asset URL that is not accepted.
func NewInvalidSourceURL(got, reason string) *ValidationError {
	return &ValidationError{
		Base: Error{
			Category: CategoryValidation,
			Code:     CodeInvalidSourceURL,
			Message:  "invalid source URL: " + reason,
		},
		Field:    "source URL",
		Expected: "http(s) URL on a GitHub host",
		Got:      got,
	}
}

// NewChecksumMismatch reports downloaded content whose digest differs from
// the expected one.
func NewChecksumMismatch(url, expected, got string) *ValidationError {
	e := &ValidationError{
		Base: Error{
			Category: CategoryValidation,
			Code:     CodeChecksumMismatch,
			Message:  "checksum mismatch",
			Hint:     "The destination was left unchanged. Check the expected checksum or the asset source.",
		},
		Field:    "checksum",
		Expected: expected,
		Got:      got,
	}
	e.Base.WithDetail("url", url)
	return e
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}

func (e *ValidationError) base() *Error { return &e.Base }
