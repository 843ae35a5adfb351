//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// IOError represents a local filesystem failure while persisting a download.
type IOError struct {
	Base Error `json:"error"`

	// Op is the operation that failed (mkdir, create, write, sync, rename).
	Op string `json:"op"`

	// Path is the file or directory the operation targeted.
	Path string `json:"path,omitempty"`
}

// NewIOError creates an IOError.
func NewIOError(op, path, message string, cause error) *IOError {
	return &IOError{
		Base: Error{
			Category: CategoryIO,
			Code:     CodeIO,
			Message:  message,
			Cause:    cause,
		},
		Op:   op,
		Path: path,
	}
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *IOError) Is(target error) bool {
	t, ok := target.(*IOError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}

func (e *IOError) base() *Error { return &e.Base }
