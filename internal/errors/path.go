//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// PathError represents a destination path that failed safety validation.
type PathError struct {
	Base Error `json:"error"`

	// Path is the destination as given by the user.
	Path string `json:"path"`

	// Resolved is the absolute path the check was applied to, if known.
	Resolved string `json:"resolved,omitempty"`
}

func newPathError(code Code, message, path string) *PathError {
	return &PathError{
		Base: Error{
			Category: CategoryPath,
			Code:     code,
			Message:  message,
		},
		Path: path,
	}
}

// NewPathTraversal reports a destination containing "..".
func NewPathTraversal(path string) *PathError {
	return newPathError(CodePathTraversal, "path traversal detected in destination path", path)
}

// NewSystemDirectoryDenied reports a destination under a system directory.
func NewSystemDirectoryDenied(path string) *PathError {
	return newPathError(CodeSystemDirectoryDenied, "access to system directories is not allowed", path)
}

// NewOutsideWorkingDirectory reports a relative destination that resolves
// outside the working directory.
func NewOutsideWorkingDirectory(path, resolved string) *PathError {
	e := newPathError(CodeOutsideWorkingDirectory, "destination path must be within current directory", path)
	e.Resolved = resolved
	return e
}

// NewInvalidFilename reports an empty, blank or NUL-containing file name.
func NewInvalidFilename(path string) *PathError {
	return newPathError(CodeInvalidFilename, "invalid filename", path)
}

// NewMissingDirectory reports a destination written as a directory (with a
// trailing separator) that does not exist.
func NewMissingDirectory(path string) *PathError {
	e := newPathError(CodeInvalidFilename, "destination directory does not exist", path)
	e.Base.WithHint("Create the directory first, or drop the trailing slash to save to a file.")
	return e
}

// WithCause sets the underlying error.
func (e *PathError) WithCause(cause error) *PathError {
	e.Base.Cause = cause
	return e
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *PathError) Is(target error) bool {
	t, ok := target.(*PathError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}

func (e *PathError) base() *Error { return &e.Base }
