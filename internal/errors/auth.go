//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// AuthError represents a failure to obtain a credential from the auth helper.
type AuthError struct {
	Base Error `json:"error"`

	// Helper is the command that was invoked (e.g. "gh auth token").
	Helper string `json:"helper,omitempty"`

	// Diagnostic is the helper's own error output, if any.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// NewAuthUnavailable reports that the auth helper could not be started.
func NewAuthUnavailable(helper string, cause error) *AuthError {
	return &AuthError{
		Base: Error{
			Category: CategoryAuth,
			Code:     CodeAuthUnavailable,
			Message:  "failed to execute auth helper",
			Hint:     "Make sure GitHub CLI is installed and available on PATH.",
			Cause:    cause,
		},
		Helper: helper,
	}
}

// NewAuthDenied reports that the auth helper exited unsuccessfully.
func NewAuthDenied(helper, diagnostic string, cause error) *AuthError {
	return &AuthError{
		Base: Error{
			Category: CategoryAuth,
			Code:     CodeAuthDenied,
			Message:  "GitHub CLI authentication failed",
			Hint:     "Run 'gh auth login' and try again.",
			Cause:    cause,
		},
		Helper:     helper,
		Diagnostic: diagnostic,
	}
}

// NewAuthEmpty reports that the auth helper succeeded without yielding a token.
func NewAuthEmpty(helper string) *AuthError {
	return &AuthError{
		Base: Error{
			Category: CategoryAuth,
			Code:     CodeAuthEmpty,
			Message:  "GitHub CLI token is empty",
			Hint:     "Run 'gh auth login' first.",
		},
		Helper: helper,
	}
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Diagnostic != "" {
		return e.Base.Message + ": " + e.Diagnostic
	}
	return e.Base.Error()
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}

func (e *AuthError) base() *Error { return &e.Base }
