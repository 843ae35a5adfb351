//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// ConfigError represents a configuration loading or parsing error.
type ConfigError struct {
	Base Error `json:"error"`

	// File is the path to the configuration file.
	File string `json:"file,omitempty"`
}

// NewConfigError creates a ConfigError.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{
		Base: Error{
			Category: CategoryConfig,
			Code:     CodeConfigParse,
			Message:  message,
			Cause:    cause,
		},
	}
}

// WithFile sets the file path.
func (e *ConfigError) WithFile(file string) *ConfigError {
	e.File = file
	return e
}

// WithHint sets the hint.
func (e *ConfigError) WithHint(hint string) *ConfigError {
	e.Base.WithHint(hint)
	return e
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}

func (e *ConfigError) base() *Error { return &e.Base }
