//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats errors for CLI output.
type Formatter struct {
	NoColor bool
	Writer  io.Writer

	errorColor    *color.Color
	codeColor     *color.Color
	resourceColor *color.Color
	hintColor     *color.Color
	expectedColor *color.Color
	gotColor      *color.Color
	dimColor      *color.Color
}

// NewFormatter creates a new Formatter.
func NewFormatter(w io.Writer, noColor bool) *Formatter {
	if noColor {
		color.NoColor = true
	}

	return &Formatter{
		NoColor:       noColor,
		Writer:        w,
		errorColor:    color.New(color.FgRed, color.Bold),
		codeColor:     color.New(color.FgRed),
		resourceColor: color.New(color.FgCyan),
		hintColor:     color.New(color.FgGreen),
		expectedColor: color.New(color.FgYellow),
		gotColor:      color.New(color.FgRed),
		dimColor:      color.New(color.FgHiBlack),
	}
}

// Print writes the formatted error to the formatter's writer.
func (f *Formatter) Print(err error) {
	fmt.Fprint(f.Writer, f.Format(err))
}

// PrintJSON writes the JSON form of err to the formatter's writer.
func (f *Formatter) PrintJSON(err error) {
	b, jerr := f.FormatJSON(err)
	if jerr != nil {
		f.Print(err)
		return
	}
	fmt.Fprintln(f.Writer, string(b))
}

// formatErrorHeader writes the error header with code.
// Format: "Error [E101]: message" or "Error: message" if no code.
func (f *Formatter) formatErrorHeader(sb *strings.Builder, code Code, message string) {
	sb.WriteString(f.errorColor.Sprint("Error"))
	if code != "" {
		sb.WriteString(" ")
		sb.WriteString(f.codeColor.Sprintf("[%s]", code))
	}
	sb.WriteString(f.errorColor.Sprint(": "))
	sb.WriteString(message)
	sb.WriteString("\n")
}

// Format formats an error for CLI display.
func (f *Formatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	var authErr *AuthError
	var valErr *ValidationError
	var pathErr *PathError
	var networkErr *NetworkError
	var ioErr *IOError
	var configErr *ConfigError
	var baseErr *Error

	switch {
	case errors.As(err, &authErr):
		f.formatAuthError(&sb, authErr)
	case errors.As(err, &valErr):
		f.formatValidationError(&sb, valErr)
	case errors.As(err, &pathErr):
		f.formatPathError(&sb, pathErr)
	case errors.As(err, &networkErr):
		f.formatNetworkError(&sb, networkErr)
	case errors.As(err, &ioErr):
		f.formatIOError(&sb, ioErr)
	case errors.As(err, &configErr):
		f.formatConfigError(&sb, configErr)
	case errors.As(err, &baseErr):
		f.formatBaseError(&sb, baseErr)
	default:
		// Fallback for plain errors (cobra usage errors etc.)
		sb.WriteString(f.errorColor.Sprint("Error: "))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatJSON formats an error as JSON.
func (f *Formatter) FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return nil, nil
	}

	var authErr *AuthError
	var valErr *ValidationError
	var pathErr *PathError
	var networkErr *NetworkError
	var ioErr *IOError
	var configErr *ConfigError
	var baseErr *Error

	switch {
	case errors.As(err, &authErr):
		return json.MarshalIndent(authErr, "", "  ")
	case errors.As(err, &valErr):
		return json.MarshalIndent(valErr, "", "  ")
	case errors.As(err, &pathErr):
		return json.MarshalIndent(pathErr, "", "  ")
	case errors.As(err, &networkErr):
		return json.MarshalIndent(networkErr, "", "  ")
	case errors.As(err, &ioErr):
		return json.MarshalIndent(ioErr, "", "  ")
	case errors.As(err, &configErr):
		return json.MarshalIndent(configErr, "", "  ")
	case errors.As(err, &baseErr):
		return json.MarshalIndent(baseErr, "", "  ")
	default:
		return json.MarshalIndent(map[string]string{"error": err.Error()}, "", "  ")
	}
}

func (f *Formatter) writeField(sb *strings.Builder, label, value string, c *color.Color) {
	if value == "" {
		return
	}
	sb.WriteString("  ")
	sb.WriteString(f.dimColor.Sprint(label))
	if c != nil {
		sb.WriteString(c.Sprint(value))
	} else {
		sb.WriteString(value)
	}
	sb.WriteString("\n")
}

func (f *Formatter) writeCause(sb *strings.Builder, cause error) {
	if cause == nil {
		return
	}
	sb.WriteString("\n  ")
	sb.WriteString(f.dimColor.Sprint("Cause: "))
	sb.WriteString(cause.Error())
	sb.WriteString("\n")
}

func (f *Formatter) formatAuthError(sb *strings.Builder, err *AuthError) {
	f.formatErrorHeader(sb, err.Base.Code, err.Base.Message)
	sb.WriteString("\n")

	f.writeField(sb, "Helper:     ", err.Helper, f.resourceColor)
	f.writeField(sb, "Diagnostic: ", strings.TrimSpace(err.Diagnostic), f.gotColor)
	f.writeCause(sb, err.Base.Cause)
	f.formatHint(sb, &err.Base)
}

func (f *Formatter) formatValidationError(sb *strings.Builder, err *ValidationError) {
	f.formatErrorHeader(sb, err.Base.Code, err.Base.Message)
	sb.WriteString("\n")

	f.writeField(sb, "Field:    ", err.Field, f.resourceColor)
	f.writeField(sb, "Expected: ", err.Expected, f.expectedColor)
	f.writeField(sb, "Got:      ", err.Got, f.gotColor)
	f.writeCause(sb, err.Base.Cause)
	f.formatHint(sb, &err.Base)
}

func (f *Formatter) formatPathError(sb *strings.Builder, err *PathError) {
	f.formatErrorHeader(sb, err.Base.Code, err.Base.Message)
	sb.WriteString("\n")

	f.writeField(sb, "Path:     ", err.Path, f.gotColor)
	f.writeField(sb, "Resolved: ", err.Resolved, f.resourceColor)
	f.writeCause(sb, err.Base.Cause)
	f.formatHint(sb, &err.Base)
}

func (f *Formatter) formatNetworkError(sb *strings.Builder, err *NetworkError) {
	f.formatErrorHeader(sb, err.Base.Code, err.Base.Message)
	sb.WriteString("\n")

	f.writeField(sb, "URL:    ", err.URL, nil)
	if err.StatusCode > 0 {
		f.writeField(sb, "Status: ", fmt.Sprintf("%d", err.StatusCode), f.gotColor)
	}
	f.writeCause(sb, err.Base.Cause)
	f.formatHint(sb, &err.Base)
}

func (f *Formatter) formatIOError(sb *strings.Builder, err *IOError) {
	f.formatErrorHeader(sb, err.Base.Code, err.Base.Message)
	sb.WriteString("\n")

	f.writeField(sb, "Op:   ", err.Op, nil)
	f.writeField(sb, "Path: ", err.Path, f.resourceColor)
	f.writeCause(sb, err.Base.Cause)
	f.formatHint(sb, &err.Base)
}

func (f *Formatter) formatConfigError(sb *strings.Builder, err *ConfigError) {
	f.formatErrorHeader(sb, err.Base.Code, err.Base.Message)
	sb.WriteString("\n")

	f.writeField(sb, "File: ", err.File, f.resourceColor)
	f.writeCause(sb, err.Base.Cause)
	f.formatHint(sb, &err.Base)
}

func (f *Formatter) formatBaseError(sb *strings.Builder, err *Error) {
	f.formatErrorHeader(sb, err.Code, err.Message)
	f.writeCause(sb, err.Cause)
	f.formatHint(sb, err)
}

func (f *Formatter) formatHint(sb *strings.Builder, err *Error) {
	if err.Hint == "" {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(f.hintColor.Sprint("Hint: "))
	// Handle multi-line hints
	lines := strings.Split(err.Hint, "\n")
	sb.WriteString(lines[0])
	sb.WriteString("\n")
	for _, line := range lines[1:] {
		sb.WriteString("      ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
