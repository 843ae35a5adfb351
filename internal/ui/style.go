package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Style holds common output styling for CLI commands.
type Style struct {
	SuccessMark string
	FailMark    string
	Path        *color.Color
	Step        *color.Color
}

// NewStyle creates a new Style with standard colors.
func NewStyle() *Style {
	return &Style{
		SuccessMark: color.New(color.FgGreen).Sprint("✓"),
		FailMark:    color.New(color.FgRed).Sprint("✗"),
		Path:        color.New(color.FgCyan),
		Step:        color.New(color.FgYellow),
	}
}

// PrintDownloading prints the line announcing a download.
func PrintDownloading(w io.Writer, source, dest string) {
	s := NewStyle()
	fmt.Fprintf(w, "%s %s to %s\n", s.Step.Sprint("Downloading"), source, s.Path.Sprint(dest))
}

// PrintDownloaded prints the line confirming a finished download.
func PrintDownloaded(w io.Writer, dest string) {
	s := NewStyle()
	fmt.Fprintf(w, "%s Successfully downloaded to %s\n", s.SuccessMark, s.Path.Sprint(dest))
}

// PrintFailed prints the line reporting a download that did not complete.
// The error itself is reported separately on stderr.
func PrintFailed(w io.Writer, dest string) {
	s := NewStyle()
	fmt.Fprintf(w, "%s Failed to download to %s\n", s.FailMark, s.Path.Sprint(dest))
}
