// Package printer renders command results as text, JSON or YAML.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-yaml"

	ghaerrors "github.com/yuitosato/gh-asset/internal/errors"
)

// Format is an output format name as given on the command line.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Field is one row of the text form.
type Field struct {
	Name  string
	Value string
}

// Fielder is implemented by values that have a text form.
type Fielder interface {
	Fields() []Field
}

// ParseFormat checks s against allowed and returns it as a Format.
func ParseFormat(s string, allowed ...Format) (Format, error) {
	names := make([]string, 0, len(allowed))
	for _, f := range allowed {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
		names = append(names, string(f))
	}
	return "", ghaerrors.NewValidationError("output", "one of "+strings.Join(names, ", "), s)
}

// Print writes v to w in format f. The text form requires v to be a Fielder.
func Print(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		return printJSON(w, v)
	case FormatYAML:
		return printYAML(w, v)
	case FormatText:
		fielder, ok := v.(Fielder)
		if !ok {
			return fmt.Errorf("%T has no text form", v)
		}
		printTable(w, fielder.Fields())
		return nil
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// printTable writes fields as aligned "name  value" rows.
func printTable(w io.Writer, fields []Field) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f.Name, f.Value)
	}
	tw.Flush()
}

// printJSON outputs v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}
