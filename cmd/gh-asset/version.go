package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yuitosato/gh-asset/internal/printer"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
	UserAgent string `json:"userAgent" yaml:"userAgent"`
}

// Fields returns the text form, below the "gh-asset version" header line.
func (v VersionInfo) Fields() []printer.Field {
	return []printer.Field{
		{Name: "commit", Value: v.Commit},
		{Name: "built", Value: v.BuildDate},
		{Name: "go", Value: v.GoVersion},
		{Name: "platform", Value: v.Platform},
		{Name: "user-agent", Value: v.UserAgent},
	}
}

func currentVersion() VersionInfo {
	return VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		UserAgent: "gh-asset/" + version,
	}
}

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, commit and build date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := printer.ParseFormat(versionFormat, printer.FormatText, printer.FormatJSON, printer.FormatYAML)
		if err != nil {
			return err
		}

		info := currentVersion()
		if format == printer.FormatText {
			fmt.Fprintf(cmd.OutOrStdout(), "gh-asset version %s\n", info.Version)
		}
		return printer.Print(cmd.OutOrStdout(), format, info)
	},
}

func init() {
	versionCmd.Flags().StringVarP(&versionFormat, "output", "o", outputText, "Output format (text, json, yaml)")
}
