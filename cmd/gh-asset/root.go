package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yuitosato/gh-asset/internal/config"
	ghaerrors "github.com/yuitosato/gh-asset/internal/errors"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	logLevel    string
	noColor     bool
	configDir   string
	errorFormat string
}

var rootOpts rootOptions

var rootCmd = &cobra.Command{
	Use:   "gh-asset",
	Short: "Download GitHub issue/PR assets using GitHub CLI authentication",
	Long: `Download assets attached to GitHub issues and pull requests using the
token of an already-authenticated GitHub CLI.

Prerequisites:
  gh auth login

Examples:
  gh-asset download 1234abcd-1234-1234-1234-1234abcd1234 ./image.png
  gh-asset download https://github.com/user-attachments/assets/1234abcd-1234-1234-1234-1234abcd1234 ./assets/`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		switch rootOpts.errorFormat {
		case outputText, outputJSON:
		default:
			return ghaerrors.NewValidationError("error-format", "text or json", rootOpts.errorFormat)
		}
		if rootOpts.noColor {
			color.NoColor = true
		}
		setupLogging(cmd.ErrOrStderr(), rootOpts.logLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootOpts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&rootOpts.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&rootOpts.configDir, "config-dir", config.DefaultConfigDir, "Directory containing config.cue")
	rootCmd.PersistentFlags().StringVar(&rootOpts.errorFormat, "error-format", outputText, "Error output format (text, json)")

	rootCmd.AddCommand(
		downloadCmd,
		configCmd,
		versionCmd,
		completionCmd,
	)
}

// setupLogging installs a text handler on w at the given level.
func setupLogging(w io.Writer, level string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)})))
}

// parseLogLevel converts a string log level to slog.Level.
// Accepted values: "debug", "info", "warn", "error" (case-insensitive).
// Defaults to slog.LevelWarn for unrecognized values.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// printError writes err to w in the format selected by --error-format.
func printError(w io.Writer, err error) {
	formatter := ghaerrors.NewFormatter(w, rootOpts.noColor)
	if rootOpts.errorFormat == outputJSON {
		formatter.PrintJSON(err)
		return
	}
	formatter.Print(err)
}
