package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yuitosato/gh-asset/internal/config"
	ghaerrors "github.com/yuitosato/gh-asset/internal/errors"
	"github.com/yuitosato/gh-asset/internal/printer"
)

var (
	configInitForce bool
	configShowFmt   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the gh-asset configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config.cue",
	Long: `Write the default configuration to config.cue in the config directory
(~/.config/gh-asset unless --config-dir is given).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := config.ExpandHome(rootOpts.configDir)
		if err != nil {
			return ghaerrors.NewConfigError("failed to resolve config directory", err)
		}
		path := filepath.Join(dir, config.FileName)

		if _, err := os.Stat(path); err == nil && !configInitForce {
			return ghaerrors.NewConfigError("config file already exists", nil).
				WithFile(path).
				WithHint("Use --force to overwrite it.")
		}

		content, err := config.DefaultConfig().ToCue()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ghaerrors.NewIOError("mkdir", dir, "failed to create config directory", err)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return ghaerrors.NewIOError("write", path, "failed to write config file", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}

		format, err := printer.ParseFormat(configShowFmt, printer.FormatYAML, printer.FormatJSON, printer.FormatText)
		if err != nil {
			return err
		}
		return printer.Print(cmd.OutOrStdout(), format, cfg)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
	configShowCmd.Flags().StringVarP(&configShowFmt, "output", "o", outputYAML, "Output format (yaml, json, text)")

	configCmd.AddCommand(configInitCmd, configShowCmd)
}
