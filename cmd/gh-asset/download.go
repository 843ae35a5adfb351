package main

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuitosato/gh-asset/internal/auth"
	"github.com/yuitosato/gh-asset/internal/checksum"
	"github.com/yuitosato/gh-asset/internal/config"
	"github.com/yuitosato/gh-asset/internal/destination"
	"github.com/yuitosato/gh-asset/internal/download"
	"github.com/yuitosato/gh-asset/internal/extension"
	"github.com/yuitosato/gh-asset/internal/github"
	"github.com/yuitosato/gh-asset/internal/printer"
	"github.com/yuitosato/gh-asset/internal/source"
	"github.com/yuitosato/gh-asset/internal/ui"
)

// downloadFlags holds flags of the download command. Empty values keep
// the config file setting.
type downloadFlags struct {
	mode            string
	auth            string
	ghPath          string
	userAgent       string
	downloadTimeout string
	probeTimeout    string
	checksum        string
	noProgress      bool
	quiet           bool
	output          string
}

var downloadOpts downloadFlags

var downloadCmd = &cobra.Command{
	Use:   "download <asset-id|asset-url> <destination>",
	Short: "Download an asset from a GitHub issue or pull request",
	Long: `Download an asset from a GitHub issue or pull request.

The source is either an asset ID or an asset URL on a GitHub host.
When the destination is an existing directory, the file is named after
the asset and its extension is inferred from the server's response.

Examples:
  gh-asset download 1234abcd-1234-1234-1234-1234abcd1234 ./image.png
  gh-asset download abcd1234-5678-9012-3456-789012345678 ./document.pdf
  gh-asset download https://github.com/user-attachments/assets/1234abcd-1234-1234-1234-1234abcd1234 ./assets/`,
	Args: cobra.ExactArgs(2),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&downloadOpts.mode, "mode", "", "How to read the source: auto, id or url (default from config: auto)")
	downloadCmd.Flags().StringVar(&downloadOpts.auth, "auth", "", "Token source: gh or env (default from config: gh)")
	downloadCmd.Flags().StringVar(&downloadOpts.ghPath, "gh-path", "", "Path to the gh executable")
	downloadCmd.Flags().StringVar(&downloadOpts.userAgent, "user-agent", "", "User-Agent header sent with requests")
	downloadCmd.Flags().StringVar(&downloadOpts.downloadTimeout, "timeout", "", "Timeout for the download request (e.g. 5m)")
	downloadCmd.Flags().StringVar(&downloadOpts.probeTimeout, "probe-timeout", "", "Timeout for the extension probe (e.g. 10s)")
	downloadCmd.Flags().StringVar(&downloadOpts.checksum, "checksum", "", "Expected digest of the asset (sha256:<hex> or sha512:<hex>)")
	downloadCmd.Flags().BoolVar(&downloadOpts.noProgress, "no-progress", false, "Disable the progress bar")
	downloadCmd.Flags().BoolVarP(&downloadOpts.quiet, "quiet", "q", false, "Suppress progress output")
	downloadCmd.Flags().StringVarP(&downloadOpts.output, "output", "o", outputText, "Output format (text, json, yaml)")
}

// downloadResult describes a finished download.
type downloadResult struct {
	Source    string      `json:"source" yaml:"source"`
	Kind      source.Kind `json:"kind" yaml:"kind"`
	URL       string      `json:"url" yaml:"url"`
	Path      string      `json:"path" yaml:"path"`
	Bytes     int64       `json:"bytes" yaml:"bytes"`
	Checksum  string      `json:"checksum" yaml:"checksum"`
	Extension string      `json:"extension,omitempty" yaml:"extension,omitempty"`
}

func runDownload(cmd *cobra.Command, args []string) error {
	format, err := printer.ParseFormat(downloadOpts.output, printer.FormatText, printer.FormatJSON, printer.FormatYAML)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(&downloadOpts)
	if err != nil {
		return err
	}

	var expected *checksum.Checksum
	if downloadOpts.checksum != "" {
		c, err := checksum.Parse(downloadOpts.checksum)
		if err != nil {
			return err
		}
		expected = &c
	}

	provider, err := auth.New(auth.Source(cfg.Auth), cfg.GHPath)
	if err != nil {
		return err
	}

	d := &downloader{
		cfg:      cfg,
		provider: provider,
		expected: expected,
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
		quiet:    downloadOpts.quiet || format != printer.FormatText,
		progress: cfg.Progress && !downloadOpts.noProgress && !downloadOpts.quiet && stderrIsTerminal(cmd),
	}

	res, err := d.run(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if format == printer.FormatText {
		return nil
	}
	return printer.Print(cmd.OutOrStdout(), format, res)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(f *downloadFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(rootOpts.configDir)
	if err != nil {
		return nil, err
	}

	if f != nil {
		override(&cfg.Mode, f.mode)
		override(&cfg.Auth, f.auth)
		override(&cfg.GHPath, f.ghPath)
		override(&cfg.UserAgent, f.userAgent)
		override(&cfg.DownloadTimeout, f.downloadTimeout)
		override(&cfg.ProbeTimeout, f.probeTimeout)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func override(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}

func stderrIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.ErrOrStderr().(*os.File)
	return ok && ui.IsTerminal(f)
}

// downloader runs one download: authenticate, resolve the source, validate
// the destination, probe for an extension when needed, then fetch.
type downloader struct {
	cfg      *config.Config
	provider auth.Provider
	expected *checksum.Checksum
	// workDir is the directory relative destinations resolve against.
	// Empty means the process working directory.
	workDir  string
	stdout   io.Writer
	stderr   io.Writer
	quiet    bool
	progress bool
}

func (d *downloader) run(ctx context.Context, rawSource, rawDest string) (*downloadResult, error) {
	token, err := d.provider.Token(ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := source.NewResolver(source.Mode(d.cfg.Mode), d.cfg.AssetBaseURL)
	if err != nil {
		return nil, err
	}
	ref, err := resolver.Resolve(rawSource)
	if err != nil {
		return nil, err
	}

	validator, err := destination.NewValidator(d.workDir)
	if err != nil {
		return nil, err
	}
	dest, err := validator.Validate(rawDest)
	if err != nil {
		return nil, err
	}

	opts := d.clientOptions(ref)
	target, display, ext := dest.Abs, rawDest, ""
	if dest.IsDir {
		probe := github.NewHTTPClient(token, append(opts,
			github.WithNoFollowRedirects(),
			github.WithTimeout(d.cfg.ProbeTimeoutDuration()),
		)...)
		ext = extension.NewResolver(probe).Resolve(ctx, ref.URL)
		name := fileName(ref, ext)
		target = filepath.Join(dest.Abs, name)
		display = filepath.Join(rawDest, name)
	}
	slog.Debug("resolved download", "source", ref.Raw, "url", ref.URL, "path", target)

	if !d.quiet {
		ui.PrintDownloading(d.stdout, rawSource, display)
	}

	var fetchOpts []download.FetcherOption
	if d.expected != nil {
		fetchOpts = append(fetchOpts, download.WithExpectedChecksum(*d.expected))
	}
	bar := ui.NewProgress(d.stderr, display, d.progress)
	fetcher := download.NewFetcher(github.NewHTTPClient(token, append(opts,
		github.WithTimeout(d.cfg.DownloadTimeoutDuration()),
	)...), fetchOpts...)
	fetched, err := fetcher.Fetch(ctx, ref.URL, target, bar.Update)
	bar.Finish(err == nil)
	if err != nil {
		if !d.quiet {
			ui.PrintFailed(d.stdout, display)
		}
		return nil, err
	}

	if !d.quiet {
		ui.PrintDownloaded(d.stdout, display)
	}

	return &downloadResult{
		Source:    ref.Raw,
		Kind:      ref.Kind,
		URL:       ref.URL,
		Path:      target,
		Bytes:     fetched.Bytes,
		Checksum:  fetched.Checksum.String(),
		Extension: ext,
	}, nil
}

// clientOptions returns the options shared by the probe and fetch clients.
// Besides the GitHub hosts, the host of the asset URL itself is trusted
// with the token: it is either the configured asset base URL or a URL the
// source resolver accepted as a GitHub host.
func (d *downloader) clientOptions(ref source.Reference) []github.Option {
	ua := d.cfg.UserAgent
	if ua == "" {
		ua = "gh-asset/" + version
	}
	opts := []github.Option{github.WithUserAgent(ua)}
	if u, err := url.Parse(ref.URL); err == nil {
		opts = append(opts, github.WithTrustedHost(u.Hostname()))
	}
	return opts
}

// fileName names a download saved into a directory: the last segment of
// the asset URL plus ext, unless the name already ends with ext.
func fileName(ref source.Reference, ext string) string {
	name := ref.Name()
	if name == "" {
		name = "asset"
	}
	if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		return name
	}
	return name + ext
}
