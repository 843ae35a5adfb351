// Package auth obtains the bearer token used to download GitHub assets.
//
// The default provider asks an already-authenticated GitHub CLI for its
// current token ("gh auth token"). The token lives only as long as the
// invocation that requested it and is never logged or persisted.
package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	ghaerrors "github.com/yuitosato/gh-asset/internal/errors"
)

const (
	// DefaultGHPath is the GitHub CLI executable looked up on PATH.
	DefaultGHPath = "gh"

	// envGitHubToken is the primary environment variable for GitHub token.
	envGitHubToken = "GITHUB_TOKEN"
	// envGHToken is the fallback environment variable for GitHub token (used by gh CLI).
	envGHToken = "GH_TOKEN"
)

// Source selects which Provider the CLI builds.
type Source string

const (
	SourceGH  Source = "gh"
	SourceEnv Source = "env"
)

// Provider fetches the current bearer token.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// GHProvider runs "<path> auth token" and returns its trimmed stdout.
type GHProvider struct {
	path string
}

// NewGHProvider creates a GHProvider. An empty path means DefaultGHPath.
func NewGHProvider(path string) *GHProvider {
	if path == "" {
		path = DefaultGHPath
	}
	return &GHProvider{path: path}
}

// helper returns the command line shown in errors.
func (p *GHProvider) helper() string {
	return p.path + " auth token"
}

// Token implements Provider.
func (p *GHProvider) Token(ctx context.Context) (string, error) {
	slog.Debug("requesting token from GitHub CLI", "helper", p.helper())

	cmd := exec.CommandContext(ctx, p.path, "auth", "token")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", ghaerrors.NewAuthDenied(p.helper(), strings.TrimSpace(stderr.String()), err)
		}
		return "", ghaerrors.NewAuthUnavailable(p.helper(), err)
	}

	return parseToken(stdout.Bytes(), p.helper())
}

// EnvProvider reads GITHUB_TOKEN, falling back to GH_TOKEN.
type EnvProvider struct{}

// Token implements Provider.
func (EnvProvider) Token(_ context.Context) (string, error) {
	t := os.Getenv(envGitHubToken)
	if strings.TrimSpace(t) == "" {
		t = os.Getenv(envGHToken)
	}
	return parseToken([]byte(t), "$"+envGitHubToken+" / $"+envGHToken)
}

// StaticProvider returns a fixed token.
type StaticProvider string

// Token implements Provider.
func (s StaticProvider) Token(_ context.Context) (string, error) {
	return parseToken([]byte(s), "static token")
}

// New builds the Provider for the given source.
func New(source Source, ghPath string) (Provider, error) {
	switch source {
	case "", SourceGH:
		return NewGHProvider(ghPath), nil
	case SourceEnv:
		return EnvProvider{}, nil
	default:
		return nil, ghaerrors.NewValidationError("auth", "gh or env", string(source))
	}
}

func parseToken(raw []byte, helper string) (string, error) {
	if !utf8.Valid(raw) {
		return "", ghaerrors.NewAuthEmpty(helper)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", ghaerrors.NewAuthEmpty(helper)
	}
	return token, nil
}
