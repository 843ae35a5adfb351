package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghaerrors "github.com/yuitosato/gh-asset/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultMode, cfg.Mode)
	assert.Equal(t, DefaultAuth, cfg.Auth)
	assert.Equal(t, DefaultGHPath, cfg.GHPath)
	assert.Equal(t, 5*time.Minute, cfg.DownloadTimeoutDuration())
	assert.Equal(t, 10*time.Second, cfg.ProbeTimeoutDuration())
	assert.True(t, cfg.Progress)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_NoConfigFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_WithConfigFile(t *testing.T) {
	dir := writeConfig(t, `package ghasset

config: {
    mode: "id"
    auth: "env"
    ghPath: "/opt/gh/bin/gh"
    userAgent: "my-agent/1.0"
    assetBaseURL: "https://ghe.example.com/user-attachments/assets/"
    downloadTimeout: "30s"
    probeTimeout: "2s"
    progress: false
}
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Mode:            "id",
		Auth:            "env",
		GHPath:          "/opt/gh/bin/gh",
		UserAgent:       "my-agent/1.0",
		AssetBaseURL:    "https://ghe.example.com/user-attachments/assets/",
		DownloadTimeout: "30s",
		ProbeTimeout:    "2s",
		Progress:        false,
	}, cfg)
	assert.Equal(t, 30*time.Second, cfg.DownloadTimeoutDuration())
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeoutDuration())
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := writeConfig(t, `package ghasset

config: {
    mode: "url"
}
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "url", cfg.Mode)
	assert.Equal(t, DefaultAuth, cfg.Auth)
	assert.Equal(t, DefaultDownloadTimeout, cfg.DownloadTimeout)
}

func TestLoadConfig_NoConfigBlock(t *testing.T) {
	dir := writeConfig(t, `package ghasset

somethingElse: "value"
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_InvalidCue(t *testing.T) {
	dir := writeConfig(t, `package ghasset

config: {
    mode: "id"
    mode: "url"
}
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Equal(t, ghaerrors.CodeConfigParse, ghaerrors.CodeOf(err))

	var cfgErr *ghaerrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, filepath.Join(dir, FileName), cfgErr.File)
}

func TestLoadConfig_SyntaxError(t *testing.T) {
	dir := writeConfig(t, `package ghasset

config: {
    mode: "id"
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Equal(t, ghaerrors.CodeConfigParse, ghaerrors.CodeOf(err))
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown mode", `mode: "guess"`, "mode"},
		{"unknown auth", `auth: "keychain"`, "auth"},
		{"empty gh path", `ghPath: ""`, "ghPath"},
		{"non-http base URL", `assetBaseURL: "ftp://github.com/assets/"`, "assetBaseURL"},
		{"bad duration", `downloadTimeout: "forever"`, "downloadTimeout"},
		{"negative duration", `probeTimeout: "-1s"`, "probeTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfig(t, "package ghasset\n\nconfig: {\n    "+tt.body+"\n}\n")

			_, err := LoadConfig(dir)
			require.Error(t, err)
			assert.Equal(t, ghaerrors.CodeValidationFailed, ghaerrors.CodeOf(err))

			var vErr *ghaerrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.NotEmpty(t, vErr.Expected)
		})
	}
}

func TestConfig_ToCue(t *testing.T) {
	cfg := DefaultConfig()

	cueBytes, err := cfg.ToCue()
	require.NoError(t, err)

	content := string(cueBytes)
	assert.Contains(t, content, "package ghasset")
	assert.Contains(t, content, "config:")
	assert.Contains(t, content, `mode:`)
	assert.Contains(t, content, `"5m"`)
	assert.NotContains(t, content, "userAgent")
}

func TestConfig_ToCue_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "id"
	cfg.UserAgent = "custom/2.0"
	cfg.Progress = false

	cueBytes, err := cfg.ToCue()
	require.NoError(t, err)

	dir := writeConfig(t, string(cueBytes))
	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.config/gh-asset", filepath.Join(home, ".config", "gh-asset")},
		{"/etc/gh-asset", "/etc/gh-asset"},
		{"relative/dir", "relative/dir"},
		{"~user/dir", "~user/dir"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandHome(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Fields(t *testing.T) {
	fields := DefaultConfig().Fields()
	require.Len(t, fields, 8)
	assert.Equal(t, "mode", fields[0].Name)
	assert.Equal(t, DefaultMode, fields[0].Value)
	assert.Equal(t, "(default)", fields[3].Value)
	assert.Equal(t, "true", fields[7].Value)
}
