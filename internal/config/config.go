// Package config loads the optional gh-asset configuration file.
//
// The file is CUE, read from <configDir>/config.cue; only its top-level
// config block is used:
//
//	package ghasset
//
//	config: {
//	    mode:            "auto"
//	    auth:            "gh"
//	    downloadTimeout: "5m"
//	}
//
// Missing fields keep their defaults. Command-line flags override both.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"cuelang.org/go/cue/load"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	ghaerrors "github.com/yuitosato/gh-asset/internal/errors"
	"github.com/yuitosato/gh-asset/internal/printer"
)

// Default values
const (
	DefaultConfigDir       = "~/.config/gh-asset"
	FileName               = "config.cue"
	DefaultMode            = "auto"
	DefaultAuth            = "gh"
	DefaultGHPath          = "gh"
	DefaultAssetBaseURL    = "https://github.com/user-attachments/assets/"
	DefaultDownloadTimeout = "5m"
	DefaultProbeTimeout    = "10s"
)

// Config represents gh-asset configuration.
type Config struct {
	// Mode is how the source argument is read: auto, id or url.
	Mode string `json:"mode" yaml:"mode" validate:"required,oneof=auto id url"`
	// Auth selects the token source: the gh CLI or GITHUB_TOKEN/GH_TOKEN.
	Auth string `json:"auth" yaml:"auth" validate:"required,oneof=gh env"`
	// GHPath is the gh executable, looked up in PATH when not absolute.
	GHPath string `json:"ghPath" yaml:"ghPath" validate:"required"`
	// UserAgent overrides the default gh-asset/<version> User-Agent.
	UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	// AssetBaseURL is the prefix asset IDs are appended to.
	AssetBaseURL string `json:"assetBaseURL" yaml:"assetBaseURL" validate:"required,http_url"`
	// DownloadTimeout bounds the whole GET request.
	DownloadTimeout string `json:"downloadTimeout" yaml:"downloadTimeout" validate:"required,duration"`
	// ProbeTimeout bounds the HEAD request used for extension inference.
	ProbeTimeout string `json:"probeTimeout" yaml:"probeTimeout" validate:"required,duration"`
	// Progress enables the progress bar on terminals.
	Progress bool `json:"progress" yaml:"progress"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Mode:            DefaultMode,
		Auth:            DefaultAuth,
		GHPath:          DefaultGHPath,
		AssetBaseURL:    DefaultAssetBaseURL,
		DownloadTimeout: DefaultDownloadTimeout,
		ProbeTimeout:    DefaultProbeTimeout,
		Progress:        true,
	}
}

// LoadConfig loads configuration from the config directory.
// Returns default config if config.cue doesn't exist or has no config block.
// The result is validated.
func LoadConfig(configDir string) (*Config, error) {
	dir, err := ExpandHome(configDir)
	if err != nil {
		return nil, ghaerrors.NewConfigError("failed to resolve config directory", err)
	}
	configPath := filepath.Join(dir, FileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{FileName}, &load.Config{
		Dir: dir,
	})
	if len(instances) == 0 {
		return DefaultConfig(), nil
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, ghaerrors.NewConfigError("failed to load config", inst.Err).WithFile(configPath)
	}

	value := ctx.BuildInstance(inst)
	if value.Err() != nil {
		return nil, ghaerrors.NewConfigError("failed to build config", value.Err()).WithFile(configPath)
	}

	configValue := value.LookupPath(cue.ParsePath("config"))
	if !configValue.Exists() {
		return DefaultConfig(), nil
	}

	cfg := DefaultConfig()
	jsonBytes, err := configValue.MarshalJSON()
	if err != nil {
		return nil, ghaerrors.NewConfigError("failed to marshal config", err).WithFile(configPath)
	}
	if err := json.Unmarshal(jsonBytes, cfg); err != nil {
		return nil, ghaerrors.NewConfigError("failed to unmarshal config", err).WithFile(configPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field. The first failing field is reported as a
// ValidationError.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return ghaerrors.NewConfigError("failed to validate config", err)
	}
	fe := verrs[0]
	return ghaerrors.NewValidationError(fe.Field(), fe.Translate(translator), stringValue(fe.Value()))
}

// DownloadTimeoutDuration returns DownloadTimeout parsed. Call Validate first.
func (c *Config) DownloadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.DownloadTimeout)
	return d
}

// ProbeTimeoutDuration returns ProbeTimeout parsed. Call Validate first.
func (c *Config) ProbeTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ProbeTimeout)
	return d
}

// Fields returns the text form of the configuration.
func (c *Config) Fields() []printer.Field {
	ua := c.UserAgent
	if ua == "" {
		ua = "(default)"
	}
	return []printer.Field{
		{Name: "mode", Value: c.Mode},
		{Name: "auth", Value: c.Auth},
		{Name: "ghPath", Value: c.GHPath},
		{Name: "userAgent", Value: ua},
		{Name: "assetBaseURL", Value: c.AssetBaseURL},
		{Name: "downloadTimeout", Value: c.DownloadTimeout},
		{Name: "probeTimeout", Value: c.ProbeTimeout},
		{Name: "progress", Value: strconv.FormatBool(c.Progress)},
	}
}

// ToCue generates CUE content from Config.
func (c *Config) ToCue() ([]byte, error) {
	ctx := cuecontext.New()
	v := ctx.Encode(map[string]any{
		"config": c,
	})
	if v.Err() != nil {
		return nil, ghaerrors.NewConfigError("failed to encode config", v.Err())
	}

	b, err := format.Node(v.Syntax())
	if err != nil {
		return nil, ghaerrors.NewConfigError("failed to format config", err)
	}

	return append([]byte("package ghasset\n\n"), b...), nil
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(p string) (string, error) {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[2:]), nil
	}
	if p == "~" {
		return os.UserHomeDir()
	}
	return p, nil
}

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("duration", isPositiveDuration); err != nil {
		panic(err)
	}
	if err := validate.RegisterTranslation("duration", translator,
		func(ut ut.Translator) error {
			return ut.Add("duration", "{0} must be a positive duration such as 30s or 5m", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("duration", fe.Field())
			return t
		},
	); err != nil {
		panic(err)
	}
}

func isPositiveDuration(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	return err == nil && d > 0
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
