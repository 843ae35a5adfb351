// Package source turns the user-supplied source argument into the URL of a
// GitHub issue/PR attachment.
//
// Two input shapes are supported, each behind the Resolver interface:
//
//   - asset IDs, embedded into https://github.com/user-attachments/assets/{id}
//   - asset URLs, accepted as-is when they point at a GitHub host
//
// ModeAuto picks one of the two by looking at the input.
package source

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	ghaerrors "github.com/yuitosato/gh-asset/internal/errors"
)

// DefaultAssetBaseURL is the URL prefix asset IDs are appended to.
const DefaultAssetBaseURL = "https://github.com/user-attachments/assets/"

const (
	minIDLength = 20
	maxIDLength = 50
)

// looseIDPattern matches GitHub asset IDs that are not canonical UUIDs.
var looseIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-]{18,48}[a-zA-Z0-9]$`)

// Mode selects how the source argument is interpreted.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeID   Mode = "id"
	ModeURL  Mode = "url"
)

// Kind tells which representation a Reference was resolved from.
type Kind string

const (
	KindID  Kind = "id"
	KindURL Kind = "url"
)

// Reference is a resolved asset source.
type Reference struct {
	// Kind is the representation the raw input was accepted as.
	Kind Kind `json:"kind" yaml:"kind"`
	// Raw is the input exactly as given.
	Raw string `json:"raw" yaml:"raw"`
	// URL is the asset URL to download.
	URL string `json:"url" yaml:"url"`
}

// Name returns the last path segment of the asset URL. For ID references
// this is the asset ID itself.
func (r Reference) Name() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	p := strings.TrimRight(u.Path, "/")
	return p[strings.LastIndex(p, "/")+1:]
}

// Resolver resolves a raw source string to an asset Reference.
type Resolver interface {
	Resolve(raw string) (Reference, error)
}

// IDResolver accepts asset IDs.
type IDResolver struct {
	// BaseURL is the prefix the ID is appended to. Empty means DefaultAssetBaseURL.
	BaseURL string
}

// Resolve implements Resolver.
func (r IDResolver) Resolve(raw string) (Reference, error) {
	if !IsValidAssetID(raw) {
		return Reference{}, ghaerrors.NewInvalidAssetID(raw)
	}

	base := r.BaseURL
	if base == "" {
		base = DefaultAssetBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return Reference{Kind: KindID, Raw: raw, URL: base + raw}, nil
}

// URLResolver accepts absolute http(s) URLs whose host contains "github".
type URLResolver struct{}

// Resolve implements Resolver.
func (URLResolver) Resolve(raw string) (Reference, error) {
	if !hasHTTPScheme(raw) {
		return Reference{}, ghaerrors.NewInvalidSourceURL(raw, "must start with http:// or https://")
	}

	u, err := url.Parse(raw)
	if err != nil {
		e := ghaerrors.NewInvalidSourceURL(raw, "malformed URL")
		e.Base.Cause = err
		return Reference{}, e
	}
	if u.Host == "" {
		return Reference{}, ghaerrors.NewInvalidSourceURL(raw, "missing host")
	}
	// Substring match is intentionally permissive (github.com,
	// *.githubusercontent.com, GitHub Enterprise hosts).
	if !strings.Contains(strings.ToLower(u.Hostname()), "github") {
		return Reference{}, ghaerrors.NewInvalidSourceURL(raw, "host is not a GitHub host")
	}

	return Reference{Kind: KindURL, Raw: raw, URL: u.String()}, nil
}

// AutoResolver sends http(s) inputs to URL and everything else to ID.
type AutoResolver struct {
	ID  IDResolver
	URL URLResolver
}

// Resolve implements Resolver.
func (r AutoResolver) Resolve(raw string) (Reference, error) {
	if hasHTTPScheme(raw) {
		return r.URL.Resolve(raw)
	}
	return r.ID.Resolve(raw)
}

// NewResolver returns the Resolver for mode.
func NewResolver(mode Mode, assetBaseURL string) (Resolver, error) {
	id := IDResolver{BaseURL: assetBaseURL}
	switch mode {
	case "", ModeAuto:
		return AutoResolver{ID: id}, nil
	case ModeID:
		return id, nil
	case ModeURL:
		return URLResolver{}, nil
	default:
		return nil, ghaerrors.NewValidationError("mode", fmt.Sprintf("%s, %s or %s", ModeAuto, ModeID, ModeURL), string(mode))
	}
}

// IsValidAssetID reports whether id is an acceptable asset identifier:
// 20-50 characters with at least one hyphen, shaped either as a canonical
// UUID or as an alphanumeric/hyphen token with at least two hyphens.
func IsValidAssetID(id string) bool {
	if len(id) < minIDLength || len(id) > maxIDLength {
		return false
	}
	if !strings.Contains(id, "-") {
		return false
	}
	if isCanonicalUUID(id) {
		return true
	}
	return looseIDPattern.MatchString(id) && strings.Count(id, "-") >= 2
}

// isCanonicalUUID accepts only the 8-4-4-4-12 hex form. uuid.Parse also
// accepts urn:, braced and hyphenless forms, none of which are 36 bytes
// long with hyphens in place.
func isCanonicalUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func hasHTTPScheme(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
