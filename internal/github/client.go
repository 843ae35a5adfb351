// Package github provides the GitHub-aware HTTP client used for asset
// requests.
//
// Every request carries the gh-asset User-Agent and the GitHub v3 Accept
// header. The Authorization header is added only for GitHub hosts
// (github.com, *.github.com, *.githubusercontent.com) and any extra hosts
// trusted through WithTrustedHost, so a redirect to a third-party host never
// sees the token.
package github

import (
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent when no WithUserAgent option is given.
	DefaultUserAgent = "gh-asset"

	// AcceptHeader is the media type sent with every request.
	AcceptHeader = "application/vnd.github.v3+json"

	// hostGitHub is the main GitHub domain.
	hostGitHub = "github.com"
	// hostGitHubAPI is the GitHub API domain.
	hostGitHubAPI = "api.github.com"
	// suffixGitHub is the suffix for GitHub subdomains (e.g., uploads.github.com).
	suffixGitHub = ".github.com"
	// suffixGitHubusercontent is the suffix for GitHub content delivery domains
	// (e.g., private-user-images.githubusercontent.com).
	suffixGitHubusercontent = ".githubusercontent.com"
)

// Option configures NewHTTPClient.
type Option func(*options)

type options struct {
	timeout           time.Duration
	userAgent         string
	noFollowRedirects bool
	base              http.RoundTripper
	trustedHosts      []string
}

// WithTimeout sets the overall request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithNoFollowRedirects makes the client return 3xx responses as-is.
func WithNoFollowRedirects() Option {
	return func(o *options) {
		o.noFollowRedirects = true
	}
}

// WithTransport replaces http.DefaultTransport as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		if rt != nil {
			o.base = rt
		}
	}
}

// WithTrustedHost adds a host (without port) that receives the token in
// addition to the GitHub hosts, e.g. a GitHub Enterprise server.
func WithTrustedHost(host string) Option {
	return func(o *options) {
		if host != "" {
			o.trustedHosts = append(o.trustedHosts, strings.ToLower(host))
		}
	}
}

// NewHTTPClient creates an http.Client that adds an Authorization header
// to requests for GitHub hosts.
// If token is empty, no Authorization header is ever sent.
func NewHTTPClient(token string, opts ...Option) *http.Client {
	o := options{
		timeout:   defaultTimeout,
		userAgent: DefaultUserAgent,
		base:      http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&o)
	}

	client := &http.Client{
		Timeout: o.timeout,
		Transport: &headerTransport{
			userAgent: o.userAgent,
			base: &tokenTransport{
				token:        token,
				trustedHosts: o.trustedHosts,
				base:         o.base,
			},
		},
	}
	if o.noFollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}

// headerTransport sets the headers every request carries.
type headerTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", AcceptHeader)
	return t.base.RoundTrip(req)
}

// tokenTransport adds the token to GitHub requests.
type tokenTransport struct {
	token        string
	trustedHosts []string
	base         http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" && t.trusted(req.URL.Hostname()) {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "token "+t.token)
	}
	return t.base.RoundTrip(req)
}

func (t *tokenTransport) trusted(host string) bool {
	if isGitHubHost(host) {
		return true
	}
	host = strings.ToLower(host)
	for _, h := range t.trustedHosts {
		if host == h {
			return true
		}
	}
	return false
}

// isGitHubHost checks if the host is a GitHub domain.
// Matches: api.github.com, github.com, raw.githubusercontent.com,
// objects.githubusercontent.com, etc.
func isGitHubHost(host string) bool {
	host = strings.ToLower(host)
	if host == hostGitHub || host == hostGitHubAPI {
		return true
	}
	if strings.HasSuffix(host, suffixGitHub) {
		return true
	}
	if strings.HasSuffix(host, suffixGitHubusercontent) {
		return true
	}
	return false
}
