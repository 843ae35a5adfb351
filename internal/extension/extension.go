// Package extension infers a file extension for an asset from HTTP
// response metadata.
package extension

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// Fallback is returned when no extension can be inferred.
const Fallback = ".bin"

// contentTypes maps lower-cased media types to extensions.
var contentTypes = map[string]string{
	"image/png":              ".png",
	"image/jpeg":             ".jpg",
	"image/jpg":              ".jpg",
	"image/gif":              ".gif",
	"image/webp":             ".webp",
	"image/bmp":              ".bmp",
	"image/tiff":             ".tiff",
	"image/svg+xml":          ".svg",
	"application/pdf":        ".pdf",
	"text/plain":             ".txt",
	"text/html":              ".html",
	"text/css":               ".css",
	"text/javascript":        ".js",
	"application/javascript": ".js",
	"application/json":       ".json",
	"application/xml":        ".xml",
	"application/zip":        ".zip",
	"application/gzip":       ".gz",
	"application/x-tar":      ".tar",
	"video/mp4":              ".mp4",
	"video/mpeg":             ".mpg",
	"video/quicktime":        ".mov",
	"audio/mpeg":             ".mp3",
	"audio/wav":              ".wav",
	"audio/ogg":              ".ogg",
}

// FromURL returns the extension of the last path segment of rawURL,
// ignoring query and fragment, or "" if it has none.
func FromURL(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if idx := strings.IndexAny(p, "?#"); idx != -1 {
		p = p[:idx]
	}
	return fromName(path.Base(p))
}

// FromContentDisposition returns the extension of the filename parameter
// of a Content-Disposition header value, or "" if there is none.
//
// A quoted filename runs to the next double quote; an unquoted one runs to
// the next ';' or the end of the value. Blanks before the value are skipped.
func FromContentDisposition(header string) string {
	const key = "filename="
	idx := strings.Index(header, key)
	if idx == -1 {
		return ""
	}
	rest := strings.TrimLeft(header[idx+len(key):], " \t")

	var name string
	if strings.HasPrefix(rest, `"`) {
		rest = rest[1:]
		end := strings.Index(rest, `"`)
		if end == -1 {
			return ""
		}
		name = rest[:end]
	} else {
		if end := strings.Index(rest, ";"); end != -1 {
			rest = rest[:end]
		}
		name = strings.TrimSpace(rest)
	}
	return fromName(path.Base(name))
}

// FromContentType maps a Content-Type header value to an extension.
// Parameters are ignored and matching is case-insensitive. Unmapped
// types return "".
func FromContentType(header string) string {
	if idx := strings.Index(header, ";"); idx != -1 {
		header = header[:idx]
	}
	return contentTypes[strings.ToLower(strings.TrimSpace(header))]
}

func fromName(name string) string {
	ext := path.Ext(name)
	if len(ext) <= 1 || ext == name {
		return ""
	}
	return ext
}

// Resolver probes an asset URL with a HEAD request.
type Resolver struct {
	client *http.Client
}

// NewResolver creates a Resolver. client should not follow redirects so
// that the redirect target can be inspected.
func NewResolver(client *http.Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve returns the extension for the asset at assetURL. It never fails:
// any probe error yields Fallback.
func (r *Resolver) Resolve(ctx context.Context, assetURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, assetURL, nil)
	if err != nil {
		slog.Debug("extension probe: invalid request", "url", assetURL, "error", err)
		return Fallback
	}

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Debug("extension probe failed", "url", assetURL, "error", err)
		return Fallback
	}
	defer resp.Body.Close()

	ext := FromResponse(resp)
	slog.Debug("extension probe", "url", assetURL, "status", resp.StatusCode, "extension", ext)
	return ext
}

// FromResponse infers the extension from a HEAD response: the redirect
// target for 3xx, then Content-Disposition and Content-Type for 2xx.
func FromResponse(resp *http.Response) string {
	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		loc, err := resp.Location()
		if err != nil {
			return Fallback
		}
		if ext := FromURL(loc.String()); ext != "" {
			return ext
		}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if ext := FromContentDisposition(resp.Header.Get("Content-Disposition")); ext != "" {
			return ext
		}
		if ext := FromContentType(resp.Header.Get("Content-Type")); ext != "" {
			return ext
		}
	}
	return Fallback
}
