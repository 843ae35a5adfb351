package extension

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/yuitosato/gh-asset/internal/github"
)

func TestFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://objects.githubusercontent.com/x/image.png?X-Amz=1", ".png"},
		{"https://example.com/a/b/report.tar.gz", ".gz"},
		{"https://example.com/a/noext", ""},
		{"https://example.com/a/.hidden", ""},
		{"https://example.com/a/trailing.", ""},
		{"https://example.com/dir.d/file", ""},
		{"/relative/path/photo.jpeg#frag", ".jpeg"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, FromURL(tt.url))
		})
	}
}

func TestFromContentDisposition(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{`attachment; filename="screenshot.png"`, ".png"},
		{`attachment; filename="my report; v2.pdf"`, ".pdf"},
		{`attachment; filename=data.json; size=12`, ".json"},
		{`attachment; filename=archive.zip`, ".zip"},
		{`attachment; filename= "a.png"`, ".png"},
		{"attachment; filename=\t\"tabbed.gif\"", ".gif"},
		{`attachment; filename=  spaced.txt ; size=3`, ".txt"},
		{`attachment; filename="noext"`, ""},
		{`attachment; filename="unterminated.png`, ""},
		{`inline`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, FromContentDisposition(tt.header))
		})
	}
}

func TestFromContentType(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"image/png", ".png"},
		{"IMAGE/JPEG", ".jpg"},
		{"image/jpg", ".jpg"},
		{"text/plain; charset=utf-8", ".txt"},
		{"application/json;charset=UTF-8", ".json"},
		{" video/quicktime ", ".mov"},
		{"application/octet-stream", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, FromContentType(tt.header))
		})
	}
}

// knownContentTypes is every mapped media type with its extension.
var knownContentTypes = map[string]string{
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

func TestFromContentType_Table(t *testing.T) {
	assert.Len(t, knownContentTypes, 25)
	assert.Len(t, contentTypes, len(knownContentTypes))

	for ct, want := range knownContentTypes {
		t.Run(ct, func(t *testing.T) {
			assert.Equal(t, want, FromContentType(ct))
		})
	}
}

func TestFromContentType_Property_TableIsCaseInsensitive(t *testing.T) {
	keys := make([]string, 0, len(knownContentTypes))
	for k := range knownContentTypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rapid.Check(t, func(t *rapid.T) {
		ct := rapid.SampledFrom(keys).Draw(t, "contentType")
		upper := rapid.Bool().Draw(t, "upper")
		params := rapid.StringMatching(`(; [a-z]+=[a-z0-9-]+){0,2}`).Draw(t, "params")

		header := ct
		if upper {
			header = strings.ToUpper(header)
		}
		got := FromContentType(header + params)
		if got != knownContentTypes[ct] {
			t.Fatalf("%q: got %q, want %q", header+params, got, knownContentTypes[ct])
		}
	})
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "redirect target extension",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Location", "https://objects.githubusercontent.com/x/shot.webp?sig=abc")
				w.WriteHeader(http.StatusFound)
			},
			want: ".webp",
		},
		{
			name: "relative redirect target",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Location", "/files/clip.mp4")
				w.WriteHeader(http.StatusMovedPermanently)
			},
			want: ".mp4",
		},
		{
			name: "redirect without extension ignores content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Location", "/files/blob")
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusFound)
			},
			want: Fallback,
		},
		{
			name: "content disposition beats content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Disposition", `attachment; filename="doc.pdf"`)
				w.Header().Set("Content-Type", "image/png")
			},
			want: ".pdf",
		},
		{
			name: "content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/gif")
			},
			want: ".gif",
		},
		{
			name: "unmapped content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/octet-stream")
			},
			want: Fallback,
		},
		{
			name: "error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				w.WriteHeader(http.StatusNotFound)
			},
			want: Fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				tt.handler(w, r)
			}))
			defer srv.Close()

			r := NewResolver(github.NewHTTPClient("", github.WithNoFollowRedirects()))
			assert.Equal(t, tt.want, r.Resolve(context.Background(), srv.URL+"/asset"))
		})
	}
}

func TestResolver_ProbeFailureFallsBack(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		block := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-block
		}))
		defer srv.Close()
		defer close(block)

		r := NewResolver(github.NewHTTPClient("", github.WithNoFollowRedirects(), github.WithTimeout(50*time.Millisecond)))
		assert.Equal(t, Fallback, r.Resolve(context.Background(), srv.URL))
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		r := NewResolver(github.NewHTTPClient(""))
		assert.Equal(t, Fallback, r.Resolve(context.Background(), addr))
	})

	t.Run("malformed url", func(t *testing.T) {
		r := NewResolver(github.NewHTTPClient(""))
		assert.Equal(t, Fallback, r.Resolve(context.Background(), "http://[::1"))
	})
}
