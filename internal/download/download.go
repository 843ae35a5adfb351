// Package download fetches an asset and persists it to disk.
package download

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/yuitosato/gh-asset/internal/checksum"
	ghaerrors "github.com/yuitosato/gh-asset/internal/errors"
)

// ProgressCallback is called during download to report progress.
// total is -1 if Content-Length is unknown.
type ProgressCallback func(downloaded, total int64)

// Result describes a persisted download.
type Result struct {
	// Bytes is the size of the written file.
	Bytes int64
	// Checksum is the digest of the written content.
	Checksum checksum.Checksum
}

// Fetcher downloads a URL into a file.
type Fetcher struct {
	client   *http.Client
	expected *checksum.Checksum
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithExpectedChecksum makes Fetch reject content whose digest differs.
func WithExpectedChecksum(c checksum.Checksum) FetcherOption {
	return func(f *Fetcher) {
		f.expected = &c
	}
}

// NewFetcher creates a Fetcher using client, which should follow redirects.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{client: client}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url to destPath.
// The body is streamed to a temp file next to destPath, synced and renamed
// over destPath. On failure the temp file is removed and destPath is left
// as it was. The digest is SHA-256 unless an expected checksum selects
// another algorithm.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string, callback ProgressCallback) (*Result, error) {
	slog.Debug("downloading file", "url", url, "dest", destPath)

	algorithm := checksum.AlgorithmSHA256
	if f.expected != nil {
		algorithm = f.expected.Algorithm
	}
	h, err := checksum.NewHash(algorithm)
	if err != nil {
		return nil, ghaerrors.NewValidationError("checksum", "sha256 or sha512", string(algorithm))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ghaerrors.NewNetworkError(url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, ghaerrors.NewNetworkError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ghaerrors.NewHTTPError(url, resp.StatusCode)
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ghaerrors.NewIOError("mkdir", dir, "failed to create directory", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(destPath)+".*.tmp")
	if err != nil {
		return nil, ghaerrors.NewIOError("create", destPath, "failed to create file", err)
	}
	tmpPath := tmp.Name()

	done := false
	defer func() {
		if done {
			return
		}
		_ = tmp.Close()
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove temp file", "path", tmpPath, "error", err)
		}
	}()

	var reader io.Reader = resp.Body
	if callback != nil {
		reader = &progressReader{
			reader:   resp.Body,
			total:    resp.ContentLength,
			callback: callback,
		}
	}

	w := &fileWriter{f: tmp}
	n, err := io.Copy(io.MultiWriter(w, h), reader)
	if err != nil {
		if w.err != nil {
			return nil, ghaerrors.NewIOError("write", destPath, "failed to write file", w.err)
		}
		return nil, ghaerrors.NewNetworkError(url, err)
	}

	sum := checksum.Checksum{Algorithm: algorithm, Hex: hex.EncodeToString(h.Sum(nil))}
	if f.expected != nil && !f.expected.Matches(sum.Hex) {
		return nil, ghaerrors.NewChecksumMismatch(url, f.expected.String(), sum.String())
	}

	if err := tmp.Sync(); err != nil {
		return nil, ghaerrors.NewIOError("sync", destPath, "failed to flush file", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, ghaerrors.NewIOError("close", destPath, "failed to close file", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return nil, ghaerrors.NewIOError("rename", destPath, "failed to move file into place", err)
	}
	done = true

	slog.Debug("download completed", "path", destPath, "bytes", n, "checksum", sum.String())
	return &Result{Bytes: n, Checksum: sum}, nil
}

// fileWriter records write errors so they can be told apart from read
// errors after io.Copy.
type fileWriter struct {
	f   *os.File
	err error
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil {
		w.err = err
	}
	return n, err
}

// progressReader wraps an io.Reader and reports progress.
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	callback   ProgressCallback
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
		r.callback(r.downloaded, r.total)
	}
	return n, err
}
