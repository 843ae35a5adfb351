// Package destination validates where a downloaded asset may be written.
//
// The checks are best-effort string and canonical-path checks, not a
// sandbox: the system directory denylist is a fixed set of prefixes and
// does not cover every platform's layout (e.g. /private/etc on macOS).
package destination

import (
	"os"
	"path/filepath"
	"strings"

	ghaerrors "github.com/yuitosato/gh-asset/internal/errors"
)

// systemPrefixes are matched textually against absolute destinations.
var systemPrefixes = []string{
	"/etc",
	"/usr",
	"/var",
	"/sys",
	"/proc",
	"/root",
	"/boot",
}

// Path is a destination that passed validation.
type Path struct {
	// Raw is the destination exactly as given.
	Raw string
	// Abs is the absolute, resolved destination.
	Abs string
	// IsDir is true when Abs named an existing directory at validation time.
	IsDir bool
}

// Validator validates destinations relative to a working directory.
type Validator struct {
	workDir string
}

// NewValidator creates a Validator rooted at workDir.
// An empty workDir means the process's current working directory.
func NewValidator(workDir string) (*Validator, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, ghaerrors.NewIOError("getwd", "", "failed to get current directory", err)
		}
		workDir = wd
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return nil, ghaerrors.NewIOError("abs", workDir, "failed to resolve working directory", err)
	}
	return &Validator{workDir: abs}, nil
}

// WorkDir returns the directory relative destinations are resolved against.
func (v *Validator) WorkDir() string {
	return v.workDir
}

// Validate checks raw and returns its resolved form.
func (v *Validator) Validate(raw string) (Path, error) {
	if strings.Contains(raw, "..") {
		return Path{}, ghaerrors.NewPathTraversal(raw)
	}

	relative := !filepath.IsAbs(raw)
	if !relative && hasSystemPrefix(raw) {
		return Path{}, ghaerrors.NewSystemDirectoryDenied(raw)
	}

	resolved := raw
	if relative {
		resolved = filepath.Join(v.workDir, raw)
	}

	info, statErr := os.Stat(resolved)
	exists := statErr == nil

	if relative {
		if err := v.checkContainment(raw, resolved, exists); err != nil {
			return Path{}, err
		}
	}

	if err := checkFilename(raw); err != nil {
		return Path{}, err
	}
	if !exists && hasTrailingSeparator(raw) {
		return Path{}, ghaerrors.NewMissingDirectory(raw)
	}

	return Path{
		Raw:   raw,
		Abs:   resolved,
		IsDir: exists && info.IsDir(),
	}, nil
}

// checkContainment requires the canonical form of resolved (or of its
// parent when resolved does not exist yet) to stay inside the working
// directory. A parent that does not exist yet is not checked.
func (v *Validator) checkContainment(raw, resolved string, exists bool) error {
	target := resolved
	if !exists {
		target = filepath.Dir(resolved)
		if _, err := os.Stat(target); err != nil {
			return nil
		}
	}

	canonical, err := filepath.EvalSymlinks(target)
	if err != nil {
		return ghaerrors.NewOutsideWorkingDirectory(raw, target).WithCause(err)
	}

	root := v.workDir
	if r, err := filepath.EvalSymlinks(v.workDir); err == nil {
		root = r
	}

	if !within(root, canonical) {
		return ghaerrors.NewOutsideWorkingDirectory(raw, canonical)
	}
	return nil
}

// checkFilename rejects an empty, blank or NUL-containing final component.
// Inputs naming a directory ("." or "./", "dir/", "/") have their last
// named component checked instead.
func checkFilename(raw string) error {
	if raw == "" || strings.ContainsRune(raw, 0) {
		return ghaerrors.NewInvalidFilename(raw)
	}
	trimmed := strings.TrimRight(raw, string(filepath.Separator)+"/")
	if trimmed == "" {
		return nil
	}
	if strings.TrimSpace(filepath.Base(trimmed)) == "" {
		return ghaerrors.NewInvalidFilename(raw)
	}
	return nil
}

func hasTrailingSeparator(p string) bool {
	return strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator))
}

func hasSystemPrefix(p string) bool {
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// within reports whether target equals root or is below it.
func within(root, target string) bool {
	if target == root {
		return true
	}
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return !filepath.IsAbs(rel) && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
