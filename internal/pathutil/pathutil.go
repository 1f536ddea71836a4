// Package pathutil holds the pure path helpers shared by every panel:
// separator normalization, display decoration and file/folder classification.
package pathutil

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/harrison/atpath/internal/models"
)

// ErrEscapesRoot is returned when a path resolves above its workspace root
var ErrEscapesRoot = errors.New("path escapes workspace root")

// Normalize converts a relative path to "/" separators, cleans "." and
// duplicate separators, and strips leading and trailing slashes.
// The workspace root itself normalizes to "".
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	p = strings.Trim(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// Escapes reports whether a normalized relative path climbs above its root
func Escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, "../")
}

// Relative computes the "/"-separated path of full relative to root.
// It fails with ErrEscapesRoot when full lies outside root.
func Relative(root, full string) (string, error) {
	rel, err := filepath.Rel(root, full)
	if err != nil {
		return "", err
	}
	rel = Normalize(filepath.ToSlash(rel))
	if Escapes(rel) {
		return "", ErrEscapesRoot
	}
	return rel, nil
}

// Join resolves a normalized relative path against a root on the host filesystem
func Join(root, rel string) string {
	if rel == "" {
		return filepath.Clean(root)
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

// Base returns the last segment of a relative path
func Base(rel string) string {
	if rel == "" {
		return ""
	}
	return path.Base(rel)
}

// IsDescendant reports whether child lies strictly below parent.
// The match is separator-bounded: "src" contains "src/a.ts" but not "src2/b.ts".
func IsDescendant(child, parent string) bool {
	if parent == "" {
		return child != ""
	}
	return strings.HasPrefix(child, parent+"/")
}

// Decorate prepends the display prefix (for example "@/") when enabled
func Decorate(p, prefix string, enabled bool) string {
	if !enabled || prefix == "" {
		return p
	}
	return prefix + p
}

// StripDecoration removes a display prefix and any leading "/" so that
// pasted references like "@/src/app" resolve back to "src/app".
func StripDecoration(p, prefix string) string {
	p = strings.TrimSpace(p)
	if prefix != "" {
		p = strings.TrimPrefix(p, prefix)
	}
	return Normalize(p)
}

// ClassifyMode maps a file mode to an entry type
func ClassifyMode(mode fs.FileMode) models.EntryType {
	if mode.IsDir() {
		return models.TypeFolder
	}
	return models.TypeFile
}

// Classify maps a stat result to an entry type
func Classify(info fs.FileInfo) models.EntryType {
	return ClassifyMode(info.Mode())
}

// DisplayPath picks the path form the host asked for
func DisplayPath(relativePath, fullPath string, useFullPath bool) string {
	if useFullPath && fullPath != "" {
		return fullPath
	}
	return relativePath
}
