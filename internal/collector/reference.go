package collector

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/harrison/atpath/internal/fileutil"
	"github.com/harrison/atpath/internal/models"
	"github.com/harrison/atpath/internal/pathutil"
	"github.com/harrison/atpath/internal/workspace"
)

// ErrMalformedReference marks a dropped reference that cannot be parsed or stat'd
var ErrMalformedReference = errors.New("malformed reference")

// Classify resolves dropped references (file:// URIs, absolute host paths or
// paths relative to the primary root) and stats each to learn its type.
// Bad references are skipped with a notification.
func Classify(fsys fileutil.FS, ws *workspace.Workspace, refs []string) ([]models.PathEntry, []models.Notification) {
	var entries []models.PathEntry
	var notes []models.Notification

	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		entry, err := resolve(fsys, ws, ref)
		if err != nil {
			notes = append(notes, models.NewWarning(models.KindMalformedReference, ref, "%s", err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, notes
}

func resolve(fsys fileutil.FS, ws *workspace.Workspace, ref string) (models.PathEntry, error) {
	host, err := HostPath(ref)
	if err != nil {
		return models.PathEntry{}, err
	}

	var entry models.PathEntry
	if filepath.IsAbs(host) {
		entry, err = ws.Relativize(host)
	} else {
		entry, err = ws.Resolve(host)
	}
	if err != nil {
		return models.PathEntry{}, fmt.Errorf("%w: %w", ErrMalformedReference, err)
	}

	info, err := fsys.Stat(entry.FullPath)
	if err != nil {
		return models.PathEntry{}, fmt.Errorf("%w: %w", ErrMalformedReference, err)
	}
	entry.Type = pathutil.Classify(info)
	return entry, nil
}

// HostPath extracts a host path from a file:// URI or returns a plain path as is
func HostPath(ref string) (string, error) {
	if !strings.Contains(ref, "://") {
		return filepath.FromSlash(ref), nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedReference, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrMalformedReference, u.Scheme)
	}
	if u.Path == "" {
		return "", fmt.Errorf("%w: empty path in %s", ErrMalformedReference, ref)
	}
	p := u.Path
	if isDrivePath(p) {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}

// isDrivePath reports whether a URI path spells a Windows drive, as in /C:/x
func isDrivePath(p string) bool {
	if len(p) < 3 || p[0] != '/' || p[2] != ':' {
		return false
	}
	c := p[1]
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
