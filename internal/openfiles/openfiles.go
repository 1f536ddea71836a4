// Package openfiles lists the host editor's open tabs as workspace paths.
package openfiles

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/harrison/atpath/internal/collector"
	"github.com/harrison/atpath/internal/exclude"
	"github.com/harrison/atpath/internal/models"
	"github.com/harrison/atpath/internal/workspace"
)

// Schemes the panel lists; anything else (git:, output:, vscode-settings:) is dropped
const (
	SchemeFile     = "file"
	SchemeUntitled = "untitled"
)

// List maps tab URIs to entries relative to the workspace, in tab order
// without repeats. Files outside every root and files matching rules are
// left out. Untitled buffers are listed by name with no full path.
func List(ws *workspace.Workspace, uris []string, rules *exclude.RuleSet) []models.PathEntry {
	seen := make(map[string]bool)
	var out []models.PathEntry

	for _, raw := range uris {
		entry, ok := toEntry(ws, strings.TrimSpace(raw))
		if !ok || seen[entry.RelativePath] {
			continue
		}
		if rules.Excludes(entry.RelativePath, false) {
			continue
		}
		seen[entry.RelativePath] = true
		out = append(out, entry)
	}
	return out
}

func toEntry(ws *workspace.Workspace, raw string) (models.PathEntry, bool) {
	if raw == "" {
		return models.PathEntry{}, false
	}

	scheme := SchemeFile
	if i := strings.Index(raw, ":"); i > 1 && isScheme(raw[:i]) {
		scheme = raw[:i]
	}

	switch scheme {
	case SchemeUntitled:
		u, err := url.Parse(raw)
		if err != nil {
			return models.PathEntry{}, false
		}
		name := u.Opaque
		if name == "" {
			name = strings.TrimPrefix(u.Path, "/")
		}
		if name == "" {
			return models.PathEntry{}, false
		}
		return models.PathEntry{RelativePath: name, Type: models.TypeFile}, true
	case SchemeFile:
		host, err := collector.HostPath(raw)
		if err != nil {
			return models.PathEntry{}, false
		}
		var entry models.PathEntry
		if filepath.IsAbs(host) {
			entry, err = ws.Relativize(host)
		} else {
			entry, err = ws.Resolve(host)
		}
		if err != nil || entry.RelativePath == "" {
			return models.PathEntry{}, false
		}
		entry.Type = models.TypeFile
		return entry, true
	default:
		return models.PathEntry{}, false
	}
}

// isScheme rejects drive letters and paths that merely contain a colon
func isScheme(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}
