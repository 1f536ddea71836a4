// Package export renders panel contents as clipboard text.
package export

import (
	"strings"

	"github.com/harrison/atpath/internal/models"
	"github.com/harrison/atpath/internal/pathutil"
)

// Headings of the search export sections
const (
	FoldersHeading = "Folders"
	FilesHeading   = "Files"
)

// Options selects how each path is displayed
type Options struct {
	Prefix        string
	PrefixEnabled bool
	FullPath      bool
}

// Path renders one path the way the panels display it
func (o Options) Path(relativePath, fullPath string) string {
	return pathutil.Decorate(pathutil.DisplayPath(relativePath, fullPath, o.FullPath), o.Prefix, o.PrefixEnabled)
}

// SearchText lists folder hits then file hits under headings, separated by a
// blank line. Empty sections are omitted and sentinels never exported.
func SearchText(results []models.SearchResult, opts Options) string {
	var folders, files []string
	for _, r := range results {
		if r.IsSentinel() {
			continue
		}
		if r.Type == models.TypeFolder {
			folders = append(folders, opts.Path(r.RelativePath, r.FullPath))
		} else {
			files = append(files, opts.Path(r.RelativePath, r.FullPath))
		}
	}

	var b strings.Builder
	if len(folders) > 0 {
		b.WriteString(FoldersHeading + "\n")
		b.WriteString(strings.Join(folders, "\n"))
	}
	if len(files) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FilesHeading + "\n")
		b.WriteString(strings.Join(files, "\n"))
	}
	return b.String()
}

// ListingText writes each group's files one per line, groups separated by a blank line
func ListingText(groups []models.ListedGroup, opts Options) string {
	blocks := make([]string, 0, len(groups))
	for _, g := range groups {
		if len(g.Files) == 0 {
			continue
		}
		blocks = append(blocks, PathsText(g.Files, opts))
	}
	return strings.Join(blocks, "\n\n")
}

// PathsText writes entries one per line in the given order
func PathsText(entries []models.PathEntry, opts Options) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, opts.Path(e.RelativePath, e.FullPath))
	}
	return strings.Join(lines, "\n")
}
