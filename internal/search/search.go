// Package search finds workspace files and folders whose names contain a term.
package search

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/harrison/atpath/internal/exclude"
	"github.com/harrison/atpath/internal/fileutil"
	"github.com/harrison/atpath/internal/models"
	"github.com/harrison/atpath/internal/pathutil"
)

// Sentinel messages rendered in place of an empty result list
const (
	MsgNoWorkspace = "No workspace open."
	MsgNoResults   = "No matching files or folders found."
)

// Request is one search box submission
type Request struct {
	Term      string `json:"query"`
	MatchCase bool   `json:"matchCase"`
}

// Options carries the per-pass snapshot of exclusion rules
type Options struct {
	Rules   *exclude.RuleSet
	OnError func(root models.WorkspaceRoot, rel string, err error)
}

// Search walks every root with folder emission enabled and returns matching
// folders then files, each group in locale order. An empty term returns an
// empty list without touching the filesystem.
func Search(ctx context.Context, fsys fileutil.FS, req Request, roots []models.WorkspaceRoot, opts Options) []models.SearchResult {
	if req.Term == "" {
		return []models.SearchResult{}
	}
	if len(roots) == 0 {
		return []models.SearchResult{sentinel(MsgNoWorkspace)}
	}

	match := matcher(req)
	var folders, files []models.PathEntry

	for _, root := range roots {
		walkOpts := fileutil.WalkOptions{Rules: opts.Rules, IncludeFolders: true}
		if opts.OnError != nil {
			walkOpts.OnError = func(rel string, err error) { opts.OnError(root, rel, err) }
		}
		for entry := range fileutil.Walk(ctx, fsys, root, "", walkOpts) {
			if !match(pathutil.Base(entry.RelativePath)) {
				continue
			}
			if entry.IsFolder() {
				folders = append(folders, entry)
			} else {
				files = append(files, entry)
			}
		}
	}

	if len(folders) == 0 && len(files) == 0 {
		return []models.SearchResult{sentinel(MsgNoResults)}
	}

	results := make([]models.SearchResult, 0, len(folders)+len(files))
	for _, f := range folders {
		results = append(results, models.SearchResult{
			Type:         models.TypeFolder,
			RelativePath: f.RelativePath,
			FullPath:     f.FullPath,
			Root:         f.Root,
		})
	}
	for _, f := range files {
		outside := IsOutside(f, folders)
		results = append(results, models.SearchResult{
			Type:         models.TypeFile,
			RelativePath: f.RelativePath,
			FullPath:     f.FullPath,
			Root:         f.Root,
			IsOutside:    &outside,
		})
	}

	Sort(results)
	return results
}

// IsOutside reports whether file lies below none of the matched folders of
// its own workspace root.
func IsOutside(file models.PathEntry, folders []models.PathEntry) bool {
	for _, folder := range folders {
		if folder.Root == file.Root && pathutil.IsDescendant(file.RelativePath, folder.RelativePath) {
			return false
		}
	}
	return true
}

// Sort orders folders before files, then by relative path under root-locale
// collation. Equal paths from different roots keep root order.
func Sort(results []models.SearchResult) {
	coll := collate.New(language.Und)
	slices.SortStableFunc(results, func(a, b models.SearchResult) int {
		if a.Type != b.Type {
			if a.Type == models.TypeFolder {
				return -1
			}
			return 1
		}
		return coll.CompareString(a.RelativePath, b.RelativePath)
	})
}

func matcher(req Request) func(name string) bool {
	if req.MatchCase {
		return func(name string) bool { return strings.Contains(name, req.Term) }
	}
	fold := cases.Fold()
	term := fold.String(req.Term)
	return func(name string) bool { return strings.Contains(fold.String(name), term) }
}

func sentinel(msg string) models.SearchResult {
	return models.SearchResult{Type: models.TypeFile, Message: msg}
}
