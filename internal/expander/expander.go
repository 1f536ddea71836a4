// Package expander turns a list of folder references into the files beneath them,
// grouped by the folder that first reached each file.
package expander

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harrison/atpath/internal/exclude"
	"github.com/harrison/atpath/internal/fileutil"
	"github.com/harrison/atpath/internal/models"
	"github.com/harrison/atpath/internal/pathutil"
	"github.com/harrison/atpath/internal/workspace"
)

// ErrInvalidRoot marks a requested folder that is missing or not a directory
var ErrInvalidRoot = errors.New("invalid expansion root")

// RootLabel is the group source for a request naming the workspace root itself
const RootLabel = "."

// Options holds the per-pass snapshot of settings
type Options struct {
	Rules   *exclude.RuleSet
	Prefix  string // Display decoration stripped from inputs
	OnError func(root models.WorkspaceRoot, rel string, err error)
}

// Result is the outcome of one expansion pass
type Result struct {
	Groups        []models.ListedGroup  `json:"groupedResults"`
	Notifications []models.Notification `json:"notifications,omitempty"`
}

// Expand enumerates the files under each requested folder, in request order.
// A file reachable from several folders is attributed to the first, and
// folders left with no files are omitted. Bad folders produce notifications
// and never abort the pass.
func Expand(ctx context.Context, fsys fileutil.FS, inputs []string, roots []models.WorkspaceRoot, opts Options) Result {
	result := Result{Groups: []models.ListedGroup{}}
	if len(roots) == 0 {
		result.Notifications = append(result.Notifications,
			models.NewWarning(models.KindNoWorkspace, "", "%s", workspace.ErrNoWorkspace))
		return result
	}

	seen := make(map[string]bool)
	for _, rel := range normalizeInputs(inputs, opts.Prefix) {
		if ctx.Err() != nil {
			break
		}

		root, err := Resolve(fsys, roots, rel)
		if err != nil {
			result.Notifications = append(result.Notifications,
				models.NewWarning(models.KindInvalidExpansionRoot, label(rel), "%s", err))
			continue
		}

		var rootErr error
		walkOpts := fileutil.WalkOptions{
			Rules: opts.Rules,
			OnError: func(failed string, err error) {
				if failed == rel {
					rootErr = err
				}
				if opts.OnError != nil {
					opts.OnError(root, failed, err)
				}
			},
		}

		group := models.ListedGroup{Source: label(rel)}
		for entry := range fileutil.Walk(ctx, fsys, root, rel, walkOpts) {
			if seen[entry.FullPath] {
				continue
			}
			seen[entry.FullPath] = true
			group.Files = append(group.Files, entry)
		}

		if rootErr != nil {
			result.Notifications = append(result.Notifications,
				models.NewWarning(models.KindDirectoryReadFailure, label(rel), "cannot read folder: %v", rootErr))
		}
		if len(group.Files) > 0 {
			result.Groups = append(result.Groups, group)
		}
	}

	return result
}

// Resolve finds the first root under which rel is an existing directory
func Resolve(fsys fileutil.FS, roots []models.WorkspaceRoot, rel string) (models.WorkspaceRoot, error) {
	if pathutil.Escapes(rel) {
		return models.WorkspaceRoot{}, fmt.Errorf("%w: %s climbs above the workspace", ErrInvalidRoot, rel)
	}

	notDir := false
	for _, root := range roots {
		info, err := fsys.Stat(pathutil.Join(root.Path, rel))
		if err != nil {
			continue
		}
		if info.IsDir() {
			return root, nil
		}
		notDir = true
	}

	if notDir {
		return models.WorkspaceRoot{}, fmt.Errorf("%w: %s is not a folder", ErrInvalidRoot, label(rel))
	}
	return models.WorkspaceRoot{}, fmt.Errorf("%w: folder %s does not exist", ErrInvalidRoot, label(rel))
}

// ParseFolderList reads the lister text box: one folder per line, blank
// lines and "#" comments ignored, decoration and leading "/" stripped.
func ParseFolderList(text, prefix string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return normalizeInputs(out, prefix)
}

// AppendFolders adds folders to the lister text, one per line, skipping any
// already listed.
func AppendFolders(text string, folders []string, prefix string, decorate bool) string {
	present := make(map[string]bool)
	for _, rel := range ParseFolderList(text, prefix) {
		present[rel] = true
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(text, "\n"))
	for _, f := range folders {
		rel := pathutil.Normalize(f)
		if present[rel] {
			continue
		}
		present[rel] = true
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pathutil.Decorate(rel, prefix, decorate))
	}
	return b.String()
}

// normalizeInputs strips decoration and drops repeats, keeping first-seen order
func normalizeInputs(inputs []string, prefix string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in) == "" {
			continue
		}
		rel := pathutil.StripDecoration(in, prefix)
		if seen[rel] {
			continue
		}
		seen[rel] = true
		out = append(out, rel)
	}
	return out
}

func label(rel string) string {
	if rel == "" {
		return RootLabel
	}
	return rel
}
