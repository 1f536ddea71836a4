package fileutil

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path"

	"github.com/harrison/atpath/internal/exclude"
	"github.com/harrison/atpath/internal/models"
	"github.com/harrison/atpath/internal/pathutil"
)

// FS is the directory access a walk needs. Names are host paths.
type FS interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	Stat(name string) (fs.FileInfo, error)
}

// OSFS reads the host filesystem
type OSFS struct{}

// ReadDir returns the entries of a host directory sorted by name
func (OSFS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }

// Stat follows symlinks
func (OSFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

// WalkOptions configures a single walk
type WalkOptions struct {
	// Rules prunes directories and filters entries. Nil excludes nothing.
	Rules *exclude.RuleSet
	// IncludeFolders emits a folder entry for every non-excluded directory below start
	IncludeFolders bool
	// OnError receives directory read failures; the failed subtree is skipped
	OnError func(rel string, err error)
}

// Walk lazily enumerates the subtree of root at the relative path start.
// The start directory itself is never emitted. Cancelling ctx stops the walk
// at the next directory boundary.
func Walk(ctx context.Context, fsys FS, root models.WorkspaceRoot, start string, opts WalkOptions) iter.Seq[models.PathEntry] {
	start = pathutil.Normalize(start)
	w := &walker{ctx: ctx, fsys: fsys, root: root, opts: opts}

	return func(yield func(models.PathEntry) bool) {
		w.dir(start, false, yield)
	}
}

type walker struct {
	ctx  context.Context
	fsys FS
	root models.WorkspaceRoot
	opts WalkOptions
}

func (w *walker) entry(rel string, typ models.EntryType) models.PathEntry {
	return models.PathEntry{
		RelativePath: rel,
		FullPath:     pathutil.Join(w.root.Path, rel),
		Type:         typ,
		Root:         w.root.Name,
	}
}

// dir walks one directory; it returns false once the consumer stops
func (w *walker) dir(rel string, emitSelf bool, yield func(models.PathEntry) bool) bool {
	if w.opts.Rules.Excludes(rel, true) {
		return true
	}
	if emitSelf && w.opts.IncludeFolders {
		if !yield(w.entry(rel, models.TypeFolder)) {
			return false
		}
	}
	if w.opts.Rules.ExcludesContents(rel) {
		return true
	}
	if w.ctx.Err() != nil {
		return false
	}

	entries, err := w.fsys.ReadDir(pathutil.Join(w.root.Path, rel))
	if err != nil {
		if w.opts.OnError != nil {
			w.opts.OnError(rel, err)
		}
		return true
	}

	for _, e := range entries {
		childRel := e.Name()
		if rel != "" {
			childRel = path.Join(rel, e.Name())
		}

		isDir, ok := w.classify(childRel, e)
		if !ok {
			continue
		}
		if isDir {
			if !w.dir(childRel, true, yield) {
				return false
			}
			continue
		}
		if w.opts.Rules.Excludes(childRel, false) {
			continue
		}
		if !yield(w.entry(childRel, models.TypeFile)) {
			return false
		}
	}
	return true
}

// classify reports whether an entry is a directory to descend into.
// Symlinks to files count as files; symlinked directories are not followed,
// which keeps cyclic links from looping. Sockets, devices and broken links
// are skipped.
func (w *walker) classify(rel string, e fs.DirEntry) (isDir bool, ok bool) {
	mode := e.Type()
	switch {
	case mode.IsDir():
		return true, true
	case mode.IsRegular():
		return false, true
	case mode&fs.ModeSymlink != 0:
		info, err := w.fsys.Stat(pathutil.Join(w.root.Path, rel))
		if err != nil || !info.Mode().IsRegular() {
			return false, false
		}
		return false, true
	default:
		return false, false
	}
}
