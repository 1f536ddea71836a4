// Package workspace resolves paths against the open workspace roots.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/harrison/atpath/internal/models"
	"github.com/harrison/atpath/internal/pathutil"
)

var (
	// ErrNoWorkspace is returned when no root is open
	ErrNoWorkspace = errors.New("no workspace open")
	// ErrOutsideWorkspace rejects a path that lies under no known root
	ErrOutsideWorkspace = errors.New("path is outside every workspace root")
)

// Workspace is the ordered list of open roots. The first root is primary:
// settings, state and single-root operations use it.
type Workspace struct {
	Roots []models.WorkspaceRoot
}

// New builds a workspace from host directories. Paths are made absolute and
// names are the base names, suffixed when two roots share one.
func New(dirs ...string) (*Workspace, error) {
	ws := &Workspace{}
	used := make(map[string]int)
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve workspace root %s: %w", dir, err)
		}
		name := filepath.Base(abs)
		used[name]++
		if n := used[name]; n > 1 {
			name = name + "-" + strconv.Itoa(n)
		}
		ws.Roots = append(ws.Roots, models.WorkspaceRoot{Name: name, Path: abs})
	}
	return ws, nil
}

// Empty reports whether no root is open
func (w *Workspace) Empty() bool {
	return w == nil || len(w.Roots) == 0
}

// Primary returns the first root
func (w *Workspace) Primary() (models.WorkspaceRoot, error) {
	if w.Empty() {
		return models.WorkspaceRoot{}, ErrNoWorkspace
	}
	return w.Roots[0], nil
}

// Snapshot copies the root list so a walk is unaffected by later edits
func (w *Workspace) Snapshot() []models.WorkspaceRoot {
	if w.Empty() {
		return nil
	}
	return append([]models.WorkspaceRoot(nil), w.Roots...)
}

// Resolve maps a relative path to a host path under the primary root.
// Paths that climb above the root are rejected with ErrOutsideWorkspace.
func (w *Workspace) Resolve(rel string) (models.PathEntry, error) {
	root, err := w.Primary()
	if err != nil {
		return models.PathEntry{}, err
	}
	rel = pathutil.Normalize(rel)
	if pathutil.Escapes(rel) {
		return models.PathEntry{}, fmt.Errorf("%w: %s", ErrOutsideWorkspace, rel)
	}
	return models.PathEntry{
		RelativePath: rel,
		FullPath:     pathutil.Join(root.Path, rel),
		Root:         root.Name,
	}, nil
}

// Relativize finds the first root containing the host path full and returns
// the path relative to it.
func (w *Workspace) Relativize(full string) (models.PathEntry, error) {
	if w.Empty() {
		return models.PathEntry{}, ErrNoWorkspace
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return models.PathEntry{}, fmt.Errorf("resolve %s: %w", full, err)
	}
	for _, root := range w.Roots {
		rel, err := pathutil.Relative(root.Path, abs)
		if err != nil {
			continue
		}
		return models.PathEntry{RelativePath: rel, FullPath: abs, Root: root.Name}, nil
	}
	return models.PathEntry{}, fmt.Errorf("%w: %s", ErrOutsideWorkspace, full)
}
