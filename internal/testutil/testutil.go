// Package testutil holds filesystem fixtures shared by package tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/harrison/atpath/internal/fileutil"
	"github.com/harrison/atpath/internal/models"
)

// WriteTree creates a workspace under t.TempDir(). Paths ending in "/" become
// empty directories, everything else an empty file with parents created.
func WriteTree(t *testing.T, paths ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(p, "/")))
		if strings.HasSuffix(p, "/") {
			if err := os.MkdirAll(full, 0755); err != nil {
				t.Fatalf("mkdir %s: %v", p, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("mkdir parent of %s: %v", p, err)
		}
		if err := os.WriteFile(full, []byte(p), 0644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return root
}

// Root wraps a directory as a single workspace root named after its base
func Root(dir string) models.WorkspaceRoot {
	return models.WorkspaceRoot{Name: filepath.Base(dir), Path: dir}
}

// RecordingFS counts calls made to the wrapped filesystem
type RecordingFS struct {
	FS fileutil.FS

	mu    sync.Mutex
	reads []string
	stats []string
}

// NewRecordingFS wraps the host filesystem
func NewRecordingFS() *RecordingFS {
	return &RecordingFS{FS: fileutil.OSFS{}}
}

func (r *RecordingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	r.mu.Lock()
	r.reads = append(r.reads, name)
	r.mu.Unlock()
	return r.FS.ReadDir(name)
}

func (r *RecordingFS) Stat(name string) (fs.FileInfo, error) {
	r.mu.Lock()
	r.stats = append(r.stats, name)
	r.mu.Unlock()
	return r.FS.Stat(name)
}

// Reads returns the host paths passed to ReadDir so far
func (r *RecordingFS) Reads() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reads...)
}

// Calls returns the total number of ReadDir and Stat calls
func (r *RecordingFS) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reads) + len(r.stats)
}

// ReadDirOf reports whether ReadDir was called for the host path
func (r *RecordingFS) ReadDirOf(name string) bool {
	for _, p := range r.Reads() {
		if p == filepath.Clean(name) {
			return true
		}
	}
	return false
}

// FailingFS returns Err from ReadDir for the listed host paths
type FailingFS struct {
	fileutil.OSFS
	Fail map[string]bool
	Err  error
}

func (f FailingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if f.Fail[filepath.Clean(name)] {
		return nil, f.Err
	}
	return f.OSFS.ReadDir(name)
}

// GateFS blocks the first ReadDir of one directory until Release is called,
// letting tests hold a walk in flight while later walks run freely.
type GateFS struct {
	fileutil.OSFS
	Block string

	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

// NewGateFS gates the first read of the host directory block
func NewGateFS(block string) *GateFS {
	return &GateFS{
		Block:   filepath.Clean(block),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *GateFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if filepath.Clean(name) == g.Block {
		first := false
		g.once.Do(func() {
			first = true
			close(g.entered)
		})
		if first {
			<-g.release
		}
	}
	return g.OSFS.ReadDir(name)
}

// Entered is closed once a gated read starts
func (g *GateFS) Entered() <-chan struct{} { return g.entered }

// Release unblocks the gated read
func (g *GateFS) Release() { close(g.release) }
