package workspace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNamesRoots(t *testing.T) {
	parent := t.TempDir()
	a := filepath.Join(parent, "one", "app")
	b := filepath.Join(parent, "two", "app")

	ws, err := New(a, b)
	require.NoError(t, err)
	require.Len(t, ws.Roots, 2)
	assert.Equal(t, "app", ws.Roots[0].Name)
	assert.Equal(t, "app-2", ws.Roots[1].Name)
	assert.Equal(t, a, ws.Roots[0].Path)
}

func TestEmptyWorkspace(t *testing.T) {
	var ws *Workspace
	assert.True(t, ws.Empty())
	assert.Nil(t, ws.Snapshot())

	_, err := ws.Primary()
	assert.ErrorIs(t, err, ErrNoWorkspace)

	_, err = (&Workspace{}).Resolve("src")
	assert.ErrorIs(t, err, ErrNoWorkspace)

	_, err = (&Workspace{}).Relativize("/tmp/x")
	assert.ErrorIs(t, err, ErrNoWorkspace)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	ws, err := New(dir)
	require.NoError(t, err)

	entry, err := ws.Resolve("/src//app/")
	require.NoError(t, err)
	assert.Equal(t, "src/app", entry.RelativePath)
	assert.Equal(t, filepath.Join(dir, "src", "app"), entry.FullPath)

	_, err = ws.Resolve("../etc/passwd")
	assert.ErrorIs(t, err, ErrOutsideWorkspace)
}

func TestRelativize(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	ws, err := New(first, second)
	require.NoError(t, err)

	entry, err := ws.Relativize(filepath.Join(second, "lib", "a.go"))
	require.NoError(t, err)
	assert.Equal(t, "lib/a.go", entry.RelativePath)
	assert.Equal(t, ws.Roots[1].Name, entry.Root)

	_, err = ws.Relativize(filepath.Dir(first))
	assert.ErrorIs(t, err, ErrOutsideWorkspace)
}

func TestSnapshotIsACopy(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)

	snap := ws.Snapshot()
	snap[0].Name = "changed"
	assert.NotEqual(t, "changed", ws.Roots[0].Name)
}
