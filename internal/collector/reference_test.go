package collector

import (
	"net/url"
	"path/filepath"
	"testing"

	"github.com/harrison/atpath/internal/fileutil"
	"github.com/harrison/atpath/internal/models"
	"github.com/harrison/atpath/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileURI(p string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String()
}

func TestClassify(t *testing.T) {
	dir := writeTree(t, "src/index.ts", "docs/")
	ws, err := workspace.New(dir)
	require.NoError(t, err)

	entries, notes := Classify(fileutil.OSFS{}, ws, []string{
		fileURI(filepath.Join(dir, "src", "index.ts")),
		filepath.Join(dir, "docs"),
		"src",
		"  ",
	})

	assert.Empty(t, notes)
	require.Len(t, entries, 3)
	assert.Equal(t, models.PathEntry{RelativePath: "src/index.ts", FullPath: filepath.Join(dir, "src", "index.ts"),
		Type: models.TypeFile, Root: ws.Roots[0].Name}, entries[0])
	assert.Equal(t, "docs", entries[1].RelativePath)
	assert.Equal(t, models.TypeFolder, entries[1].Type)
	assert.Equal(t, "src", entries[2].RelativePath)
	assert.Equal(t, models.TypeFolder, entries[2].Type)
}

func TestClassifySkipsBadReferences(t *testing.T) {
	dir := writeTree(t, "a.txt")
	ws, err := workspace.New(dir)
	require.NoError(t, err)

	entries, notes := Classify(fileutil.OSFS{}, ws, []string{
		"https://example.com/a.txt",
		fileURI(filepath.Join(dir, "missing.txt")),
		fileURI(filepath.Dir(dir)),
		"a.txt",
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].RelativePath)
	require.Len(t, notes, 3)
	for _, n := range notes {
		assert.Equal(t, models.KindMalformedReference, n.Kind)
	}
}

func TestHostPath(t *testing.T) {
	p, err := HostPath("file:///home/me/a%20b.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/home/me/a b.txt"), p)

	_, err = HostPath("untitled://Untitled-1")
	assert.ErrorIs(t, err, ErrMalformedReference)

	_, err = HostPath("file://")
	assert.ErrorIs(t, err, ErrMalformedReference)

	p, err = HostPath("file:///C:/Users/me/a.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("C:/Users/me/a.txt"), p)

	p, err = HostPath("file:///c%3A/x")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("c:/x"), p)

	p, err = HostPath("src/app")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("src/app"), p)
}
