package expander_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/harrison/atpath/internal/exclude"
	"github.com/harrison/atpath/internal/expander"
	"github.com/harrison/atpath/internal/fileutil"
	"github.com/harrison/atpath/internal/models"
	"github.com/harrison/atpath/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expand(t *testing.T, dir string, inputs []string, opts expander.Options) expander.Result {
	t.Helper()
	return expander.Expand(context.Background(), fileutil.OSFS{}, inputs, []models.WorkspaceRoot{testutil.Root(dir)}, opts)
}

func files(g models.ListedGroup) []string {
	var out []string
	for _, f := range g.Files {
		out = append(out, f.RelativePath)
	}
	return out
}

func TestExpandSrcScenario(t *testing.T) {
	dir := testutil.WriteTree(t, "src/index.ts", "src/utils/helper.ts", "README.md")

	result := expand(t, dir, []string{"src"}, expander.Options{})

	require.Len(t, result.Groups, 1)
	assert.Empty(t, result.Notifications)
	assert.Equal(t, "src", result.Groups[0].Source)
	assert.Equal(t, []string{"src/index.ts", "src/utils/helper.ts"}, files(result.Groups[0]))
	for _, f := range result.Groups[0].Files {
		assert.Equal(t, models.TypeFile, f.Type)
		assert.Equal(t, filepath.Join(dir, filepath.FromSlash(f.RelativePath)), f.FullPath)
	}
}

func TestExpandNestedRootAttributedToFirst(t *testing.T) {
	dir := testutil.WriteTree(t, "a/x.txt", "a/b/y.txt", "a/b/z.txt")

	result := expand(t, dir, []string{"a", "a/b"}, expander.Options{})

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "a", result.Groups[0].Source)
	assert.ElementsMatch(t, []string{"a/x.txt", "a/b/y.txt", "a/b/z.txt"}, files(result.Groups[0]))
}

func TestExpandReverseOrderKeepsBothGroups(t *testing.T) {
	dir := testutil.WriteTree(t, "a/x.txt", "a/b/y.txt")

	result := expand(t, dir, []string{"a/b", "a"}, expander.Options{})

	require.Len(t, result.Groups, 2)
	assert.Equal(t, "a/b", result.Groups[0].Source)
	assert.Equal(t, []string{"a/b/y.txt"}, files(result.Groups[0]))
	assert.Equal(t, "a", result.Groups[1].Source)
	assert.Equal(t, []string{"a/x.txt"}, files(result.Groups[1]))
}

func TestExpandIsIdempotent(t *testing.T) {
	dir := testutil.WriteTree(t, "src/index.ts", "src/utils/helper.ts", "docs/a.md", "docs/b/c.md")
	inputs := []string{"docs", "src", "src/utils"}

	first := expand(t, dir, inputs, expander.Options{})
	second := expand(t, dir, inputs, expander.Options{})

	assert.Equal(t, first, second)
}

func TestExpandDeduplicatesInputs(t *testing.T) {
	dir := testutil.WriteTree(t, "src/a.ts")

	result := expand(t, dir, []string{"src", "@/src", "/src/", "src"}, expander.Options{Prefix: "@/"})

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"src/a.ts"}, files(result.Groups[0]))
}

func TestExpandInvalidRootsNotify(t *testing.T) {
	dir := testutil.WriteTree(t, "src/a.ts", "README.md")

	result := expand(t, dir, []string{"missing", "README.md", "../etc", "src"}, expander.Options{})

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "src", result.Groups[0].Source)
	require.Len(t, result.Notifications, 3)
	for _, n := range result.Notifications {
		assert.Equal(t, models.KindInvalidExpansionRoot, n.Kind)
		assert.Equal(t, models.LevelWarning, n.Level)
	}
	assert.Equal(t, "missing", result.Notifications[0].Path)
	assert.Contains(t, result.Notifications[1].Message, "not a folder")
}

func TestExpandExcludedSubtreeIsNotRead(t *testing.T) {
	dir := testutil.WriteTree(t, "web/index.ts", "web/node_modules/react/index.js")
	fsys := testutil.NewRecordingFS()

	result := expander.Expand(context.Background(), fsys, []string{"web"}, []models.WorkspaceRoot{testutil.Root(dir)},
		expander.Options{Rules: exclude.Compile([]string{"node_modules"})})

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"web/index.ts"}, files(result.Groups[0]))
	assert.False(t, fsys.ReadDirOf(filepath.Join(dir, "web", "node_modules")))
}

func TestExpandRootReadFailureNotifies(t *testing.T) {
	dir := testutil.WriteTree(t, "locked/a.txt", "open/b.txt")
	fsys := testutil.FailingFS{Fail: map[string]bool{filepath.Join(dir, "locked"): true}, Err: errors.New("permission denied")}

	result := expander.Expand(context.Background(), fsys, []string{"locked", "open"}, []models.WorkspaceRoot{testutil.Root(dir)},
		expander.Options{})

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "open", result.Groups[0].Source)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, models.KindDirectoryReadFailure, result.Notifications[0].Kind)
	assert.Equal(t, "locked", result.Notifications[0].Path)
}

func TestExpandSubtreeReadFailureIsSilent(t *testing.T) {
	dir := testutil.WriteTree(t, "src/a.ts", "src/locked/b.ts")
	fsys := testutil.FailingFS{Fail: map[string]bool{filepath.Join(dir, "src", "locked"): true}, Err: errors.New("denied")}

	var failed []string
	result := expander.Expand(context.Background(), fsys, []string{"src"}, []models.WorkspaceRoot{testutil.Root(dir)},
		expander.Options{OnError: func(root models.WorkspaceRoot, rel string, err error) { failed = append(failed, rel) }})

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"src/a.ts"}, files(result.Groups[0]))
	assert.Empty(t, result.Notifications)
	assert.Equal(t, []string{"src/locked"}, failed)
}

func TestExpandNoWorkspace(t *testing.T) {
	result := expander.Expand(context.Background(), fileutil.OSFS{}, []string{"src"}, nil, expander.Options{})

	assert.Empty(t, result.Groups)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, models.KindNoWorkspace, result.Notifications[0].Kind)
}

func TestExpandWorkspaceRoot(t *testing.T) {
	dir := testutil.WriteTree(t, "a.txt", "b/c.txt")

	result := expand(t, dir, []string{"/"}, expander.Options{})

	require.Len(t, result.Groups, 1)
	assert.Equal(t, expander.RootLabel, result.Groups[0].Source)
	assert.Equal(t, []string{"a.txt", "b/c.txt"}, files(result.Groups[0]))
}

func TestExpandUsesFirstRootContainingFolder(t *testing.T) {
	first := testutil.WriteTree(t, "web/index.ts")
	second := testutil.WriteTree(t, "api/main.go")
	roots := []models.WorkspaceRoot{{Name: "one", Path: first}, {Name: "two", Path: second}}

	result := expander.Expand(context.Background(), fileutil.OSFS{}, []string{"api"}, roots, expander.Options{})

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "two", result.Groups[0].Files[0].Root)
}

func TestResolveErrors(t *testing.T) {
	dir := testutil.WriteTree(t, "file.txt")
	roots := []models.WorkspaceRoot{testutil.Root(dir)}

	_, err := expander.Resolve(fileutil.OSFS{}, roots, "nope")
	assert.ErrorIs(t, err, expander.ErrInvalidRoot)
	_, err = expander.Resolve(fileutil.OSFS{}, roots, "file.txt")
	assert.ErrorIs(t, err, expander.ErrInvalidRoot)
	root, err := expander.Resolve(fileutil.OSFS{}, roots, "")
	require.NoError(t, err)
	assert.Equal(t, dir, root.Path)
}

func TestParseFolderList(t *testing.T) {
	text := "@/src/app\n\n  # comment\n/docs/\nsrc/app\n  lib  \n"

	assert.Equal(t, []string{"src/app", "docs", "lib"}, expander.ParseFolderList(text, "@/"))
}

func TestAppendFolders(t *testing.T) {
	text := "src\n"

	got := expander.AppendFolders(text, []string{"src", "docs", "lib/x"}, "@/", true)
	assert.Equal(t, "src\n@/docs\n@/lib/x", got)

	got = expander.AppendFolders("", []string{"docs"}, "@/", false)
	assert.Equal(t, "docs", got)
}
