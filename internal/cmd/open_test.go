package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/harrison/atpath/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCommand(t *testing.T) {
	dir := sampleWorkspace(t)
	rec := useRecordingOpener(t)

	_, err := execute(t, "", "open", "src", "--root", dir)
	require.NoError(t, err)
	_, err = execute(t, "", "open", "@/README.md", "--root", dir, "--reveal")
	require.NoError(t, err)
	_, err = execute(t, "", "open", "missing.txt", "--root", dir)
	require.Error(t, err)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, recordedOpen{filepath.Join(dir, "src"), true, false}, rec.calls[0])
	assert.Equal(t, recordedOpen{filepath.Join(dir, "README.md"), false, true}, rec.calls[1])
}

func TestOpenRejectsPathsOutsideWorkspace(t *testing.T) {
	dir := sampleWorkspace(t)
	rec := useRecordingOpener(t)

	_, err := execute(t, "", "open", "../secret", "--root", dir, "--folder")
	assert.True(t, errors.Is(err, workspace.ErrOutsideWorkspace))
	assert.Empty(t, rec.calls)
}
