package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   PathEntry
		wantErr bool
	}{
		{"valid file", PathEntry{RelativePath: "src/a.ts", Type: TypeFile}, false},
		{"valid folder", PathEntry{RelativePath: "src", Type: TypeFolder}, false},
		{"leading slash", PathEntry{RelativePath: "/src", Type: TypeFolder}, true},
		{"escaping segment", PathEntry{RelativePath: "src/../../etc", Type: TypeFile}, true},
		{"dotted name is fine", PathEntry{RelativePath: "src/..config", Type: TypeFile}, false},
		{"unknown type", PathEntry{RelativePath: "a", Type: "link"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSearchResultIsOutsideOnlySerializedWhenSet(t *testing.T) {
	folder := SearchResult{Type: TypeFolder, RelativePath: "src", FullPath: "/w/src"}
	data, err := json.Marshal(folder)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "isOutside")

	outside := true
	file := SearchResult{Type: TypeFile, RelativePath: "x.ts", FullPath: "/w/x.ts", IsOutside: &outside}
	data, err = json.Marshal(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isOutside":true`)
	assert.True(t, file.Outside())
	assert.False(t, folder.Outside())
}

func TestSearchResultSentinel(t *testing.T) {
	sentinel := SearchResult{Type: TypeFile, Message: "No matching files or folders found."}
	assert.True(t, sentinel.IsSentinel())

	hit := SearchResult{Type: TypeFile, RelativePath: "a", FullPath: "/w/a"}
	assert.False(t, hit.IsSentinel())
}

func TestNotificationString(t *testing.T) {
	n := NewWarning(KindInvalidExpansionRoot, "docs", "folder %q does not exist", "docs")
	assert.Equal(t, LevelWarning, n.Level)
	assert.Equal(t, `invalid_expansion_root: folder "docs" does not exist (docs)`, n.String())

	n = NewWarning(KindNoWorkspace, "", "no workspace open")
	assert.Equal(t, "no_workspace: no workspace open", n.String())
}
