package export

import (
	"testing"

	"github.com/harrison/atpath/internal/models"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

var results = []models.SearchResult{
	{Type: models.TypeFolder, RelativePath: "src", FullPath: "/w/src"},
	{Type: models.TypeFolder, RelativePath: "src/utils", FullPath: "/w/src/utils"},
	{Type: models.TypeFile, RelativePath: "src/a.ts", FullPath: "/w/src/a.ts", IsOutside: boolPtr(false)},
}

func TestSearchText(t *testing.T) {
	got := SearchText(results, Options{Prefix: "@/", PrefixEnabled: true})

	assert.Equal(t, "Folders\n@/src\n@/src/utils\n\nFiles\n@/src/a.ts", got)
}

func TestSearchTextOmitsEmptySections(t *testing.T) {
	assert.Equal(t, "Files\nsrc/a.ts", SearchText(results[2:], Options{}))
	assert.Equal(t, "Folders\nsrc", SearchText(results[:1], Options{}))
	assert.Empty(t, SearchText([]models.SearchResult{{Type: models.TypeFile, Message: "No matching files or folders found."}}, Options{}))
	assert.Empty(t, SearchText(nil, Options{}))
}

func TestFullPathDisplay(t *testing.T) {
	got := SearchText(results[2:], Options{FullPath: true})
	assert.Equal(t, "Files\n/w/src/a.ts", got)
}

func TestListingText(t *testing.T) {
	groups := []models.ListedGroup{
		{Source: "src", Files: []models.PathEntry{{RelativePath: "src/a.ts"}, {RelativePath: "src/b.ts"}}},
		{Source: "empty"},
		{Source: "docs", Files: []models.PathEntry{{RelativePath: "docs/x.md"}}},
	}

	got := ListingText(groups, Options{Prefix: "@/", PrefixEnabled: true})

	assert.Equal(t, "@/src/a.ts\n@/src/b.ts\n\n@/docs/x.md", got)
}

func TestPathsText(t *testing.T) {
	entries := []models.PathEntry{{RelativePath: "b"}, {RelativePath: "Untitled-1"}, {RelativePath: "a", FullPath: "/w/a"}}

	assert.Equal(t, "b\nUntitled-1\n/w/a", PathsText(entries, Options{FullPath: true}))
	assert.Empty(t, PathsText(nil, Options{}))
}
