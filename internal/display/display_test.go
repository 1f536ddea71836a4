package display

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/harrison/atpath/internal/export"
	"github.com/harrison/atpath/internal/models"
	"github.com/stretchr/testify/assert"
)

func outside(b bool) *bool { return &b }

func TestSearchResultsPlain(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false, export.Options{Prefix: "@/", PrefixEnabled: true})

	r.SearchResults([]models.SearchResult{
		{Type: models.TypeFolder, RelativePath: "src", FullPath: "/w/src"},
		{Type: models.TypeFile, RelativePath: "src/a.ts", FullPath: "/w/src/a.ts", IsOutside: outside(false)},
		{Type: models.TypeFile, RelativePath: "lib/b.ts", FullPath: "/w/lib/b.ts", IsOutside: outside(true)},
	})

	assert.Equal(t, "Folders\n@/src\n\nFiles\n@/src/a.ts\n@/lib/b.ts\n", buf.String())
}

func TestSearchResultsSentinel(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, false, export.Options{}).SearchResults([]models.SearchResult{
		{Type: models.TypeFile, Message: "No matching files or folders found."},
	})

	assert.Equal(t, "No matching files or folders found.\n", buf.String())
}

func TestSearchResultsColorDimsInsideFiles(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, true, export.Options{}).SearchResults([]models.SearchResult{
		{Type: models.TypeFile, RelativePath: "src/a.ts", IsOutside: outside(false)},
	})

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "src/a.ts")
}

func TestGroups(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, false, export.Options{}).Groups([]models.ListedGroup{
		{Source: "src", Files: []models.PathEntry{{RelativePath: "src/a.ts"}}},
		{Source: "docs", Files: []models.PathEntry{{RelativePath: "docs/x.md"}, {RelativePath: "docs/y.md"}}},
	})

	assert.Equal(t, "# src (1)\nsrc/a.ts\n\n# docs (2)\ndocs/x.md\ndocs/y.md\n", buf.String())
}

func TestNotificationsAndCopied(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false, export.Options{})

	r.Notifications([]models.Notification{models.NewWarning(models.KindInvalidExpansionRoot, "x", "folder x does not exist")})
	r.Copied(1)
	r.Copied(3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"warning: folder x does not exist",
		"copied 1 line to clipboard",
		"copied 3 lines to clipboard",
	}, lines)
}

func TestColorEnabledForRegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	assert.NoError(t, err)
	defer f.Close()

	assert.False(t, ColorEnabled(f))
}
