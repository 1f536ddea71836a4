package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommand(t *testing.T) {
	dir := sampleWorkspace(t)
	useMemoryClipboard(t)

	stdin := strings.Join([]string{
		`{"type":"search","query":"help"}`,
		`{"type":"getSettings"}`,
		`{"type":"saveState"}`,
	}, "\n") + "\n"

	out, err := execute(t, stdin, "serve", "--root", dir, "--no-log-file")
	require.NoError(t, err)

	var types []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var reply struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &reply), line)
		types = append(types, reply.Type)
	}
	assert.ElementsMatch(t, []string{"searchResults", "loadSettings"}, types)
}

func TestServeRejectsArgs(t *testing.T) {
	_, err := execute(t, "", "serve", "extra")
	assert.Error(t, err)
}
