package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/atpath/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInitAndShow(t *testing.T) {
	dir := sampleWorkspace(t)
	cfgPath := filepath.Join(t.TempDir(), "atpath.yaml")

	out, err := execute(t, "", "config", "init", "--root", dir, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+cfgPath)

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = execute(t, "", "config", "init", "--root", dir, "--config", cfgPath)
	assert.Error(t, err, "init must not overwrite without --force")
	_, err = execute(t, "", "config", "init", "--root", dir, "--config", cfgPath, "--force")
	assert.NoError(t, err)

	out, err = execute(t, "", "config", "show", "--root", dir, "--config", cfgPath, "--full-path")
	require.NoError(t, err)
	assert.Contains(t, out, "# "+cfgPath)
	assert.Contains(t, out, "log_level: info")
	assert.Contains(t, out, "full_path: true")
}

func TestConfigShowWithoutFile(t *testing.T) {
	dir := sampleWorkspace(t)

	out, err := execute(t, "", "config", "show", "--root", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "exclude_enabled: true")
	assert.Contains(t, out, "# effective search exclusions:\n#   **/node_modules/**\n#   **/.git/**\n")

	_, statErr := os.Stat(filepath.Join(dir, config.HomeDirName))
	assert.True(t, os.IsNotExist(statErr), "show must not create the home directory")
}

func TestConfigShowListsEffectiveRules(t *testing.T) {
	dir := sampleWorkspace(t)
	cfgPath := filepath.Join(t.TempDir(), "atpath.yaml")
	cfg := config.DefaultConfig()
	cfg.Exclusions.Collector = "dist/\n# note\n!dist/keep.txt\n"
	require.NoError(t, cfg.Save(cfgPath))

	out, err := execute(t, "", "config", "show", "--root", dir, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "# effective collector exclusions:\n#   dist/\n#   !dist/keep.txt\n")
	assert.Contains(t, out, "# effective open files exclusions: none\n")
}
