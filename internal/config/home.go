package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the atpath home directory
const HomeEnv = "ATPATH_HOME"

// HomeDirName is the per-workspace home directory name
const HomeDirName = ".atpath"

// HomeDir returns the atpath home directory for a workspace root.
// Priority order:
//  1. ATPATH_HOME environment variable (if set)
//  2. <root>/.atpath
//
// The directory is not created; writers create it on demand.
func HomeDir(root string) (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		root = cwd
	}
	return filepath.Join(root, HomeDirName), nil
}

// ConfigPath returns <home>/config.yaml for the workspace root
func ConfigPath(root string) (string, error) {
	home, err := HomeDir(root)
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// StateDBPath returns <home>/state.db, the panel snapshot database
func StateDBPath(root string) (string, error) {
	home, err := HomeDir(root)
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "state.db"), nil
}

// LogDir returns <home>/logs and creates it
func LogDir(root string) (string, error) {
	home, err := HomeDir(root)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	return dir, nil
}
