package models

import (
	"errors"
	"strings"
)

// EntryType classifies a filesystem entry as a file or a folder
type EntryType string

// Entry type constants
const (
	TypeFile   EntryType = "file"
	TypeFolder EntryType = "folder"
)

// Valid reports whether the entry type is one of the known constants
func (t EntryType) Valid() bool {
	return t == TypeFile || t == TypeFolder
}

// WorkspaceRoot is a top-level directory that traversal never ascends above.
type WorkspaceRoot struct {
	Name string `json:"name"` // Display name (defaults to the base name of Path)
	Path string `json:"path"` // Absolute location on the host filesystem
}

// PathEntry is one file or folder resolved against a workspace root.
// RelativePath always uses "/" separators, never starts with "/" and never
// escapes the root it was resolved from.
type PathEntry struct {
	RelativePath string    `json:"relativePath"`
	FullPath     string    `json:"fullPath"`
	Type         EntryType `json:"type"`
	Root         string    `json:"root,omitempty"` // Name of the workspace root
}

// Validate checks the invariants on a PathEntry
func (p PathEntry) Validate() error {
	if !p.Type.Valid() {
		return errors.New("entry type must be file or folder")
	}
	if len(p.RelativePath) > 0 && p.RelativePath[0] == '/' {
		return errors.New("relative path must not start with /")
	}
	for _, seg := range strings.Split(p.RelativePath, "/") {
		if seg == ".." {
			return errors.New("relative path must not contain .. segments")
		}
	}
	return nil
}

// IsFolder returns true for folder entries
func (p PathEntry) IsFolder() bool {
	return p.Type == TypeFolder
}

// SearchResult is one hit of a filename search.
// IsOutside is only set for files. A result with an empty RelativePath is a
// sentinel carrying Message for the UI to render instead of a hit.
type SearchResult struct {
	Type         EntryType `json:"type"`
	RelativePath string    `json:"relativePath"`
	FullPath     string    `json:"fullPath"`
	Root         string    `json:"root,omitempty"`
	IsOutside    *bool     `json:"isOutside,omitempty"`
	Message      string    `json:"message,omitempty"`
}

// IsSentinel reports whether the result is a state message rather than a hit
func (r SearchResult) IsSentinel() bool {
	return r.RelativePath == "" && r.FullPath == ""
}

// Outside returns the isOutside flag, false when unset
func (r SearchResult) Outside() bool {
	return r.IsOutside != nil && *r.IsOutside
}

// ListedGroup holds the files attributed to one requested expansion root
type ListedGroup struct {
	Source string      `json:"source"`
	Files  []PathEntry `json:"files"`
}
