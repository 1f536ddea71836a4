package models

import "fmt"

// Notification levels
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// NotificationKind names the advisory condition a Notification reports
type NotificationKind string

// Advisory conditions produced by traversal and classification. None of them
// abort an operation; they accompany a best-effort partial result.
const (
	KindNoWorkspace          NotificationKind = "no_workspace"
	KindDirectoryReadFailure NotificationKind = "directory_read_failure"
	KindInvalidExpansionRoot NotificationKind = "invalid_expansion_root"
	KindMalformedReference   NotificationKind = "malformed_reference"
)

// Notification is a non-fatal message surfaced next to a result
type Notification struct {
	Level   string           `json:"level"`
	Kind    NotificationKind `json:"kind"`
	Path    string           `json:"path,omitempty"`
	Message string           `json:"message"`
}

// NewWarning builds a warning-level notification
func NewWarning(kind NotificationKind, path, format string, args ...interface{}) Notification {
	return Notification{
		Level:   LevelWarning,
		Kind:    kind,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

// String renders the notification for logs
func (n Notification) String() string {
	if n.Path == "" {
		return fmt.Sprintf("%s: %s", n.Kind, n.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", n.Kind, n.Message, n.Path)
}
