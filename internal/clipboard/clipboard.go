// Package clipboard writes exported text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility is present (headless hosts)
var ErrUnavailable = errors.New("system clipboard unavailable")

// Writer receives clipboard text
type Writer interface {
	WriteAll(text string) error
}

// System writes through atotto/clipboard (pbcopy, xclip, xsel, wl-copy, win32)
type System struct{}

// WriteAll replaces the clipboard contents
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Memory keeps the last written text; used when no system clipboard exists
// and the host reads the text from the reply instead.
type Memory struct {
	mu   sync.Mutex
	text string
	n    int
}

// WriteAll stores text
func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.n++
	return nil
}

// Text returns the last stored text
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many times WriteAll was called
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}

// Default picks the system clipboard when one is available
func Default() Writer {
	if clipboard.Unsupported {
		return &Memory{}
	}
	return System{}
}
