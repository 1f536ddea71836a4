package host

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Opener hands a path to the desktop: open it, or reveal it in the file manager
type Opener interface {
	Open(ctx context.Context, target string, folder, reveal bool) error
}

// SystemOpener runs the platform's open command
type SystemOpener struct{}

// Open runs open (macOS), explorer (Windows) or xdg-open elsewhere
func (SystemOpener) Open(ctx context.Context, target string, folder, reveal bool) error {
	name, args := openCommand(runtime.GOOS, target, folder, reveal)
	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, target, err, out)
	}
	return nil
}

func openCommand(goos, target string, folder, reveal bool) (string, []string) {
	switch goos {
	case "darwin":
		if reveal {
			return "open", []string{"-R", target}
		}
		return "open", []string{target}
	case "windows":
		if reveal {
			return "explorer", []string{"/select," + target}
		}
		return "explorer", []string{target}
	default:
		// xdg-open cannot select a file, so reveal opens the parent folder
		if reveal && !folder {
			target = filepath.Dir(target)
		}
		return "xdg-open", []string{target}
	}
}
