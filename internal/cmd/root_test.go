package cmd

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/harrison/atpath/internal/clipboard"
	"github.com/harrison/atpath/internal/config"
	"github.com/harrison/atpath/internal/host"
)

// execute runs the root command against an isolated atpath home
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.HomeEnv, t.TempDir())

	cmd := NewRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// writeTree creates files (or directories, for names ending in "/") under a temp root
func writeTree(t *testing.T, paths ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(p, "/")))
		if strings.HasSuffix(p, "/") {
			if err := os.MkdirAll(full, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(p), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func sampleWorkspace(t *testing.T) string {
	return writeTree(t, "src/index.ts", "src/utils/helper.ts", "README.md")
}

func useMemoryClipboard(t *testing.T) *clipboard.Memory {
	t.Helper()
	mem := &clipboard.Memory{}
	prev := newClipboard
	newClipboard = func() clipboard.Writer { return mem }
	t.Cleanup(func() { newClipboard = prev })
	return mem
}

type recordedOpen struct {
	target         string
	folder, reveal bool
}

type recordingOpener struct {
	mu    sync.Mutex
	calls []recordedOpen
}

func (r *recordingOpener) Open(_ context.Context, target string, folder, reveal bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedOpen{target, folder, reveal})
	return nil
}

func useRecordingOpener(t *testing.T) *recordingOpener {
	t.Helper()
	rec := &recordingOpener{}
	prev := newOpener
	newOpener = func() host.Opener { return rec }
	t.Cleanup(func() { newOpener = prev })
	return rec
}

func fileURI(p string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String()
}

func TestRootCommand(t *testing.T) {
	output, err := execute(t, "", "--help")
	if err != nil {
		t.Fatalf("help returned error: %v", err)
	}

	if !strings.Contains(output, "atpath") {
		t.Errorf("Help text should contain 'atpath', got: %s", output)
	}
	for _, sub := range []string{"search", "expand", "collect", "open-files", "open", "serve", "config"} {
		if !strings.Contains(output, sub) {
			t.Errorf("Help text should list %q, got: %s", sub, output)
		}
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Use != "atpath" {
		t.Errorf("Expected Use to be 'atpath', got '%s'", cmd.Use)
	}
	if got := len(cmd.Commands()); got != 7 {
		t.Errorf("Expected 7 subcommands, got %d", got)
	}
}

func TestVersionFlag(t *testing.T) {
	output, err := execute(t, "", "--version")
	if err != nil {
		t.Fatalf("version returned error: %v", err)
	}
	if !strings.Contains(output, Version) {
		t.Errorf("Version output should contain %q, got: %s", Version, output)
	}
}

func TestInvalidLogLevelRejected(t *testing.T) {
	dir := sampleWorkspace(t)
	_, err := execute(t, "", "search", "x", "--root", dir, "--log-level", "loud")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("expected invalid configuration error, got %v", err)
	}
}

func TestMalformedConfigRejected(t *testing.T) {
	dir := sampleWorkspace(t)
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(cfgPath, []byte("prefix: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "", "search", "x", "--root", dir, "--config", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "failed to load config") {
		t.Fatalf("expected load error, got %v", err)
	}
}
