package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harrison/atpath/internal/clipboard"
	"github.com/harrison/atpath/internal/config"
	"github.com/harrison/atpath/internal/display"
	"github.com/harrison/atpath/internal/export"
	"github.com/harrison/atpath/internal/fileutil"
	"github.com/harrison/atpath/internal/host"
	"github.com/harrison/atpath/internal/logger"
	"github.com/harrison/atpath/internal/workspace"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// Seams replaced by tests
var (
	newClipboard = clipboard.Default
	newOpener    = func() host.Opener { return host.SystemOpener{} }
)

// NewRootCommand creates and returns the root cobra command for atpath
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atpath",
		Short: "Find, expand and collect workspace paths as @/ references",
		Long: `atpath turns workspace files and folders into path references that can be
pasted into prompts and chat inputs.

It searches file and folder names, expands folders into the files beneath
them, collects dropped paths, and serves the same operations to an editor
panel over a JSON-lines protocol. Every walk honors gitignore-style exclusion
rules configured per panel.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringArray("root", nil, "Workspace root (repeatable, default: current directory)")
	flags.String("config", "", "Path to config file (default: <root>/.atpath/config.yaml)")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.String("prefix", "", "Path decoration prefix (default from config, \"@/\")")
	flags.Bool("no-prefix", false, "Print paths without the decoration prefix")
	flags.Bool("full-path", false, "Print host paths instead of workspace-relative ones")
	flags.Bool("no-exclude", false, "Ignore the configured exclusion rules")

	cmd.AddCommand(NewSearchCommand())
	cmd.AddCommand(NewExpandCommand())
	cmd.AddCommand(NewCollectCommand())
	cmd.AddCommand(NewOpenFilesCommand())
	cmd.AddCommand(NewOpenCommand())
	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewConfigCommand())

	return cmd
}

// env is the resolved workspace, settings and output of one invocation
type env struct {
	ws         *workspace.Workspace
	cfg        *config.Config
	configPath string
	fsys       fileutil.FS
	log        logger.Logger
	out        io.Writer
	render     *display.Renderer
}

// loadEnv resolves the global flags
func loadEnv(cmd *cobra.Command) (*env, error) {
	roots, _ := cmd.Flags().GetStringArray("root")
	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		roots = []string{cwd}
	}
	ws, err := workspace.New(roots...)
	if err != nil {
		return nil, err
	}
	primary, err := ws.Primary()
	if err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath, err = config.ConfigPath(primary.Path)
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	cfg.MergeWithFlags(flagOverrides(cmd))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	colorOutput := false
	if f, ok := out.(*os.File); ok {
		colorOutput = display.ColorEnabled(f)
	}

	return &env{
		ws:         ws,
		cfg:        cfg,
		configPath: configPath,
		fsys:       fileutil.OSFS{},
		log:        logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel),
		out:        out,
		render:     display.NewRenderer(out, colorOutput, exportOptions(cfg)),
	}, nil
}

// flagOverrides collects the global flags the user actually set
func flagOverrides(cmd *cobra.Command) config.Flags {
	var f config.Flags
	flags := cmd.Flags()

	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		f.LogLevel = &v
	}
	if flags.Changed("prefix") {
		v, _ := flags.GetString("prefix")
		f.Prefix = &v
		enabled := true
		f.PrefixEnabled = &enabled
	}
	if flags.Changed("no-prefix") {
		v, _ := flags.GetBool("no-prefix")
		enabled := !v
		f.PrefixEnabled = &enabled
	}
	if flags.Changed("full-path") {
		v, _ := flags.GetBool("full-path")
		f.FullPath = &v
	}
	if flags.Changed("no-exclude") {
		v, _ := flags.GetBool("no-exclude")
		enabled := !v
		f.ExcludeEnabled = &enabled
	}
	return f
}

func exportOptions(cfg *config.Config) export.Options {
	return export.Options{Prefix: cfg.Prefix, PrefixEnabled: cfg.PrefixEnabled, FullPath: cfg.FullPath}
}

// copyText writes text to the clipboard and confirms on the renderer
func (e *env) copyText(text string) error {
	if err := newClipboard().WriteAll(text); err != nil {
		return err
	}
	lines := 0
	if text != "" {
		lines = strings.Count(text, "\n") + 1
	}
	e.render.Copied(lines)
	return nil
}
