package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/harrison/atpath/internal/config"
	"github.com/harrison/atpath/internal/host"
	"github.com/harrison/atpath/internal/logger"
	"github.com/harrison/atpath/internal/snapshot"
	"github.com/spf13/cobra"
)

// stateRetention is how long an untouched workspace snapshot is kept
const stateRetention = 30 * 24 * time.Hour

// NewServeCommand creates the 'atpath serve' command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the panel protocol over stdin and stdout",
		Long: `Run the editor panel backend. Requests are read as JSON lines from stdin and
replies written as JSON lines to stdout. Logs go to <home>/logs, since
stdout carries the protocol.

Panel state is kept per workspace in <home>/state.db when persist_state is
enabled.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().Bool("no-log-file", false, "Discard logs instead of writing <home>/logs")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	primary, err := e.ws.Primary()
	if err != nil {
		return err
	}

	var log logger.Logger = logger.NewNoOpLogger()
	if noLog, _ := cmd.Flags().GetBool("no-log-file"); !noLog {
		logDir, err := config.LogDir(primary.Path)
		if err != nil {
			return err
		}
		fl, err := logger.NewFileLogger(logDir, "serve", e.cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		defer fl.Close()
		log = fl
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store *snapshot.Store
	if e.cfg.PersistState {
		store, err = openStateStore(ctx, primary.Path, log)
		if err != nil {
			// State restore is best-effort; the panel still works without it
			log.LogWarn(fmt.Sprintf("panel state disabled: %v", err))
		} else {
			defer store.Close()
		}
	}

	srv, err := host.NewServer(cmd.OutOrStdout(), host.Options{
		Workspace:  e.ws,
		Config:     e.cfg,
		ConfigPath: e.configPath,
		FS:         e.fsys,
		Logger:     log,
		Clipboard:  newClipboard(),
		Opener:     newOpener(),
		Store:      store,
	})
	if err != nil {
		return err
	}

	log.LogInfo(fmt.Sprintf("serving %d workspace root(s), primary %s", len(e.ws.Roots), primary.Path))
	if err := srv.Serve(ctx, cmd.InOrStdin()); err != nil && ctx.Err() == nil {
		return err
	}
	log.LogInfo("input closed, shutting down")
	return nil
}

func openStateStore(ctx context.Context, root string, log logger.Logger) (*snapshot.Store, error) {
	dbPath, err := config.StateDBPath(root)
	if err != nil {
		return nil, err
	}
	store, err := snapshot.NewStore(dbPath)
	if err != nil {
		return nil, err
	}
	if n, err := store.Prune(ctx, time.Now().Add(-stateRetention)); err != nil {
		log.LogWarn(fmt.Sprintf("pruning panel state: %v", err))
	} else if n > 0 {
		log.LogDebug(fmt.Sprintf("pruned %d stale panel state record(s)", n))
	}
	return store, nil
}
