package cmd

import (
	"fmt"

	"github.com/harrison/atpath/internal/pathutil"
	"github.com/spf13/cobra"
)

// NewOpenCommand creates the 'atpath open' command
func NewOpenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <relative-path>",
		Short: "Open a workspace path with the desktop's default handler",
		Long: `Open a path relative to the first workspace root. The path may carry the
decoration prefix, as copied from a listing. With --reveal the path is
shown in the file manager instead. Paths that climb above the workspace
root are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: runOpen,
	}

	cmd.Flags().Bool("folder", false, "Treat the path as a folder without checking")
	cmd.Flags().Bool("reveal", false, "Reveal the path in the file manager")

	return cmd
}

func runOpen(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	folder, _ := cmd.Flags().GetBool("folder")
	reveal, _ := cmd.Flags().GetBool("reveal")

	entry, err := e.ws.Resolve(pathutil.StripDecoration(args[0], e.cfg.Prefix))
	if err != nil {
		return err
	}
	if !folder {
		info, err := e.fsys.Stat(entry.FullPath)
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		folder = info.IsDir()
	}

	e.log.LogDebug(fmt.Sprintf("opening %s (folder=%t, reveal=%t)", entry.FullPath, folder, reveal))
	return newOpener().Open(cmd.Context(), entry.FullPath, folder, reveal)
}
