package cmd

import (
	"bufio"
	"fmt"

	"github.com/harrison/atpath/internal/export"
	"github.com/harrison/atpath/internal/openfiles"
	"github.com/spf13/cobra"
)

// NewOpenFilesCommand creates the 'atpath open-files' command
func NewOpenFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open-files [uri]...",
		Short: "Filter editor tab URIs into workspace references",
		Long: `List open editor tabs as workspace paths. Tabs are given as URIs or paths,
as arguments or one per line on stdin. file and untitled tabs are listed;
other schemes and files outside the workspace are skipped, and the
open-files exclusion rules apply.`,
		RunE: runOpenFiles,
	}

	cmd.Flags().Bool("copy", false, "Copy the listed paths to the clipboard")

	return cmd
}

func runOpenFiles(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	copyFlag, _ := cmd.Flags().GetBool("copy")

	uris := args
	if len(uris) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			uris = append(uris, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read tab list: %w", err)
		}
	}

	files := openfiles.List(e.ws, uris, e.cfg.OpenFilesRules())
	e.render.Paths(files)
	if copyFlag {
		return e.copyText(export.PathsText(files, exportOptions(e.cfg)))
	}
	return nil
}
