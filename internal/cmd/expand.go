package cmd

import (
	"fmt"
	"os"

	"github.com/harrison/atpath/internal/expander"
	"github.com/harrison/atpath/internal/export"
	"github.com/harrison/atpath/internal/logger"
	"github.com/spf13/cobra"
)

// NewExpandCommand creates the 'atpath expand' command
func NewExpandCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand [folder]...",
		Short: "List every file beneath one or more folders",
		Long: `Expand folders into the files beneath them, grouped by folder.

A file reachable from several folders is listed only under the first.
Folders given as "@/src", "/src" or "src" are equivalent, and "/" expands
the whole workspace. With --from-file, folders are read one per line from a
file; blank lines and lines starting with "#" are skipped.`,
		RunE: runExpand,
	}

	cmd.Flags().String("from-file", "", "Read the folder list from a file")
	cmd.Flags().Bool("copy", false, "Copy the listing to the clipboard")

	return cmd
}

func runExpand(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	fromFile, _ := cmd.Flags().GetString("from-file")
	copyFlag, _ := cmd.Flags().GetBool("copy")

	inputs := append([]string(nil), args...)
	if fromFile != "" {
		data, err := os.ReadFile(fromFile)
		if err != nil {
			return fmt.Errorf("read folder list: %w", err)
		}
		inputs = append(inputs, expander.ParseFolderList(string(data), e.cfg.Prefix)...)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no folders given; pass folders as arguments or use --from-file")
	}

	res := expander.Expand(cmd.Context(), e.fsys, inputs, e.ws.Snapshot(), expander.Options{
		Rules:   e.cfg.CollectorRules(),
		Prefix:  e.cfg.Prefix,
		OnError: logger.ReadFailureReporter(e.log),
	})

	e.render.Groups(res.Groups)
	e.render.Notifications(res.Notifications)
	if copyFlag {
		return e.copyText(export.ListingText(res.Groups, exportOptions(e.cfg)))
	}
	return nil
}
