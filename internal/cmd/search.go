package cmd

import (
	"time"

	"github.com/harrison/atpath/internal/export"
	"github.com/harrison/atpath/internal/logger"
	"github.com/harrison/atpath/internal/search"
	"github.com/spf13/cobra"
)

// NewSearchCommand creates the 'atpath search' command
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find files and folders whose name contains a term",
		Long: `Search every workspace root for files and folders whose base name contains
the term. Matching folders are listed first. Files that live under a
matching folder are dimmed, since pasting the folder already covers them.

Matching ignores case unless --match-case is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().Bool("match-case", false, "Match the term case-sensitively")
	cmd.Flags().Bool("copy", false, "Copy the results to the clipboard")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	matchCase, _ := cmd.Flags().GetBool("match-case")
	copyFlag, _ := cmd.Flags().GetBool("copy")

	start := time.Now()
	results := search.Search(cmd.Context(), e.fsys, search.Request{Term: args[0], MatchCase: matchCase}, e.ws.Snapshot(), search.Options{
		Rules:   e.cfg.SearchRules(),
		OnError: logger.ReadFailureReporter(e.log),
	})
	logger.LogOperation(e.log, "search", args[0], len(results), "results", time.Since(start))

	e.render.SearchResults(results)
	if copyFlag {
		return e.copyText(export.SearchText(results, exportOptions(e.cfg)))
	}
	return nil
}
