package cmd

import (
	"fmt"
	"os"

	"github.com/harrison/atpath/internal/collector"
	"github.com/harrison/atpath/internal/config"
	"github.com/harrison/atpath/internal/export"
	"github.com/spf13/cobra"
)

// NewCollectCommand creates the 'atpath collect' command
func NewCollectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect [path-or-uri]...",
		Short: "Resolve paths and file URIs into workspace references",
		Long: `Collect paths the way the editor panel collects dropped items. Each
argument may be a file:// URI, an absolute path or a path relative to the
first workspace root. Repeats are listed once, in first-seen order.

With --from-markdown, every @/path mention in the file's prose is collected.
Mentions inside code spans and code blocks are ignored.`,
		RunE: runCollect,
	}

	cmd.Flags().String("from-markdown", "", "Collect the path mentions of a Markdown file")
	cmd.Flags().Bool("copy", false, "Copy the collected paths to the clipboard")

	return cmd
}

func runCollect(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	markdown, _ := cmd.Flags().GetString("from-markdown")
	copyFlag, _ := cmd.Flags().GetBool("copy")

	refs := append([]string(nil), args...)
	if markdown != "" {
		source, err := os.ReadFile(markdown)
		if err != nil {
			return fmt.Errorf("read markdown: %w", err)
		}
		prefix := e.cfg.Prefix
		if prefix == "" {
			prefix = config.DefaultConfig().Prefix
		}
		refs = append(refs, collector.NewMentionParser(prefix).Mentions(source)...)
	}

	entries, notes := collector.Classify(e.fsys, e.ws, refs)
	c := collector.New()
	paths := c.Add(entries...)

	e.render.Paths(paths)
	e.render.Notifications(notes)
	if copyFlag {
		return e.copyText(export.PathsText(paths, exportOptions(e.cfg)))
	}
	return nil
}
