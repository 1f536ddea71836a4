package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/harrison/atpath/internal/config"
	"github.com/harrison/atpath/internal/exclude"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the 'atpath config' command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize atpath settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings, flags applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(e.cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Fprintf(e.out, "# %s\n%s", e.configPath, data)
			printRules(e.out, "search", e.cfg.SearchRules())
			printRules(e.out, "collector", e.cfg.CollectorRules())
			printRules(e.out, "open files", e.cfg.OpenFilesRules())
			return nil
		},
	}
}

// printRules lists the compiled patterns of one panel as YAML comments
func printRules(w io.Writer, panel string, rs *exclude.RuleSet) {
	patterns := rs.Patterns()
	if len(patterns) == 0 {
		fmt.Fprintf(w, "# effective %s exclusions: none\n", panel)
		return
	}
	fmt.Fprintf(w, "# effective %s exclusions:\n", panel)
	for _, p := range patterns {
		fmt.Fprintf(w, "#   %s\n", p)
	}
}

func newConfigInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(e.configPath); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", e.configPath)
			}
			if err := config.DefaultConfig().Save(e.configPath); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Wrote %s\n", e.configPath)
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")

	return cmd
}
