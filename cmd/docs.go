package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Generate reference documentation",
	Hidden: true,
	Long: `Generate man pages or markdown for every dolabbctl command.

Examples:
  dolabbctl docs --format man --output ./man
  dolabbctl docs --format markdown --output ./docs/cli`,
	Args: cobra.NoArgs,
	RunE: runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().String("format", "markdown", "output format (man, markdown)")
	docsCmd.Flags().String("output", "docs", "output directory")
}

func runDocs(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	dir, _ := cmd.Flags().GetString("output")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	rootCmd.DisableAutoGenTag = true

	switch format {
	case "man":
		header := &doc.GenManHeader{Title: "DOLABBCTL", Section: "1", Source: "dolabbctl " + version}
		if err := doc.GenManTree(rootCmd, header, dir); err != nil {
			return fmt.Errorf("generating man pages: %w", err)
		}
	case "markdown":
		if err := doc.GenMarkdownTree(rootCmd, dir); err != nil {
			return fmt.Errorf("generating markdown: %w", err)
		}
	default:
		return flagError("invalid --format %q: must be man or markdown", format)
	}
	printer.Success("Wrote %s docs to %s", format, dir)
	return nil
}
