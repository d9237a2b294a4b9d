package cmd

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dolabb/dolabbctl/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Display the current dolabbctl configuration.

Examples:
  dolabbctl config                # Show all config
  dolabbctl config --path         # Show config file path
  dolabbctl config --json         # Output as JSON`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("path", false, "show config file path")
	configCmd.Flags().Bool("json", false, "output as JSON")
}

func runConfig(cmd *cobra.Command, args []string) error {
	showPath, _ := cmd.Flags().GetBool("path")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if showPath {
		if cfg.File == "" {
			printer.Info("No config file found (using defaults)")
		} else {
			printer.Info("Config file: %s", cfg.File)
		}
		return nil
	}

	if jsonOutput {
		return printer.JSON(cfg)
	}

	// Print configuration as table
	printer.Header("Current Configuration")

	table := output.NewTableWithWriter(printer.Out(), []string{"KEY", "VALUE"})
	table.AddRow([]string{"api.base_url", cfg.API.BaseURL})
	table.AddRow([]string{"api.timeout", cfg.API.Timeout.String()})
	table.AddRow([]string{"api.list_timeout", cfg.API.ListTimeout.String()})
	table.AddRow([]string{"api.rate_limit", strconv.FormatFloat(cfg.API.RateLimit, 'g', -1, 64)})
	table.AddRow([]string{"api.burst", strconv.Itoa(cfg.API.Burst)})
	table.AddRow([]string{"api.page_size", strconv.Itoa(cfg.API.PageSize)})
	table.AddRow([]string{"session.file", cfg.Session.File})
	table.AddRow([]string{"logging.level", cfg.Logging.Level})
	table.AddRow([]string{"logging.format", cfg.Logging.Format})
	table.AddRow([]string{"output.colors", fmt.Sprintf("%v", cfg.Output.Colors)})
	table.AddRow([]string{"web.addr", cfg.Web.Addr})
	table.AddRow([]string{"telemetry.otlp_endpoint", cfg.Telemetry.OTLPEndpoint})
	table.AddRow([]string{"telemetry.sample_ratio", strconv.FormatFloat(cfg.Telemetry.SampleRatio, 'g', -1, 64)})
	table.Render()

	// Show resource overrides if any
	if len(cfg.Resources) > 0 {
		printer.Print("")
		printer.Header("Resource Overrides")
		names := make([]string, 0, len(cfg.Resources))
		for name := range cfg.Resources {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			printer.Info("%s:", printer.Bold(name))
			printer.Print("    page_size: %d", cfg.PageSize(name))
			printer.Print("    list_timeout: %s", cfg.ListTimeout(name))
		}
	}
	return nil
}
