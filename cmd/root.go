// Package cmd contains all CLI commands for dolabbctl
package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dolabb/dolabbctl/internal/config"
	"github.com/dolabb/dolabbctl/internal/logging"
	"github.com/dolabb/dolabbctl/internal/output"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	colorMode string
	cfg       *config.Config
	logger    *slog.Logger
	printer   *output.Printer
	version   = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dolabbctl",
	Short: "Dolabb marketplace admin console",
	Long: `dolabbctl is the administrator console for the Dolabb marketplace.

It lists, filters and moderates users, listings, transactions, cashouts,
disputes, affiliates, payouts and notifications, and serves the same views
as a local web console.

Example usage:
  dolabbctl login --email admin@dolabb.com    # Sign in
  dolabbctl users list --status active        # List active users
  dolabbctl users suspend 64f1c2 --reason spam # Suspend a user
  dolabbctl dashboard                         # Show platform statistics
  dolabbctl serve                             # Start the web console`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

// Report prints err the way the CLI presents failures and returns the
// process exit code for it.
func Report(err error) int {
	if err == nil {
		return output.ExitSuccess
	}
	cliErr := output.Classify(err)
	var reported *reportedError
	if !errors.As(err, &reported) {
		p := printer
		if p == nil {
			p = output.NewPrinterWithOptions(output.PrinterOptions{})
		}
		p.FormatError(cliErr)
	}
	return cliErr.ExitCode
}

// reportedError is a failure already shown to the user as a notice.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .dolabbctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print only essential output")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output (auto, always, never)")
	rootCmd.PersistentFlags().String("api-url", "", "backend base URL (overrides api.base_url)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig(cmd *cobra.Command) error {
	mode, err := output.ParseColorMode(colorMode)
	if err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError, Err: err}
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "invalid configuration",
			Detail:     err.Error(),
			Suggestion: "Check .dolabbctl.yaml and DOLABBCTL_* environment variables",
			ExitCode:   output.ExitConfigError,
			Err:        err,
		}
	}
	cfg = loaded
	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		cfg.API.BaseURL = u
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger = logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format)

	printer = output.NewPrinterTo(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: cfg.Output.Colors,
		Quiet:        quiet,
	})

	logger.Debug("configuration loaded",
		"config_file", cfg.File,
		"base_url", cfg.API.BaseURL,
		"session_file", cfg.Session.File,
	)
	return nil
}

// flagError reports a bad flag value with the usage exit code.
func flagError(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError, Err: err}
}
