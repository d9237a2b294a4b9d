package cmd

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/output"
	"github.com/dolabb/dolabbctl/internal/view"
)

var feesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Manage platform fee settings",
	Long: `Show and change the platform fee schedule, summarize collected fees
and quote the fee on an amount.

Examples:
  dolabbctl fees show
  dolabbctl fees update --percentage 4.5 --minimum 5
  dolabbctl fees summary --from 2026-01-01 --to 2026-03-31
  dolabbctl fees calculate 250`,
}

var feesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the fee schedule",
	Args:  cobra.NoArgs,
	RunE:  runFeesShow,
}

var feesUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the fee schedule",
	Long:  `Change the fee schedule. Only the flags you pass are sent.`,
	Args:  cobra.NoArgs,
	RunE:  runFeesUpdate,
}

var feesSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize collected fees",
	Args:  cobra.NoArgs,
	RunE:  runFeesSummary,
}

var feesCalculateCmd = &cobra.Command{
	Use:   "calculate <amount>",
	Short: "Quote the fee on an amount",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeesCalculate,
}

// feeFlags binds update flags to FeeSettingsUpdate fields.
var feeFlags = []struct {
	name  string
	usage string
	field func(*client.FeeSettingsUpdate) **float64
}{
	{"minimum", "minimum fee", func(u *client.FeeSettingsUpdate) **float64 { return &u.MinimumFee }},
	{"percentage", "fee percentage (0-100)", func(u *client.FeeSettingsUpdate) **float64 { return &u.FeePercentage }},
	{"threshold1", "first threshold amount", func(u *client.FeeSettingsUpdate) **float64 { return &u.ThresholdAmount1 }},
	{"threshold2", "second threshold amount", func(u *client.FeeSettingsUpdate) **float64 { return &u.ThresholdAmount2 }},
	{"maximum", "maximum fee", func(u *client.FeeSettingsUpdate) **float64 { return &u.MaximumFee }},
	{"fixed", "fixed transaction fee", func(u *client.FeeSettingsUpdate) **float64 { return &u.TransactionFeeFixed }},
	{"affiliate-commission", "default affiliate commission percentage (0-100)", func(u *client.FeeSettingsUpdate) **float64 { return &u.DefaultAffiliateCommissionPct }},
}

func init() {
	rootCmd.AddCommand(feesCmd)
	feesCmd.AddCommand(feesShowCmd, feesUpdateCmd, feesSummaryCmd, feesCalculateCmd)

	for _, c := range []*cobra.Command{feesShowCmd, feesUpdateCmd, feesSummaryCmd, feesCalculateCmd} {
		c.Flags().Bool("json", false, "output as JSON")
	}
	for _, f := range feeFlags {
		feesUpdateCmd.Flags().Float64(f.name, 0, f.usage)
	}
	feesSummaryCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	feesSummaryCmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
}

func runFeesShow(cmd *cobra.Command, args []string) error {
	a, err := authedApp()
	if err != nil {
		return err
	}
	s, err := a.api.FeeSettings(commandContext(cmd))
	if err != nil {
		return err
	}
	return printFeeSettings(cmd, s)
}

func runFeesUpdate(cmd *cobra.Command, args []string) error {
	var u client.FeeSettingsUpdate
	changed := 0
	for _, f := range feeFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, _ := cmd.Flags().GetFloat64(f.name)
		*f.field(&u) = &v
		changed++
	}
	if changed == 0 {
		return flagError("nothing to update; pass at least one of --minimum, --percentage, --threshold1, --threshold2, --maximum, --fixed, --affiliate-commission")
	}

	a, err := authedApp()
	if err != nil {
		return err
	}
	s, err := a.api.UpdateFeeSettings(commandContext(cmd), u)
	if err != nil {
		return err
	}
	printer.Success("Fee settings updated successfully")
	return printFeeSettings(cmd, s)
}

func printFeeSettings(cmd *cobra.Command, s *client.FeeSettings) error {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printer.JSON(s)
	}
	printer.Header("Fee Settings")
	tbl := output.NewTableWithWriter(printer.Out(), []string{"SETTING", "VALUE"})
	tbl.AddRows([][]string{
		{"Minimum fee", view.Currency(s.MinimumFee, "")},
		{"Fee percentage", percentText(s.FeePercentage)},
		{"Threshold 1", view.Currency(s.ThresholdAmount1, "")},
		{"Threshold 2", view.Currency(s.ThresholdAmount2, "")},
		{"Maximum fee", view.Currency(s.MaximumFee, "")},
		{"Fixed transaction fee", view.Currency(s.TransactionFeeFixed, "")},
		{"Default affiliate commission", percentText(s.DefaultAffiliateCommissionPct)},
	})
	tbl.Render()
	printer.PrintHints("fees show")
	return nil
}

func runFeesSummary(cmd *cobra.Command, args []string) error {
	from, err := dateFlag(cmd, "from")
	if err != nil {
		return err
	}
	to, err := dateFlag(cmd, "to")
	if err != nil {
		return err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return flagError("--to must not be before --from")
	}

	a, err := authedApp()
	if err != nil {
		return err
	}
	sum, err := a.api.FeeSummary(commandContext(cmd), from, to)
	if err != nil {
		return err
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printer.JSON(sum)
	}
	printer.Header("Fee Summary")
	printer.Print("Total fees collected:      %s", view.Currency(sum.TotalFees, ""))
	printer.Print("Transactions:              %s", view.Number(sum.TotalTransactions))
	printer.Print("Average fee per transaction: %s", view.Currency(sum.AverageFeePerTrade, ""))
	return nil
}

func runFeesCalculate(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return flagError("amount %q is not a number", args[0])
	}
	a, err := authedApp()
	if err != nil {
		return err
	}
	q, err := a.api.CalculateFee(commandContext(cmd), amount)
	if err != nil {
		return err
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printer.JSON(q)
	}
	printer.Print("Amount:        %s", view.Currency(q.Amount, ""))
	printer.Print("Platform fee:  %s", view.Currency(q.Fee, ""))
	printer.Print("Seller payout: %s", view.Currency(q.SellerPayout, ""))
	return nil
}

func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, flagError("--%s %q: want YYYY-MM-DD", name, v)
	}
	return t, nil
}

func percentText(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
