package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dolabb/dolabbctl/internal/dashboard"
	"github.com/dolabb/dolabbctl/internal/output"
	"github.com/dolabb/dolabbctl/internal/view"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show platform statistics",
	Long: `Load every statistics section concurrently and print headline counters,
status breakdowns, monthly revenue and recent activity.

Sections that fail are skipped and listed at the end.

Examples:
  dolabbctl dashboard
  dolabbctl dashboard --json`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().Bool("json", false, "output as JSON")
	dashboardCmd.Flags().Duration("timeout", dashboard.DefaultTimeout, "bound on the whole load")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := authedApp()
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	snap, err := dashboard.Load(commandContext(cmd), a.api, timeout, logger)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printer.JSON(snap)
	}
	printDashboard(snap)
	return nil
}

func printDashboard(snap *dashboard.Snapshot) {
	if st := snap.Stats; st != nil {
		printer.Header("Overview")
		tbl := output.NewTableWithWriter(printer.Out(), []string{"METRIC", "VALUE"})
		tbl.AddRows([][]string{
			{"Total users", view.Number(st.TotalUsers)},
			{"Active users", view.Number(st.ActiveUsers)},
			{"Listings", view.Number(st.TotalListings)},
			{"Sales", view.Number(st.TotalSales)},
			{"Revenue", view.Currency(st.TotalRevenue, "")},
			{"Pending cashouts", view.Number(st.PendingCashouts)},
			{"Open disputes", view.Number(st.OpenDisputes)},
		})
		tbl.Render()
	}

	for _, c := range []struct {
		title  string
		slices []dashboard.Slice
	}{
		{"Listings by status", snap.ListingsBreakdown()},
		{"Transactions by type", snap.TransactionsBreakdown()},
		{"Disputes by status", snap.DisputesBreakdown()},
		{"Cashouts by status", snap.CashoutsBreakdown()},
	} {
		if c.slices == nil {
			continue
		}
		printer.Header(c.title)
		tbl := output.NewTableWithWriter(printer.Out(), []string{"STATUS", "COUNT", "SHARE"})
		for _, e := range dashboard.Legend(c.slices) {
			tbl.AddRow([]string{e.Label, view.Number(int(e.Value)), fmt.Sprintf("%.1f%%", e.Percent)})
		}
		tbl.Render()
	}

	if len(snap.RevenueTrends) > 0 {
		sales := make(map[string]float64, len(snap.SalesOverTime))
		for _, s := range snap.SalesOverTime {
			sales[s.Month] = s.Sales
		}
		printer.Header("Revenue by month")
		tbl := output.NewTableWithWriter(printer.Out(), []string{"MONTH", "REVENUE", "NEW USERS", "SALES"})
		for _, r := range snap.RevenueTrends {
			tbl.AddRow([]string{r.Month, view.Currency(r.Revenue, ""), view.Number(r.NewUsers), view.Number(int(sales[r.Month]))})
		}
		tbl.Render()
	}

	if len(snap.RecentActivity) > 0 {
		printer.Header("Recent activity")
		tbl := output.NewTableWithWriter(printer.Out(), []string{"TYPE", "MESSAGE", "WHEN"})
		for _, act := range snap.RecentActivity {
			tbl.AddRow([]string{view.Badge(act.Type), view.Truncate(act.Message, 60), act.Timestamp})
		}
		tbl.Render()
	}

	if snap.Degraded() {
		printer.Warning("Some statistics are unavailable: %s", strings.Join(snap.Failed, ", "))
	}
	printer.PrintHints("dashboard")
}
