package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finadmin/internal/logger"
	"finadmin/internal/screens"
	"finadmin/internal/viewstate"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the overview statistics, top debtors and recent payments",
	Long: `Show the dashboard: the server's overview statistics with the top
debtors chart, and the most recent payments.

Both panels are fetched concurrently. When one of them fails the other is
still shown, with the failure reported in place of the missing panel.`,
	Example: `  finadmin dashboard --top 5 --recent 10`,
	Args:    cobra.NoArgs,
	RunE:    runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().Int("top", 5, "Number of debtors shown before grouping the rest as Others")
	dashboardCmd.Flags().Int("recent", 5, "Number of recent payments shown")
}

type dashboardOutput struct {
	Stats          any    `json:"stats,omitempty"`
	StatsError     string `json:"statsError,omitempty"`
	TopDebtors     any    `json:"topDebtors"`
	Payments       any    `json:"recentPayments"`
	PaymentsError  string `json:"recentPaymentsError,omitempty"`
	PaymentMethods any    `json:"paymentMethods"`
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("dashboard")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	top, _ := cmd.Flags().GetInt("top")
	recent, _ := cmd.Flags().GetInt("recent")

	client, err := newAPIClient()
	if err != nil {
		return err
	}
	d := screens.NewDashboard(client)

	loadErr := d.Load(ctx)
	if loadErr != nil {
		log.Warn().Err(loadErr).Msg("Dashboard loaded with errors")
	}
	// Nothing to show.
	if d.Stats.Status() == viewstate.Error && d.Payments.Status() == viewstate.Error {
		return loadErr
	}

	stats, haveStats := d.Overview()
	debtors := d.TopDebtors(top)
	payments := d.RecentPayments(recent)

	out := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		o := dashboardOutput{
			StatsError:     d.Stats.ErrorMessage(),
			TopDebtors:     debtors,
			Payments:       payments,
			PaymentsError:  d.Payments.ErrorMessage(),
			PaymentMethods: d.PaymentMethods(),
		}
		if haveStats {
			o.Stats = stats
		}
		return printJSON(out, o)
	}

	fmt.Fprintln(out, "OVERVIEW")
	if haveStats {
		tw := newTable(out)
		fmt.Fprintf(tw, "  Total outstanding\t%s\n", formatAmount(stats.TotalOutstanding))
		fmt.Fprintf(tw, "  Pending payments\t%s\n", formatAmount(stats.TotalPendingPayments))
		fmt.Fprintf(tw, "  Completed payments\t%s\n", formatAmount(stats.TotalCompletedPayments))
		fmt.Fprintf(tw, "  Payments this month\t%s\n", formatAmount(stats.PaymentsThisMonth))
		fmt.Fprintf(tw, "  Active invoices\t%d\n", stats.ActiveInvoices)
		fmt.Fprintf(tw, "  Success rate\t%.1f%%\n", stats.SuccessRate)
		fmt.Fprintf(tw, "  Received today / week / month\t%s / %s / %s\n",
			formatAmount(stats.Received.Today), formatAmount(stats.Received.ThisWeek), formatAmount(stats.Received.ThisMonth))
		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(out, "\nTOP DEBTORS")
		if len(debtors) == 0 {
			fmt.Fprintln(out, "  No data")
		}
		for _, s := range debtors {
			fmt.Fprintf(out, "  %-32s %s\n", s.Label, formatAmount(s.Value))
		}
	} else {
		fmt.Fprintf(out, "  unavailable: %s\n", d.Stats.ErrorMessage())
	}

	fmt.Fprintln(out, "\nRECENT PAYMENTS")
	if d.Payments.Status() == viewstate.Error {
		fmt.Fprintf(out, "  unavailable: %s\n", d.Payments.ErrorMessage())
		return nil
	}
	if len(payments) == 0 {
		fmt.Fprintln(out, "  No data")
		return nil
	}
	tw := newTable(out)
	for _, p := range payments {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", formatDate(p.PaymentDate), p.ClientEmail, formatAmount(p.Amount), p.Method.Label(), p.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	local := d.ReceivedLocally(time.Now())
	fmt.Fprintf(out, "\n  Received from loaded payments today / week / month: %s / %s / %s\n",
		formatAmount(local.Today), formatAmount(local.ThisWeek), formatAmount(local.ThisMonth))
	return nil
}
