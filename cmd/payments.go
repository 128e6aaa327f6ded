package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"finadmin/internal/export"
	"finadmin/internal/logger"
	"finadmin/internal/screens"
	"finadmin/pkg/models"
)

var paymentsCmd = &cobra.Command{
	Use:     "payments",
	Aliases: []string{"payment"},
	Short:   "List, record, update, delete and export payments",
}

var paymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payments matching the filters, with totals per status and method",
	Example: `  # Completed card payments
  finadmin payments list --status completed --method card`,
	Args: cobra.NoArgs,
	RunE: runPaymentsList,
}

var paymentsCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Record a payment against an invoice",
	Example: `  finadmin payments create --invoice 17 --amount 250 --method "bank transfer" --date 2025-01-15`,
	Args:    cobra.NoArgs,
	RunE:    runPaymentsCreate,
}

var paymentsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the given fields of a payment",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaymentsUpdate,
}

var paymentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a payment",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaymentsDelete,
}

var paymentsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered payments to payments.csv, payments.xlsx or a Google Sheet",
	Args:  cobra.NoArgs,
	RunE:  runPaymentsExport,
}

func init() {
	rootCmd.AddCommand(paymentsCmd)
	paymentsCmd.AddCommand(paymentsListCmd, paymentsCreateCmd, paymentsUpdateCmd, paymentsDeleteCmd, paymentsExportCmd)

	addFilterFlags(paymentsListCmd, "method", "Payment method filter")
	addFilterFlags(paymentsExportCmd, "method", "Payment method filter")
	addExportFlags(paymentsExportCmd)

	f := paymentsCreateCmd.Flags()
	f.String("invoice", "", "Invoice ID (required)")
	f.String("amount", "", "Amount (required)")
	f.String("method", "", "card, bank transfer, cash or cheque (required)")
	f.String("date", "", "Payment date (YYYY-MM-DD)")
	f.String("reference", "", "Payment reference")

	f = paymentsUpdateCmd.Flags()
	f.String("amount", "", "Amount")
	f.String("method", "", "Payment method")
	f.String("status", "", "completed, pending, failed or refunded")
	f.String("date", "", "Payment date (YYYY-MM-DD)")
	f.String("reference", "", "Payment reference")
}

func newPaymentsScreen(cmd *cobra.Command) (*screens.Payments, error) {
	client, err := newAPIClient()
	if err != nil {
		return nil, err
	}
	return screens.NewPayments(client, newConsoleNotifier(cmd)), nil
}

func runPaymentsList(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("payments")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newPaymentsScreen(cmd)
	if err != nil {
		return err
	}
	if err := loadFiltered(ctx, screen.Store, filterQuery(cmd, "method")); err != nil {
		return err
	}

	visible := screen.Visible()
	summary := screen.Summary()

	out := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		return printJSON(out, map[string]any{"payments": visible, "summary": summary})
	}

	if len(visible) == 0 {
		fmt.Fprintln(out, "No payments match the filters.")
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tINVOICE\tCLIENT\tAMOUNT\tMETHOD\tSTATUS\tDATE")
	for _, p := range visible {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.InvoiceID, p.ClientEmail, formatAmount(p.Amount), p.Method.Label(), p.Status, formatDate(p.PaymentDate))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d payments  total %s\n", summary.Count, formatAmount(summary.Total))
	for _, status := range models.PaymentStatuses {
		fmt.Fprintf(out, "  %-10s %s\n", status, formatAmount(summary.ByStatus[status]))
	}
	fmt.Fprintln(out, "By method:")
	for _, s := range summary.ByMethod {
		fmt.Fprintf(out, "  %-14s %s\n", s.Label, formatAmount(s.Value))
	}
	return nil
}

func runPaymentsCreate(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("payments")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newPaymentsScreen(cmd)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	var form screens.PaymentForm
	form.InvoiceID, _ = f.GetString("invoice")
	form.Amount, _ = f.GetString("amount")
	form.Method, _ = f.GetString("method")
	form.PaymentDate, _ = f.GetString("date")
	form.Reference, _ = f.GetString("reference")

	return screen.Create(ctx, form)
}

func runPaymentsUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("payments")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newPaymentsScreen(cmd)
	if err != nil {
		return err
	}

	patch := models.PaymentPatch{
		Amount:      changedString(cmd, "amount"),
		Method:      changedString(cmd, "method"),
		Status:      changedString(cmd, "status"),
		PaymentDate: changedString(cmd, "date"),
		Reference:   changedString(cmd, "reference"),
	}
	if patch == (models.PaymentPatch{}) {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	return screen.Update(ctx, args[0], patch)
}

func runPaymentsDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("payments")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newPaymentsScreen(cmd)
	if err != nil {
		return err
	}
	return screen.Delete(ctx, args[0])
}

func runPaymentsExport(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("payments")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newPaymentsScreen(cmd)
	if err != nil {
		return err
	}
	if err := loadFiltered(ctx, screen.Store, filterQuery(cmd, "method")); err != nil {
		return err
	}
	return exportRows(ctx, cmd, export.Payments, screen.Visible(), log)
}
