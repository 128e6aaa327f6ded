package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"finadmin/internal/export"
	"finadmin/internal/logger"
	"finadmin/internal/render"
	"finadmin/internal/screens"
	"finadmin/pkg/models"
)

var invoicesCmd = &cobra.Command{
	Use:     "invoices",
	Aliases: []string{"invoice"},
	Short:   "List, create, update, delete, print and export invoices",
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices matching the filters, with summary totals",
	Example: `  # All overdue invoices
  finadmin invoices list --status overdue

  # Invoices of one client as JSON
  finadmin invoices list --search acme --format json`,
	Args: cobra.NoArgs,
	RunE: runInvoicesList,
}

var invoicesCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create an invoice",
	Example: `  finadmin invoices create --client-email billing@acme.com --amount 1500.50 --due-date 2025-01-01`,
	Args:    cobra.NoArgs,
	RunE:    runInvoicesCreate,
}

var invoicesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the given fields of an invoice",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicesUpdate,
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an invoice",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicesDelete,
}

var invoicesPrintCmd = &cobra.Command{
	Use:   "print <id>",
	Short: "Render an invoice as PDF, with a QR code of its payment link",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicesPrint,
}

var invoicesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered invoices to invoices.csv, invoices.xlsx or a Google Sheet",
	Args:  cobra.NoArgs,
	RunE:  runInvoicesExport,
}

func init() {
	rootCmd.AddCommand(invoicesCmd)
	invoicesCmd.AddCommand(invoicesListCmd, invoicesCreateCmd, invoicesUpdateCmd, invoicesDeleteCmd, invoicesPrintCmd, invoicesExportCmd)

	addFilterFlags(invoicesListCmd, "", "")
	addFilterFlags(invoicesExportCmd, "", "")
	addExportFlags(invoicesExportCmd)

	f := invoicesCreateCmd.Flags()
	f.Int("year", 0, "Issue year")
	f.String("series", "", "Numbering series")
	f.String("client-email", "", "Client email (required)")
	f.String("client-phone", "", "Client phone")
	f.String("amount", "", "Amount, e.g. 1500.50 (required)")
	f.String("issue-date", "", "Issue date (YYYY-MM-DD)")
	f.String("due-date", "", "Due date (YYYY-MM-DD, required)")
	f.String("description", "", "Description")
	f.String("payment-link", "", "External payment page URL")

	f = invoicesUpdateCmd.Flags()
	f.String("client-email", "", "Client email")
	f.String("client-phone", "", "Client phone")
	f.String("amount", "", "Amount")
	f.String("due-date", "", "Due date (YYYY-MM-DD)")
	f.String("description", "", "Description")
	f.String("payment-link", "", "External payment page URL")

	invoicesPrintCmd.Flags().StringP("output", "o", "", "Output PDF path (default: invoice-<id>.pdf)")
}

func newInvoicesScreen(cmd *cobra.Command) (*screens.Invoices, error) {
	client, err := newAPIClient()
	if err != nil {
		return nil, err
	}
	return screens.NewInvoices(client, newConsoleNotifier(cmd)), nil
}

func runInvoicesList(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("invoices")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newInvoicesScreen(cmd)
	if err != nil {
		return err
	}
	if err := loadFiltered(ctx, screen.Store, filterQuery(cmd, "")); err != nil {
		return err
	}

	visible := screen.Visible()
	summary := screen.Summary()
	log.Debug().Int("visible", len(visible)).Int("total", len(screen.Store.Collection())).Msg("Invoices loaded")

	out := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		return printJSON(out, map[string]any{"invoices": visible, "summary": summary})
	}

	if len(visible) == 0 {
		fmt.Fprintln(out, "No invoices match the filters.")
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNUMBER\tCLIENT\tAMOUNT\tSTATUS\tDUE")
	for _, inv := range visible {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.ID, inv.Number(), inv.ClientEmail, formatAmount(inv.Amount), inv.Status, formatDate(inv.DueDate))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d invoices  total %s  paid %s  outstanding %s  overdue %s\n",
		summary.Count, formatAmount(summary.Total), formatAmount(summary.Paid),
		formatAmount(summary.Outstanding), formatAmount(summary.Overdue))
	for _, status := range models.InvoiceStatuses {
		fmt.Fprintf(out, "  %-10s %4d  %s\n", status, summary.CountBy[status], formatAmount(summary.ByStatus[status]))
	}
	return nil
}

func runInvoicesCreate(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("invoices")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newInvoicesScreen(cmd)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	var form screens.InvoiceForm
	form.Year, _ = f.GetInt("year")
	form.Series, _ = f.GetString("series")
	form.ClientEmail, _ = f.GetString("client-email")
	form.ClientPhone, _ = f.GetString("client-phone")
	form.Amount, _ = f.GetString("amount")
	form.IssueDate, _ = f.GetString("issue-date")
	form.DueDate, _ = f.GetString("due-date")
	form.Description, _ = f.GetString("description")
	form.PaymentLink, _ = f.GetString("payment-link")

	return screen.Create(ctx, form)
}

func runInvoicesUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newInvoicesScreen(cmd)
	if err != nil {
		return err
	}

	patch := models.InvoicePatch{
		ClientEmail: changedString(cmd, "client-email"),
		ClientPhone: changedString(cmd, "client-phone"),
		Amount:      changedString(cmd, "amount"),
		DueDate:     changedString(cmd, "due-date"),
		Description: changedString(cmd, "description"),
		PaymentLink: changedString(cmd, "payment-link"),
	}
	if patch == (models.InvoicePatch{}) {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	return screen.Update(ctx, args[0], patch)
}

func runInvoicesDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newInvoicesScreen(cmd)
	if err != nil {
		return err
	}
	return screen.Delete(ctx, args[0])
}

func runInvoicesPrint(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newInvoicesScreen(cmd)
	if err != nil {
		return err
	}
	if err := screen.Load(ctx); err != nil {
		return err
	}

	inv, ok := screen.Find(args[0])
	if !ok {
		return fmt.Errorf("invoice %q not found", args[0])
	}

	pdf, err := render.InvoiceDocument(inv, render.NewRenderer())
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = fmt.Sprintf("invoice-%s.pdf", filepath.Base(inv.ID))
	}
	if err := os.WriteFile(outputPath, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("invoice", inv.ID).
		Str("output_file", outputPath).
		Int("bytes", len(pdf)).
		Msg("Invoice rendered")
	fmt.Fprintf(cmd.OutOrStdout(), "Invoice %s written to %s\n", inv.Number(), outputPath)
	return nil
}

func runInvoicesExport(cmd *cobra.Command, _ []string) error {
	log := logger.WithComponent("invoices")
	ctx, cancel := createCommandContext(log)
	defer cancel()

	screen, err := newInvoicesScreen(cmd)
	if err != nil {
		return err
	}
	if err := loadFiltered(ctx, screen.Store, filterQuery(cmd, "")); err != nil {
		return err
	}
	return exportRows(ctx, cmd, export.Invoices, screen.Visible(), log)
}

// changedString returns the flag's value only when it was set explicitly.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
