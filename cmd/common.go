package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"finadmin/internal/aggregate"
	"finadmin/internal/export"
	"finadmin/internal/logger"
	"finadmin/internal/sheets"
	"finadmin/internal/viewstate"
)

// createCommandContext returns a context that is cancelled on SIGINT or
// SIGTERM.
func createCommandContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, cancelling request")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func jsonOutput(cmd *cobra.Command) bool {
	format, _ := cmd.Flags().GetString("format")
	return format == "json"
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// addFilterFlags registers --search, --status and, when category is not
// empty, a category flag (e.g. --method or --role).
func addFilterFlags(cmd *cobra.Command, category, categoryHelp string) {
	cmd.Flags().StringP("search", "s", "", "Free-text search")
	cmd.Flags().String("status", aggregate.All, "Status filter")
	if category != "" {
		cmd.Flags().String(category, aggregate.All, categoryHelp)
	}
}

func filterQuery(cmd *cobra.Command, category string) aggregate.Query {
	q := aggregate.Query{Category: aggregate.All}
	q.Search, _ = cmd.Flags().GetString("search")
	q.Status, _ = cmd.Flags().GetString("status")
	if category != "" {
		q.Category, _ = cmd.Flags().GetString(category)
	}
	return q
}

// loadFiltered applies q to store and makes sure the collection is loaded
// exactly once.
func loadFiltered[T any](ctx context.Context, store *viewstate.Store[T], q aggregate.Query) error {
	if err := store.SetFilters(ctx, q); err != nil {
		return err
	}
	if store.Status() == viewstate.Idle {
		return store.Load(ctx)
	}
	return nil
}

// consoleNotifier prints mutation notifications to the terminal.
type consoleNotifier struct {
	out, errOut io.Writer
	log         zerolog.Logger
}

func newConsoleNotifier(cmd *cobra.Command) *consoleNotifier {
	return &consoleNotifier{
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		log:    logger.WithComponent("notifier"),
	}
}

func (n *consoleNotifier) Success(msg string) {
	n.log.Debug().Str("message", msg).Msg("Success notification")
	fmt.Fprintln(n.out, msg)
}

func (n *consoleNotifier) Error(msg string) {
	n.log.Debug().Str("message", msg).Msg("Error notification")
	fmt.Fprintf(n.errOut, "Error: %s\n", msg)
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().String("to", "csv", "Export target: csv, xlsx or sheet")
	cmd.Flags().StringP("dir", "d", ".", "Directory the export file is written to")
}

// exportRows writes the filtered items to the target chosen by --to.
func exportRows[T any](ctx context.Context, cmd *cobra.Command, table export.Table[T], items []T, log zerolog.Logger) error {
	target, _ := cmd.Flags().GetString("to")
	dir, _ := cmd.Flags().GetString("dir")

	switch target {
	case "csv", "xlsx":
		path := filepath.Join(dir, table.Filename(target))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()

		if target == "csv" {
			err = export.WriteCSV(f, table, items)
		} else {
			err = export.WriteXLSX(f, table, items)
		}
		if err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}

		log.Info().
			Str("file", path).
			Int("rows", len(items)).
			Msg("Export written")
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(items), path)
		return nil

	case "sheet":
		if settings.GoogleSheetURL == "" {
			return fmt.Errorf("GOOGLE_SHEET_URL is required for sheet exports")
		}
		svc, err := sheets.NewSheetsService(ctx, settings.GoogleSheetURL)
		if err != nil {
			return err
		}
		worksheet := settings.GoogleSheetWorksheet
		if worksheet == "" {
			worksheet = table.Name
		}
		if err := svc.AppendRows(ctx, worksheet, table.Headers(), table.Rows(items)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Appended %d rows to sheet %q\n", len(items), worksheet)
		return nil

	default:
		return fmt.Errorf("unsupported export target %q (use csv, xlsx or sheet)", target)
	}
}
