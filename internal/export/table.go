// Package export serializes a screen's filtered collection to CSV and XLSX
// files, and to rows for a Google Sheet.
package export

import (
	"strconv"
	"time"

	"finadmin/pkg/models"
)

// Column is one exported column. Value returns a string, a number, an int
// or a time.Time; zero times export as empty cells.
type Column[T any] struct {
	Header string
	Value  func(T) any

	// FreeText columns are always quote-wrapped in CSV output.
	FreeText bool
}

// Table is the export layout of one screen.
type Table[T any] struct {
	// Name is the static per-screen file name without extension.
	Name    string
	Columns []Column[T]
}

// Filename returns the static file name for the given extension, e.g.
// "invoices.csv".
func (t Table[T]) Filename(ext string) string {
	return t.Name + "." + ext
}

// Headers returns the column headers in order.
func (t Table[T]) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}
	return headers
}

// Rows returns the cell values of items, one row per item.
func (t Table[T]) Rows(items []T) [][]any {
	rows := make([][]any, len(items))
	for i, item := range items {
		row := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = cellValue(c.Value(item))
		}
		rows[i] = row
	}
	return rows
}

// cellValue turns dates into their ISO form; everything else passes through.
func cellValue(v any) any {
	if t, ok := v.(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	}
	return v
}

// formatCell renders a cell value as text.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return formatCell(cellValue(x))
	case interface{ String() string }:
		return x.String()
	default:
		return ""
	}
}

var Invoices = Table[models.Invoice]{
	Name: "invoices",
	Columns: []Column[models.Invoice]{
		{Header: "Number", Value: func(i models.Invoice) any { return i.Number() }},
		{Header: "Client Email", Value: func(i models.Invoice) any { return i.ClientEmail }, FreeText: true},
		{Header: "Client Phone", Value: func(i models.Invoice) any { return i.ClientPhone }, FreeText: true},
		{Header: "Amount", Value: func(i models.Invoice) any { return i.Amount }},
		{Header: "Overdue Amount", Value: func(i models.Invoice) any { return i.OverdueAmount }},
		{Header: "Status", Value: func(i models.Invoice) any { return string(i.Status) }},
		{Header: "Issue Date", Value: func(i models.Invoice) any { return i.IssueDate }},
		{Header: "Due Date", Value: func(i models.Invoice) any { return i.DueDate }},
		{Header: "Description", Value: func(i models.Invoice) any { return i.Description }, FreeText: true},
		{Header: "Payment Link", Value: func(i models.Invoice) any { return i.PaymentLink }},
	},
}

var Payments = Table[models.Payment]{
	Name: "payments",
	Columns: []Column[models.Payment]{
		{Header: "ID", Value: func(p models.Payment) any { return p.ID }},
		{Header: "Invoice", Value: func(p models.Payment) any { return p.InvoiceID }},
		{Header: "Client Email", Value: func(p models.Payment) any { return p.ClientEmail }, FreeText: true},
		{Header: "Amount", Value: func(p models.Payment) any { return p.Amount }},
		{Header: "Method", Value: func(p models.Payment) any { return p.Method.Label() }},
		{Header: "Status", Value: func(p models.Payment) any { return string(p.Status) }},
		{Header: "Payment Date", Value: func(p models.Payment) any { return p.PaymentDate }},
		{Header: "Reference", Value: func(p models.Payment) any { return p.Reference }, FreeText: true},
	},
}

var Users = Table[models.User]{
	Name: "users",
	Columns: []Column[models.User]{
		{Header: "ID", Value: func(u models.User) any { return u.ID }},
		{Header: "Email", Value: func(u models.User) any { return u.Email }, FreeText: true},
		{Header: "Name", Value: func(u models.User) any { return u.Name }, FreeText: true},
		{Header: "Role", Value: func(u models.User) any { return string(u.Role) }},
		{Header: "Status", Value: func(u models.User) any { return u.Status }},
		{Header: "Created", Value: func(u models.User) any { return u.CreatedAt }},
	},
}
