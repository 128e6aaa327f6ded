package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"finadmin/pkg/models"
)

// InvoiceDocument renders inv as a one-page PDF. When the invoice has a
// payment link, its QR code is drawn by qr.
func InvoiceDocument(inv models.Invoice, qr DocumentRenderer) ([]byte, error) {
	const op = "InvoiceDocument"

	m := maroto.New(config.NewBuilder().Build())

	m.AddRow(12,
		col.New(8).Add(
			text.New("INVOICE", props.Text{Size: 20, Style: fontstyle.Bold}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("No. %s", inv.Number()), props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Align: align.Right,
			}),
		),
	)
	m.AddRow(6,
		col.New(8).Add(text.New(fmt.Sprintf("Status: %s", inv.Status), props.Text{Size: 9})),
		col.New(4).Add(text.New(fmt.Sprintf("Issued: %s", printDate(inv.IssueDate)), props.Text{Size: 9, Align: align.Right})),
	)
	m.AddRow(6,
		col.New(8),
		col.New(4).Add(text.New(fmt.Sprintf("Due: %s", printDate(inv.DueDate)), props.Text{Size: 9, Align: align.Right})),
	)

	m.AddRow(10)

	m.AddRow(7,
		col.New(12).Add(text.New("Bill To", props.Text{Size: 11, Style: fontstyle.Bold})),
	)
	m.AddRow(5, col.New(12).Add(text.New(inv.ClientEmail, props.Text{Size: 9})))
	if inv.ClientPhone != "" {
		m.AddRow(5, col.New(12).Add(text.New(inv.ClientPhone, props.Text{Size: 9})))
	}

	m.AddRow(10)

	if desc := strings.TrimSpace(inv.Description); desc != "" {
		m.AddRow(7,
			col.New(12).Add(text.New("Description", props.Text{Size: 11, Style: fontstyle.Bold})),
		)
		m.AddRow(12, col.New(12).Add(text.New(desc, props.Text{Size: 9})))
	}

	m.AddRow(8,
		col.New(8).Add(text.New("Amount", props.Text{Size: 10, Style: fontstyle.Bold})),
		col.New(4).Add(text.New(fmt.Sprintf("%.2f", inv.Amount), props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Align: align.Right,
		})),
	)
	if inv.OverdueAmount > 0 {
		m.AddRow(6,
			col.New(8).Add(text.New("Overdue", props.Text{Size: 9})),
			col.New(4).Add(text.New(fmt.Sprintf("%.2f", inv.OverdueAmount), props.Text{Size: 9, Align: align.Right})),
		)
	}

	if inv.PaymentLink != "" && qr != nil {
		m.AddRow(10)
		m.AddRow(7,
			col.New(12).Add(text.New("Scan to pay", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Center})),
		)
		if err := qr.RenderQuickResponseCode(m, inv.PaymentLink); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate PDF document: %w", op, err)
	}
	return document.GetBytes(), nil
}

func printDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("January 2, 2006")
}
