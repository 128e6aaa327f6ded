package models

import (
	"strconv"
	"time"
)

// InvoiceStatus is the canonical lowercase invoice status.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// InvoiceStatuses lists every invoice status in display order.
var InvoiceStatuses = []InvoiceStatus{InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled}

type Invoice struct {
	// Core identifiers
	ID     string `json:"id"`
	Year   int    `json:"year,omitempty"`   // Issue year
	Series string `json:"series,omitempty"` // Numbering series within the year

	// Counterpart
	ClientEmail string `json:"clientEmail"`
	ClientPhone string `json:"clientPhone,omitempty"`

	// Amounts
	Amount        float64 `json:"amount"`
	OverdueAmount float64 `json:"overdueAmount"` // Computed by the server

	// Status is only ever changed by the server
	Status InvoiceStatus `json:"status"`

	// Dates
	IssueDate time.Time `json:"issueDate"`
	DueDate   time.Time `json:"dueDate"`

	// Optional metadata
	Description string `json:"description,omitempty"`
	PaymentLink string `json:"paymentLink,omitempty"` // External payment page, rendered as a QR code on print
}

// Number returns the human-readable invoice number, e.g. "2025/A-17".
func (i Invoice) Number() string {
	if i.Series == "" {
		return i.ID
	}
	if i.Year == 0 {
		return i.Series + "-" + i.ID
	}
	return strconv.Itoa(i.Year) + "/" + i.Series + "-" + i.ID
}

// RawInvoice is an invoice as the API returns it.
type RawInvoice struct {
	ID            string     `json:"id"`
	Year          int        `json:"year"`
	Series        string     `json:"series"`
	ClientEmail   string     `json:"client_email"`
	ClientPhone   string     `json:"client_phone"`
	Amount        RawDecimal `json:"amount"`
	Status        string     `json:"status"`
	IssueDate     string     `json:"issue_date"`
	DueDate       string     `json:"due_date"`
	Description   string     `json:"description,omitempty"`
	PaymentLink   string     `json:"payment_link,omitempty"`
	OverdueAmount RawDecimal `json:"overdue_amount"`
}

// InvoiceInput is the body of an invoice create request.
type InvoiceInput struct {
	Year        int    `json:"year,omitempty"`
	Series      string `json:"series,omitempty"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone,omitempty"`
	Amount      string `json:"amount"`
	IssueDate   string `json:"issue_date,omitempty"`
	DueDate     string `json:"due_date"`
	Description string `json:"description,omitempty"`
	PaymentLink string `json:"payment_link,omitempty"`
}

// InvoicePatch is the body of an invoice update request. Nil fields are left
// untouched by the server.
type InvoicePatch struct {
	ClientEmail *string `json:"client_email,omitempty"`
	ClientPhone *string `json:"client_phone,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Description *string `json:"description,omitempty"`
	PaymentLink *string `json:"payment_link,omitempty"`
}
