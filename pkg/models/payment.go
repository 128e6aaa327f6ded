package models

import (
	"strings"
	"time"
)

// PaymentMethod is the canonical lowercase payment method.
type PaymentMethod string

const (
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCash         PaymentMethod = "cash"
	MethodCheque       PaymentMethod = "cheque"
)

// PaymentMethods lists every payment method in display order.
var PaymentMethods = []PaymentMethod{MethodCard, MethodBankTransfer, MethodCash, MethodCheque}

// Label returns the display form, e.g. "bank transfer".
func (m PaymentMethod) Label() string {
	return strings.ReplaceAll(string(m), "_", " ")
}

// PaymentStatus is the canonical lowercase payment status.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentPending   PaymentStatus = "pending"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PaymentStatuses lists every payment status in display order.
var PaymentStatuses = []PaymentStatus{PaymentCompleted, PaymentPending, PaymentFailed, PaymentRefunded}

type Payment struct {
	ID          string        `json:"id"`
	InvoiceID   string        `json:"invoiceId"`
	ClientEmail string        `json:"clientEmail"`
	Amount      float64       `json:"amount"`
	Method      PaymentMethod `json:"method"`
	Status      PaymentStatus `json:"status"`
	PaymentDate time.Time     `json:"paymentDate"`
	Reference   string        `json:"reference,omitempty"`
}

// RawPayment is a payment as the API returns it: string amount, uppercase enums.
type RawPayment struct {
	ID          string     `json:"id"`
	InvoiceID   string     `json:"invoice_id"`
	ClientEmail string     `json:"client_email"`
	Amount      RawDecimal `json:"amount"`
	Method      string     `json:"method"`
	Status      string     `json:"status"`
	PaymentDate string     `json:"payment_date"`
	Reference   string     `json:"reference,omitempty"`
}

// PaymentInput is the body of a payment create request.
type PaymentInput struct {
	InvoiceID   string `json:"invoice_id"`
	Amount      string `json:"amount"`
	Method      string `json:"method"`
	PaymentDate string `json:"payment_date,omitempty"`
	Reference   string `json:"reference,omitempty"`
}

// PaymentPatch is the body of a payment update request.
type PaymentPatch struct {
	Amount      *string `json:"amount,omitempty"`
	Method      *string `json:"method,omitempty"`
	Status      *string `json:"status,omitempty"`
	PaymentDate *string `json:"payment_date,omitempty"`
	Reference   *string `json:"reference,omitempty"`
}
