package models

// DashboardStats is the read-only overview aggregate computed by the server.
type DashboardStats struct {
	TotalPendingPayments   float64         `json:"totalPendingPayments"`
	TotalCompletedPayments float64         `json:"totalCompletedPayments"`
	TotalOutstanding       float64         `json:"totalOutstanding"`
	PaymentsThisMonth      float64         `json:"paymentsThisMonth"`
	ActiveInvoices         int             `json:"activeInvoices"`
	SuccessRate            float64         `json:"successRate"` // Percentage, 0-100
	Received               ReceivedWindows `json:"paymentsReceived"`
	TopDebtors             []TopDebtor     `json:"topDebtors"`
}

// ReceivedWindows breaks payments received out by period.
type ReceivedWindows struct {
	Today     float64 `json:"today"`
	ThisWeek  float64 `json:"thisWeek"`
	ThisMonth float64 `json:"thisMonth"`
}

type TopDebtor struct {
	ClientEmail     string  `json:"clientEmail"`
	OverdueInvoices int     `json:"overdueInvoices"`
	Outstanding     float64 `json:"outstandingAmount"`
}

// RawDashboardStats is the /reports/overview payload.
type RawDashboardStats struct {
	TotalPendingPayments   RawDecimal     `json:"total_pending_payments"`
	TotalCompletedPayments RawDecimal     `json:"total_completed_payments"`
	TotalOutstanding       RawDecimal     `json:"total_outstanding"`
	PaymentsThisMonth      RawDecimal     `json:"payments_this_month"`
	ActiveInvoices         int            `json:"active_invoices"`
	SuccessRate            RawDecimal     `json:"success_rate"`
	Received               RawReceived    `json:"payments_received"`
	TopDebtors             []RawTopDebtor `json:"top_debtors"`
}

type RawReceived struct {
	Today     RawDecimal `json:"today"`
	ThisWeek  RawDecimal `json:"this_week"`
	ThisMonth RawDecimal `json:"this_month"`
}

type RawTopDebtor struct {
	ClientEmail     string     `json:"client_email"`
	OverdueInvoices int        `json:"overdue_invoices"`
	Outstanding     RawDecimal `json:"outstanding_amount"`
}
