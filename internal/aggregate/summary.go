package aggregate

import (
	"time"

	"finadmin/pkg/models"
)

// InvoiceFields filters invoices on id, number and client contact details.
var InvoiceFields = Fields[models.Invoice]{
	Text: func(i models.Invoice) []string {
		return []string{i.ID, i.Number(), i.ClientEmail, i.ClientPhone}
	},
	Status: func(i models.Invoice) string { return string(i.Status) },
}

// PaymentFields filters payments on id, invoice id and client email, with
// the method as the category predicate.
var PaymentFields = Fields[models.Payment]{
	Text: func(p models.Payment) []string {
		return []string{p.ID, p.InvoiceID, p.ClientEmail, p.Reference}
	},
	Status:   func(p models.Payment) string { return string(p.Status) },
	Category: func(p models.Payment) string { return string(p.Method) },
}

// UserFields filters users on id, email and name, with the role as the
// category predicate.
var UserFields = Fields[models.User]{
	Text: func(u models.User) []string {
		return []string{u.ID, u.Email, u.Name}
	},
	Status:   func(u models.User) string { return u.Status },
	Category: func(u models.User) string { return string(u.Role) },
}

func invoiceAmount(i models.Invoice) float64 { return i.Amount }
func invoiceStatus(i models.Invoice) string  { return string(i.Status) }
func paymentAmount(p models.Payment) float64 { return p.Amount }
func paymentStatus(p models.Payment) string  { return string(p.Status) }

// InvoiceSummary holds the summary cards of the invoices screen.
type InvoiceSummary struct {
	Count       int                              `json:"count"`
	Total       float64                          `json:"total"`
	Paid        float64                          `json:"paid"`
	Outstanding float64                          `json:"outstanding"` // sent + overdue
	Overdue     float64                          `json:"overdue"`
	ByStatus    map[models.InvoiceStatus]float64 `json:"byStatus"`
	CountBy     map[models.InvoiceStatus]int     `json:"countByStatus"`
}

// SummarizeInvoices reduces the (already filtered) invoices of a screen.
func SummarizeInvoices(invoices []models.Invoice) InvoiceSummary {
	s := InvoiceSummary{
		Count:    len(invoices),
		Total:    Total(invoices, invoiceAmount),
		ByStatus: make(map[models.InvoiceStatus]float64, len(models.InvoiceStatuses)),
		CountBy:  make(map[models.InvoiceStatus]int, len(models.InvoiceStatuses)),
	}
	for _, status := range models.InvoiceStatuses {
		s.ByStatus[status] = TotalWhere(invoices, invoiceStatus, string(status), invoiceAmount)
		s.CountBy[status] = CountWhere(invoices, invoiceStatus, string(status))
	}
	s.Paid = s.ByStatus[models.InvoicePaid]
	s.Overdue = s.ByStatus[models.InvoiceOverdue]
	s.Outstanding = s.ByStatus[models.InvoiceSent] + s.Overdue
	return s
}

// PaymentSummary holds the summary cards and method chart of the payments screen.
type PaymentSummary struct {
	Count    int                              `json:"count"`
	Total    float64                          `json:"total"`
	ByStatus map[models.PaymentStatus]float64 `json:"byStatus"`
	ByMethod []Slice                          `json:"byMethod"`
}

// SummarizePayments reduces the (already filtered) payments of a screen.
func SummarizePayments(payments []models.Payment) PaymentSummary {
	s := PaymentSummary{
		Count:    len(payments),
		Total:    Total(payments, paymentAmount),
		ByStatus: make(map[models.PaymentStatus]float64, len(models.PaymentStatuses)),
		ByMethod: GroupSum(payments, func(p models.Payment) string { return p.Method.Label() }, paymentAmount),
	}
	for _, status := range models.PaymentStatuses {
		s.ByStatus[status] = TotalWhere(payments, paymentStatus, string(status), paymentAmount)
	}
	return s
}

// UserSummary counts users per role and status.
type UserSummary struct {
	Count    int     `json:"count"`
	ByRole   []Slice `json:"byRole"`
	ByStatus []Slice `json:"byStatus"`
}

// SummarizeUsers reduces the (already filtered) users of a screen.
func SummarizeUsers(users []models.User) UserSummary {
	return UserSummary{
		Count:    len(users),
		ByRole:   GroupCount(users, func(u models.User) string { return string(u.Role) }),
		ByStatus: GroupCount(users, func(u models.User) string { return u.Status }),
	}
}

// ReceivedSince sums completed payments received today, this week (weeks
// start on Monday) and this month, relative to now in now's location.
// Payment dates are compared as calendar days; payments dated after today
// are ignored.
func ReceivedSince(payments []models.Payment, now time.Time) models.ReceivedWindows {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	weekday := (int(today.Weekday()) + 6) % 7
	week := today.AddDate(0, 0, -weekday)
	month := time.Date(y, m, 1, 0, 0, 0, 0, loc)

	var w models.ReceivedWindows
	for _, p := range payments {
		if p.Status != models.PaymentCompleted || p.PaymentDate.IsZero() {
			continue
		}
		day := calendarDay(p.PaymentDate, loc)
		if day.After(today) {
			continue
		}
		if !day.Before(today) {
			w.Today += p.Amount
		}
		if !day.Before(week) {
			w.ThisWeek += p.Amount
		}
		if !day.Before(month) {
			w.ThisMonth += p.Amount
		}
	}
	return w
}

// calendarDay returns the midnight in loc of the day t falls on. Midnight
// UTC values are plain dates (the API's date-only form) and keep their day;
// other timestamps are moved into loc first.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	if !isDateOnly(t) {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func isDateOnly(t time.Time) bool {
	_, offset := t.Zone()
	return offset == 0 && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
