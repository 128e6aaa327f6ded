// Package mapper normalizes raw API records into the view models used by
// filters and aggregates. Every function is pure: the same input always
// yields the same output or the same error.
package mapper

import (
	"fmt"
	"strings"

	"finadmin/pkg/models"
)

// MapPayment normalizes a raw payment. The amount must be a valid decimal
// string; uppercase enums become their lowercase canonical form.
func MapPayment(raw models.RawPayment) (models.Payment, error) {
	amount, err := ParseAmount("amount", raw.Amount)
	if err != nil {
		return models.Payment{}, err
	}
	method, err := matchEnum("method", raw.Method, models.PaymentMethods)
	if err != nil {
		return models.Payment{}, err
	}
	status, err := matchEnum("status", raw.Status, models.PaymentStatuses)
	if err != nil {
		return models.Payment{}, err
	}
	paidAt, err := ParseDate("payment_date", raw.PaymentDate)
	if err != nil {
		return models.Payment{}, err
	}

	return models.Payment{
		ID:          raw.ID,
		InvoiceID:   raw.InvoiceID,
		ClientEmail: strings.TrimSpace(raw.ClientEmail),
		Amount:      amount,
		Method:      method,
		Status:      status,
		PaymentDate: paidAt,
		Reference:   raw.Reference,
	}, nil
}

// MapInvoice normalizes a raw invoice. Status is taken from the server as-is;
// it is never derived locally.
func MapInvoice(raw models.RawInvoice) (models.Invoice, error) {
	amount, err := ParseAmount("amount", raw.Amount)
	if err != nil {
		return models.Invoice{}, err
	}
	overdue, err := optionalAmount("overdue_amount", raw.OverdueAmount)
	if err != nil {
		return models.Invoice{}, err
	}
	status, err := matchEnum("status", raw.Status, models.InvoiceStatuses)
	if err != nil {
		return models.Invoice{}, err
	}
	issued, err := ParseDate("issue_date", raw.IssueDate)
	if err != nil {
		return models.Invoice{}, err
	}
	due, err := ParseDate("due_date", raw.DueDate)
	if err != nil {
		return models.Invoice{}, err
	}

	return models.Invoice{
		ID:            raw.ID,
		Year:          raw.Year,
		Series:        raw.Series,
		ClientEmail:   strings.TrimSpace(raw.ClientEmail),
		ClientPhone:   strings.TrimSpace(raw.ClientPhone),
		Amount:        amount,
		OverdueAmount: overdue,
		Status:        status,
		IssueDate:     issued,
		DueDate:       due,
		Description:   raw.Description,
		PaymentLink:   strings.TrimSpace(raw.PaymentLink),
	}, nil
}

// MapUser normalizes a raw user. Roles from either vocabulary are kept;
// an unrecognised role is lowercased and passed through because the server
// enumeration is authoritative.
func MapUser(raw models.RawUser) (models.User, error) {
	created, err := ParseDate("created_at", raw.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	updated, err := ParseDate("updated_at", raw.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:        raw.ID,
		Email:     strings.TrimSpace(raw.Email),
		Name:      strings.TrimSpace(raw.Name),
		Role:      models.Role(strings.ToLower(strings.TrimSpace(raw.Role))),
		Status:    strings.ToLower(strings.TrimSpace(raw.Status)),
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// MapDashboardStats normalizes the overview report. Top debtors keep the
// order the server sent.
func MapDashboardStats(raw models.RawDashboardStats) (models.DashboardStats, error) {
	var stats models.DashboardStats
	fields := []struct {
		name string
		raw  models.RawDecimal
		dst  *float64
	}{
		{"total_pending_payments", raw.TotalPendingPayments, &stats.TotalPendingPayments},
		{"total_completed_payments", raw.TotalCompletedPayments, &stats.TotalCompletedPayments},
		{"total_outstanding", raw.TotalOutstanding, &stats.TotalOutstanding},
		{"payments_this_month", raw.PaymentsThisMonth, &stats.PaymentsThisMonth},
		{"success_rate", raw.SuccessRate, &stats.SuccessRate},
		{"payments_received.today", raw.Received.Today, &stats.Received.Today},
		{"payments_received.this_week", raw.Received.ThisWeek, &stats.Received.ThisWeek},
		{"payments_received.this_month", raw.Received.ThisMonth, &stats.Received.ThisMonth},
	}
	for _, f := range fields {
		v, err := optionalAmount(f.name, f.raw)
		if err != nil {
			return models.DashboardStats{}, err
		}
		*f.dst = v
	}
	if stats.SuccessRate > 100 {
		return models.DashboardStats{}, newMappingError("success_rate", string(raw.SuccessRate), "percentage above 100")
	}
	stats.ActiveInvoices = raw.ActiveInvoices

	stats.TopDebtors = make([]models.TopDebtor, 0, len(raw.TopDebtors))
	for i, d := range raw.TopDebtors {
		outstanding, err := ParseAmount("outstanding_amount", d.Outstanding)
		if err != nil {
			if me, ok := err.(*MappingError); ok {
				me.Field = fmt.Sprintf("top_debtors[%d].%s", i, me.Field)
			}
			return models.DashboardStats{}, err
		}
		stats.TopDebtors = append(stats.TopDebtors, models.TopDebtor{
			ClientEmail:     d.ClientEmail,
			OverdueInvoices: d.OverdueInvoices,
			Outstanding:     outstanding,
		})
	}
	return stats, nil
}

// MapAll applies fn to every record. The first failure aborts the whole
// collection and reports the index of the offending record.
func MapAll[R, T any](raws []R, fn func(R) (T, error)) ([]T, error) {
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		v, err := fn(raw)
		if err != nil {
			return nil, atIndex(i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
