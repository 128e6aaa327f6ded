package mapper

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadmin/pkg/models"
)

func rawPayment(amount string) models.RawPayment {
	return models.RawPayment{
		ID:          "pay-1",
		InvoiceID:   "inv-1",
		ClientEmail: " client@example.com ",
		Amount:      models.RawDecimal(amount),
		Method:      "BANK_TRANSFER",
		Status:      "COMPLETED",
		PaymentDate: "2025-03-14",
		Reference:   "REF-42",
	}
}

func TestMapPayment(t *testing.T) {
	p, err := MapPayment(rawPayment("1500.50"))
	require.NoError(t, err)

	assert.Equal(t, "pay-1", p.ID)
	assert.Equal(t, "inv-1", p.InvoiceID)
	assert.Equal(t, "client@example.com", p.ClientEmail)
	assert.Equal(t, 1500.50, p.Amount)
	assert.Equal(t, models.MethodBankTransfer, p.Method)
	assert.Equal(t, "bank transfer", p.Method.Label())
	assert.Equal(t, models.PaymentCompleted, p.Status)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), p.PaymentDate)
}

func TestMapPaymentAmountRoundTrip(t *testing.T) {
	values := []float64{0, 0.01, 0.1, 1, 12.5, 1500.5, 99999.99, 123456789.123, 1e-7, 3.14159}
	for _, want := range values {
		s := strconv.FormatFloat(want, 'f', -1, 64)
		t.Run(s, func(t *testing.T) {
			p, err := MapPayment(rawPayment(s))
			require.NoError(t, err)
			assert.Equal(t, want, p.Amount)
		})
	}
}

func TestMapPaymentRejectsBadAmounts(t *testing.T) {
	for _, amount := range []string{"abc", "", "12,50", "NaN", "Inf", "-5", "1.2.3"} {
		t.Run(amount, func(t *testing.T) {
			p, err := MapPayment(rawPayment(amount))
			require.Error(t, err)
			assert.Equal(t, models.Payment{}, p)

			var me *MappingError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, "amount", me.Field)
			assert.True(t, errors.Is(err, ErrMapping))
		})
	}
}

func TestMapPaymentIsDeterministic(t *testing.T) {
	raw := rawPayment("not-a-number")
	_, err1 := MapPayment(raw)
	_, err2 := MapPayment(raw)
	assert.Equal(t, err1, err2)

	raw = rawPayment("10")
	p1, _ := MapPayment(raw)
	p2, _ := MapPayment(raw)
	assert.Equal(t, p1, p2)
}

func TestMapPaymentEnums(t *testing.T) {
	raw := rawPayment("10")
	raw.Method = "Bank Transfer"
	raw.Status = "refunded"
	p, err := MapPayment(raw)
	require.NoError(t, err)
	assert.Equal(t, models.MethodBankTransfer, p.Method)
	assert.Equal(t, models.PaymentRefunded, p.Status)

	raw.Method = "crypto"
	_, err = MapPayment(raw)
	var me *MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "method", me.Field)
}

func TestMapInvoice(t *testing.T) {
	inv, err := MapInvoice(models.RawInvoice{
		ID:            "17",
		Year:          2025,
		Series:        "A",
		ClientEmail:   "acme@example.com",
		Amount:        "1500.50",
		Status:        "OVERDUE",
		IssueDate:     "2024-12-01",
		DueDate:       "2025-01-01T00:00:00Z",
		OverdueAmount: "250",
	})
	require.NoError(t, err)

	assert.Equal(t, 1500.50, inv.Amount)
	assert.Equal(t, 250.0, inv.OverdueAmount)
	assert.Equal(t, models.InvoiceOverdue, inv.Status)
	assert.Equal(t, 2025, inv.DueDate.Year())
}

func TestMapInvoiceMissingOverdueAmount(t *testing.T) {
	inv, err := MapInvoice(models.RawInvoice{ID: "1", Amount: "10", Status: "draft"})
	require.NoError(t, err)
	assert.Zero(t, inv.OverdueAmount)
}

func TestMapInvoiceRejectsBadDate(t *testing.T) {
	_, err := MapInvoice(models.RawInvoice{ID: "1", Amount: "10", Status: "draft", DueDate: "tomorrow"})
	var me *MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "due_date", me.Field)
}

func TestMapUserKeepsBothRoleVocabularies(t *testing.T) {
	for _, role := range []string{"ADMIN", "manager", "user", "Accountant"} {
		u, err := MapUser(models.RawUser{ID: "u1", Email: "a@b.c", Role: role})
		require.NoError(t, err)
		assert.Equal(t, models.Role(CanonicalKey(role)), u.Role)
	}
}

func TestMapDashboardStats(t *testing.T) {
	stats, err := MapDashboardStats(models.RawDashboardStats{
		TotalOutstanding: "320",
		SuccessRate:      "87.5",
		ActiveInvoices:   12,
		Received:         models.RawReceived{Today: "10", ThisWeek: "50", ThisMonth: "200"},
		TopDebtors: []models.RawTopDebtor{
			{ClientEmail: "b@x", Outstanding: "80"},
			{ClientEmail: "a@x", Outstanding: "100", OverdueInvoices: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 320.0, stats.TotalOutstanding)
	assert.Equal(t, 87.5, stats.SuccessRate)
	assert.Equal(t, 50.0, stats.Received.ThisWeek)
	require.Len(t, stats.TopDebtors, 2)
	assert.Equal(t, "b@x", stats.TopDebtors[0].ClientEmail)
	assert.Equal(t, 3, stats.TopDebtors[1].OverdueInvoices)
}

func TestMapDashboardStatsBadDebtor(t *testing.T) {
	_, err := MapDashboardStats(models.RawDashboardStats{
		TopDebtors: []models.RawTopDebtor{{ClientEmail: "a@x", Outstanding: "lots"}},
	})
	var me *MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "top_debtors[0].outstanding_amount", me.Field)
}

func TestMapAllReportsIndex(t *testing.T) {
	raws := []models.RawPayment{rawPayment("1"), rawPayment("2"), rawPayment("x")}
	_, err := MapAll(raws, MapPayment)

	var me *MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "[2].amount", me.Field)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestCanonicalKey(t *testing.T) {
	assert.Equal(t, "banktransfer", CanonicalKey("BANK_TRANSFER"))
	assert.Equal(t, "banktransfer", CanonicalKey("bank transfer"))
	assert.Equal(t, "banktransfer", CanonicalKey(" Bank-Transfer "))
	assert.Equal(t, "", CanonicalKey(""))
}
