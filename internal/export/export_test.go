package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"finadmin/pkg/models"
)

func samplePayments() []models.Payment {
	return []models.Payment{
		{
			ID:          "p1",
			InvoiceID:   "i1",
			ClientEmail: "acme@example.com",
			Amount:      1500.5,
			Method:      models.MethodBankTransfer,
			Status:      models.PaymentCompleted,
			PaymentDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Reference:   `Order "42", part 1`,
		},
		{ID: "p2", Amount: 3, Method: models.MethodCash, Status: models.PaymentPending},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Payments, samplePayments()))

	want := "ID,Invoice,Client Email,Amount,Method,Status,Payment Date,Reference\r\n" +
		`p1,i1,"acme@example.com",1500.50,bank transfer,completed,2025-03-14,"Order ""42"", part 1"` + "\r\n" +
		`p2,,"",3.00,cash,pending,,""` + "\r\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Users, nil))
	assert.Equal(t, "ID,Email,Name,Role,Status,Created\r\n", buf.String())
}

func TestCSVField(t *testing.T) {
	tests := []struct {
		value    string
		freeText bool
		want     string
	}{
		{"plain", false, "plain"},
		{"plain", true, `"plain"`},
		{`say "hi"`, true, `"say ""hi"""`},
		{"a,b", false, `"a,b"`},
		{"line\nbreak", false, "\"line\nbreak\""},
		{"", false, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, csvField(tt.value, tt.freeText), tt.value)
	}
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "invoices.csv", Invoices.Filename("csv"))
	assert.Equal(t, "payments.csv", Payments.Filename("csv"))
	assert.Equal(t, "users.xlsx", Users.Filename("xlsx"))
}

func TestInvoiceRows(t *testing.T) {
	rows := Invoices.Rows([]models.Invoice{{
		ID:      "17",
		Year:    2025,
		Series:  "A",
		Amount:  10,
		Status:  models.InvoiceOverdue,
		DueDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}})
	require.Len(t, rows, 1)
	assert.Equal(t, "2025/A-17", rows[0][0])
	assert.Equal(t, 10.0, rows[0][3])
	assert.Equal(t, "overdue", rows[0][5])
	assert.Equal(t, "", rows[0][6])
	assert.Equal(t, "2025-01-01", rows[0][7])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Payments, samplePayments()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("payments")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Payments.Headers(), rows[0])
	assert.Equal(t, "p1", rows[1][0])
	assert.Equal(t, "1500.5", rows[1][3])
	assert.Equal(t, `Order "42", part 1`, rows[1][7])
}
