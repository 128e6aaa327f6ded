package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadmin/internal/credentials"
	"finadmin/internal/mapper"
	"finadmin/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/api/"}, credentials.Static{credentials.TokenKey: "secret"})
	require.NoError(t, err)
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "http://localhost"}, nil)
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "/relative"}, credentials.Static{})
	assert.Error(t, err)
}

func TestListAttachesBearerAndMaps(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/payments", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
			{"id": "p1", "invoice_id": "i1", "amount": "10.25", "method": "CARD", "status": "COMPLETED"},
			{"id": "p2", "invoice_id": "i2", "amount": "4", "method": "BANK_TRANSFER", "status": "PENDING"},
		}})
	})

	payments, err := c.Payments().List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, 10.25, payments[0].Amount)
	assert.Equal(t, models.MethodBankTransfer, payments[1].Method)
}

func TestMissingCredentialFailsBeforeRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL}, credentials.Static{})
	require.NoError(t, err)

	_, err = c.Invoices().List(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, KindUnauthenticated, KindOf(err))
	assert.True(t, errors.Is(err, ErrUnauthenticated))

	err = c.Invoices().Remove(context.Background(), "1")
	assert.Equal(t, KindUnauthenticated, KindOf(err))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestRemoteErrorUsesServerMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	})

	_, err := c.Invoices().List(context.Background(), nil)
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, KindRemote, f.Kind)
	assert.Equal(t, http.StatusUnauthorized, f.Status)
	assert.Equal(t, "token expired", f.Message)
	assert.Equal(t, "token expired", Message(err))
}

func TestRemoteErrorFallsBackToStatusText(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>oops</html>")
	})

	_, err := c.Payments().List(context.Background(), nil)
	assert.Equal(t, "request failed with status 500 (Internal Server Error)", Message(err))
}

func TestListNotModified(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n > 1 {
			assert.Equal(t, `"v1"`, r.Header.Get("If-None-Match"))
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	})

	_, err := c.Users().List(context.Background(), nil)
	require.NoError(t, err)

	_, err = c.Users().List(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotModified)
	assert.Zero(t, KindOf(err))
}

func TestListMappingFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
			{"id": "p1", "amount": "ten", "method": "CARD", "status": "COMPLETED"},
		}})
	})

	_, err := c.Payments().List(context.Background(), nil)
	assert.Equal(t, KindMapping, KindOf(err))
	assert.True(t, errors.Is(err, mapper.ErrMapping))

	var me *mapper.MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "[0].amount", me.Field)
}

func TestListRequiresDataEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := c.Invoices().List(context.Background(), nil)
	assert.Equal(t, KindMapping, KindOf(err))
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: url}, credentials.Static{credentials.TokenKey: "secret"})
	require.NoError(t, err)

	_, err = c.Invoices().List(context.Background(), nil)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestOversizedResponseIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
			{"id": "p1", "invoice_id": "i1", "amount": "10.25", "method": "CARD", "status": "COMPLETED"},
		}})
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, MaxResponseBytes: 16}, credentials.Static{credentials.TokenKey: "secret"})
	require.NoError(t, err)

	_, err = c.Payments().List(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Contains(t, Message(err), "response too large")
}

func TestResponseAtLimitIsAccepted(t *testing.T) {
	body := `{"data":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, MaxResponseBytes: int64(len(body))}, credentials.Static{credentials.TokenKey: "secret"})
	require.NoError(t, err)

	payments, err := c.Payments().List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestCreateUpdateRemove(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.EscapedPath()
		switch {
		case r.Method == http.MethodPost && path == "/api/invoices":
			var in models.InvoiceInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "1500.50", in.Amount)
			writeJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
				"id": "9", "amount": in.Amount, "status": "draft", "due_date": in.DueDate,
			}})
		case r.Method == http.MethodPatch && path == "/api/invoices/a%2Fb":
			var patch map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
			assert.Equal(t, map[string]any{"description": "updated"}, patch)
			writeJSON(w, http.StatusOK, map[string]any{"id": "a/b", "amount": 5, "status": "SENT"})
		case r.Method == http.MethodDelete && path == "/api/invoices/9":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	created, err := c.Invoices().Create(ctx, models.InvoiceInput{ClientEmail: "a@b.c", Amount: "1500.50", DueDate: "2025-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "9", created.ID)
	assert.Equal(t, 1500.50, created.Amount)

	desc := "updated"
	updated, err := c.Invoices().Update(ctx, "a/b", models.InvoicePatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceSent, updated.Status)

	require.NoError(t, c.Invoices().Remove(ctx, "9"))

	err = c.Invoices().Remove(ctx, " ")
	assert.Error(t, err)
}

func TestUsersSearchAndResetPassword(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users":
			assert.Equal(t, "ann", r.URL.Query().Get("q"))
			writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
				{"id": "u1", "email": "ann@example.com", "role": "ACCOUNTANT"},
			}})
		case "/api/users/reset-password":
			assert.Equal(t, http.MethodPost, r.Method)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ann@example.com", body["email"])
			writeJSON(w, http.StatusOK, map[string]string{"message": "sent"})
		}
	})

	users, err := c.Users().Search(context.Background(), " ann ")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAccountant, users[0].Role)

	require.NoError(t, c.Users().ResetPassword(context.Background(), "ann@example.com"))
}

func TestOverview(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reports/overview", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"total_outstanding": "320.00",
			"active_invoices":   4,
			"success_rate":      92.5,
			"top_debtors": []map[string]any{
				{"client_email": "a@x", "overdue_invoices": 2, "outstanding_amount": "100"},
			},
		}})
	})

	stats, err := c.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 320.0, stats.TotalOutstanding)
	assert.Equal(t, 4, stats.ActiveInvoices)
	assert.Equal(t, 92.5, stats.SuccessRate)
	require.Len(t, stats.TopDebtors, 1)
}
