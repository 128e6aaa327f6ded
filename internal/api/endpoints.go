package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"finadmin/internal/mapper"
	"finadmin/pkg/models"
)

// Invoices returns the /invoices resource.
func (c *Client) Invoices() *Resource[models.Invoice] {
	return newResource(c, "invoices", "/invoices", mapper.MapInvoice)
}

// Payments returns the /payments resource.
func (c *Client) Payments() *Resource[models.Payment] {
	return newResource(c, "payments", "/payments", mapper.MapPayment)
}

// UsersResource adds search and password reset to the /users resource.
type UsersResource struct {
	*Resource[models.User]
}

// Users returns the /users resource.
func (c *Client) Users() *UsersResource {
	return &UsersResource{newResource(c, "users", "/users", mapper.MapUser)}
}

// Search lists users matching term on the server side. An empty term lists
// every user.
func (u *UsersResource) Search(ctx context.Context, term string) ([]models.User, error) {
	var query url.Values
	if term = strings.TrimSpace(term); term != "" {
		query = url.Values{"q": []string{term}}
	}
	return u.List(ctx, query)
}

// ResetPassword asks the server to send a password reset to email.
func (u *UsersResource) ResetPassword(ctx context.Context, email string) error {
	_, err := u.client.do(ctx, request{
		op:     "users.reset_password",
		method: http.MethodPost,
		path:   "/users/reset-password",
		body:   map[string]string{"email": email},
	})
	return err
}

// Overview fetches the dashboard aggregate from /reports/overview.
func (c *Client) Overview(ctx context.Context) (models.DashboardStats, error) {
	const op = "reports.overview"

	resp, err := c.do(ctx, request{
		op:          op,
		method:      http.MethodGet,
		path:        "/reports/overview",
		conditional: true,
	})
	if err != nil {
		return models.DashboardStats{}, err
	}

	data, _ := payload(resp.body)
	var raw models.RawDashboardStats
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.DashboardStats{}, mappingFailure(op, &mapper.MappingError{Field: "body", Reason: err.Error()})
	}
	stats, err := mapper.MapDashboardStats(raw)
	if err != nil {
		return models.DashboardStats{}, mappingFailure(op, err)
	}

	c.remember(resp)
	return stats, nil
}
