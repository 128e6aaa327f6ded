// Package screens binds each screen's view-state store, its API resource
// and its mutation coordinator together.
package screens

import (
	"context"

	"finadmin/internal/aggregate"
	"finadmin/internal/api"
	"finadmin/internal/mutation"
	"finadmin/internal/viewstate"
	"finadmin/pkg/models"
)

// Modal names.
const (
	ModalCreate        = "create"
	ModalEdit          = "edit"
	ModalConfirmDelete = "confirm-delete"
	ModalResetPassword = "reset-password"
)

// Invoices is the invoice management screen.
type Invoices struct {
	Store     *viewstate.Store[models.Invoice]
	Mutations *mutation.Coordinator
	resource  *api.Resource[models.Invoice]
}

// NewInvoices creates the invoices screen on client.
func NewInvoices(client *api.Client, notifier mutation.Notifier) *Invoices {
	resource := client.Invoices()
	store := viewstate.New("invoices", func(ctx context.Context, _ aggregate.Query) ([]models.Invoice, error) {
		return resource.List(ctx, nil)
	})
	return &Invoices{
		Store:     store,
		Mutations: mutation.New(store, notifier),
		resource:  resource,
	}
}

// Load fetches the invoices.
func (s *Invoices) Load(ctx context.Context) error {
	return s.Store.Load(ctx)
}

// Visible returns the invoices matching the active filters.
func (s *Invoices) Visible() []models.Invoice {
	return s.Store.Visible(aggregate.InvoiceFields)
}

// Summary reduces the visible invoices.
func (s *Invoices) Summary() aggregate.InvoiceSummary {
	return aggregate.SummarizeInvoices(s.Visible())
}

// Find returns the stored invoice with the given id.
func (s *Invoices) Find(id string) (models.Invoice, bool) {
	return find(s.Store.Collection(), id, func(i models.Invoice) string { return i.ID })
}

// Create submits form as a new invoice from the create modal.
func (s *Invoices) Create(ctx context.Context, form InvoiceForm) error {
	return s.Mutations.Submit(ctx, mutation.Action{
		Name:           "invoices.create",
		SuccessMessage: "Invoice created successfully!",
		Open:           func() { s.Store.OpenModal(ModalCreate, form) },
		Do: func(ctx context.Context) error {
			input, err := form.Input()
			if err != nil {
				return err
			}
			_, err = s.resource.Create(ctx, input)
			return err
		},
	})
}

// Update sends patch for the invoice with the given id.
func (s *Invoices) Update(ctx context.Context, id string, patch models.InvoicePatch) error {
	return s.Mutations.Submit(ctx, mutation.Action{
		Name:           "invoices.update",
		SuccessMessage: "Invoice updated successfully!",
		Open: func() {
			s.Store.Select(id)
			s.Store.OpenModal(ModalEdit, patch)
		},
		Do: func(ctx context.Context) error {
			p, err := normalizeInvoicePatch(patch)
			if err != nil {
				return err
			}
			_, err = s.resource.Update(ctx, id, p)
			return err
		},
	})
}

// Delete removes the invoice with the given id.
func (s *Invoices) Delete(ctx context.Context, id string) error {
	return s.Mutations.Submit(ctx, mutation.Action{
		Name:           "invoices.delete",
		SuccessMessage: "Invoice deleted successfully!",
		Open: func() {
			s.Store.Select(id)
			s.Store.OpenModal(ModalConfirmDelete, id)
		},
		Do: func(ctx context.Context) error {
			return s.resource.Remove(ctx, id)
		},
	})
}

// Payments is the payment management screen.
type Payments struct {
	Store     *viewstate.Store[models.Payment]
	Mutations *mutation.Coordinator
	resource  *api.Resource[models.Payment]
}

// NewPayments creates the payments screen on client.
func NewPayments(client *api.Client, notifier mutation.Notifier) *Payments {
	resource := client.Payments()
	store := viewstate.New("payments", func(ctx context.Context, _ aggregate.Query) ([]models.Payment, error) {
		return resource.List(ctx, nil)
	})
	return &Payments{
		Store:     store,
		Mutations: mutation.New(store, notifier),
		resource:  resource,
	}
}

// Load fetches the payments.
func (s *Payments) Load(ctx context.Context) error {
	return s.Store.Load(ctx)
}

// Visible returns the payments matching the active filters.
func (s *Payments) Visible() []models.Payment {
	return s.Store.Visible(aggregate.PaymentFields)
}

// Summary reduces the visible payments.
func (s *Payments) Summary() aggregate.PaymentSummary {
	return aggregate.SummarizePayments(s.Visible())
}

// Create records the payment described by form.
func (s *Payments) Create(ctx context.Context, form PaymentForm) error {
	return s.Mutations.Submit(ctx, mutation.Action{
		Name:           "payments.create",
		SuccessMessage: "Payment recorded successfully!",
		Open:           func() { s.Store.OpenModal(ModalCreate, form) },
		Do: func(ctx context.Context) error {
			input, err := form.Input()
			if err != nil {
				return err
			}
			_, err = s.resource.Create(ctx, input)
			return err
		},
	})
}

// Update sends patch for the payment with the given id.
func (s *Payments) Update(ctx context.Context, id string, patch models.PaymentPatch) error {
	return s.Mutations.Submit(ctx, mutation.Action{
		Name:           "payments.update",
		SuccessMessage: "Payment updated successfully!",
		Open: func() {
			s.Store.Select(id)
			s.Store.OpenModal(ModalEdit, patch)
		},
		Do: func(ctx context.Context) error {
			p, err := normalizePaymentPatch(patch)
			if err != nil {
				return err
			}
			_, err = s.resource.Update(ctx, id, p)
			return err
		},
	})
}

// Delete removes the payment with the given id.
func (s *Payments) Delete(ctx context.Context, id string) error {
	return s.Mutations.Submit(ctx, mutation.Action{
		Name:           "payments.delete",
		SuccessMessage: "Payment deleted successfully!",
		Open: func() {
			s.Store.Select(id)
			s.Store.OpenModal(ModalConfirmDelete, id)
		},
		Do: func(ctx context.Context) error {
			return s.resource.Remove(ctx, id)
		},
	})
}

// Users is the user management screen. Its search is applied by the server.
type Users struct {
	Store     *viewstate.Store[models.User]
	Mutations *mutation.Coordinator
	resource  *api.UsersResource
}

// NewUsers creates the users screen on client.
func NewUsers(client *api.Client, notifier mutation.Notifier) *Users {
	resource := client.Users()
	store := viewstate.New("users", func(ctx context.Context, q aggregate.Query) ([]models.User, error) {
		return resource.Search(ctx, q.Search)
	}).SearchOnServer()
	return &Users{
		Store:     store,
		Mutations: mutation.New(store, notifier),
		resource:  resource,
	}
}

// Load fetches the users matching the search term.
func (s *Users) Load(ctx context.Context) error {
	return s.Store.Load(ctx)
}

// Visible returns the users matching the status and role filters. The
// search term is left to the server.
func (s *Users) Visible() []models.User {
	return s.Store.Visible(aggregate.UserFields)
}

// Summary reduces the visible users.
func (s *Users) Summary() aggregate.UserSummary {
	return aggregate.SummarizeUsers(s.Visible())
}

// Create submits form as a new user account.
func (s *Users) Create(ctx context.Context, form UserForm) error {
	return s.Mutations.Submit(ctx, mutation.Action{
		Name:           "users.create",
		SuccessMessage: "User created successfully!",
		Open:           func() { s.Store.OpenModal(ModalCreate, form) },
		Do: func(ctx context.Context) error {
			input, err := form.Input()
			if err != nil {
				return err
			}
			_, err = s.resource.Create(ctx, input)
			return err
		},
	})
}

// Update sends patch for the user with the given id.
func (s *Users) Update(ctx context.Context, id string, patch models.UserPatch) error {
	return s.Mutations.Submit(ctx, mutation.Action{
		Name:           "users.update",
		SuccessMessage: "User updated successfully!",
		Open: func() {
			s.Store.Select(id)
			s.Store.OpenModal(ModalEdit, patch)
		},
		Do: func(ctx context.Context) error {
			p, err := normalizeUserPatch(patch)
			if err != nil {
				return err
			}
			_, err = s.resource.Update(ctx, id, p)
			return err
		},
	})
}

// Delete removes the user with the given id.
func (s *Users) Delete(ctx context.Context, id string) error {
	return s.Mutations.Submit(ctx, mutation.Action{
		Name:           "users.delete",
		SuccessMessage: "User deleted successfully!",
		Open: func() {
			s.Store.Select(id)
			s.Store.OpenModal(ModalConfirmDelete, id)
		},
		Do: func(ctx context.Context) error {
			return s.resource.Remove(ctx, id)
		},
	})
}

// ResetPassword asks the server to email a password reset to email.
func (s *Users) ResetPassword(ctx context.Context, email string) error {
	return s.Mutations.Submit(ctx, mutation.Action{
		Name:           "users.reset_password",
		SuccessMessage: "Password reset email sent!",
		Open:           func() { s.Store.OpenModal(ModalResetPassword, email) },
		Do: func(ctx context.Context) error {
			if err := validateEmail("email", email); err != nil {
				return err
			}
			return s.resource.ResetPassword(ctx, email)
		},
	})
}

func find[T any](items []T, id string, key func(T) string) (T, bool) {
	for _, item := range items {
		if key(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
