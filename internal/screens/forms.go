package screens

import (
	"fmt"
	"net/mail"
	"strings"

	"finadmin/internal/mapper"
	"finadmin/pkg/models"
)

// InvoiceForm is the transient state of the invoice create modal.
type InvoiceForm struct {
	Year        int
	Series      string
	ClientEmail string
	ClientPhone string
	Amount      string
	IssueDate   string
	DueDate     string
	Description string
	PaymentLink string
}

// Input validates the form and builds the create request.
func (f InvoiceForm) Input() (models.InvoiceInput, error) {
	if err := validateEmail("client email", f.ClientEmail); err != nil {
		return models.InvoiceInput{}, err
	}
	amount, err := validAmount(f.Amount)
	if err != nil {
		return models.InvoiceInput{}, err
	}
	if strings.TrimSpace(f.DueDate) == "" {
		return models.InvoiceInput{}, fmt.Errorf("due date is required")
	}
	if _, err := mapper.ParseDate("issue_date", f.IssueDate); err != nil {
		return models.InvoiceInput{}, err
	}
	if _, err := mapper.ParseDate("due_date", f.DueDate); err != nil {
		return models.InvoiceInput{}, err
	}

	return models.InvoiceInput{
		Year:        f.Year,
		Series:      strings.TrimSpace(f.Series),
		ClientEmail: strings.TrimSpace(f.ClientEmail),
		ClientPhone: strings.TrimSpace(f.ClientPhone),
		Amount:      amount,
		IssueDate:   strings.TrimSpace(f.IssueDate),
		DueDate:     strings.TrimSpace(f.DueDate),
		Description: f.Description,
		PaymentLink: strings.TrimSpace(f.PaymentLink),
	}, nil
}

// PaymentForm is the transient state of the payment create modal.
type PaymentForm struct {
	InvoiceID   string
	Amount      string
	Method      string
	PaymentDate string
	Reference   string
}

// Input validates the form and builds the create request. The method is
// sent in the API's uppercase form.
func (f PaymentForm) Input() (models.PaymentInput, error) {
	if strings.TrimSpace(f.InvoiceID) == "" {
		return models.PaymentInput{}, fmt.Errorf("invoice is required")
	}
	amount, err := validAmount(f.Amount)
	if err != nil {
		return models.PaymentInput{}, err
	}
	method, err := apiMethod(f.Method)
	if err != nil {
		return models.PaymentInput{}, err
	}
	if _, err := mapper.ParseDate("payment_date", f.PaymentDate); err != nil {
		return models.PaymentInput{}, err
	}

	return models.PaymentInput{
		InvoiceID:   strings.TrimSpace(f.InvoiceID),
		Amount:      amount,
		Method:      method,
		PaymentDate: strings.TrimSpace(f.PaymentDate),
		Reference:   strings.TrimSpace(f.Reference),
	}, nil
}

// UserForm is the transient state of the user create modal.
type UserForm struct {
	Email    string
	Name     string
	Role     string
	Password string
}

// Input validates the form. Only the user-management roles can be assigned.
func (f UserForm) Input() (models.UserInput, error) {
	if err := validateEmail("email", f.Email); err != nil {
		return models.UserInput{}, err
	}
	if strings.TrimSpace(f.Name) == "" {
		return models.UserInput{}, fmt.Errorf("name is required")
	}
	role, err := managementRole(f.Role)
	if err != nil {
		return models.UserInput{}, err
	}
	return models.UserInput{
		Email:    strings.TrimSpace(f.Email),
		Name:     strings.TrimSpace(f.Name),
		Role:     role,
		Password: f.Password,
	}, nil
}

func validAmount(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if _, err := mapper.ParseAmount("amount", models.RawDecimal(s)); err != nil {
		return "", err
	}
	return s, nil
}

func validateEmail(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return fmt.Errorf("%s %q is not a valid address", field, value)
	}
	return nil
}

func apiMethod(raw string) (string, error) {
	key := mapper.CanonicalKey(raw)
	for _, m := range models.PaymentMethods {
		if mapper.CanonicalKey(string(m)) == key {
			return strings.ToUpper(string(m)), nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", raw)
}

func managementRole(raw string) (string, error) {
	key := mapper.CanonicalKey(raw)
	for _, r := range models.ManagementRoles {
		if string(r) == key {
			return string(r), nil
		}
	}
	return "", fmt.Errorf("role must be one of admin, accountant; got %q", raw)
}

func normalizePaymentPatch(p models.PaymentPatch) (models.PaymentPatch, error) {
	if p.Amount != nil {
		amount, err := validAmount(*p.Amount)
		if err != nil {
			return p, err
		}
		p.Amount = &amount
	}
	if p.Method != nil {
		method, err := apiMethod(*p.Method)
		if err != nil {
			return p, err
		}
		p.Method = &method
	}
	if p.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*p.Status))
		p.Status = &status
	}
	return p, nil
}

func normalizeInvoicePatch(p models.InvoicePatch) (models.InvoicePatch, error) {
	if p.Amount != nil {
		amount, err := validAmount(*p.Amount)
		if err != nil {
			return p, err
		}
		p.Amount = &amount
	}
	if p.ClientEmail != nil {
		if err := validateEmail("client email", *p.ClientEmail); err != nil {
			return p, err
		}
	}
	if p.DueDate != nil {
		if _, err := mapper.ParseDate("due_date", *p.DueDate); err != nil {
			return p, err
		}
	}
	return p, nil
}

func normalizeUserPatch(p models.UserPatch) (models.UserPatch, error) {
	if p.Email != nil {
		if err := validateEmail("email", *p.Email); err != nil {
			return p, err
		}
	}
	if p.Role != nil {
		role, err := managementRole(*p.Role)
		if err != nil {
			return p, err
		}
		p.Role = &role
	}
	return p, nil
}
