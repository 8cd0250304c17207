package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"invoicing/internal/domain/model"
	"invoicing/internal/usecase"
)

// ErrInvalidInput is wrapped by every rejection.
var ErrInvalidInput = errors.New("invalid input")

var emailLike = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type inputValidator struct{}

func NewInputValidator() usecase.InputValidator {
	return &inputValidator{}
}

func (v *inputValidator) ValidateClient(c model.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name required")
	}
	if len(c.Phone) > 30 {
		return invalid("phone too long")
	}
	if email := strings.TrimSpace(c.Email); email != "" && !emailLike.MatchString(email) {
		return invalid("email malformed")
	}
	return nil
}

func (v *inputValidator) ValidateProduct(p model.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name required")
	}
	if p.Price.IsNegative() {
		return invalid("price must be >= 0")
	}
	return v.ValidateStock(p.Quantity)
}

func (v *inputValidator) ValidateStock(quantity int64) error {
	if quantity < 0 {
		return invalid("quantity must be >= 0")
	}
	return nil
}

func (v *inputValidator) ValidateInvoice(clientID int64, lines []model.InvoiceLine) error {
	if clientID <= 0 {
		return invalid("client required")
	}
	return v.ValidateLines(lines)
}

func (v *inputValidator) ValidateLines(lines []model.InvoiceLine) error {
	if len(lines) == 0 {
		return invalid("at least one line required")
	}
	for i, l := range lines {
		if l.ProductID <= 0 {
			return invalid(fmt.Sprintf("line %d: product required", i+1))
		}
		if l.Qty <= 0 {
			return invalid(fmt.Sprintf("line %d: qty must be > 0", i+1))
		}
		if l.Price.IsNegative() {
			return invalid(fmt.Sprintf("line %d: price must be >= 0", i+1))
		}
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
