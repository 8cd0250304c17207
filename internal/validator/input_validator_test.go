package validator

import (
	"testing"

	"invoicing/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateClient(t *testing.T) {
	v := NewInputValidator()

	assert.NoError(t, v.ValidateClient(model.Client{Name: "Ahmed Ali", Phone: "0501112233"}))
	assert.NoError(t, v.ValidateClient(model.Client{Name: "Leila", Email: "leila@example.com"}))

	assert.ErrorIs(t, v.ValidateClient(model.Client{Name: "  "}), ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateClient(model.Client{Name: "x", Email: "not-an-email"}), ErrInvalidInput)
}

func TestValidateProduct(t *testing.T) {
	v := NewInputValidator()

	assert.NoError(t, v.ValidateProduct(model.Product{Name: "Laptop", Price: decimal.Zero}))
	assert.ErrorIs(t, v.ValidateProduct(model.Product{Name: "", Price: decimal.NewFromInt(1)}), ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateProduct(model.Product{Name: "x", Price: decimal.NewFromInt(-1)}), ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateProduct(model.Product{Name: "x", Price: decimal.NewFromInt(1), Quantity: -1}), ErrInvalidInput)
}

func TestValidateInvoice(t *testing.T) {
	v := NewInputValidator()
	line := model.InvoiceLine{ProductID: 1, Qty: 2, Price: decimal.NewFromInt(100)}

	assert.NoError(t, v.ValidateInvoice(1, []model.InvoiceLine{line}))

	cases := map[string]struct {
		clientID int64
		lines    []model.InvoiceLine
	}{
		"no client":      {0, []model.InvoiceLine{line}},
		"no lines":       {1, nil},
		"zero qty":       {1, []model.InvoiceLine{{ProductID: 1, Qty: 0, Price: decimal.NewFromInt(1)}}},
		"no product":     {1, []model.InvoiceLine{{Qty: 1, Price: decimal.NewFromInt(1)}}},
		"negative price": {1, []model.InvoiceLine{{ProductID: 1, Qty: 1, Price: decimal.NewFromInt(-5)}}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, v.ValidateInvoice(tc.clientID, tc.lines), ErrInvalidInput)
		})
	}
}
