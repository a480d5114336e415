// Package customer holds the account records referenced by carts, orders,
// and API keys.
package customer

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a customer record does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer is an account that owns a cart, addresses, and orders. The wallet
// balance participates in price summaries only; no ledger debit is modeled.
type Customer struct {
	ID            string
	Name          string
	Email         string
	WalletBalance decimal.Decimal
}

// Repository defines read operations for customer accounts.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Customer, error)
}
