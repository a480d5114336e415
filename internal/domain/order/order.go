package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/greenbasket/greenbasket/internal/domain/address"
	"github.com/greenbasket/greenbasket/internal/domain/pricing"
)

// ErrNotFound is returned when an order does not exist or belongs to a
// different customer.
var ErrNotFound = errors.New("order not found")

// Item is an order line, frozen at checkout time.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order is a placed customer order with its full price breakdown. Items and
// the shipping address are copies; later catalog or address-book edits do
// not affect placed orders.
type Order struct {
	ID              string
	CustomerID      string
	Items           []Item
	ShippingAddress address.Address
	PaymentMethod   string
	CouponCode      string
	Summary         pricing.Summary
	Status          Status
	PartnerID       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order and clears the customer's cart in one
	// transaction.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	// UpdateStatus moves the order from one status to another. The update is
	// conditional on the current status so concurrent transitions cannot
	// skip states.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	// AssignPartner records the delivery partner handling the order.
	AssignPartner(ctx context.Context, id, partnerID string) error
}
