package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrItemNotFound is returned when a cart line for the product does not exist.
	ErrItemNotFound = errors.New("cart item not found")
)

// InvalidQuantityError indicates a requested quantity outside [1, stock].
// The cart state is left unchanged when this error is returned.
type InvalidQuantityError struct {
	ProductID string
	Requested int
	Stock     int
}

func (e *InvalidQuantityError) Error() string {
	return errors.Errorf("quantity %d for product %s outside valid range [1, %d]",
		e.Requested, e.ProductID, e.Stock).Error()
}

// Item is a cart line: a product reference, a quantity, and the unit price
// captured when the line was added.
type Item struct {
	ProductID string
	Quantity  int
	// UnitPrice is the price snapshot taken at add time. Catalog price
	// changes do not retroactively reprice lines already in the cart.
	UnitPrice decimal.Decimal
	AddedAt   time.Time
}

// LineTotal returns quantity × unit price for this line.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds a customer's pending line items and an optionally attached
// coupon code. Totals are derived, never stored.
type Cart struct {
	CustomerID string
	Items      []Item
	CouponCode string
	UpdatedAt  time.Time
}

// TotalItems returns the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// Subtotal returns the sum of line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Find returns the line for the given product, or nil.
func (c *Cart) Find(productID string) *Item {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Repository defines persistence operations for carts. Get returns an empty
// cart (no error) when the customer has no stored cart yet.
type Repository interface {
	Get(ctx context.Context, customerID string) (*Cart, error)
	UpsertItem(ctx context.Context, customerID string, item Item) error
	DeleteItem(ctx context.Context, customerID, productID string) error
	SetCoupon(ctx context.Context, customerID, code string) error
	Clear(ctx context.Context, customerID string) error
}
