package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/greenbasket/greenbasket/internal/domain/coupon"
	"github.com/greenbasket/greenbasket/internal/domain/pricing"
	"github.com/greenbasket/greenbasket/internal/domain/product"
)

// Service encapsulates cart mutation rules: quantity clamping on add,
// strict range checks on update, and coupon attachment.
type Service struct {
	carts    Repository
	products product.Repository
	coupons  coupon.Validator
	now      func() time.Time
}

// NewService creates a cart Service with the required dependencies.
func NewService(carts Repository, products product.Repository, coupons coupon.Validator) *Service {
	return &Service{
		carts:    carts,
		products: products,
		coupons:  coupons,
		now:      time.Now,
	}
}

// Get returns the customer's cart. Customers without a stored cart get an
// empty one.
func (s *Service) Get(ctx context.Context, customerID string) (*Cart, error) {
	c, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	return c, nil
}

// AddItem appends a new line or merges into an existing one. The resulting
// quantity is clamped to [1, stock]; a request that would exceed stock is
// stored at the stock ceiling rather than rejected.
func (s *Service) AddItem(ctx context.Context, customerID, productID string, qty int) (*Cart, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Stock < 1 {
		return nil, &InvalidQuantityError{ProductID: productID, Requested: qty, Stock: p.Stock}
	}

	c, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}

	item := Item{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: p.Price,
		AddedAt:   s.now(),
	}
	if existing := c.Find(productID); existing != nil {
		item.Quantity += existing.Quantity
		item.UnitPrice = existing.UnitPrice
		item.AddedAt = existing.AddedAt
	}
	item.Quantity = clamp(item.Quantity, p.Stock)

	if err := s.carts.UpsertItem(ctx, customerID, item); err != nil {
		return nil, errors.Wrap(err, "upsert cart item")
	}
	return s.carts.Get(ctx, customerID)
}

// UpdateItem sets the quantity of an existing line. Quantities outside
// [1, stock] are rejected with InvalidQuantityError and no write is issued.
// Setting the current quantity again is an idempotent no-op.
func (s *Service) UpdateItem(ctx context.Context, customerID, productID string, qty int) (*Cart, error) {
	c, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}

	existing := c.Find(productID)
	if existing == nil {
		return nil, ErrItemNotFound
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if qty < 1 || qty > p.Stock {
		return nil, &InvalidQuantityError{ProductID: productID, Requested: qty, Stock: p.Stock}
	}

	if qty == existing.Quantity {
		return c, nil
	}

	updated := *existing
	updated.Quantity = qty
	if err := s.carts.UpsertItem(ctx, customerID, updated); err != nil {
		return nil, errors.Wrap(err, "upsert cart item")
	}
	return s.carts.Get(ctx, customerID)
}

// RemoveItem deletes a line. Removing an absent product is a no-op.
func (s *Service) RemoveItem(ctx context.Context, customerID, productID string) (*Cart, error) {
	if err := s.carts.DeleteItem(ctx, customerID, productID); err != nil {
		return nil, errors.Wrap(err, "delete cart item")
	}
	return s.carts.Get(ctx, customerID)
}

// ApplyCoupon validates the code against the current subtotal and attaches
// it to the cart. The coupon's usage counter is not consumed until checkout.
func (s *Service) ApplyCoupon(ctx context.Context, customerID, code string) (*Cart, *coupon.Discount, error) {
	c, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "get cart")
	}

	d, err := s.coupons.Validate(ctx, code, c.Subtotal())
	if err != nil {
		return nil, nil, err
	}

	if err := s.carts.SetCoupon(ctx, customerID, d.Code); err != nil {
		return nil, nil, errors.Wrap(err, "set coupon")
	}
	c.CouponCode = d.Code
	return c, d, nil
}

// RemoveCoupon detaches any coupon from the cart.
func (s *Service) RemoveCoupon(ctx context.Context, customerID string) (*Cart, error) {
	if err := s.carts.SetCoupon(ctx, customerID, ""); err != nil {
		return nil, errors.Wrap(err, "clear coupon")
	}
	return s.carts.Get(ctx, customerID)
}

// Summarize prices the current cart: subtotal, attached-coupon discount,
// delivery fee, tax, and the wallet-adjusted payable amount. A coupon that
// no longer validates (expired, subtotal dropped below minimum) contributes
// a zero discount rather than failing the summary.
func (s *Service) Summarize(ctx context.Context, customerID string, useWallet bool, walletBalance decimal.Decimal) (*Cart, pricing.Summary, error) {
	c, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return nil, pricing.Summary{}, errors.Wrap(err, "get cart")
	}

	discount := decimal.Zero
	if c.CouponCode != "" {
		if d, err := s.coupons.Validate(ctx, c.CouponCode, c.Subtotal()); err == nil {
			discount = d.Amount
		}
	}

	return c, pricing.Summarize(c.Subtotal(), discount, useWallet, walletBalance), nil
}

// Clear removes every line and the attached coupon.
func (s *Service) Clear(ctx context.Context, customerID string) error {
	if err := s.carts.Clear(ctx, customerID); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

func clamp(qty, stock int) int {
	if qty < 1 {
		return 1
	}
	if qty > stock {
		return stock
	}
	return qty
}
