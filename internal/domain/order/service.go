package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/greenbasket/greenbasket/internal/domain/address"
	"github.com/greenbasket/greenbasket/internal/domain/cart"
	"github.com/greenbasket/greenbasket/internal/domain/coupon"
	"github.com/greenbasket/greenbasket/internal/domain/customer"
	"github.com/greenbasket/greenbasket/internal/domain/pricing"
	"github.com/greenbasket/greenbasket/internal/domain/product"
)

// Sentinel errors for checkout validation.
var (
	ErrEmptyCart               = fmt.Errorf("cart is empty")
	ErrPaymentMethodRequired   = fmt.Errorf("payment method required")
	ErrShippingAddressRequired = fmt.Errorf("shipping address required")
)

// InsufficientStockError indicates a cart line whose quantity can no longer
// be fulfilled at checkout time.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Stock     int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Stock)
}

// CheckoutRequest holds the input for placing an order. Exactly one of
// AddressID (a saved address) or Address (a full inline address) must be
// provided.
type CheckoutRequest struct {
	CustomerID    string
	AddressID     string
	Address       *address.Address
	PaymentMethod string
	UseWallet     bool
}

// CartReader is the slice of the cart service checkout depends on.
type CartReader interface {
	Get(ctx context.Context, customerID string) (*cart.Cart, error)
}

// CouponService validates and redeems coupon codes.
type CouponService interface {
	coupon.Validator
	coupon.Redeemer
}

// Service encapsulates checkout orchestration and order status management.
type Service struct {
	carts     CartReader
	products  product.Repository
	coupons   CouponService
	orders    Repository
	addresses address.Repository
	customers customer.Repository
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	carts CartReader,
	products product.Repository,
	coupons CouponService,
	orders Repository,
	addresses address.Repository,
	customers customer.Repository,
) *Service {
	return &Service{
		carts:     carts,
		products:  products,
		coupons:   coupons,
		orders:    orders,
		addresses: addresses,
		customers: customers,
	}
}

// Checkout turns the customer's cart into an order: resolves and validates
// the shipping address and payment method, re-prices the cart server-side
// (attached coupon included), verifies stock, persists the order, and clears
// the cart. Persistence is atomic; a failed submit leaves the cart intact.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*Order, error) {
	c, err := s.carts.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if req.PaymentMethod == "" {
		return nil, ErrPaymentMethodRequired
	}

	ship, err := s.resolveAddress(ctx, req)
	if err != nil {
		return nil, err
	}

	items, err := s.buildItems(ctx, c)
	if err != nil {
		return nil, err
	}

	subtotal := c.Subtotal()

	discount := decimal.Zero
	if c.CouponCode != "" {
		d, err := s.coupons.Validate(ctx, c.CouponCode, subtotal)
		if err != nil {
			return nil, fmt.Errorf("validate coupon: %w", err)
		}
		discount = d.Amount
	}

	wallet := decimal.Zero
	if req.UseWallet {
		cust, err := s.customers.GetByID(ctx, req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("get customer: %w", err)
		}
		wallet = cust.WalletBalance
	}

	now := time.Now().UTC()
	o := &Order{
		ID:              uuid.New().String(),
		CustomerID:      req.CustomerID,
		Items:           items,
		ShippingAddress: *ship,
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      c.CouponCode,
		Summary:         pricing.Summarize(subtotal, discount, req.UseWallet, wallet),
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if c.CouponCode != "" {
		if err := s.coupons.Redeem(ctx, c.CouponCode); err != nil {
			return nil, fmt.Errorf("redeem coupon: %w", err)
		}
	}

	return o, nil
}

// resolveAddress returns the saved address referenced by the request, or the
// validated inline address.
func (s *Service) resolveAddress(ctx context.Context, req CheckoutRequest) (*address.Address, error) {
	if req.AddressID != "" {
		a, err := s.addresses.GetByID(ctx, req.CustomerID, req.AddressID)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	if req.Address == nil {
		return nil, ErrShippingAddressRequired
	}
	a := *req.Address
	a.CustomerID = req.CustomerID
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// buildItems freezes the cart lines into order items, checking current stock
// for every line.
func (s *Service) buildItems(ctx context.Context, c *cart.Cart) ([]Item, error) {
	ids := make([]string, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductID
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	items := make([]Item, len(c.Items))
	for i, it := range c.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, product.ErrNotFound
		}
		if !p.InStock(it.Quantity) {
			return nil, &InsufficientStockError{
				ProductID: it.ProductID,
				Requested: it.Quantity,
				Stock:     p.Stock,
			}
		}
		items[i] = Item{
			ProductID: it.ProductID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return items, nil
}

// Get returns one order scoped to the customer.
func (s *Service) Get(ctx context.Context, customerID, id string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, ErrNotFound
	}
	return o, nil
}

// List returns the customer's orders, newest first.
func (s *Service) List(ctx context.Context, customerID string) ([]Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

// AssignPartner records the delivery partner handling the order.
func (s *Service) AssignPartner(ctx context.Context, id, partnerID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.orders.AssignPartner(ctx, id, partnerID); err != nil {
		return nil, fmt.Errorf("assign partner: %w", err)
	}
	o.PartnerID = partnerID
	return o, nil
}

// Transition moves an order to a new status, enforcing the transition table.
func (s *Service) Transition(ctx context.Context, id string, to Status) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, to) {
		return nil, ErrInvalidTransition
	}
	if err := s.orders.UpdateStatus(ctx, id, o.Status, to); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}
