package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbasket/greenbasket/internal/domain/address"
	"github.com/greenbasket/greenbasket/internal/domain/cart"
	"github.com/greenbasket/greenbasket/internal/domain/coupon"
	"github.com/greenbasket/greenbasket/internal/domain/customer"
	"github.com/greenbasket/greenbasket/internal/domain/product"
)

type mockCartReader struct {
	cart *cart.Cart
}

func (m *mockCartReader) Get(_ context.Context, customerID string) (*cart.Cart, error) {
	if m.cart == nil {
		return &cart.Cart{CustomerID: customerID}, nil
	}
	return m.cart, nil
}

type mockProductRepo struct {
	products map[string]product.Product
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	var out []product.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockCouponService struct {
	discount *coupon.Discount
	err      error
	redeemed []string
}

func (m *mockCouponService) Validate(_ context.Context, _ string, _ decimal.Decimal) (*coupon.Discount, error) {
	return m.discount, m.err
}

func (m *mockCouponService) Redeem(_ context.Context, code string) error {
	m.redeemed = append(m.redeemed, code)
	return nil
}

type mockOrderRepo struct {
	created  []*Order
	orders   map[string]*Order
	statusTo Status
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	m.created = append(m.created, o)
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) ListByCustomer(_ context.Context, customerID string) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, _, to Status) error {
	m.statusTo = to
	if o, ok := m.orders[id]; ok {
		o.Status = to
	}
	return nil
}

func (m *mockOrderRepo) AssignPartner(_ context.Context, id, partnerID string) error {
	if o, ok := m.orders[id]; ok {
		o.PartnerID = partnerID
	}
	return nil
}

type mockAddressRepo struct {
	addrs map[string]*address.Address
}

func (m *mockAddressRepo) List(_ context.Context, _ string) ([]address.Address, error) {
	return nil, nil
}

func (m *mockAddressRepo) GetByID(_ context.Context, customerID, id string) (*address.Address, error) {
	a, ok := m.addrs[id]
	if !ok || a.CustomerID != customerID {
		return nil, address.ErrNotFound
	}
	return a, nil
}

func (m *mockAddressRepo) Create(_ context.Context, _ *address.Address) error    { return nil }
func (m *mockAddressRepo) Update(_ context.Context, _ *address.Address) error    { return nil }
func (m *mockAddressRepo) Delete(_ context.Context, _, _ string) error           { return nil }
func (m *mockAddressRepo) SetDefault(_ context.Context, _, _ string) error       { return nil }

type mockCustomerRepo struct {
	customers map[string]*customer.Customer
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id string) (*customer.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

func validAddress() *address.Address {
	return &address.Address{
		Name:    "Home",
		Street:  "12 MG Road",
		City:    "Bengaluru",
		State:   "Karnataka",
		PinCode: "560001",
		Phone:   "9876543210",
	}
}

func testCart(items ...cart.Item) *cart.Cart {
	return &cart.Cart{CustomerID: "cust", Items: items}
}

func newCheckoutService(c *cart.Cart, products map[string]product.Product, coupons *mockCouponService) (*Service, *mockOrderRepo) {
	orderRepo := &mockOrderRepo{orders: map[string]*Order{}}
	svc := NewService(
		&mockCartReader{cart: c},
		&mockProductRepo{products: products},
		coupons,
		orderRepo,
		&mockAddressRepo{addrs: map[string]*address.Address{}},
		&mockCustomerRepo{customers: map[string]*customer.Customer{
			"cust": {ID: "cust", WalletBalance: decimal.NewFromInt(200)},
		}},
	)
	return svc, orderRepo
}

func checkoutCatalog() map[string]product.Product {
	return map[string]product.Product{
		"p1": {ID: "p1", Name: "Banana", Price: decimal.NewFromInt(48), Stock: 10},
		"p2": {ID: "p2", Name: "Rice", Price: decimal.NewFromInt(320), Stock: 5},
	}
}

func TestService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		svc, _ := newCheckoutService(testCart(), checkoutCatalog(), &mockCouponService{})

		_, err := svc.Checkout(ctx, CheckoutRequest{
			CustomerID:    "cust",
			Address:       validAddress(),
			PaymentMethod: "cod",
		})
		require.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("missing payment method", func(t *testing.T) {
		c := testCart(cart.Item{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(48)})
		svc, _ := newCheckoutService(c, checkoutCatalog(), &mockCouponService{})

		_, err := svc.Checkout(ctx, CheckoutRequest{
			CustomerID: "cust",
			Address:    validAddress(),
		})
		require.ErrorIs(t, err, ErrPaymentMethodRequired)
	})

	t.Run("missing address", func(t *testing.T) {
		c := testCart(cart.Item{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(48)})
		svc, _ := newCheckoutService(c, checkoutCatalog(), &mockCouponService{})

		_, err := svc.Checkout(ctx, CheckoutRequest{
			CustomerID:    "cust",
			PaymentMethod: "cod",
		})
		require.ErrorIs(t, err, ErrShippingAddressRequired)
	})

	t.Run("invalid inline address", func(t *testing.T) {
		c := testCart(cart.Item{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(48)})
		svc, _ := newCheckoutService(c, checkoutCatalog(), &mockCouponService{})

		bad := validAddress()
		bad.PinCode = "12"
		_, err := svc.Checkout(ctx, CheckoutRequest{
			CustomerID:    "cust",
			Address:       bad,
			PaymentMethod: "cod",
		})
		var valErr *address.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "pinCode", valErr.Field)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		c := testCart(cart.Item{ProductID: "p2", Quantity: 8, UnitPrice: decimal.NewFromInt(320)})
		svc, orderRepo := newCheckoutService(c, checkoutCatalog(), &mockCouponService{})

		_, err := svc.Checkout(ctx, CheckoutRequest{
			CustomerID:    "cust",
			Address:       validAddress(),
			PaymentMethod: "cod",
		})
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 8, stockErr.Requested)
		assert.Equal(t, 5, stockErr.Stock)
		assert.Empty(t, orderRepo.created)
	})

	t.Run("successful checkout freezes items and prices", func(t *testing.T) {
		c := testCart(
			cart.Item{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(48)},
			cart.Item{ProductID: "p2", Quantity: 1, UnitPrice: decimal.NewFromInt(320)},
		)
		svc, orderRepo := newCheckoutService(c, checkoutCatalog(), &mockCouponService{})

		o, err := svc.Checkout(ctx, CheckoutRequest{
			CustomerID:    "cust",
			Address:       validAddress(),
			PaymentMethod: "upi",
		})
		require.NoError(t, err)
		require.Len(t, orderRepo.created, 1)

		assert.NotEmpty(t, o.ID)
		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, "upi", o.PaymentMethod)
		require.Len(t, o.Items, 2)
		assert.Equal(t, "Banana", o.Items[0].Name)

		// subtotal 416, fee 40, tax round(20.8)=21, total 477
		assert.True(t, decimal.NewFromInt(416).Equal(o.Summary.Subtotal))
		assert.True(t, decimal.NewFromInt(40).Equal(o.Summary.DeliveryFee))
		assert.True(t, decimal.NewFromInt(21).Equal(o.Summary.Tax))
		assert.True(t, decimal.NewFromInt(477).Equal(o.Summary.GrandTotal))
	})

	t.Run("coupon validated and redeemed once", func(t *testing.T) {
		c := testCart(cart.Item{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(48)})
		c.CouponCode = "SAVE10"
		coupons := &mockCouponService{discount: &coupon.Discount{
			Code:   "SAVE10",
			Amount: decimal.NewFromInt(10),
		}}
		svc, _ := newCheckoutService(c, checkoutCatalog(), coupons)

		o, err := svc.Checkout(ctx, CheckoutRequest{
			CustomerID:    "cust",
			Address:       validAddress(),
			PaymentMethod: "cod",
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(o.Summary.Discount))
		assert.Equal(t, []string{"SAVE10"}, coupons.redeemed)
	})

	t.Run("invalid attached coupon blocks checkout", func(t *testing.T) {
		c := testCart(cart.Item{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(48)})
		c.CouponCode = "DEAD"
		coupons := &mockCouponService{err: coupon.ErrCouponExpired}
		svc, orderRepo := newCheckoutService(c, checkoutCatalog(), coupons)

		_, err := svc.Checkout(ctx, CheckoutRequest{
			CustomerID:    "cust",
			Address:       validAddress(),
			PaymentMethod: "cod",
		})
		require.ErrorIs(t, err, coupon.ErrCouponExpired)
		assert.Empty(t, orderRepo.created)
		assert.Empty(t, coupons.redeemed)
	})

	t.Run("wallet applied against the total", func(t *testing.T) {
		c := testCart(cart.Item{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(48)})
		svc, _ := newCheckoutService(c, checkoutCatalog(), &mockCouponService{})

		o, err := svc.Checkout(ctx, CheckoutRequest{
			CustomerID:    "cust",
			Address:       validAddress(),
			PaymentMethod: "cod",
			UseWallet:     true,
		})
		require.NoError(t, err)
		// subtotal 96, fee 40, tax 5, grand 141; wallet 200 clamped to 141.
		assert.True(t, decimal.NewFromInt(141).Equal(o.Summary.GrandTotal))
		assert.True(t, decimal.NewFromInt(141).Equal(o.Summary.WalletApplied))
		assert.True(t, o.Summary.Payable.IsZero())
	})

	t.Run("saved address resolved by ID", func(t *testing.T) {
		c := testCart(cart.Item{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(48)})
		orderRepo := &mockOrderRepo{orders: map[string]*Order{}}
		saved := validAddress()
		saved.ID = "addr-1"
		saved.CustomerID = "cust"
		svc := NewService(
			&mockCartReader{cart: c},
			&mockProductRepo{products: checkoutCatalog()},
			&mockCouponService{},
			orderRepo,
			&mockAddressRepo{addrs: map[string]*address.Address{"addr-1": saved}},
			&mockCustomerRepo{customers: map[string]*customer.Customer{"cust": {ID: "cust"}}},
		)

		o, err := svc.Checkout(ctx, CheckoutRequest{
			CustomerID:    "cust",
			AddressID:     "addr-1",
			PaymentMethod: "cod",
		})
		require.NoError(t, err)
		assert.Equal(t, "12 MG Road", o.ShippingAddress.Street)

		// Another customer's address ID is rejected.
		_, err = svc.Checkout(ctx, CheckoutRequest{
			CustomerID:    "other",
			AddressID:     "addr-1",
			PaymentMethod: "cod",
		})
		require.ErrorIs(t, err, address.ErrNotFound)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	orderRepo := &mockOrderRepo{orders: map[string]*Order{
		"o1": {ID: "o1", CustomerID: "cust", Status: StatusPending},
	}}
	svc := NewService(nil, nil, nil, orderRepo, nil, nil)

	o, err := svc.Get(ctx, "cust", "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)

	_, err = svc.Get(ctx, "other", "o1")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, "cust", "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("valid transition", func(t *testing.T) {
		orderRepo := &mockOrderRepo{orders: map[string]*Order{
			"o1": {ID: "o1", CustomerID: "cust", Status: StatusPending},
		}}
		svc := NewService(nil, nil, nil, orderRepo, nil, nil)

		o, err := svc.Transition(ctx, "o1", StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, o.Status)
		assert.Equal(t, StatusConfirmed, orderRepo.statusTo)
	})

	t.Run("invalid transition", func(t *testing.T) {
		orderRepo := &mockOrderRepo{orders: map[string]*Order{
			"o1": {ID: "o1", CustomerID: "cust", Status: StatusPending},
		}}
		svc := NewService(nil, nil, nil, orderRepo, nil, nil)

		_, err := svc.Transition(ctx, "o1", StatusDelivered)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("terminal status rejects all transitions", func(t *testing.T) {
		orderRepo := &mockOrderRepo{orders: map[string]*Order{
			"o1": {ID: "o1", CustomerID: "cust", Status: StatusDelivered},
		}}
		svc := NewService(nil, nil, nil, orderRepo, nil, nil)

		_, err := svc.Transition(ctx, "o1", StatusCancelled)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})
}
