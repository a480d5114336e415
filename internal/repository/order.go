package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenbasket/greenbasket/internal/domain/address"
	"github.com/greenbasket/greenbasket/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders
		(id, customer_id, items, address, payment_method, coupon_code,
		 subtotal, discount, delivery_fee, tax, grand_total, wallet_applied, payable,
		 status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	getOrderByIDSQL = `SELECT id, customer_id, items, address, payment_method, coupon_code,
		subtotal, discount, delivery_fee, tax, grand_total, wallet_applied, payable,
		status, partner_id, created_at, updated_at
		FROM orders WHERE id = $1`

	listOrdersByCustomerSQL = `SELECT id, customer_id, items, address, payment_method, coupon_code,
		subtotal, discount, delivery_fee, tax, grand_total, wallet_applied, payable,
		status, partner_id, created_at, updated_at
		FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`

	updateOrderStatusSQL = `UPDATE orders SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`

	assignOrderPartnerSQL = `UPDATE orders SET partner_id = $2, updated_at = now() WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order and clears the customer's cart in the same
// transaction, so a failed insert leaves the cart untouched.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}
	addressJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshaling order address: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create order: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, createOrderSQL,
		o.ID, o.CustomerID, itemsJSON, addressJSON, o.PaymentMethod, o.CouponCode,
		o.Summary.Subtotal, o.Summary.Discount, o.Summary.DeliveryFee, o.Summary.Tax,
		o.Summary.GrandTotal, o.Summary.WalletApplied, o.Summary.Payable,
		string(o.Status), o.CreatedAt, o.UpdatedAt,
	); err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	if _, err := tx.Exec(ctx, clearCartItemsSQL, o.CustomerID); err != nil {
		return fmt.Errorf("clearing cart items for %q: %w", o.CustomerID, err)
	}
	if _, err := tx.Exec(ctx, clearCartCouponSQL, o.CustomerID); err != nil {
		return fmt.Errorf("clearing cart coupon for %q: %w", o.CustomerID, err)
	}

	return tx.Commit(ctx)
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByCustomerSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for %q: %w", customerID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdateStatus moves an order between statuses. The WHERE clause pins the
// current status so a concurrent transition loses cleanly.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrInvalidTransition
	}
	return nil
}

// AssignPartner records the delivery partner handling the order.
func (r *OrderRepository) AssignPartner(ctx context.Context, id, partnerID string) error {
	tag, err := r.pool.Exec(ctx, assignOrderPartnerSQL, id, partnerID)
	if err != nil {
		return fmt.Errorf("assigning partner to order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o           order.Order
		itemsJSON   []byte
		addressJSON []byte
		status      string
	)
	err := row.Scan(
		&o.ID, &o.CustomerID, &itemsJSON, &addressJSON, &o.PaymentMethod, &o.CouponCode,
		&o.Summary.Subtotal, &o.Summary.Discount, &o.Summary.DeliveryFee, &o.Summary.Tax,
		&o.Summary.GrandTotal, &o.Summary.WalletApplied, &o.Summary.Payable,
		&status, &o.PartnerID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling order items: %w", err)
	}
	var ship address.Address
	if err := json.Unmarshal(addressJSON, &ship); err != nil {
		return o, fmt.Errorf("unmarshaling order address: %w", err)
	}
	o.ShippingAddress = ship
	o.Status = order.Status(status)
	return o, nil
}
