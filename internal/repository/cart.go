package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/greenbasket/greenbasket/internal/domain/cart"
)

const (
	getCartSQL = `SELECT coupon_code, updated_at FROM carts WHERE customer_id = $1`

	getCartItemsSQL = `SELECT product_id, quantity, unit_price, added_at
		FROM cart_items WHERE customer_id = $1 ORDER BY added_at, product_id`

	ensureCartSQL = `INSERT INTO carts (customer_id) VALUES ($1)
		ON CONFLICT (customer_id) DO UPDATE SET updated_at = now()`

	upsertCartItemSQL = `INSERT INTO cart_items (customer_id, product_id, quantity, unit_price, added_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id, product_id) DO UPDATE SET
			quantity = EXCLUDED.quantity`

	deleteCartItemSQL = `DELETE FROM cart_items WHERE customer_id = $1 AND product_id = $2`

	setCartCouponSQL = `INSERT INTO carts (customer_id, coupon_code) VALUES ($1, $2)
		ON CONFLICT (customer_id) DO UPDATE SET
			coupon_code = EXCLUDED.coupon_code, updated_at = now()`

	clearCartItemsSQL  = `DELETE FROM cart_items WHERE customer_id = $1`
	clearCartCouponSQL = `UPDATE carts SET coupon_code = '', updated_at = now() WHERE customer_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL. One cart
// row per customer; line items live in cart_items.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Get loads the customer's cart. A customer with no cart row gets an empty
// cart, not an error.
func (r *CartRepository) Get(ctx context.Context, customerID string) (*cart.Cart, error) {
	c := &cart.Cart{CustomerID: customerID}

	err := r.pool.QueryRow(ctx, getCartSQL, customerID).Scan(&c.CouponCode, &c.UpdatedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("getting cart for %q: %w", customerID, err)
	}

	rows, err := r.pool.Query(ctx, getCartItemsSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("getting cart items for %q: %w", customerID, err)
	}
	items, err := pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("scanning cart items for %q: %w", customerID, err)
	}
	c.Items = items
	return c, nil
}

// UpsertItem writes a cart line, creating the cart row if needed.
func (r *CartRepository) UpsertItem(ctx context.Context, customerID string, item cart.Item) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert cart item: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, ensureCartSQL, customerID); err != nil {
		return fmt.Errorf("ensuring cart for %q: %w", customerID, err)
	}
	if _, err := tx.Exec(ctx, upsertCartItemSQL,
		customerID, item.ProductID, item.Quantity, item.UnitPrice, item.AddedAt,
	); err != nil {
		return fmt.Errorf("upserting cart item %q: %w", item.ProductID, err)
	}

	return tx.Commit(ctx)
}

// DeleteItem removes a cart line. Deleting an absent line is a no-op.
func (r *CartRepository) DeleteItem(ctx context.Context, customerID, productID string) error {
	if _, err := r.pool.Exec(ctx, deleteCartItemSQL, customerID, productID); err != nil {
		return fmt.Errorf("deleting cart item %q: %w", productID, err)
	}
	return nil
}

// SetCoupon attaches (or with an empty code, detaches) a coupon.
func (r *CartRepository) SetCoupon(ctx context.Context, customerID, code string) error {
	if _, err := r.pool.Exec(ctx, setCartCouponSQL, customerID, code); err != nil {
		return fmt.Errorf("setting cart coupon for %q: %w", customerID, err)
	}
	return nil
}

// Clear removes all lines and the attached coupon.
func (r *CartRepository) Clear(ctx context.Context, customerID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin clear cart: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, clearCartItemsSQL, customerID); err != nil {
		return fmt.Errorf("clearing cart items for %q: %w", customerID, err)
	}
	if _, err := tx.Exec(ctx, clearCartCouponSQL, customerID); err != nil {
		return fmt.Errorf("clearing cart coupon for %q: %w", customerID, err)
	}

	return tx.Commit(ctx)
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var (
		it    cart.Item
		price decimal.Decimal
	)
	err := row.Scan(&it.ProductID, &it.Quantity, &price, &it.AddedAt)
	it.UnitPrice = price
	return it, err
}
