package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenbasket/greenbasket/internal/domain/address"
)

const (
	listAddressesSQL = `SELECT id, customer_id, name, street, city, state, pin_code, phone, is_default
		FROM addresses WHERE customer_id = $1 ORDER BY is_default DESC, created_at DESC`

	getAddressByIDSQL = `SELECT id, customer_id, name, street, city, state, pin_code, phone, is_default
		FROM addresses WHERE customer_id = $1 AND id = $2`

	createAddressSQL = `INSERT INTO addresses
		(id, customer_id, name, street, city, state, pin_code, phone, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	updateAddressSQL = `UPDATE addresses SET
		name = $3, street = $4, city = $5, state = $6, pin_code = $7, phone = $8
		WHERE customer_id = $1 AND id = $2`

	deleteAddressSQL = `DELETE FROM addresses WHERE customer_id = $1 AND id = $2`

	clearDefaultAddressSQL = `UPDATE addresses SET is_default = FALSE WHERE customer_id = $1`
	setDefaultAddressSQL   = `UPDATE addresses SET is_default = TRUE WHERE customer_id = $1 AND id = $2`
)

var _ address.Repository = (*AddressRepository)(nil)

// AddressRepository implements address.Repository backed by PostgreSQL.
type AddressRepository struct {
	pool *pgxpool.Pool
}

// NewAddressRepository returns an AddressRepository that uses the given pool.
func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

// List returns the customer's addresses, default first.
func (r *AddressRepository) List(ctx context.Context, customerID string) ([]address.Address, error) {
	rows, err := r.pool.Query(ctx, listAddressesSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing addresses for %q: %w", customerID, err)
	}
	return pgx.CollectRows(rows, scanAddress)
}

// GetByID returns a single address scoped to the customer.
func (r *AddressRepository) GetByID(ctx context.Context, customerID, id string) (*address.Address, error) {
	rows, err := r.pool.Query(ctx, getAddressByIDSQL, customerID, id)
	if err != nil {
		return nil, fmt.Errorf("getting address %q: %w", id, err)
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanAddress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, address.ErrNotFound
		}
		return nil, fmt.Errorf("getting address %q: %w", id, err)
	}
	return &a, nil
}

// Create inserts a new address.
func (r *AddressRepository) Create(ctx context.Context, a *address.Address) error {
	_, err := r.pool.Exec(ctx, createAddressSQL,
		a.ID, a.CustomerID, a.Name, a.Street, a.City, a.State, a.PinCode, a.Phone, a.IsDefault,
	)
	if err != nil {
		return fmt.Errorf("creating address %q: %w", a.ID, err)
	}
	return nil
}

// Update replaces the mutable fields of an address.
func (r *AddressRepository) Update(ctx context.Context, a *address.Address) error {
	tag, err := r.pool.Exec(ctx, updateAddressSQL,
		a.CustomerID, a.ID, a.Name, a.Street, a.City, a.State, a.PinCode, a.Phone,
	)
	if err != nil {
		return fmt.Errorf("updating address %q: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return address.ErrNotFound
	}
	return nil
}

// Delete removes an address.
func (r *AddressRepository) Delete(ctx context.Context, customerID, id string) error {
	tag, err := r.pool.Exec(ctx, deleteAddressSQL, customerID, id)
	if err != nil {
		return fmt.Errorf("deleting address %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return address.ErrNotFound
	}
	return nil
}

// SetDefault makes the given address the single default for the customer.
func (r *AddressRepository) SetDefault(ctx context.Context, customerID, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set default address: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, clearDefaultAddressSQL, customerID); err != nil {
		return fmt.Errorf("clearing default address for %q: %w", customerID, err)
	}
	tag, err := tx.Exec(ctx, setDefaultAddressSQL, customerID, id)
	if err != nil {
		return fmt.Errorf("setting default address %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return address.ErrNotFound
	}

	return tx.Commit(ctx)
}

func scanAddress(row pgx.CollectableRow) (address.Address, error) {
	var a address.Address
	err := row.Scan(
		&a.ID, &a.CustomerID, &a.Name, &a.Street, &a.City, &a.State,
		&a.PinCode, &a.Phone, &a.IsDefault,
	)
	return a, err
}
