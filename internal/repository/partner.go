package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenbasket/greenbasket/internal/domain/partner"
)

const (
	getPartnerByIDSQL = `SELECT id, name, phone, vehicle_type, vehicle_number, lat, lng,
		is_online, is_available, current_order, earnings, rating, rating_count
		FROM delivery_partners WHERE id = $1`

	updatePartnerSQL = `UPDATE delivery_partners SET
		name = $2, phone = $3, vehicle_type = $4, vehicle_number = $5,
		lat = $6, lng = $7, is_online = $8, is_available = $9,
		current_order = $10, earnings = $11, rating = $12, rating_count = $13
		WHERE id = $1`

	upsertPartnerSQL = `INSERT INTO delivery_partners
		(id, name, phone, vehicle_type, vehicle_number, lat, lng,
		 is_online, is_available, current_order, earnings, rating, rating_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			vehicle_type = EXCLUDED.vehicle_type,
			vehicle_number = EXCLUDED.vehicle_number,
			is_online = EXCLUDED.is_online,
			is_available = EXCLUDED.is_available`
)

var _ partner.Repository = (*PartnerRepository)(nil)

// PartnerRepository implements partner.Repository backed by PostgreSQL.
type PartnerRepository struct {
	pool *pgxpool.Pool
}

// NewPartnerRepository returns a PartnerRepository that uses the given pool.
func NewPartnerRepository(pool *pgxpool.Pool) *PartnerRepository {
	return &PartnerRepository{pool: pool}
}

// GetByID returns a single delivery partner.
func (r *PartnerRepository) GetByID(ctx context.Context, id string) (*partner.Partner, error) {
	rows, err := r.pool.Query(ctx, getPartnerByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting partner %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPartner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, partner.ErrNotFound
		}
		return nil, fmt.Errorf("getting partner %q: %w", id, err)
	}
	return &p, nil
}

// Update writes back the full partner record. Last write wins.
func (r *PartnerRepository) Update(ctx context.Context, p *partner.Partner) error {
	tag, err := r.pool.Exec(ctx, updatePartnerSQL,
		p.ID, p.Name, p.Phone, p.VehicleType, p.VehicleNumber,
		p.Location.Lat, p.Location.Lng, p.IsOnline, p.IsAvailable,
		p.CurrentOrder, p.Earnings, p.Rating, p.RatingCount,
	)
	if err != nil {
		return fmt.Errorf("updating partner %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return partner.ErrNotFound
	}
	return nil
}

// Upsert inserts or replaces a delivery partner. Used by the seed tool.
func (r *PartnerRepository) Upsert(ctx context.Context, p *partner.Partner) error {
	_, err := r.pool.Exec(ctx, upsertPartnerSQL,
		p.ID, p.Name, p.Phone, p.VehicleType, p.VehicleNumber,
		p.Location.Lat, p.Location.Lng, p.IsOnline, p.IsAvailable,
		p.CurrentOrder, p.Earnings, p.Rating, p.RatingCount,
	)
	if err != nil {
		return fmt.Errorf("upserting partner %q: %w", p.ID, err)
	}
	return nil
}

func scanPartner(row pgx.CollectableRow) (partner.Partner, error) {
	var p partner.Partner
	err := row.Scan(
		&p.ID, &p.Name, &p.Phone, &p.VehicleType, &p.VehicleNumber,
		&p.Location.Lat, &p.Location.Lng, &p.IsOnline, &p.IsAvailable,
		&p.CurrentOrder, &p.Earnings, &p.Rating, &p.RatingCount,
	)
	return p, err
}
