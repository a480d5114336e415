package partner

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a delivery partner does not exist.
	ErrNotFound = errors.New("delivery partner not found")
	// ErrNotAvailable is returned when an order is assigned to a partner who
	// is offline, busy, or already carrying an order.
	ErrNotAvailable = errors.New("delivery partner not available")
	// ErrNoCurrentOrder is returned when completing a delivery for a partner
	// with no assigned order.
	ErrNoCurrentOrder = errors.New("delivery partner has no current order")
	// ErrInvalidRating is returned for ratings outside [1, 5].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Location is a geographic point. Coordinates are stored for display only;
// no routing is computed from them.
type Location struct {
	Lat float64
	Lng float64
}

// Partner is a courier who fulfils orders. Rating is a running average over
// RatingCount submitted ratings.
type Partner struct {
	ID            string
	Name          string
	Phone         string
	VehicleType   string
	VehicleNumber string
	Location      Location
	IsOnline      bool
	IsAvailable   bool
	CurrentOrder  string
	Earnings      decimal.Decimal
	Rating        decimal.Decimal
	RatingCount   int
}

// Repository defines persistence operations for delivery partners.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Partner, error)
	Update(ctx context.Context, p *Partner) error
}
