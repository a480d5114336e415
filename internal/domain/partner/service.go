package partner

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/greenbasket/greenbasket/internal/domain/order"
)

// OrderTransitioner moves orders through their status lifecycle and records
// partner assignments. Satisfied by the order service.
type OrderTransitioner interface {
	Transition(ctx context.Context, id string, to order.Status) (*order.Order, error)
	AssignPartner(ctx context.Context, id, partnerID string) (*order.Order, error)
}

// Service mutates delivery partner records through explicit operations.
// No locking is applied across concurrent assignments; the last write wins.
type Service struct {
	repo   Repository
	orders OrderTransitioner
}

// NewService creates a partner Service.
func NewService(repo Repository, orders OrderTransitioner) *Service {
	return &Service{repo: repo, orders: orders}
}

// Get returns one delivery partner.
func (s *Service) Get(ctx context.Context, id string) (*Partner, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateLocation stores the partner's latest reported coordinates.
func (s *Service) UpdateLocation(ctx context.Context, id string, loc Location) (*Partner, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Location = loc
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, "update partner")
	}
	return p, nil
}

// AssignOrder records the partner on the order and marks the partner busy.
// The partner must be online, available, and free of a current order. Status
// transitions stay with the order lifecycle endpoints.
func (s *Service) AssignOrder(ctx context.Context, id, orderID string) (*Partner, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsOnline || !p.IsAvailable || p.CurrentOrder != "" {
		return nil, ErrNotAvailable
	}

	if _, err := s.orders.AssignPartner(ctx, orderID, id); err != nil {
		return nil, err
	}

	p.CurrentOrder = orderID
	p.IsAvailable = false
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, "update partner")
	}
	return p, nil
}

// CompleteDelivery marks the partner's current order delivered, credits the
// earning, and frees the partner for the next assignment.
func (s *Service) CompleteDelivery(ctx context.Context, id string, earning decimal.Decimal) (*Partner, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.CurrentOrder == "" {
		return nil, ErrNoCurrentOrder
	}

	if _, err := s.orders.Transition(ctx, p.CurrentOrder, order.StatusDelivered); err != nil {
		return nil, err
	}

	p.Earnings = p.Earnings.Add(earning)
	p.CurrentOrder = ""
	p.IsAvailable = true
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, "update partner")
	}
	return p, nil
}

// UpdateRating folds a new rating into the running average.
func (s *Service) UpdateRating(ctx context.Context, id string, rating int) (*Partner, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count := decimal.NewFromInt(int64(p.RatingCount))
	sum := p.Rating.Mul(count).Add(decimal.NewFromInt(int64(rating)))
	p.RatingCount++
	p.Rating = sum.Div(decimal.NewFromInt(int64(p.RatingCount))).Round(2)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, "update partner")
	}
	return p, nil
}
