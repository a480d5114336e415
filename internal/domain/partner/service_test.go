package partner

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbasket/greenbasket/internal/domain/order"
)

type mockPartnerRepo struct {
	partner *Partner
	updated *Partner
}

func (m *mockPartnerRepo) GetByID(_ context.Context, _ string) (*Partner, error) {
	if m.partner == nil {
		return nil, ErrNotFound
	}
	cp := *m.partner
	return &cp, nil
}

func (m *mockPartnerRepo) Update(_ context.Context, p *Partner) error {
	m.updated = p
	m.partner = p
	return nil
}

type mockTransitioner struct {
	transitioned []string
	to           order.Status
	assigned     map[string]string
	err          error
}

func (m *mockTransitioner) Transition(_ context.Context, id string, to order.Status) (*order.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.transitioned = append(m.transitioned, id)
	m.to = to
	return &order.Order{ID: id, Status: to}, nil
}

func (m *mockTransitioner) AssignPartner(_ context.Context, id, partnerID string) (*order.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.assigned == nil {
		m.assigned = map[string]string{}
	}
	m.assigned[id] = partnerID
	return &order.Order{ID: id, PartnerID: partnerID}, nil
}

func availablePartner() *Partner {
	return &Partner{
		ID:          "partner-1",
		Name:        "Ravi Kumar",
		IsOnline:    true,
		IsAvailable: true,
		Earnings:    decimal.Zero,
		Rating:      decimal.Zero,
	}
}

func TestService_AssignOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns to an available partner", func(t *testing.T) {
		repo := &mockPartnerRepo{partner: availablePartner()}
		orders := &mockTransitioner{}
		svc := NewService(repo, orders)

		p, err := svc.AssignOrder(ctx, "partner-1", "o1")
		require.NoError(t, err)
		assert.Equal(t, "o1", p.CurrentOrder)
		assert.False(t, p.IsAvailable)
		assert.Equal(t, "partner-1", orders.assigned["o1"])
	})

	t.Run("unknown order leaves partner untouched", func(t *testing.T) {
		repo := &mockPartnerRepo{partner: availablePartner()}
		svc := NewService(repo, &mockTransitioner{err: order.ErrNotFound})

		_, err := svc.AssignOrder(ctx, "partner-1", "missing")
		require.ErrorIs(t, err, order.ErrNotFound)
		assert.Nil(t, repo.updated)
	})

	t.Run("offline partner rejected", func(t *testing.T) {
		pr := availablePartner()
		pr.IsOnline = false
		repo := &mockPartnerRepo{partner: pr}
		svc := NewService(repo, &mockTransitioner{})

		_, err := svc.AssignOrder(ctx, "partner-1", "o1")
		require.ErrorIs(t, err, ErrNotAvailable)
		assert.Nil(t, repo.updated)
	})

	t.Run("busy partner rejected", func(t *testing.T) {
		pr := availablePartner()
		pr.CurrentOrder = "o0"
		repo := &mockPartnerRepo{partner: pr}
		svc := NewService(repo, &mockTransitioner{})

		_, err := svc.AssignOrder(ctx, "partner-1", "o1")
		require.ErrorIs(t, err, ErrNotAvailable)
	})

	t.Run("unknown partner", func(t *testing.T) {
		svc := NewService(&mockPartnerRepo{}, &mockTransitioner{})

		_, err := svc.AssignOrder(ctx, "nope", "o1")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_CompleteDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("marks delivered, credits earning, frees partner", func(t *testing.T) {
		pr := availablePartner()
		pr.CurrentOrder = "o1"
		pr.IsAvailable = false
		pr.Earnings = decimal.NewFromInt(100)
		repo := &mockPartnerRepo{partner: pr}
		orders := &mockTransitioner{}
		svc := NewService(repo, orders)

		p, err := svc.CompleteDelivery(ctx, "partner-1", decimal.NewFromInt(35))
		require.NoError(t, err)
		assert.Equal(t, []string{"o1"}, orders.transitioned)
		assert.Equal(t, order.StatusDelivered, orders.to)
		assert.Empty(t, p.CurrentOrder)
		assert.True(t, p.IsAvailable)
		assert.True(t, decimal.NewFromInt(135).Equal(p.Earnings))
	})

	t.Run("no current order", func(t *testing.T) {
		repo := &mockPartnerRepo{partner: availablePartner()}
		svc := NewService(repo, &mockTransitioner{})

		_, err := svc.CompleteDelivery(ctx, "partner-1", decimal.NewFromInt(35))
		require.ErrorIs(t, err, ErrNoCurrentOrder)
	})

	t.Run("order transition failure leaves partner untouched", func(t *testing.T) {
		pr := availablePartner()
		pr.CurrentOrder = "o1"
		pr.IsAvailable = false
		repo := &mockPartnerRepo{partner: pr}
		svc := NewService(repo, &mockTransitioner{err: order.ErrInvalidTransition})

		_, err := svc.CompleteDelivery(ctx, "partner-1", decimal.NewFromInt(35))
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Nil(t, repo.updated)
	})
}

func TestService_UpdateRating(t *testing.T) {
	ctx := context.Background()

	t.Run("first rating", func(t *testing.T) {
		repo := &mockPartnerRepo{partner: availablePartner()}
		svc := NewService(repo, &mockTransitioner{})

		p, err := svc.UpdateRating(ctx, "partner-1", 4)
		require.NoError(t, err)
		assert.Equal(t, 1, p.RatingCount)
		assert.True(t, decimal.NewFromInt(4).Equal(p.Rating))
	})

	t.Run("running average", func(t *testing.T) {
		pr := availablePartner()
		pr.Rating = decimal.NewFromInt(4)
		pr.RatingCount = 1
		repo := &mockPartnerRepo{partner: pr}
		svc := NewService(repo, &mockTransitioner{})

		p, err := svc.UpdateRating(ctx, "partner-1", 5)
		require.NoError(t, err)
		assert.Equal(t, 2, p.RatingCount)
		assert.True(t, decimal.NewFromFloat(4.5).Equal(p.Rating))
	})

	t.Run("average rounds to two decimals", func(t *testing.T) {
		pr := availablePartner()
		pr.Rating = decimal.NewFromInt(4)
		pr.RatingCount = 2
		repo := &mockPartnerRepo{partner: pr}
		svc := NewService(repo, &mockTransitioner{})

		p, err := svc.UpdateRating(ctx, "partner-1", 5)
		require.NoError(t, err)
		// (8 + 5) / 3 = 4.33
		assert.True(t, decimal.NewFromFloat(4.33).Equal(p.Rating))
	})

	t.Run("rating outside range rejected", func(t *testing.T) {
		repo := &mockPartnerRepo{partner: availablePartner()}
		svc := NewService(repo, &mockTransitioner{})

		_, err := svc.UpdateRating(ctx, "partner-1", 0)
		require.ErrorIs(t, err, ErrInvalidRating)
		_, err = svc.UpdateRating(ctx, "partner-1", 6)
		require.ErrorIs(t, err, ErrInvalidRating)
		assert.Nil(t, repo.updated)
	})
}

func TestService_UpdateLocation(t *testing.T) {
	ctx := context.Background()
	repo := &mockPartnerRepo{partner: availablePartner()}
	svc := NewService(repo, &mockTransitioner{})

	p, err := svc.UpdateLocation(ctx, "partner-1", Location{Lat: 12.97, Lng: 77.59})
	require.NoError(t, err)
	assert.Equal(t, 12.97, p.Location.Lat)
	assert.Equal(t, 77.59, p.Location.Lng)
}
