package address

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Service applies address-book rules on top of the repository: validation on
// write and first-address-becomes-default behaviour.
type Service struct {
	repo Repository
}

// NewService creates an address Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all addresses for the customer.
func (s *Service) List(ctx context.Context, customerID string) ([]Address, error) {
	return s.repo.List(ctx, customerID)
}

// Get returns one address, scoped to the customer.
func (s *Service) Get(ctx context.Context, customerID, id string) (*Address, error) {
	return s.repo.GetByID(ctx, customerID, id)
}

// Create validates and stores a new address. The customer's first address is
// automatically marked default.
func (s *Service) Create(ctx context.Context, a *Address) (*Address, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.List(ctx, a.CustomerID)
	if err != nil {
		return nil, errors.Wrap(err, "list addresses")
	}

	a.ID = uuid.New().String()
	if len(existing) == 0 {
		a.IsDefault = true
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, errors.Wrap(err, "create address")
	}
	if a.IsDefault && len(existing) > 0 {
		if err := s.repo.SetDefault(ctx, a.CustomerID, a.ID); err != nil {
			return nil, errors.Wrap(err, "set default address")
		}
	}
	return a, nil
}

// Update validates and replaces an existing address.
func (s *Service) Update(ctx context.Context, a *Address) (*Address, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, a.CustomerID, a.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, errors.Wrap(err, "update address")
	}
	return a, nil
}

// Delete removes an address. Deleting the default address promotes the most
// recently listed remaining address, if any.
func (s *Service) Delete(ctx context.Context, customerID, id string) error {
	a, err := s.repo.GetByID(ctx, customerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, customerID, id); err != nil {
		return errors.Wrap(err, "delete address")
	}
	if a.IsDefault {
		remaining, err := s.repo.List(ctx, customerID)
		if err != nil {
			return errors.Wrap(err, "list addresses")
		}
		if len(remaining) > 0 {
			if err := s.repo.SetDefault(ctx, customerID, remaining[0].ID); err != nil {
				return errors.Wrap(err, "promote default address")
			}
		}
	}
	return nil
}

// SetDefault marks the address as the customer's default.
func (s *Service) SetDefault(ctx context.Context, customerID, id string) error {
	if _, err := s.repo.GetByID(ctx, customerID, id); err != nil {
		return err
	}
	return s.repo.SetDefault(ctx, customerID, id)
}
