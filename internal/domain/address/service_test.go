package address

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memAddressRepo is an in-memory Repository for service tests. Order of List
// results follows insertion order with the default address first.
type memAddressRepo struct {
	addrs []*Address
}

func (m *memAddressRepo) List(_ context.Context, customerID string) ([]Address, error) {
	var out []Address
	for _, a := range m.addrs {
		if a.CustomerID == customerID && a.IsDefault {
			out = append(out, *a)
		}
	}
	for _, a := range m.addrs {
		if a.CustomerID == customerID && !a.IsDefault {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memAddressRepo) GetByID(_ context.Context, customerID, id string) (*Address, error) {
	for _, a := range m.addrs {
		if a.CustomerID == customerID && a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memAddressRepo) Create(_ context.Context, a *Address) error {
	cp := *a
	m.addrs = append(m.addrs, &cp)
	return nil
}

func (m *memAddressRepo) Update(_ context.Context, a *Address) error {
	for i, existing := range m.addrs {
		if existing.CustomerID == a.CustomerID && existing.ID == a.ID {
			cp := *a
			cp.IsDefault = existing.IsDefault
			m.addrs[i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (m *memAddressRepo) Delete(_ context.Context, customerID, id string) error {
	for i, a := range m.addrs {
		if a.CustomerID == customerID && a.ID == id {
			m.addrs = append(m.addrs[:i], m.addrs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memAddressRepo) SetDefault(_ context.Context, customerID, id string) error {
	found := false
	for _, a := range m.addrs {
		if a.CustomerID == customerID {
			a.IsDefault = a.ID == id
			found = found || a.ID == id
		}
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func valid() Address {
	return Address{
		CustomerID: "cust",
		Name:       "Home",
		Street:     "12 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PinCode:    "560001",
		Phone:      "9876543210",
	}
}

func TestAddress_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Address)
		wantField string
	}{
		{"valid", func(*Address) {}, ""},
		{"missing name", func(a *Address) { a.Name = "" }, "name"},
		{"missing street", func(a *Address) { a.Street = "" }, "street"},
		{"missing city", func(a *Address) { a.City = "" }, "city"},
		{"missing state", func(a *Address) { a.State = "" }, "state"},
		{"short pin", func(a *Address) { a.PinCode = "5600" }, "pinCode"},
		{"non-numeric pin", func(a *Address) { a.PinCode = "56000a" }, "pinCode"},
		{"short phone", func(a *Address) { a.Phone = "98765" }, "phone"},
		{"non-numeric phone", func(a *Address) { a.Phone = "98765x3210" }, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.wantField, valErr.Field)
		})
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("first address becomes default", func(t *testing.T) {
		svc := NewService(&memAddressRepo{})

		a := valid()
		created, err := svc.Create(ctx, &a)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.True(t, created.IsDefault)
	})

	t.Run("second address is not default", func(t *testing.T) {
		svc := NewService(&memAddressRepo{})

		first := valid()
		_, err := svc.Create(ctx, &first)
		require.NoError(t, err)

		second := valid()
		second.Name = "Office"
		created, err := svc.Create(ctx, &second)
		require.NoError(t, err)
		assert.False(t, created.IsDefault)
	})

	t.Run("invalid address rejected", func(t *testing.T) {
		svc := NewService(&memAddressRepo{})

		a := valid()
		a.PinCode = "x"
		_, err := svc.Create(ctx, &a)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := &memAddressRepo{}
	svc := NewService(repo)

	first := valid()
	created1, err := svc.Create(ctx, &first)
	require.NoError(t, err)

	second := valid()
	second.Name = "Office"
	created2, err := svc.Create(ctx, &second)
	require.NoError(t, err)

	// Deleting the default promotes the remaining address.
	require.NoError(t, svc.Delete(ctx, "cust", created1.ID))

	promoted, err := svc.Get(ctx, "cust", created2.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsDefault)

	// Deleting a missing address errors.
	require.ErrorIs(t, svc.Delete(ctx, "cust", "missing"), ErrNotFound)
}

func TestService_SetDefault(t *testing.T) {
	ctx := context.Background()
	repo := &memAddressRepo{}
	svc := NewService(repo)

	first := valid()
	created1, err := svc.Create(ctx, &first)
	require.NoError(t, err)

	second := valid()
	second.Name = "Office"
	created2, err := svc.Create(ctx, &second)
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(ctx, "cust", created2.ID))

	a1, err := svc.Get(ctx, "cust", created1.ID)
	require.NoError(t, err)
	a2, err := svc.Get(ctx, "cust", created2.ID)
	require.NoError(t, err)
	assert.False(t, a1.IsDefault)
	assert.True(t, a2.IsDefault)

	require.ErrorIs(t, svc.SetDefault(ctx, "cust", "missing"), ErrNotFound)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memAddressRepo{})

	a := valid()
	created, err := svc.Create(ctx, &a)
	require.NoError(t, err)

	updated := valid()
	updated.ID = created.ID
	updated.Street = "45 Brigade Road"
	got, err := svc.Update(ctx, &updated)
	require.NoError(t, err)
	assert.Equal(t, "45 Brigade Road", got.Street)

	missing := valid()
	missing.ID = "missing"
	_, err = svc.Update(ctx, &missing)
	require.ErrorIs(t, err, ErrNotFound)
}
