package address

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when an address does not exist or belongs to a
// different customer.
var ErrNotFound = errors.New("address not found")

// ValidationError reports the first invalid field of an address.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid address: " + e.Field + " " + e.Reason
}

// Address is a delivery address. Exactly one address per customer is marked
// as the default.
type Address struct {
	ID         string
	CustomerID string
	Name       string
	Street     string
	City       string
	State      string
	PinCode    string
	Phone      string
	IsDefault  bool
}

// Validate checks required fields, the 6-digit PIN code, and the 10-digit
// phone number.
func (a *Address) Validate() error {
	switch {
	case a.Name == "":
		return &ValidationError{Field: "name", Reason: "is required"}
	case a.Street == "":
		return &ValidationError{Field: "street", Reason: "is required"}
	case a.City == "":
		return &ValidationError{Field: "city", Reason: "is required"}
	case a.State == "":
		return &ValidationError{Field: "state", Reason: "is required"}
	}
	if !allDigits(a.PinCode) || len(a.PinCode) != 6 {
		return &ValidationError{Field: "pinCode", Reason: "must be 6 digits"}
	}
	if !allDigits(a.Phone) || len(a.Phone) != 10 {
		return &ValidationError{Field: "phone", Reason: "must be 10 digits"}
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Repository defines persistence operations for the address book.
type Repository interface {
	List(ctx context.Context, customerID string) ([]Address, error)
	GetByID(ctx context.Context, customerID, id string) (*Address, error)
	Create(ctx context.Context, a *Address) error
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, customerID, id string) error
	// SetDefault marks the given address as default and clears the flag on
	// every other address of the customer.
	SetDefault(ctx context.Context, customerID, id string) error
}
