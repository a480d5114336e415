package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage-based discount to the subtotal,
	// optionally capped by the rule's MaxDiscount.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFlat applies a fixed monetary discount capped at the subtotal.
	DiscountFlat DiscountType = "flat"
)

var (
	// ErrInvalidCoupon is returned when a coupon code is not found.
	ErrInvalidCoupon = errors.New("invalid coupon code")
	// ErrMinOrderNotMet is returned when the cart subtotal is below the
	// coupon's minimum order value.
	ErrMinOrderNotMet = errors.New("minimum order value not met")
	// ErrCouponExpired is returned when a coupon is outside its valid time window.
	ErrCouponExpired = errors.New("coupon expired")
	// ErrCouponUsageLimitReached is returned when a coupon has exhausted its allowed uses.
	ErrCouponUsageLimitReached = errors.New("coupon usage limit reached")
)

// Rule defines a coupon's discount behaviour and eligibility constraints.
// A zero MaxDiscount means the percentage discount is uncapped; a zero
// MinOrderValue means any subtotal qualifies.
type Rule struct {
	Code          string
	DiscountType  DiscountType
	Value         decimal.Decimal
	MaxDiscount   decimal.Decimal
	MinOrderValue decimal.Decimal
	Description   string
	ValidFrom     *time.Time
	ValidUntil    *time.Time
	MaxUses       int
	Uses          int
}

// Discount holds the computed discount amount and a human-readable description.
type Discount struct {
	Code        string
	Amount      decimal.Decimal
	Description string
}

// Repository provides lookup and mutation of coupon rules.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Rule, error)
	IncrementUses(ctx context.Context, code string) error
}
