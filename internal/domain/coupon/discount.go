package coupon

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Apply calculates the discount for the given rule and cart subtotal.
// It returns ErrMinOrderNotMet when the subtotal is below the rule's
// minimum order value.
func Apply(rule *Rule, subtotal decimal.Decimal) (Discount, error) {
	if rule.MinOrderValue.IsPositive() && subtotal.LessThan(rule.MinOrderValue) {
		return Discount{}, ErrMinOrderNotMet
	}

	switch rule.DiscountType {
	case DiscountPercentage:
		return applyPercentage(rule, subtotal), nil
	case DiscountFlat:
		return applyFlat(rule, subtotal), nil
	default:
		return Discount{}, errors.Errorf("unsupported discount type: %q", rule.DiscountType)
	}
}

func applyPercentage(rule *Rule, subtotal decimal.Decimal) Discount {
	amount := subtotal.Mul(rule.Value).Div(hundred)
	if rule.MaxDiscount.IsPositive() && amount.GreaterThan(rule.MaxDiscount) {
		amount = rule.MaxDiscount
	}
	amount = floorAtZero(amount).Round(2)

	return Discount{
		Code:        rule.Code,
		Amount:      amount,
		Description: rule.Description,
	}
}

// applyFlat never discounts more than the subtotal, so a flat coupon can
// never drive the total negative.
func applyFlat(rule *Rule, subtotal decimal.Decimal) Discount {
	amount := decimal.Min(rule.Value, subtotal)
	amount = floorAtZero(amount).Round(2)

	return Discount{
		Code:        rule.Code,
		Amount:      amount,
		Description: rule.Description,
	}
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
