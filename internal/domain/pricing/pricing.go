// Package pricing computes the order price breakdown: subtotal, discount,
// delivery fee, tax, and the final payable total.
package pricing

import "github.com/shopspring/decimal"

// Pricing constants. Amounts are in whole currency units.
var (
	// FreeDeliveryThreshold is the subtotal above which delivery is free.
	FreeDeliveryThreshold = decimal.NewFromInt(500)
	// DeliveryFee is the flat fee charged below the free-delivery threshold.
	DeliveryFee = decimal.NewFromInt(40)
	// TaxRate is the flat tax rate applied to the subtotal.
	TaxRate = decimal.NewFromFloat(0.05)
)

// Summary is the derived price breakdown for a cart or order. It is computed
// on demand and never persisted as authoritative state on the cart.
type Summary struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Tax           decimal.Decimal
	GrandTotal    decimal.Decimal
	WalletApplied decimal.Decimal
	// Payable is the grand total after the wallet deduction.
	Payable decimal.Decimal
}

// Fee returns the delivery fee for the given subtotal: zero above the
// free-delivery threshold, the flat fee otherwise. The threshold is strict,
// so a subtotal of exactly 500 still pays the fee.
func Fee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return DeliveryFee
}

// Tax returns the flat-rate tax on the subtotal, rounded to the nearest
// whole unit (half away from zero).
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(0)
}

// Summarize combines subtotal and discount into the full price breakdown.
// When useWallet is set, the payable amount is reduced by
// min(walletBalance, grandTotal); the wallet itself is not debited here.
func Summarize(subtotal, discount decimal.Decimal, useWallet bool, walletBalance decimal.Decimal) Summary {
	fee := Fee(subtotal)
	tax := Tax(subtotal)

	grand := subtotal.Sub(discount).Add(fee).Add(tax)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	applied := decimal.Zero
	if useWallet && walletBalance.IsPositive() {
		applied = decimal.Min(walletBalance, grand)
	}

	return Summary{
		Subtotal:      subtotal,
		Discount:      discount,
		DeliveryFee:   fee,
		Tax:           tax,
		GrandTotal:    grand,
		WalletApplied: applied,
		Payable:       grand.Sub(applied),
	}
}
