package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/velora-shop/cartserv/internal/cart"
)

// MinRedeemablePoints is the smallest loyalty balance that can be
// redeemed. Points convert at 100 points per currency unit and only in
// multiples of 100; partial hundreds never redeem.
const MinRedeemablePoints int64 = 100

// Totals is the checkout price breakdown. All amounts are kept at full
// decimal precision; rounding to two places happens only when a value is
// formatted for display.
type Totals struct {
	Subtotal        decimal.Decimal
	ShippingFee     decimal.Decimal
	DiscountPercent int64
	DiscountAmount  decimal.Decimal
	PointsUsed      int64
	LoyaltyDiscount decimal.Decimal
	Total           decimal.Decimal
}

// ComputeTotals prices an order: subtotal plus shipping, minus a
// percentage discount and a loyalty redemption, clamped at zero. A
// fully-discounted order is valid; a negative payable amount is not.
func ComputeTotals(subtotal, shippingFee decimal.Decimal, discountPercent, loyaltyPointsAvailable int64, useLoyaltyPoints bool) (Totals, error) {
	if subtotal.IsNegative() {
		return Totals{}, cart.NewValidationError("subtotal cannot be negative")
	}
	if shippingFee.IsNegative() {
		return Totals{}, cart.NewValidationError("shipping fee cannot be negative")
	}
	if discountPercent < 0 || discountPercent > 100 {
		return Totals{}, cart.NewValidationError("discount percent %d out of range", discountPercent)
	}

	var pointsUsed int64
	if useLoyaltyPoints {
		if loyaltyPointsAvailable < MinRedeemablePoints {
			return Totals{}, cart.NewValidationError("at least %d loyalty points required, have %d", MinRedeemablePoints, loyaltyPointsAvailable)
		}
		pointsUsed = loyaltyPointsAvailable / 100 * 100
	}

	// Division by 100 is an exact digit shift, so no precision is lost
	// before the final clamp.
	discountAmount := subtotal.Mul(decimal.NewFromInt(discountPercent)).Shift(-2)
	loyaltyDiscount := decimal.NewFromInt(pointsUsed).Shift(-2)

	total := subtotal.Add(shippingFee).Sub(discountAmount).Sub(loyaltyDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal:        subtotal,
		ShippingFee:     shippingFee,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		PointsUsed:      pointsUsed,
		LoyaltyDiscount: loyaltyDiscount,
		Total:           total,
	}, nil
}
