// Package settlement prices an order: subtotal, offer and loyalty discounts,
// final total, meal-credit usage and earned loyalty points.
package settlement

import (
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/shopspring/decimal"
)

var (
	// MaxPointsDiscount caps the loyalty-point discount per order.
	MaxPointsDiscount = decimal.NewFromInt(20)

	// EarnRate is the share of the post-discount total credited as points.
	EarnRate = decimal.New(1, -1)
)

// Compute recomputes the totals from scratch. It is a pure function of its
// inputs; callers re-run it after every change to lines, offers or party.
func Compute(lines []order.LineItem, offerDiscount decimal.Decimal, party order.Party) order.Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}

	if offerDiscount.IsNegative() {
		offerDiscount = decimal.Zero
	}
	if offerDiscount.GreaterThan(subtotal) {
		offerDiscount = subtotal
	}

	discountable := subtotal.Sub(offerDiscount)

	var t order.Totals
	t.Subtotal = subtotal
	t.OfferDiscount = offerDiscount

	switch {
	case party.IsEmployee():
		t.LoyaltyDiscount = nonNegative(decimal.Min(party.MealCredits, discountable))
		t.CreditsUsed = t.LoyaltyDiscount
	case party.IsCustomer():
		t.LoyaltyDiscount = nonNegative(decimal.Min(party.Points, decimal.Min(MaxPointsDiscount, discountable)))
		t.PointsToRedeem = t.LoyaltyDiscount
	default:
		t.LoyaltyDiscount = decimal.Zero
	}

	t.Discount = offerDiscount.Add(t.LoyaltyDiscount)
	t.Total = subtotal.Sub(t.Discount)

	if party.IsEmployee() {
		t.CashDue = t.Total
	}
	if party.IsCustomer() {
		t.EarnedPoints = EarnedPoints(t.Total)
	}
	return t
}

// EarnedPoints is floor(total * EarnRate).
func EarnedPoints(total decimal.Decimal) int32 {
	if !total.IsPositive() {
		return 0
	}
	return int32(total.Mul(EarnRate).Floor().IntPart())
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
