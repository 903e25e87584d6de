// Package order holds the POS data model shared by pricing, drafts, refunds
// and persistence: line items, applied offers, the paying party and the
// committed order record.
package order

import (
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/shopspring/decimal"
)

// LineItem is one product line on a draft or committed order.
type LineItem struct {
	LineID           string              `json:"line_id"`
	ItemID           string              `json:"item_id"`
	Name             string              `json:"name"`
	UnitPrice        decimal.Decimal     `json:"unit_price"`
	Quantity         int32               `json:"quantity"`
	Sauces           []string            `json:"sauces,omitempty"`
	OfferID          string              `json:"associated_offer_id,omitempty"`
	EffectivePrice   decimal.NullDecimal `json:"effective_price"`
	IsUpgrade        bool                `json:"is_upgrade_item"`
	ParentLineID     string              `json:"parent_line_id,omitempty"`
	RefundedQuantity int32               `json:"refunded_quantity"`
	Refunded         bool                `json:"refunded"`
}

// LineTotal is unitPrice * quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// Remaining is the quantity still refundable.
func (l LineItem) Remaining() int32 {
	return l.Quantity - l.RefundedQuantity
}

// RefundPrice is the per-unit amount returned on refund: the effective
// (offer-adjusted) price when one was recorded, the unit price otherwise.
func (l LineItem) RefundPrice() decimal.Decimal {
	if l.EffectivePrice.Valid {
		return l.EffectivePrice.Decimal
	}
	return l.UnitPrice
}

// AppliedOffer is a promotional bundle active on a draft.
type AppliedOffer struct {
	OfferID       string          `json:"offer_id"`
	Name          string          `json:"name"`
	Discount      decimal.Decimal `json:"discount_amount"`
	MemberItemIDs []string        `json:"member_item_ids"`
}

// Party is the paying entity. Points is the customer balance seen at pricing
// time; MealCredits the employee balance.
type Party struct {
	Kind        string          `json:"kind"`
	Phone       string          `json:"phone,omitempty"`
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Points      decimal.Decimal `json:"points"`
	MealCredits decimal.Decimal `json:"meal_credits"`
}

func (p Party) IsCustomer() bool { return p.Kind == enum.PartyKindCustomer }
func (p Party) IsEmployee() bool { return p.Kind == enum.PartyKindEmployee }

// NoParty is the walk-in party.
func NoParty() Party {
	return Party{Kind: enum.PartyKindNone}
}

// Totals is the output of the settlement engine.
type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	OfferDiscount   decimal.Decimal `json:"offer_discount"`
	LoyaltyDiscount decimal.Decimal `json:"loyalty_discount"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	CreditsUsed     decimal.Decimal `json:"credits_used"`
	CashDue         decimal.Decimal `json:"cash_due"`
	PointsToRedeem  decimal.Decimal `json:"points_to_redeem"`
	EarnedPoints    int32           `json:"earned_points"`
}

// Order is a committed KOT.
type Order struct {
	OrderID        string          `json:"order_id"`
	CreatedAt      time.Time       `json:"created_at"`
	Lines          []LineItem      `json:"lines"`
	Totals         Totals          `json:"totals"`
	Party          Party           `json:"party"`
	OrderType      string          `json:"order_type"`
	PaymentMethods []string        `json:"payment_methods"`
	CashPaid       decimal.Decimal `json:"cash_paid"`
	ChangeDue      decimal.Decimal `json:"change_due"`
	Status         string          `json:"status"`
	Refunded       bool            `json:"refunded"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	Cashier        string          `json:"cashier"`
	PendingOrderID string          `json:"pending_order_id,omitempty"`
}

// FullyRefunded reports whether every line has been refunded in full.
func FullyRefunded(lines []LineItem) bool {
	if len(lines) == 0 {
		return false
	}
	for _, l := range lines {
		if l.RefundedQuantity != l.Quantity {
			return false
		}
	}
	return true
}
