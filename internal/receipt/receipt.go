// Package receipt turns a committed order into the ticket handed to the
// kitchen printer and the customer.
package receipt

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/shopspring/decimal"
)

const width = 32

// Line is one printed item row.
type Line struct {
	Name     string          `json:"name"`
	Sauces   []string        `json:"sauces,omitempty"`
	Upgrade  bool            `json:"upgrade"`
	Offer    string          `json:"offer,omitempty"`
	Quantity int32           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// Receipt carries everything a printer needs; nothing is looked up later.
type Receipt struct {
	OrderID         string              `json:"order_id"`
	Cashier         string              `json:"cashier"`
	OrderType       string              `json:"order_type"`
	Time            time.Time           `json:"time"`
	PartyKind       string              `json:"party_kind"`
	PartyName       string              `json:"party_name,omitempty"`
	PartyID         string              `json:"party_id,omitempty"`
	CreditsUsed     decimal.Decimal     `json:"credits_used"`
	CashDue         decimal.Decimal     `json:"cash_due"`
	Lines           []Line              `json:"lines"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	OfferDiscount   decimal.Decimal     `json:"offer_discount"`
	LoyaltyDiscount decimal.Decimal     `json:"loyalty_discount"`
	Total           decimal.Decimal     `json:"total"`
	EarnedPoints    int32               `json:"earned_points"`
	PointsRedeemed  decimal.Decimal     `json:"points_redeemed"`
	PointsRemaining decimal.NullDecimal `json:"points_remaining"`
	PaymentMethods  []string            `json:"payment_methods"`
	CashPaid        decimal.Decimal     `json:"cash_paid"`
	ChangeDue       decimal.Decimal     `json:"change_due"`
}

// Build assembles the receipt. pointsRemaining is the customer's balance
// after the commit, when known.
func Build(o order.Order, offerNames map[string]string, pointsRemaining decimal.NullDecimal) Receipt {
	r := Receipt{
		OrderID:         o.OrderID,
		Cashier:         o.Cashier,
		OrderType:       o.OrderType,
		Time:            o.CreatedAt,
		PartyKind:       o.Party.Kind,
		PartyName:       o.Party.Name,
		PartyID:         o.Party.ID,
		CreditsUsed:     o.Totals.CreditsUsed,
		CashDue:         o.Totals.CashDue,
		Subtotal:        o.Totals.Subtotal,
		OfferDiscount:   o.Totals.OfferDiscount,
		LoyaltyDiscount: o.Totals.LoyaltyDiscount,
		Total:           o.Totals.Total,
		EarnedPoints:    o.Totals.EarnedPoints,
		PointsRedeemed:  o.Totals.PointsToRedeem,
		PointsRemaining: pointsRemaining,
		PaymentMethods:  o.PaymentMethods,
		CashPaid:        o.CashPaid,
		ChangeDue:       o.ChangeDue,
	}
	for _, l := range o.Lines {
		r.Lines = append(r.Lines, Line{
			Name:     l.Name,
			Sauces:   l.Sauces,
			Upgrade:  l.IsUpgrade,
			Offer:    offerNames[l.OfferID],
			Quantity: l.Quantity,
			Amount:   l.LineTotal(),
		})
	}
	return r
}

// Render writes the plain-text ticket.
func (r Receipt) Render(w io.Writer, loc *time.Location) error {
	var b strings.Builder

	b.WriteString(center("ORDER") + "\n")
	b.WriteString(rule())
	row(&b, "Order ID:", r.OrderID)
	row(&b, "Cashier:", r.Cashier)
	row(&b, "Order Type:", orderTypeLabel(r.OrderType))
	if loc == nil {
		loc = time.UTC
	}
	row(&b, "Time:", r.Time.In(loc).Format("02/01/2006 15:04"))

	switch r.PartyKind {
	case enum.PartyKindCustomer:
		row(&b, "Customer:", fmt.Sprintf("%s (%s)", r.PartyName, r.PartyID))
	case enum.PartyKindEmployee:
		row(&b, "Employee:", fmt.Sprintf("%s (%s)", r.PartyName, r.PartyID))
		row(&b, "Meal Credits Used:", money(r.CreditsUsed))
		if r.CashDue.IsPositive() {
			row(&b, "Cash Due:", money(r.CashDue))
		}
	}

	b.WriteString(rule())
	for _, l := range r.Lines {
		name := l.Name
		if l.Upgrade {
			name = "+ " + name + " (upgrade)"
		}
		row(&b, fmt.Sprintf("%dx %s", l.Quantity, name), money(l.Amount))
		if len(l.Sauces) > 0 {
			b.WriteString("   (" + strings.Join(l.Sauces, ", ") + ")\n")
		}
		if l.Offer != "" {
			b.WriteString("   [" + l.Offer + "]\n")
		}
	}
	b.WriteString(rule())

	row(&b, "Sub Total:", money(r.Subtotal))
	if r.OfferDiscount.IsPositive() {
		row(&b, "Offer Discount:", "-"+money(r.OfferDiscount))
	}
	if r.LoyaltyDiscount.IsPositive() {
		label := "Points Discount:"
		if r.PartyKind == enum.PartyKindEmployee {
			label = "Meal Credit:"
		}
		row(&b, label, "-"+money(r.LoyaltyDiscount))
	}
	row(&b, "Total:", money(r.Total))

	if len(r.PaymentMethods) > 0 {
		row(&b, "Paid By:", strings.Join(r.PaymentMethods, "+"))
	}
	if r.ChangeDue.IsPositive() {
		row(&b, "Change:", money(r.ChangeDue))
	}

	if r.PartyKind == enum.PartyKindCustomer {
		if r.PointsRedeemed.IsPositive() {
			row(&b, "Points Redeemed:", r.PointsRedeemed.StringFixed(2))
		}
		if r.PointsRemaining.Valid {
			row(&b, "Points Balance:", r.PointsRemaining.Decimal.StringFixed(2))
		}
		row(&b, "Earned Points:", fmt.Sprintf("%d", r.EarnedPoints))
	}

	b.WriteString(rule())
	b.WriteString(center("--- Thank You ---") + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// String renders with UTC timestamps.
func (r Receipt) String() string {
	var b strings.Builder
	r.Render(&b, time.UTC) //nolint:errcheck
	return b.String()
}

func money(d decimal.Decimal) string {
	return "£" + d.StringFixed(2)
}

func orderTypeLabel(t string) string {
	switch t {
	case enum.OrderTypeDineIn:
		return "Dine In"
	case enum.OrderTypeTakeaway:
		return "Takeaway"
	}
	return t
}

func row(b *strings.Builder, left, right string) {
	gap := width - len([]rune(left)) - len([]rune(right))
	if gap < 1 {
		gap = 1
	}
	b.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
}

func rule() string {
	return strings.Repeat("-", width) + "\n"
}

func center(s string) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
