package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// dateIn is the calendar date of t in loc.
func dateIn(t time.Time, loc *time.Location) pgtype.Date {
	y, m, d := t.In(loc).Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// orderFromRow rebuilds the domain order from its KOT row.
func orderFromRow(row database.KotOrder) (order.Order, error) {
	var lines []order.LineItem
	if err := json.Unmarshal(row.Lines, &lines); err != nil {
		return order.Order{}, fmt.Errorf("decode order %s lines: %w", row.OrderID, err)
	}
	o := order.Order{
		OrderID:   row.OrderID,
		CreatedAt: row.CreatedAt.Time,
		Lines:     lines,
		Totals: order.Totals{
			Subtotal:        numericToDecimal(row.Subtotal),
			OfferDiscount:   numericToDecimal(row.OfferDiscount),
			LoyaltyDiscount: numericToDecimal(row.LoyaltyDiscount),
			Discount:        numericToDecimal(row.Discount),
			Total:           numericToDecimal(row.Total),
			CreditsUsed:     numericToDecimal(row.CreditsUsed),
			PointsToRedeem:  numericToDecimal(row.PointsRedeemed),
			EarnedPoints:    row.EarnedPoints,
		},
		Party: order.Party{
			Kind:  row.PartyKind,
			Phone: row.PartyPhone.String,
			ID:    row.PartyID.String,
			Name:  row.PartyName.String,
		},
		OrderType:      row.OrderType,
		PaymentMethods: row.PaymentMethods,
		CashPaid:       numericToDecimal(row.CashPaid),
		ChangeDue:      numericToDecimal(row.ChangeDue),
		Status:         row.Status,
		Refunded:       row.Refunded,
		RefundedAmount: numericToDecimal(row.RefundedAmount),
		Cashier:        row.Cashier,
	}
	if o.Party.IsEmployee() {
		o.Totals.CashDue = o.Totals.Total
	}
	if row.PendingOrderID.Valid {
		o.PendingOrderID = uuid.UUID(row.PendingOrderID.Bytes).String()
	}
	return o, nil
}
