// Package payment settles the amount due on an order against the tenders
// taken at the till.
package payment

import (
	"errors"
	"fmt"

	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/shopspring/decimal"
)

var (
	ErrNoTenders          = errors.New("at least one payment is required")
	ErrNothingDue         = errors.New("nothing is due on this order")
	ErrInvalidMethod      = errors.New("invalid payment method")
	ErrInvalidAmount      = errors.New("payment amount must be positive")
	ErrCardAmountMismatch = errors.New("card payment must equal the remaining amount")
	ErrEmployeeExactCash  = errors.New("employees must pay the exact amount")
	ErrOverTendered       = errors.New("order already settled by earlier payments")
	ErrUnderpaid          = errors.New("payments do not cover the amount due")
)

// Tender is one payment taken at the till.
type Tender struct {
	Method string          `json:"method" validate:"required,oneof=CASH CARD"`
	Amount decimal.Decimal `json:"amount"`
}

// Result is the outcome of a successful collection.
type Result struct {
	Methods   []string        `json:"methods"`
	Tenders   []Tender        `json:"tenders"`
	Tendered  decimal.Decimal `json:"tendered"`
	CashPaid  decimal.Decimal `json:"cash_paid"`
	ChangeDue decimal.Decimal `json:"change_due"`
}

// Collect validates tenders against amountDue. Cash may be split across
// tenders and the final cash tender may overpay, producing change. Card
// tenders must equal the remaining amount exactly, as must an employee's
// cash. A zero amount due settles without tenders; for employees that means
// the order was covered by meal credit.
func Collect(amountDue decimal.Decimal, partyIsEmployee bool, tenders []Tender) (Result, error) {
	if !amountDue.IsPositive() {
		if len(tenders) > 0 {
			return Result{}, ErrNothingDue
		}
		res := Result{Tendered: decimal.Zero, CashPaid: decimal.Zero, ChangeDue: decimal.Zero}
		if partyIsEmployee {
			res.Methods = []string{enum.PaymentMethodMealCredit}
		}
		return res, nil
	}
	if len(tenders) == 0 {
		return Result{}, ErrNoTenders
	}

	remaining := amountDue
	res := Result{Tendered: decimal.Zero, CashPaid: decimal.Zero, ChangeDue: decimal.Zero}
	seen := make(map[string]bool)

	for i, t := range tenders {
		if !remaining.IsPositive() {
			return Result{}, fmt.Errorf("payment[%d]: %w", i, ErrOverTendered)
		}
		if !t.Amount.IsPositive() {
			return Result{}, fmt.Errorf("payment[%d]: %w", i, ErrInvalidAmount)
		}

		switch t.Method {
		case enum.PaymentMethodCard:
			if !t.Amount.Equal(remaining) {
				return Result{}, fmt.Errorf("payment[%d]: %w", i, ErrCardAmountMismatch)
			}
			remaining = decimal.Zero
		case enum.PaymentMethodCash:
			if partyIsEmployee && !t.Amount.Equal(remaining) {
				return Result{}, fmt.Errorf("payment[%d]: %w", i, ErrEmployeeExactCash)
			}
			if t.Amount.GreaterThan(remaining) {
				res.ChangeDue = t.Amount.Sub(remaining)
				res.CashPaid = res.CashPaid.Add(remaining)
				remaining = decimal.Zero
			} else {
				res.CashPaid = res.CashPaid.Add(t.Amount)
				remaining = remaining.Sub(t.Amount)
			}
		default:
			return Result{}, fmt.Errorf("payment[%d]: %w", i, ErrInvalidMethod)
		}

		res.Tendered = res.Tendered.Add(t.Amount)
		res.Tenders = append(res.Tenders, t)
		if !seen[t.Method] {
			seen[t.Method] = true
			res.Methods = append(res.Methods, t.Method)
		}
	}

	if remaining.IsPositive() {
		return Result{}, fmt.Errorf("%w: %s outstanding", ErrUnderpaid, remaining.StringFixed(2))
	}
	return res, nil
}
