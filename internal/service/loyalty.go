package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerStore is the balance side of a transaction: customer points,
// employee meal credits and the loyalty history.
type LedgerStore interface {
	GetCustomerByPhoneForUpdate(ctx context.Context, phone string) (database.Customer, error)
	UpdateCustomerPoints(ctx context.Context, arg database.UpdateCustomerPointsParams) (database.Customer, error)
	CreateLoyaltyHistory(ctx context.Context, arg database.CreateLoyaltyHistoryParams) (database.LoyaltyHistory, error)
	GetEmployeeByPhoneForUpdate(ctx context.Context, phone string) (database.Employee, error)
	UpdateMealCredits(ctx context.Context, arg database.UpdateMealCreditsParams) (database.Employee, error)
}

// Ledger mutates balances. Every call locks the balance row, so it must run
// inside a transaction; the row stays locked until commit.
type Ledger struct {
	store LedgerStore
}

func NewLedger(store LedgerStore) Ledger {
	return Ledger{store: store}
}

func (l Ledger) lockCustomer(ctx context.Context, phone string) (database.Customer, error) {
	c, err := l.store.GetCustomerByPhoneForUpdate(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Customer{}, fmt.Errorf("%w: %s", ErrCustomerNotFound, phone)
		}
		return database.Customer{}, fmt.Errorf("lock customer: %w", err)
	}
	return c, nil
}

func (l Ledger) lockEmployee(ctx context.Context, phone string) (database.Employee, error) {
	e, err := l.store.GetEmployeeByPhoneForUpdate(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Employee{}, fmt.Errorf("%w: %s", ErrEmployeeNotFound, phone)
		}
		return database.Employee{}, fmt.Errorf("lock employee: %w", err)
	}
	return e, nil
}

// CheckPoints locks the customer and fails when the balance is below need.
func (l Ledger) CheckPoints(ctx context.Context, phone string, need decimal.Decimal) (decimal.Decimal, error) {
	c, err := l.lockCustomer(ctx, phone)
	if err != nil {
		return decimal.Zero, err
	}
	bal := numericToDecimal(c.Points)
	if bal.LessThan(need) {
		return bal, fmt.Errorf("%w: balance %s, need %s", ErrInsufficientPoints, bal.StringFixed(2), need.StringFixed(2))
	}
	return bal, nil
}

// Redeem sets the balance to balance - toDeduct + earned and records the
// history entries for orderID. It returns the new balance.
func (l Ledger) Redeem(ctx context.Context, phone string, toDeduct decimal.Decimal, earned int32, orderID string) (decimal.Decimal, error) {
	bal, err := l.CheckPoints(ctx, phone, toDeduct)
	if err != nil {
		return decimal.Zero, err
	}
	c, err := l.store.UpdateCustomerPoints(ctx, database.UpdateCustomerPointsParams{
		Phone:  phone,
		Points: decimalToNumeric(bal.Sub(toDeduct).Add(decimal.NewFromInt32(earned))),
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("update points: %w", err)
	}

	if toDeduct.IsPositive() {
		if err := l.history(ctx, c.CustomerID, enum.LoyaltyEntryRedeem, toDeduct, orderID); err != nil {
			return decimal.Zero, err
		}
	}
	if earned > 0 {
		if err := l.history(ctx, c.CustomerID, enum.LoyaltyEntryEarn, decimal.NewFromInt32(earned), orderID); err != nil {
			return decimal.Zero, err
		}
	}
	return numericToDecimal(c.Points), nil
}

// ReverseRedeem takes back points earned on a refunded order. The balance
// never goes below zero; the amount actually removed is returned.
func (l Ledger) ReverseRedeem(ctx context.Context, phone string, clawback int32, orderID string) (decimal.Decimal, error) {
	c, err := l.lockCustomer(ctx, phone)
	if err != nil {
		return decimal.Zero, err
	}
	bal := numericToDecimal(c.Points)
	take := decimal.Min(bal, decimal.NewFromInt32(clawback))
	if !take.IsPositive() {
		return decimal.Zero, nil
	}
	if _, err := l.store.UpdateCustomerPoints(ctx, database.UpdateCustomerPointsParams{
		Phone:  phone,
		Points: decimalToNumeric(bal.Sub(take)),
	}); err != nil {
		return decimal.Zero, fmt.Errorf("update points: %w", err)
	}
	if err := l.history(ctx, c.CustomerID, enum.LoyaltyEntryClawback, take, orderID); err != nil {
		return decimal.Zero, err
	}
	return take, nil
}

// CheckCredits locks the employee and fails when credits are below need.
func (l Ledger) CheckCredits(ctx context.Context, phone string, need decimal.Decimal) (decimal.Decimal, error) {
	e, err := l.lockEmployee(ctx, phone)
	if err != nil {
		return decimal.Zero, err
	}
	bal := numericToDecimal(e.MealCredits)
	if bal.LessThan(need) {
		return bal, fmt.Errorf("%w: balance %s, need %s", ErrInsufficientCredits, bal.StringFixed(2), need.StringFixed(2))
	}
	return bal, nil
}

// Consume spends meal credits and returns the new balance.
func (l Ledger) Consume(ctx context.Context, phone string, amount decimal.Decimal) (decimal.Decimal, error) {
	bal, err := l.CheckCredits(ctx, phone, amount)
	if err != nil {
		return decimal.Zero, err
	}
	e, err := l.store.UpdateMealCredits(ctx, database.UpdateMealCreditsParams{
		Phone:       phone,
		MealCredits: decimalToNumeric(bal.Sub(amount)),
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("update meal credits: %w", err)
	}
	return numericToDecimal(e.MealCredits), nil
}

// Restore gives meal credits back and returns the new balance.
func (l Ledger) Restore(ctx context.Context, phone string, amount decimal.Decimal) (decimal.Decimal, error) {
	e, err := l.lockEmployee(ctx, phone)
	if err != nil {
		return decimal.Zero, err
	}
	updated, err := l.store.UpdateMealCredits(ctx, database.UpdateMealCreditsParams{
		Phone:       phone,
		MealCredits: decimalToNumeric(numericToDecimal(e.MealCredits).Add(amount)),
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("update meal credits: %w", err)
	}
	return numericToDecimal(updated.MealCredits), nil
}

func (l Ledger) history(ctx context.Context, customerID, entryType string, points decimal.Decimal, orderID string) error {
	_, err := l.store.CreateLoyaltyHistory(ctx, database.CreateLoyaltyHistoryParams{
		CustomerID: customerID,
		EntryType:  entryType,
		Points:     decimalToNumeric(points),
		OrderID:    orderID,
	})
	if err != nil {
		return fmt.Errorf("create loyalty history: %w", err)
	}
	return nil
}
