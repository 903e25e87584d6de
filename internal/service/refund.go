package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/Harsh-n409/bhookie-pos-system/internal/refund"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RefundStore defines the DB methods needed to refund a committed order.
// Satisfied by *database.Queries.
type RefundStore interface {
	InventoryStore
	LedgerStore
	GetKotOrder(ctx context.Context, orderID string) (database.KotOrder, error)
	GetKotOrderForUpdate(ctx context.Context, orderID string) (database.KotOrder, error)
	UpdateKotOrderRefund(ctx context.Context, arg database.UpdateKotOrderRefundParams) (database.KotOrder, error)
	CreateRefund(ctx context.Context, arg database.CreateRefundParams) (database.Refund, error)
	ListRefundsByOrder(ctx context.Context, orderID string) ([]database.Refund, error)
}

// NewRefundStore creates a RefundStore from a DBTX (pool or tx).
type NewRefundStore func(db database.DBTX) RefundStore

// RefundService reverses committed orders in whole or in part.
type RefundService struct {
	pool      TxBeginner
	db        database.DBTX
	newStore  NewRefundStore
	publisher Publisher
	logger    *zap.Logger
}

func NewRefundService(pool TxBeginner, db database.DBTX, newStore NewRefundStore, publisher Publisher, logger *zap.Logger) *RefundService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefundService{pool: pool, db: db, newStore: newStore, publisher: publisher, logger: logger}
}

// RefundResult is the outcome of one refund.
type RefundResult struct {
	Refund         database.Refund       `json:"refund"`
	Lines          []refund.RefundedLine `json:"lines"`
	Amount         decimal.Decimal       `json:"amount"`
	FullyRefunded  bool                  `json:"fully_refunded"`
	PointsClawback decimal.Decimal       `json:"points_clawed_back"`
	CreditsRestore decimal.Decimal       `json:"credits_restored"`
	Order          order.Order           `json:"order"`
}

// Open returns the refundable entries of an order with nothing selected.
func (s *RefundService) Open(ctx context.Context, orderID string) (*refund.Session, error) {
	row, err := s.newStore(s.db).GetKotOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}
	if o.Refunded || order.FullyRefunded(o.Lines) {
		return nil, refund.ErrAlreadyRefunded
	}
	return refund.Open(o), nil
}

// Refund refunds the requested quantities of orderID.
func (s *RefundService) Refund(ctx context.Context, orderID string, reqs []refund.Request, processedBy string) (*RefundResult, error) {
	return s.run(ctx, orderID, processedBy, func(sess *refund.Session) error {
		return sess.Apply(reqs)
	})
}

// RefundEntireOrder refunds every remaining unit of orderID.
func (s *RefundService) RefundEntireOrder(ctx context.Context, orderID, processedBy string) (*RefundResult, error) {
	return s.run(ctx, orderID, processedBy, func(sess *refund.Session) error {
		sess.SetAll()
		return nil
	})
}

func (s *RefundService) run(ctx context.Context, orderID, processedBy string, selectFn func(*refund.Session) error) (*RefundResult, error) {
	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Lock the order ---
	row, err := store.GetKotOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}
	o, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}
	if o.Refunded {
		return nil, refund.ErrAlreadyRefunded
	}

	sess := refund.Open(o)
	if err := selectFn(sess); err != nil {
		return nil, err
	}
	plan, err := sess.Plan(o.Totals.EarnedPoints, o.Totals.CreditsUsed)
	if err != nil {
		return nil, err
	}

	// --- Cap reversals by what earlier refunds already took ---
	prior, err := store.ListRefundsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	var clawedBefore int32
	restoredBefore := decimal.Zero
	for _, r := range prior {
		clawedBefore += r.PointsClawedBack
		restoredBefore = restoredBefore.Add(numericToDecimal(r.CreditsRestored))
	}
	clawback := plan.PointsClawback
	credits := plan.CreditsRestore
	if left := o.Totals.EarnedPoints - clawedBefore; plan.FullyRefunded || clawback > left {
		clawback = max(left, 0)
	}
	if left := o.Totals.CreditsUsed.Sub(restoredBefore); plan.FullyRefunded || credits.GreaterThan(left) {
		credits = decimal.Max(left, decimal.Zero)
	}

	// --- Update the order ---
	linesJSON, err := json.Marshal(plan.UpdatedLines)
	if err != nil {
		return nil, fmt.Errorf("encode lines: %w", err)
	}
	refundedAmount := o.RefundedAmount.Add(plan.Amount)
	updated, err := store.UpdateKotOrderRefund(ctx, database.UpdateKotOrderRefundParams{
		OrderID:        orderID,
		Lines:          linesJSON,
		Refunded:       plan.FullyRefunded,
		RefundedAmount: decimalToNumeric(refundedAmount),
	})
	if err != nil {
		return nil, fmt.Errorf("update order refund: %w", err)
	}

	// --- Restock ---
	for i, l := range plan.Lines {
		if err := restockInventory(ctx, store, l.ItemID, l.Quantity); err != nil {
			return nil, fmt.Errorf("line[%d]: %w", i, err)
		}
	}

	// --- Points / credits ---
	taken := decimal.Zero
	switch {
	case o.Party.IsCustomer() && clawback > 0:
		taken, err = NewLedger(store).ReverseRedeem(ctx, o.Party.Phone, clawback, orderID)
		if err != nil {
			return nil, err
		}
	case o.Party.IsEmployee() && credits.IsPositive():
		if _, err := NewLedger(store).Restore(ctx, o.Party.Phone, credits); err != nil {
			return nil, err
		}
	}
	if !o.Party.IsEmployee() {
		credits = decimal.Zero
	}

	// --- Record ---
	refundType := enum.RefundTypePartial
	if plan.FullyRefunded && o.RefundedAmount.IsZero() {
		refundType = enum.RefundTypeFull
	}
	refundLines, err := json.Marshal(plan.Lines)
	if err != nil {
		return nil, fmt.Errorf("encode refund lines: %w", err)
	}
	if !o.Party.IsCustomer() {
		clawback = 0
	}
	rec, err := store.CreateRefund(ctx, database.CreateRefundParams{
		OrderID:          orderID,
		RefundType:       refundType,
		Lines:            refundLines,
		RefundAmount:     decimalToNumeric(plan.Amount),
		PointsClawedBack: clawback,
		CreditsRestored:  decimalToNumeric(credits),
		ProcessedBy:      processedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create refund: %w", err)
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	out, err := orderFromRow(updated)
	if err != nil {
		return nil, err
	}
	result := &RefundResult{
		Refund:         rec,
		Lines:          plan.Lines,
		Amount:         plan.Amount,
		FullyRefunded:  plan.FullyRefunded,
		PointsClawback: taken,
		CreditsRestore: credits,
		Order:          out,
	}

	s.logger.Info("refund processed",
		zap.String("order_id", orderID),
		zap.String("type", refundType),
		zap.String("amount", plan.Amount.StringFixed(2)),
		zap.String("processed_by", processedBy),
	)
	if s.publisher != nil {
		s.publisher.Publish(enum.TopicOrders, enum.EventRefundProcessed, result)
	}
	return result, nil
}
