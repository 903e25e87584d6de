package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	maxOrderIDRetries = 3
	maxDailySequence  = 999
)

// OrderIDStore counts the orders already committed on a day.
type OrderIDStore interface {
	CountKotOrdersForDate(ctx context.Context, orderDate pgtype.Date) (int64, error)
}

// FormatOrderID renders YYMMDD followed by the 3-digit daily sequence.
func FormatOrderID(day time.Time, seq int64) string {
	return day.Format("060102") + fmt.Sprintf("%03d", seq)
}

// nextOrderID allocates the next id for day. Concurrent commits can pick the
// same sequence; the primary key rejects the loser, which retries.
func nextOrderID(ctx context.Context, store OrderIDStore, day pgtype.Date) (string, error) {
	n, err := store.CountKotOrdersForDate(ctx, day)
	if err != nil {
		return "", fmt.Errorf("count orders: %w", err)
	}
	seq := n + 1
	if seq > maxDailySequence {
		return "", ErrOrderSequenceFull
	}
	return FormatOrderID(day.Time, seq), nil
}

// isOrderIDConflict checks if the error is a unique constraint violation
// on the KOT order id (pgconn error code 23505).
func isOrderIDConflict(err error) bool {
	return isUniqueViolation(err, "kot_orders_pkey")
}
