package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createRefund = `-- name: CreateRefund :one
INSERT INTO refunds (order_id, refund_type, lines, refund_amount, points_clawed_back, credits_restored, processed_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, order_id, refund_type, lines, refund_amount, points_clawed_back, credits_restored, processed_by, created_at
`

type CreateRefundParams struct {
	OrderID          string         `json:"order_id"`
	RefundType       string         `json:"refund_type"`
	Lines            []byte         `json:"lines"`
	RefundAmount     pgtype.Numeric `json:"refund_amount"`
	PointsClawedBack int32          `json:"points_clawed_back"`
	CreditsRestored  pgtype.Numeric `json:"credits_restored"`
	ProcessedBy      string         `json:"processed_by"`
}

func (q *Queries) CreateRefund(ctx context.Context, arg CreateRefundParams) (Refund, error) {
	row := q.db.QueryRow(ctx, createRefund,
		arg.OrderID,
		arg.RefundType,
		arg.Lines,
		arg.RefundAmount,
		arg.PointsClawedBack,
		arg.CreditsRestored,
		arg.ProcessedBy,
	)
	var i Refund
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.RefundType,
		&i.Lines,
		&i.RefundAmount,
		&i.PointsClawedBack,
		&i.CreditsRestored,
		&i.ProcessedBy,
		&i.CreatedAt,
	)
	return i, err
}

const listRefundsByOrder = `-- name: ListRefundsByOrder :many
SELECT id, order_id, refund_type, lines, refund_amount, points_clawed_back, credits_restored, processed_by, created_at
FROM refunds
WHERE order_id = $1
ORDER BY created_at
`

func (q *Queries) ListRefundsByOrder(ctx context.Context, orderID string) ([]Refund, error) {
	rows, err := q.db.Query(ctx, listRefundsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Refund
	for rows.Next() {
		var i Refund
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.RefundType,
			&i.Lines,
			&i.RefundAmount,
			&i.PointsClawedBack,
			&i.CreditsRestored,
			&i.ProcessedBy,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
