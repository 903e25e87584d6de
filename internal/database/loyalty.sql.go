package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLoyaltyHistory = `-- name: CreateLoyaltyHistory :one
INSERT INTO loyalty_history (customer_id, entry_type, points, order_id)
VALUES ($1, $2, $3, $4)
RETURNING id, customer_id, entry_type, points, order_id, created_at
`

type CreateLoyaltyHistoryParams struct {
	CustomerID string         `json:"customer_id"`
	EntryType  string         `json:"entry_type"`
	Points     pgtype.Numeric `json:"points"`
	OrderID    string         `json:"order_id"`
}

func (q *Queries) CreateLoyaltyHistory(ctx context.Context, arg CreateLoyaltyHistoryParams) (LoyaltyHistory, error) {
	row := q.db.QueryRow(ctx, createLoyaltyHistory,
		arg.CustomerID,
		arg.EntryType,
		arg.Points,
		arg.OrderID,
	)
	var i LoyaltyHistory
	err := row.Scan(
		&i.ID,
		&i.CustomerID,
		&i.EntryType,
		&i.Points,
		&i.OrderID,
		&i.CreatedAt,
	)
	return i, err
}

const listLoyaltyHistoryByCustomer = `-- name: ListLoyaltyHistoryByCustomer :many
SELECT id, customer_id, entry_type, points, order_id, created_at
FROM loyalty_history
WHERE customer_id = $1
ORDER BY created_at DESC
LIMIT $2
`

type ListLoyaltyHistoryByCustomerParams struct {
	CustomerID string `json:"customer_id"`
	Limit      int32  `json:"limit"`
}

func (q *Queries) ListLoyaltyHistoryByCustomer(ctx context.Context, arg ListLoyaltyHistoryByCustomerParams) ([]LoyaltyHistory, error) {
	rows, err := q.db.Query(ctx, listLoyaltyHistoryByCustomer, arg.CustomerID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LoyaltyHistory
	for rows.Next() {
		var i LoyaltyHistory
		if err := rows.Scan(
			&i.ID,
			&i.CustomerID,
			&i.EntryType,
			&i.Points,
			&i.OrderID,
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
