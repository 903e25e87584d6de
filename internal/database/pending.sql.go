package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const completePendingOrder = `-- name: CompletePendingOrder :one
UPDATE pending_orders
SET status = 'COMPLETED', order_id = $2
WHERE id = $1 AND status = 'PENDING'
RETURNING id, snapshot, status, order_id, created_by, created_at, expires_at
`

type CompletePendingOrderParams struct {
	ID      uuid.UUID   `json:"id"`
	OrderID pgtype.Text `json:"order_id"`
}

func (q *Queries) CompletePendingOrder(ctx context.Context, arg CompletePendingOrderParams) (PendingOrder, error) {
	row := q.db.QueryRow(ctx, completePendingOrder, arg.ID, arg.OrderID)
	var i PendingOrder
	err := row.Scan(
		&i.ID,
		&i.Snapshot,
		&i.Status,
		&i.OrderID,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.ExpiresAt,
	)
	return i, err
}

const createPendingOrder = `-- name: CreatePendingOrder :one
INSERT INTO pending_orders (id, snapshot, created_by, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING id, snapshot, status, order_id, created_by, created_at, expires_at
`

type CreatePendingOrderParams struct {
	ID        uuid.UUID          `json:"id"`
	Snapshot  []byte             `json:"snapshot"`
	CreatedBy string             `json:"created_by"`
	ExpiresAt pgtype.Timestamptz `json:"expires_at"`
}

func (q *Queries) CreatePendingOrder(ctx context.Context, arg CreatePendingOrderParams) (PendingOrder, error) {
	row := q.db.QueryRow(ctx, createPendingOrder,
		arg.ID,
		arg.Snapshot,
		arg.CreatedBy,
		arg.ExpiresAt,
	)
	var i PendingOrder
	err := row.Scan(
		&i.ID,
		&i.Snapshot,
		&i.Status,
		&i.OrderID,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.ExpiresAt,
	)
	return i, err
}

const getPendingOrder = `-- name: GetPendingOrder :one
SELECT id, snapshot, status, order_id, created_by, created_at, expires_at
FROM pending_orders
WHERE id = $1
`

func (q *Queries) GetPendingOrder(ctx context.Context, id uuid.UUID) (PendingOrder, error) {
	row := q.db.QueryRow(ctx, getPendingOrder, id)
	var i PendingOrder
	err := row.Scan(
		&i.ID,
		&i.Snapshot,
		&i.Status,
		&i.OrderID,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.ExpiresAt,
	)
	return i, err
}

const listActivePendingOrders = `-- name: ListActivePendingOrders :many
SELECT id, snapshot, status, order_id, created_by, created_at, expires_at
FROM pending_orders
WHERE status = 'PENDING' AND expires_at > $1
ORDER BY created_at
`

func (q *Queries) ListActivePendingOrders(ctx context.Context, now pgtype.Timestamptz) ([]PendingOrder, error) {
	rows, err := q.db.Query(ctx, listActivePendingOrders, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PendingOrder
	for rows.Next() {
		var i PendingOrder
		if err := rows.Scan(
			&i.ID,
			&i.Snapshot,
			&i.Status,
			&i.OrderID,
			&i.CreatedBy,
			&i.CreatedAt,
			&i.ExpiresAt,
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

const updatePendingOrderSnapshot = `-- name: UpdatePendingOrderSnapshot :one
UPDATE pending_orders
SET snapshot = $2, expires_at = $3
WHERE id = $1 AND status = 'PENDING'
RETURNING id, snapshot, status, order_id, created_by, created_at, expires_at
`

type UpdatePendingOrderSnapshotParams struct {
	ID        uuid.UUID          `json:"id"`
	Snapshot  []byte             `json:"snapshot"`
	ExpiresAt pgtype.Timestamptz `json:"expires_at"`
}

func (q *Queries) UpdatePendingOrderSnapshot(ctx context.Context, arg UpdatePendingOrderSnapshotParams) (PendingOrder, error) {
	row := q.db.QueryRow(ctx, updatePendingOrderSnapshot, arg.ID, arg.Snapshot, arg.ExpiresAt)
	var i PendingOrder
	err := row.Scan(
		&i.ID,
		&i.Snapshot,
		&i.Status,
		&i.OrderID,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.ExpiresAt,
	)
	return i, err
}
