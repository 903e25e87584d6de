package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const kotOrderColumns = `order_id, order_date, lines, subtotal, offer_discount, loyalty_discount, discount, total,
    party_kind, party_phone, party_id, party_name, credits_used, cash_paid, earned_points, points_redeemed,
    order_type, payment_methods, change_due, status, refunded, refunded_amount, cashier, pending_order_id, created_at`

func scanKotOrder(row interface{ Scan(dest ...any) error }) (KotOrder, error) {
	var i KotOrder
	err := row.Scan(
		&i.OrderID,
		&i.OrderDate,
		&i.Lines,
		&i.Subtotal,
		&i.OfferDiscount,
		&i.LoyaltyDiscount,
		&i.Discount,
		&i.Total,
		&i.PartyKind,
		&i.PartyPhone,
		&i.PartyID,
		&i.PartyName,
		&i.CreditsUsed,
		&i.CashPaid,
		&i.EarnedPoints,
		&i.PointsRedeemed,
		&i.OrderType,
		&i.PaymentMethods,
		&i.ChangeDue,
		&i.Status,
		&i.Refunded,
		&i.RefundedAmount,
		&i.Cashier,
		&i.PendingOrderID,
		&i.CreatedAt,
	)
	return i, err
}

const countKotOrdersForDate = `-- name: CountKotOrdersForDate :one
SELECT count(*) FROM kot_orders WHERE order_date = $1
`

func (q *Queries) CountKotOrdersForDate(ctx context.Context, orderDate pgtype.Date) (int64, error) {
	row := q.db.QueryRow(ctx, countKotOrdersForDate, orderDate)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createKotOrder = `-- name: CreateKotOrder :one
INSERT INTO kot_orders (
    order_id, order_date, lines, subtotal, offer_discount, loyalty_discount, discount, total,
    party_kind, party_phone, party_id, party_name, credits_used, cash_paid, earned_points, points_redeemed,
    order_type, payment_methods, change_due, status, cashier, pending_order_id
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8,
    $9, $10, $11, $12, $13, $14, $15, $16,
    $17, $18, $19, $20, $21, $22
)
RETURNING ` + kotOrderColumns

type CreateKotOrderParams struct {
	OrderID         string         `json:"order_id"`
	OrderDate       pgtype.Date    `json:"order_date"`
	Lines           []byte         `json:"lines"`
	Subtotal        pgtype.Numeric `json:"subtotal"`
	OfferDiscount   pgtype.Numeric `json:"offer_discount"`
	LoyaltyDiscount pgtype.Numeric `json:"loyalty_discount"`
	Discount        pgtype.Numeric `json:"discount"`
	Total           pgtype.Numeric `json:"total"`
	PartyKind       string         `json:"party_kind"`
	PartyPhone      pgtype.Text    `json:"party_phone"`
	PartyID         pgtype.Text    `json:"party_id"`
	PartyName       pgtype.Text    `json:"party_name"`
	CreditsUsed     pgtype.Numeric `json:"credits_used"`
	CashPaid        pgtype.Numeric `json:"cash_paid"`
	EarnedPoints    int32          `json:"earned_points"`
	PointsRedeemed  pgtype.Numeric `json:"points_redeemed"`
	OrderType       string         `json:"order_type"`
	PaymentMethods  []string       `json:"payment_methods"`
	ChangeDue       pgtype.Numeric `json:"change_due"`
	Status          string         `json:"status"`
	Cashier         string         `json:"cashier"`
	PendingOrderID  pgtype.UUID    `json:"pending_order_id"`
}

func (q *Queries) CreateKotOrder(ctx context.Context, arg CreateKotOrderParams) (KotOrder, error) {
	row := q.db.QueryRow(ctx, createKotOrder,
		arg.OrderID,
		arg.OrderDate,
		arg.Lines,
		arg.Subtotal,
		arg.OfferDiscount,
		arg.LoyaltyDiscount,
		arg.Discount,
		arg.Total,
		arg.PartyKind,
		arg.PartyPhone,
		arg.PartyID,
		arg.PartyName,
		arg.CreditsUsed,
		arg.CashPaid,
		arg.EarnedPoints,
		arg.PointsRedeemed,
		arg.OrderType,
		arg.PaymentMethods,
		arg.ChangeDue,
		arg.Status,
		arg.Cashier,
		arg.PendingOrderID,
	)
	return scanKotOrder(row)
}

const getKotOrder = `-- name: GetKotOrder :one
SELECT ` + kotOrderColumns + `
FROM kot_orders
WHERE order_id = $1
`

func (q *Queries) GetKotOrder(ctx context.Context, orderID string) (KotOrder, error) {
	return scanKotOrder(q.db.QueryRow(ctx, getKotOrder, orderID))
}

const getKotOrderForUpdate = `-- name: GetKotOrderForUpdate :one
SELECT ` + kotOrderColumns + `
FROM kot_orders
WHERE order_id = $1
FOR UPDATE
`

func (q *Queries) GetKotOrderForUpdate(ctx context.Context, orderID string) (KotOrder, error) {
	return scanKotOrder(q.db.QueryRow(ctx, getKotOrderForUpdate, orderID))
}

const listKotOrdersByDate = `-- name: ListKotOrdersByDate :many
SELECT ` + kotOrderColumns + `
FROM kot_orders
WHERE order_date = $1
ORDER BY order_id
`

func (q *Queries) ListKotOrdersByDate(ctx context.Context, orderDate pgtype.Date) ([]KotOrder, error) {
	rows, err := q.db.Query(ctx, listKotOrdersByDate, orderDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []KotOrder
	for rows.Next() {
		i, err := scanKotOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateKotOrderRefund = `-- name: UpdateKotOrderRefund :one
UPDATE kot_orders
SET lines = $2, refunded = $3, refunded_amount = $4
WHERE order_id = $1
RETURNING ` + kotOrderColumns

type UpdateKotOrderRefundParams struct {
	OrderID        string         `json:"order_id"`
	Lines          []byte         `json:"lines"`
	Refunded       bool           `json:"refunded"`
	RefundedAmount pgtype.Numeric `json:"refunded_amount"`
}

func (q *Queries) UpdateKotOrderRefund(ctx context.Context, arg UpdateKotOrderRefundParams) (KotOrder, error) {
	row := q.db.QueryRow(ctx, updateKotOrderRefund,
		arg.OrderID,
		arg.Lines,
		arg.Refunded,
		arg.RefundedAmount,
	)
	return scanKotOrder(row)
}
