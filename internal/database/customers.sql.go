package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCustomer = `-- name: CreateCustomer :one
INSERT INTO customers (phone, customer_id, user_id, name, points)
VALUES ($1, $2, $3, $4, $5)
RETURNING phone, customer_id, user_id, name, points, created_at, updated_at
`

type CreateCustomerParams struct {
	Phone      string         `json:"phone"`
	CustomerID string         `json:"customer_id"`
	UserID     string         `json:"user_id"`
	Name       string         `json:"name"`
	Points     pgtype.Numeric `json:"points"`
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, createCustomer,
		arg.Phone,
		arg.CustomerID,
		arg.UserID,
		arg.Name,
		arg.Points,
	)
	var i Customer
	err := row.Scan(
		&i.Phone,
		&i.CustomerID,
		&i.UserID,
		&i.Name,
		&i.Points,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const customerUserIDExists = `-- name: CustomerUserIDExists :one
SELECT EXISTS (SELECT 1 FROM customers WHERE user_id = $1)
`

func (q *Queries) CustomerUserIDExists(ctx context.Context, userID string) (bool, error) {
	row := q.db.QueryRow(ctx, customerUserIDExists, userID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getCustomerByPhone = `-- name: GetCustomerByPhone :one
SELECT phone, customer_id, user_id, name, points, created_at, updated_at
FROM customers
WHERE phone = $1
`

func (q *Queries) GetCustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomerByPhone, phone)
	var i Customer
	err := row.Scan(
		&i.Phone,
		&i.CustomerID,
		&i.UserID,
		&i.Name,
		&i.Points,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCustomerByPhoneForUpdate = `-- name: GetCustomerByPhoneForUpdate :one
SELECT phone, customer_id, user_id, name, points, created_at, updated_at
FROM customers
WHERE phone = $1
FOR UPDATE
`

func (q *Queries) GetCustomerByPhoneForUpdate(ctx context.Context, phone string) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomerByPhoneForUpdate, phone)
	var i Customer
	err := row.Scan(
		&i.Phone,
		&i.CustomerID,
		&i.UserID,
		&i.Name,
		&i.Points,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getMaxCustomerSequence = `-- name: GetMaxCustomerSequence :one
SELECT COALESCE(MAX(CAST(substring(customer_id FROM 4) AS INTEGER)), 0)::INTEGER
FROM customers
WHERE customer_id ~ '^cus[0-9]+$'
`

func (q *Queries) GetMaxCustomerSequence(ctx context.Context) (int32, error) {
	row := q.db.QueryRow(ctx, getMaxCustomerSequence)
	var seq int32
	err := row.Scan(&seq)
	return seq, err
}

const updateCustomerPoints = `-- name: UpdateCustomerPoints :one
UPDATE customers
SET points = $2, updated_at = now()
WHERE phone = $1
RETURNING phone, customer_id, user_id, name, points, created_at, updated_at
`

type UpdateCustomerPointsParams struct {
	Phone  string         `json:"phone"`
	Points pgtype.Numeric `json:"points"`
}

func (q *Queries) UpdateCustomerPoints(ctx context.Context, arg UpdateCustomerPointsParams) (Customer, error) {
	row := q.db.QueryRow(ctx, updateCustomerPoints, arg.Phone, arg.Points)
	var i Customer
	err := row.Scan(
		&i.Phone,
		&i.CustomerID,
		&i.UserID,
		&i.Name,
		&i.Points,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
