package database

import (
	"context"

	"github.com/google/uuid"
)

const createStaff = `-- name: CreateStaff :one
INSERT INTO staff (username, full_name, pin_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING id, username, full_name, pin_hash, role, is_active, created_at
`

type CreateStaffParams struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	PinHash  string `json:"pin_hash"`
	Role     string `json:"role"`
}

func (q *Queries) CreateStaff(ctx context.Context, arg CreateStaffParams) (Staff, error) {
	row := q.db.QueryRow(ctx, createStaff,
		arg.Username,
		arg.FullName,
		arg.PinHash,
		arg.Role,
	)
	var i Staff
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.FullName,
		&i.PinHash,
		&i.Role,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const getStaffByID = `-- name: GetStaffByID :one
SELECT id, username, full_name, pin_hash, role, is_active, created_at
FROM staff
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetStaffByID(ctx context.Context, id uuid.UUID) (Staff, error) {
	row := q.db.QueryRow(ctx, getStaffByID, id)
	var i Staff
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.FullName,
		&i.PinHash,
		&i.Role,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const getStaffByUsername = `-- name: GetStaffByUsername :one
SELECT id, username, full_name, pin_hash, role, is_active, created_at
FROM staff
WHERE username = $1 AND is_active = true
`

func (q *Queries) GetStaffByUsername(ctx context.Context, username string) (Staff, error) {
	row := q.db.QueryRow(ctx, getStaffByUsername, username)
	var i Staff
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.FullName,
		&i.PinHash,
		&i.Role,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}
