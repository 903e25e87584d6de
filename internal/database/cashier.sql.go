package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CashierAttendanceParams struct {
	CashierID uuid.UUID   `json:"cashier_id"`
	WorkDate  pgtype.Date `json:"work_date"`
}

const closeTill = `-- name: CloseTill :one
UPDATE cashier_attendance
SET is_open = false, close_times = array_append(close_times, now()), updated_at = now()
WHERE cashier_id = $1 AND work_date = $2 AND is_signed_in = true AND is_open = true
RETURNING id, cashier_id, work_date, is_signed_in, is_open, open_times, close_times, updated_at
`

func (q *Queries) CloseTill(ctx context.Context, arg CashierAttendanceParams) (CashierAttendance, error) {
	row := q.db.QueryRow(ctx, closeTill, arg.CashierID, arg.WorkDate)
	var i CashierAttendance
	err := row.Scan(
		&i.ID,
		&i.CashierID,
		&i.WorkDate,
		&i.IsSignedIn,
		&i.IsOpen,
		&i.OpenTimes,
		&i.CloseTimes,
		&i.UpdatedAt,
	)
	return i, err
}

const getCashierAttendance = `-- name: GetCashierAttendance :one
SELECT id, cashier_id, work_date, is_signed_in, is_open, open_times, close_times, updated_at
FROM cashier_attendance
WHERE cashier_id = $1 AND work_date = $2
`

func (q *Queries) GetCashierAttendance(ctx context.Context, arg CashierAttendanceParams) (CashierAttendance, error) {
	row := q.db.QueryRow(ctx, getCashierAttendance, arg.CashierID, arg.WorkDate)
	var i CashierAttendance
	err := row.Scan(
		&i.ID,
		&i.CashierID,
		&i.WorkDate,
		&i.IsSignedIn,
		&i.IsOpen,
		&i.OpenTimes,
		&i.CloseTimes,
		&i.UpdatedAt,
	)
	return i, err
}

const hasOpenCashierSession = `-- name: HasOpenCashierSession :one
SELECT EXISTS (
    SELECT 1 FROM cashier_attendance
    WHERE work_date = $1 AND is_signed_in = true AND is_open = true
)
`

func (q *Queries) HasOpenCashierSession(ctx context.Context, workDate pgtype.Date) (bool, error) {
	row := q.db.QueryRow(ctx, hasOpenCashierSession, workDate)
	var open bool
	err := row.Scan(&open)
	return open, err
}

const openTill = `-- name: OpenTill :one
UPDATE cashier_attendance
SET is_open = true, open_times = array_append(open_times, now()), updated_at = now()
WHERE cashier_id = $1 AND work_date = $2 AND is_signed_in = true AND is_open = false
RETURNING id, cashier_id, work_date, is_signed_in, is_open, open_times, close_times, updated_at
`

func (q *Queries) OpenTill(ctx context.Context, arg CashierAttendanceParams) (CashierAttendance, error) {
	row := q.db.QueryRow(ctx, openTill, arg.CashierID, arg.WorkDate)
	var i CashierAttendance
	err := row.Scan(
		&i.ID,
		&i.CashierID,
		&i.WorkDate,
		&i.IsSignedIn,
		&i.IsOpen,
		&i.OpenTimes,
		&i.CloseTimes,
		&i.UpdatedAt,
	)
	return i, err
}

const signInCashier = `-- name: SignInCashier :one
INSERT INTO cashier_attendance (cashier_id, work_date, is_signed_in)
VALUES ($1, $2, true)
ON CONFLICT (cashier_id, work_date) DO UPDATE SET is_signed_in = true, updated_at = now()
RETURNING id, cashier_id, work_date, is_signed_in, is_open, open_times, close_times, updated_at
`

func (q *Queries) SignInCashier(ctx context.Context, arg CashierAttendanceParams) (CashierAttendance, error) {
	row := q.db.QueryRow(ctx, signInCashier, arg.CashierID, arg.WorkDate)
	var i CashierAttendance
	err := row.Scan(
		&i.ID,
		&i.CashierID,
		&i.WorkDate,
		&i.IsSignedIn,
		&i.IsOpen,
		&i.OpenTimes,
		&i.CloseTimes,
		&i.UpdatedAt,
	)
	return i, err
}

const signOutCashier = `-- name: SignOutCashier :one
UPDATE cashier_attendance
SET is_signed_in = false, updated_at = now()
WHERE cashier_id = $1 AND work_date = $2 AND is_signed_in = true AND is_open = false
RETURNING id, cashier_id, work_date, is_signed_in, is_open, open_times, close_times, updated_at
`

func (q *Queries) SignOutCashier(ctx context.Context, arg CashierAttendanceParams) (CashierAttendance, error) {
	row := q.db.QueryRow(ctx, signOutCashier, arg.CashierID, arg.WorkDate)
	var i CashierAttendance
	err := row.Scan(
		&i.ID,
		&i.CashierID,
		&i.WorkDate,
		&i.IsSignedIn,
		&i.IsOpen,
		&i.OpenTimes,
		&i.CloseTimes,
		&i.UpdatedAt,
	)
	return i, err
}
