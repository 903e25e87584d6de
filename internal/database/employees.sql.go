package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const clockInEmployee = `-- name: ClockInEmployee :exec
INSERT INTO employee_attendance (phone, work_date, is_clocked_in)
VALUES ($1, $2, true)
ON CONFLICT (phone, work_date) DO UPDATE SET is_clocked_in = true
`

type ClockInEmployeeParams struct {
	Phone    string      `json:"phone"`
	WorkDate pgtype.Date `json:"work_date"`
}

func (q *Queries) ClockInEmployee(ctx context.Context, arg ClockInEmployeeParams) error {
	_, err := q.db.Exec(ctx, clockInEmployee, arg.Phone, arg.WorkDate)
	return err
}

const createEmployee = `-- name: CreateEmployee :one
INSERT INTO employees (phone, employee_id, name, meal_credits, default_meal_credits)
VALUES ($1, $2, $3, $4, $4)
ON CONFLICT (phone) DO UPDATE SET name = EXCLUDED.name, meal_credits = EXCLUDED.meal_credits,
    default_meal_credits = EXCLUDED.default_meal_credits, updated_at = now()
RETURNING phone, employee_id, name, meal_credits, default_meal_credits, updated_at
`

type CreateEmployeeParams struct {
	Phone       string         `json:"phone"`
	EmployeeID  string         `json:"employee_id"`
	Name        string         `json:"name"`
	MealCredits pgtype.Numeric `json:"meal_credits"`
}

func (q *Queries) CreateEmployee(ctx context.Context, arg CreateEmployeeParams) (Employee, error) {
	row := q.db.QueryRow(ctx, createEmployee,
		arg.Phone,
		arg.EmployeeID,
		arg.Name,
		arg.MealCredits,
	)
	var i Employee
	err := row.Scan(
		&i.Phone,
		&i.EmployeeID,
		&i.Name,
		&i.MealCredits,
		&i.DefaultMealCredits,
		&i.UpdatedAt,
	)
	return i, err
}

const getEmployeeByPhone = `-- name: GetEmployeeByPhone :one
SELECT phone, employee_id, name, meal_credits, default_meal_credits, updated_at
FROM employees
WHERE phone = $1
`

func (q *Queries) GetEmployeeByPhone(ctx context.Context, phone string) (Employee, error) {
	row := q.db.QueryRow(ctx, getEmployeeByPhone, phone)
	var i Employee
	err := row.Scan(
		&i.Phone,
		&i.EmployeeID,
		&i.Name,
		&i.MealCredits,
		&i.DefaultMealCredits,
		&i.UpdatedAt,
	)
	return i, err
}

const getEmployeeByPhoneForUpdate = `-- name: GetEmployeeByPhoneForUpdate :one
SELECT phone, employee_id, name, meal_credits, default_meal_credits, updated_at
FROM employees
WHERE phone = $1
FOR UPDATE
`

func (q *Queries) GetEmployeeByPhoneForUpdate(ctx context.Context, phone string) (Employee, error) {
	row := q.db.QueryRow(ctx, getEmployeeByPhoneForUpdate, phone)
	var i Employee
	err := row.Scan(
		&i.Phone,
		&i.EmployeeID,
		&i.Name,
		&i.MealCredits,
		&i.DefaultMealCredits,
		&i.UpdatedAt,
	)
	return i, err
}

const isEmployeeClockedIn = `-- name: IsEmployeeClockedIn :one
SELECT EXISTS (
    SELECT 1 FROM employee_attendance
    WHERE phone = $1 AND work_date = $2 AND is_clocked_in = true
)
`

type IsEmployeeClockedInParams struct {
	Phone    string      `json:"phone"`
	WorkDate pgtype.Date `json:"work_date"`
}

func (q *Queries) IsEmployeeClockedIn(ctx context.Context, arg IsEmployeeClockedInParams) (bool, error) {
	row := q.db.QueryRow(ctx, isEmployeeClockedIn, arg.Phone, arg.WorkDate)
	var clockedIn bool
	err := row.Scan(&clockedIn)
	return clockedIn, err
}

const updateMealCredits = `-- name: UpdateMealCredits :one
UPDATE employees
SET meal_credits = $2, updated_at = now()
WHERE phone = $1
RETURNING phone, employee_id, name, meal_credits, default_meal_credits, updated_at
`

type UpdateMealCreditsParams struct {
	Phone       string         `json:"phone"`
	MealCredits pgtype.Numeric `json:"meal_credits"`
}

func (q *Queries) UpdateMealCredits(ctx context.Context, arg UpdateMealCreditsParams) (Employee, error) {
	row := q.db.QueryRow(ctx, updateMealCredits, arg.Phone, arg.MealCredits)
	var i Employee
	err := row.Scan(
		&i.Phone,
		&i.EmployeeID,
		&i.Name,
		&i.MealCredits,
		&i.DefaultMealCredits,
		&i.UpdatedAt,
	)
	return i, err
}
