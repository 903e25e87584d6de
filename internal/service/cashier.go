package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// CashierStore defines the DB methods for till sessions.
// Satisfied by *database.Queries.
type CashierStore interface {
	SignInCashier(ctx context.Context, arg database.CashierAttendanceParams) (database.CashierAttendance, error)
	OpenTill(ctx context.Context, arg database.CashierAttendanceParams) (database.CashierAttendance, error)
	CloseTill(ctx context.Context, arg database.CashierAttendanceParams) (database.CashierAttendance, error)
	SignOutCashier(ctx context.Context, arg database.CashierAttendanceParams) (database.CashierAttendance, error)
	GetCashierAttendance(ctx context.Context, arg database.CashierAttendanceParams) (database.CashierAttendance, error)
	HasOpenCashierSession(ctx context.Context, workDate pgtype.Date) (bool, error)
}

// CashierService tracks cashier sign-in and till open/close times for the
// shop day.
type CashierService struct {
	store CashierStore
	loc   *time.Location
	now   func() time.Time
}

func NewCashierService(store CashierStore, loc *time.Location) *CashierService {
	return &CashierService{store: store, loc: loc, now: time.Now}
}

func (s *CashierService) params(cashierID uuid.UUID) database.CashierAttendanceParams {
	return database.CashierAttendanceParams{CashierID: cashierID, WorkDate: dateIn(s.now(), s.loc)}
}

func (s *CashierService) SignIn(ctx context.Context, cashierID uuid.UUID) (database.CashierAttendance, error) {
	a, err := s.store.SignInCashier(ctx, s.params(cashierID))
	if err != nil {
		return database.CashierAttendance{}, fmt.Errorf("sign in: %w", err)
	}
	return a, nil
}

// OpenTill requires a signed-in cashier with a closed till.
func (s *CashierService) OpenTill(ctx context.Context, cashierID uuid.UUID) (database.CashierAttendance, error) {
	a, err := s.store.OpenTill(ctx, s.params(cashierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.CashierAttendance{}, s.explain(ctx, cashierID, ErrTillAlreadyOpen)
		}
		return database.CashierAttendance{}, fmt.Errorf("open till: %w", err)
	}
	return a, nil
}

func (s *CashierService) CloseTill(ctx context.Context, cashierID uuid.UUID) (database.CashierAttendance, error) {
	a, err := s.store.CloseTill(ctx, s.params(cashierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.CashierAttendance{}, s.explain(ctx, cashierID, ErrTillNotOpen)
		}
		return database.CashierAttendance{}, fmt.Errorf("close till: %w", err)
	}
	return a, nil
}

// SignOut requires the till to be closed first.
func (s *CashierService) SignOut(ctx context.Context, cashierID uuid.UUID) (database.CashierAttendance, error) {
	a, err := s.store.SignOutCashier(ctx, s.params(cashierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.CashierAttendance{}, s.explain(ctx, cashierID, ErrTillStillOpen)
		}
		return database.CashierAttendance{}, fmt.Errorf("sign out: %w", err)
	}
	return a, nil
}

func (s *CashierService) Status(ctx context.Context, cashierID uuid.UUID) (database.CashierAttendance, error) {
	a, err := s.store.GetCashierAttendance(ctx, s.params(cashierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.CashierAttendance{CashierID: cashierID, WorkDate: dateIn(s.now(), s.loc)}, nil
		}
		return database.CashierAttendance{}, fmt.Errorf("get attendance: %w", err)
	}
	return a, nil
}

// IsSessionOpen reports whether any cashier is signed in with an open till.
func (s *CashierService) IsSessionOpen(ctx context.Context) (bool, error) {
	ok, err := s.store.HasOpenCashierSession(ctx, dateIn(s.now(), s.loc))
	if err != nil {
		return false, fmt.Errorf("check cashier session: %w", err)
	}
	return ok, nil
}

// explain turns a guarded update that matched nothing into the reason.
func (s *CashierService) explain(ctx context.Context, cashierID uuid.UUID, otherwise error) error {
	a, err := s.store.GetCashierAttendance(ctx, s.params(cashierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotSignedIn
		}
		return fmt.Errorf("get attendance: %w", err)
	}
	if !a.IsSignedIn {
		return ErrNotSignedIn
	}
	return otherwise
}
