package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/handler"
	"github.com/Harsh-n409/bhookie-pos-system/internal/middleware"
	"github.com/Harsh-n409/bhookie-pos-system/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Mock CashierServicer ---

// mockCashierService records the last call and returns a canned result.
type mockCashierService struct {
	calls []string
	ids   []uuid.UUID
	err   error
}

func (m *mockCashierService) record(op string, id uuid.UUID, open bool) (database.CashierAttendance, error) {
	m.calls = append(m.calls, op)
	m.ids = append(m.ids, id)
	if m.err != nil {
		return database.CashierAttendance{}, m.err
	}
	return database.CashierAttendance{
		CashierID:  id,
		WorkDate:   pgtype.Date{Time: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		IsSignedIn: true,
		IsOpen:     open,
	}, nil
}

func (m *mockCashierService) SignIn(_ context.Context, id uuid.UUID) (database.CashierAttendance, error) {
	return m.record("sign-in", id, false)
}

func (m *mockCashierService) OpenTill(_ context.Context, id uuid.UUID) (database.CashierAttendance, error) {
	return m.record("open", id, true)
}

func (m *mockCashierService) CloseTill(_ context.Context, id uuid.UUID) (database.CashierAttendance, error) {
	return m.record("close", id, false)
}

func (m *mockCashierService) SignOut(_ context.Context, id uuid.UUID) (database.CashierAttendance, error) {
	return m.record("sign-out", id, false)
}

func (m *mockCashierService) Status(_ context.Context, id uuid.UUID) (database.CashierAttendance, error) {
	return m.record("status", id, false)
}

func setupCashierRouter(svc *mockCashierService) *chi.Mux {
	h := handler.NewCashierHandler(svc, nil)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/cashier", h.RegisterRoutes)
	return r
}

// --- Tests ---

func TestCashierRoutes(t *testing.T) {
	svc := &mockCashierService{}
	router := setupCashierRouter(svc)
	claims := cashierClaims()

	steps := []struct {
		method, path, op string
	}{
		{"POST", "/cashier/sign-in", "sign-in"},
		{"POST", "/cashier/open", "open"},
		{"POST", "/cashier/close", "close"},
		{"POST", "/cashier/sign-out", "sign-out"},
		{"GET", "/cashier/status", "status"},
	}
	for i, s := range steps {
		rr := doAuthRequest(t, router, s.method, s.path, nil, claims)
		expectStatus(t, rr, http.StatusOK)
		if svc.calls[i] != s.op || svc.ids[i] != claims.StaffID {
			t.Errorf("%s: got %s for %s", s.path, svc.calls[i], svc.ids[i])
		}
	}

	rr := doAuthRequest(t, router, "POST", "/cashier/open", nil, claims)
	resp := decodeResponse(t, rr)
	if resp["work_date"] != "2025-01-01" || resp["is_open"] != true {
		t.Errorf("attendance: %v", resp)
	}
	if times, ok := resp["close_times"].([]interface{}); !ok || len(times) != 0 {
		t.Errorf("close_times should be an empty list: %v", resp["close_times"])
	}
}

func TestCashierRoutes_Errors(t *testing.T) {
	tests := []struct {
		path string
		err  error
	}{
		{"/cashier/open", service.ErrNotSignedIn},
		{"/cashier/open", service.ErrTillAlreadyOpen},
		{"/cashier/close", service.ErrTillNotOpen},
		{"/cashier/sign-out", service.ErrTillStillOpen},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			router := setupCashierRouter(&mockCashierService{err: tt.err})
			rr := doAuthRequest(t, router, "POST", tt.path, nil, cashierClaims())
			expectStatus(t, rr, http.StatusConflict)
		})
	}
}

func TestCashierRoutes_NoAuth(t *testing.T) {
	router := setupCashierRouter(&mockCashierService{})

	rr := doRequest(t, router, "POST", "/cashier/sign-in", nil)
	expectStatus(t, rr, http.StatusUnauthorized)
}
