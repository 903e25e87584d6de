package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CashierServicer defines the service methods needed by till session handlers.
// Satisfied by *service.CashierService; narrow interface for testability.
type CashierServicer interface {
	SignIn(ctx context.Context, cashierID uuid.UUID) (database.CashierAttendance, error)
	OpenTill(ctx context.Context, cashierID uuid.UUID) (database.CashierAttendance, error)
	CloseTill(ctx context.Context, cashierID uuid.UUID) (database.CashierAttendance, error)
	SignOut(ctx context.Context, cashierID uuid.UUID) (database.CashierAttendance, error)
	Status(ctx context.Context, cashierID uuid.UUID) (database.CashierAttendance, error)
}

// CashierHandler handles the signed-in cashier's till session.
type CashierHandler struct {
	svc    CashierServicer
	logger *zap.Logger
}

// NewCashierHandler creates a new CashierHandler.
func NewCashierHandler(svc CashierServicer, logger *zap.Logger) *CashierHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CashierHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers till session endpoints. Expected to be mounted at /cashier.
func (h *CashierHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sign-in", h.action(CashierServicer.SignIn))
	r.Post("/open", h.action(CashierServicer.OpenTill))
	r.Post("/close", h.action(CashierServicer.CloseTill))
	r.Post("/sign-out", h.action(CashierServicer.SignOut))
	r.Get("/status", h.action(CashierServicer.Status))
}

type attendanceResponse struct {
	CashierID  uuid.UUID   `json:"cashier_id"`
	WorkDate   string      `json:"work_date"`
	IsSignedIn bool        `json:"is_signed_in"`
	IsOpen     bool        `json:"is_open"`
	OpenTimes  []time.Time `json:"open_times"`
	CloseTimes []time.Time `json:"close_times"`
}

func toAttendanceResponse(a database.CashierAttendance) attendanceResponse {
	resp := attendanceResponse{
		CashierID:  a.CashierID,
		IsSignedIn: a.IsSignedIn,
		IsOpen:     a.IsOpen,
		OpenTimes:  a.OpenTimes,
		CloseTimes: a.CloseTimes,
	}
	if a.WorkDate.Valid {
		resp.WorkDate = a.WorkDate.Time.Format(time.DateOnly)
	}
	if resp.OpenTimes == nil {
		resp.OpenTimes = []time.Time{}
	}
	if resp.CloseTimes == nil {
		resp.CloseTimes = []time.Time{}
	}
	return resp
}

// action runs one till step for the staff member behind the token.
func (h *CashierHandler) action(fn func(CashierServicer, context.Context, uuid.UUID) (database.CashierAttendance, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			return
		}

		a, err := fn(h.svc, r.Context(), claims.StaffID)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toAttendanceResponse(a))
	}
}
