package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/Harsh-n409/bhookie-pos-system/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CustomerServicer defines the service methods needed by customer handlers.
// Satisfied by *service.CustomerService; narrow interface for testability.
type CustomerServicer interface {
	Register(ctx context.Context, req service.RegisterCustomerRequest) (database.Customer, error)
	Customer(ctx context.Context, phone string) (order.Party, error)
	Employee(ctx context.Context, phone string) (order.Party, error)
}

// LoyaltyHistoryStore defines the database methods needed to list point
// movements. Satisfied by *database.Queries.
type LoyaltyHistoryStore interface {
	ListLoyaltyHistoryByCustomer(ctx context.Context, arg database.ListLoyaltyHistoryByCustomerParams) ([]database.LoyaltyHistory, error)
}

// CustomerHandler handles loyalty customer and employee lookup endpoints.
type CustomerHandler struct {
	svc    CustomerServicer
	store  LoyaltyHistoryStore
	logger *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(svc CustomerServicer, store LoyaltyHistoryStore, logger *zap.Logger) *CustomerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerHandler{svc: svc, store: store, logger: logger}
}

// RegisterRoutes registers customer endpoints. Expected to be mounted at /customers.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Register)
	r.Get("/{phone}", h.Lookup)
	r.Get("/{phone}/loyalty-history", h.History)
}

// RegisterEmployeeRoutes registers employee lookups. Expected to be mounted at /employees.
func (h *CustomerHandler) RegisterEmployeeRoutes(r chi.Router) {
	r.Get("/{phone}", h.LookupEmployee)
}

// --- Request / Response types ---

type registerCustomerRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

type customerResponse struct {
	Phone      string `json:"phone"`
	CustomerID string `json:"customer_id"`
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Points     string `json:"points"`
}

type loyaltyEntryResponse struct {
	EntryType string `json:"entry_type"`
	Points    string `json:"points"`
	OrderID   string `json:"order_id"`
	CreatedAt string `json:"created_at"`
}

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// --- Handlers ---

// Register handles POST /customers.
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.svc.Register(r.Context(), service.RegisterCustomerRequest{Phone: req.Phone, Name: req.Name})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, customerResponse{
		Phone:      c.Phone,
		CustomerID: c.CustomerID,
		UserID:     c.UserID,
		Name:       c.Name,
		Points:     numericString(c.Points),
	})
}

// Lookup handles GET /customers/{phone}.
func (h *CustomerHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Customer(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// LookupEmployee handles GET /employees/{phone}. Only employees clocked in
// today are returned.
func (h *CustomerHandler) LookupEmployee(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Employee(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// History handles GET /customers/{phone}/loyalty-history?limit=N.
func (h *CustomerHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	p, err := h.svc.Customer(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	rows, err := h.store.ListLoyaltyHistoryByCustomer(r.Context(), database.ListLoyaltyHistoryByCustomerParams{
		CustomerID: p.ID,
		Limit:      int32(limit),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := make([]loyaltyEntryResponse, len(rows))
	for i, row := range rows {
		resp[i] = loyaltyEntryResponse{
			EntryType: row.EntryType,
			Points:    numericString(row.Points),
			OrderID:   row.OrderID,
			CreatedAt: row.CreatedAt.Time.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func numericString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	return decimal.NewFromBigInt(n.Int, n.Exp).StringFixed(2)
}
