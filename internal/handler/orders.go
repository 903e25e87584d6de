package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/Harsh-n409/bhookie-pos-system/internal/middleware"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/Harsh-n409/bhookie-pos-system/internal/refund"
	"github.com/Harsh-n409/bhookie-pos-system/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderReader defines the service methods needed to browse committed orders.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID string) (*service.OrderDetail, error)
	ListOrders(ctx context.Context, day time.Time) ([]order.Order, error)
	Location() *time.Location
}

// RefundServicer defines the service methods needed by refund handlers.
// Satisfied by *service.RefundService; narrow interface for testability.
type RefundServicer interface {
	Open(ctx context.Context, orderID string) (*refund.Session, error)
	Refund(ctx context.Context, orderID string, reqs []refund.Request, processedBy string) (*service.RefundResult, error)
	RefundEntireOrder(ctx context.Context, orderID, processedBy string) (*service.RefundResult, error)
}

// OrderHandler handles order history and refund endpoints.
type OrderHandler struct {
	orders  OrderReader
	refunds RefundServicer
	logger  *zap.Logger
	now     func() time.Time
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders OrderReader, refunds RefundServicer, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{orders: orders, refunds: refunds, logger: logger, now: time.Now}
}

// RegisterRoutes registers order endpoints. Expected to be mounted at /orders.
// Processing a refund is restricted to managers.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{orderId}", h.Get)
	r.Get("/{orderId}/refund-session", h.RefundSession)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(enum.StaffRoleManager))
		r.Post("/{orderId}/refunds", h.Refund)
		r.Post("/{orderId}/refunds/full", h.RefundFull)
	})
}

// --- Request / Response types ---

type orderListResponse struct {
	Date   string        `json:"date"`
	Orders []order.Order `json:"orders"`
}

// --- Handlers ---

// List handles GET /orders?date=YYYY-MM-DD. The date is a shop-local day and
// defaults to today.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	loc := h.orders.Location()
	day := h.now().In(loc)
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, s, loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	orders, err := h.orders.ListOrders(r.Context(), day)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orderListResponse{Date: day.Format(time.DateOnly), Orders: orders})
}

// Get handles GET /orders/{orderId}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
