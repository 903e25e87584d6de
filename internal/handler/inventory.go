package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/Harsh-n409/bhookie-pos-system/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// InventoryServicer defines the service methods needed by inventory handlers.
// Satisfied by *service.InventoryService; narrow interface for testability.
type InventoryServicer interface {
	CheckAvailability(ctx context.Context, lines []order.LineItem) ([]service.Shortfall, error)
	StockLevel(ctx context.Context, itemID string) (int32, error)
}

// InventoryHandler answers stock questions for the till.
type InventoryHandler struct {
	svc    InventoryServicer
	logger *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(svc InventoryServicer, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers inventory endpoints. Expected to be mounted at /inventory.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/availability", h.Availability)
	r.Post("/availability", h.CheckLines)
	r.Get("/{itemId}", h.StockLevel)
}

// --- Request / Response types ---

type availabilityResponse struct {
	ItemID     string              `json:"item_id,omitempty"`
	Requested  int32               `json:"requested,omitempty"`
	Available  bool                `json:"available"`
	Shortfalls []service.Shortfall `json:"shortfalls"`
}

type checkLinesRequest struct {
	Lines []checkLine `json:"lines" validate:"required,min=1,dive"`
}

type checkLine struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int32  `json:"quantity" validate:"gte=1"`
}

type stockLevelResponse struct {
	ItemID      string `json:"item_id"`
	StockOnHand int32  `json:"stock_on_hand"`
}

// --- Handlers ---

// Availability handles GET /inventory/availability?item=ID&qty=N.
func (h *InventoryHandler) Availability(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("item")
	if itemID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "item is required"})
		return
	}
	qty := int32(1)
	if s := r.URL.Query().Get("qty"); s != "" {
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "qty must be a positive integer"})
			return
		}
		qty = int32(n)
	}

	shortfalls, err := h.svc.CheckAvailability(r.Context(), []order.LineItem{{ItemID: itemID, Quantity: qty}})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.respond(w, availabilityResponse{ItemID: itemID, Requested: qty}, shortfalls)
}

// CheckLines handles POST /inventory/availability for a whole basket.
func (h *InventoryHandler) CheckLines(w http.ResponseWriter, r *http.Request) {
	var req checkLinesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lines := make([]order.LineItem, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = order.LineItem{ItemID: l.ItemID, Quantity: l.Quantity}
	}

	shortfalls, err := h.svc.CheckAvailability(r.Context(), lines)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.respond(w, availabilityResponse{}, shortfalls)
}

// StockLevel handles GET /inventory/{itemId}.
func (h *InventoryHandler) StockLevel(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	n, err := h.svc.StockLevel(r.Context(), itemID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stockLevelResponse{ItemID: itemID, StockOnHand: n})
}

func (h *InventoryHandler) respond(w http.ResponseWriter, resp availabilityResponse, shortfalls []service.Shortfall) {
	if shortfalls == nil {
		shortfalls = []service.Shortfall{}
	}
	resp.Available = len(shortfalls) == 0
	resp.Shortfalls = shortfalls
	writeJSON(w, http.StatusOK, resp)
}
