package handler

import (
	"net/http"

	"github.com/Harsh-n409/bhookie-pos-system/internal/middleware"
	"github.com/Harsh-n409/bhookie-pos-system/internal/refund"
	"github.com/go-chi/chi/v5"
)

type refundSessionResponse struct {
	OrderID string         `json:"order_id"`
	Entries []refund.Entry `json:"entries"`
}

type refundRequest struct {
	Items []refund.Request `json:"items" validate:"required,min=1,dive"`
}

// RefundSession handles GET /orders/{orderId}/refund-session. It lists the
// refundable entries of the order with their remaining quantities.
func (h *OrderHandler) RefundSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.refunds.Open(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	entries := s.Entries
	if entries == nil {
		entries = []refund.Entry{}
	}
	writeJSON(w, http.StatusOK, refundSessionResponse{OrderID: s.OrderID, Entries: entries})
}

// Refund handles POST /orders/{orderId}/refunds.
func (h *OrderHandler) Refund(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req refundRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.refunds.Refund(r.Context(), chi.URLParam(r, "orderId"), req.Items, claims.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// RefundFull handles POST /orders/{orderId}/refunds/full.
func (h *OrderHandler) RefundFull(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	res, err := h.refunds.RefundEntireOrder(r.Context(), chi.URLParam(r, "orderId"), claims.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
