package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/draft"
	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/Harsh-n409/bhookie-pos-system/internal/middleware"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/Harsh-n409/bhookie-pos-system/internal/payment"
	"github.com/Harsh-n409/bhookie-pos-system/internal/receipt"
	"github.com/Harsh-n409/bhookie-pos-system/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftServicer defines the service methods needed by draft handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type DraftServicer interface {
	CreateDraft(createdBy string) *draft.Draft
	GetDraft(id string) (*draft.Draft, error)
	CancelDraft(id string) error
	AddItem(ctx context.Context, id, itemID string, qty int32, sauces []string) (*draft.Draft, error)
	AddUpgrade(ctx context.Context, id, parentLineID, itemID string, qty int32) (*draft.Draft, error)
	SetQuantity(id, lineID string, qty int32) (*draft.Draft, error)
	RemoveLine(id, lineID string) (*draft.Draft, error)
	ApplyOffer(ctx context.Context, id, offerID string) (*draft.Draft, error)
	RemoveOffer(id, offerID string) (*draft.Draft, error)
	SetCustomer(ctx context.Context, id, phone string) (*draft.Draft, error)
	SetEmployee(ctx context.Context, id, phone string) (*draft.Draft, error)
	ClearParty(id string) (*draft.Draft, error)
	SkipParty(id string) (*draft.Draft, error)
	SetOrderType(id, orderType string) (*draft.Draft, error)
	Pay(ctx context.Context, id string) (*draft.Draft, error)
	TakePayment(id string, tenders []payment.Tender) (*draft.Draft, error)
	Commit(ctx context.Context, id, cashier string) (*service.CommitResult, error)
	Store(ctx context.Context, id string) (*service.PendingSummary, error)
	Recall(ctx context.Context, pendingID uuid.UUID, createdBy string) (*draft.Draft, error)
	ListPending(ctx context.Context) ([]service.PendingSummary, error)
	Location() *time.Location
}

// DraftHandler handles the till endpoints: building a draft, paying,
// committing and parking it.
type DraftHandler struct {
	svc    DraftServicer
	logger *zap.Logger
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(svc DraftServicer, logger *zap.Logger) *DraftHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers draft endpoints. Expected to be mounted at /drafts.
func (h *DraftHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Cancel)

	r.Post("/{id}/items", h.AddItem)
	r.Post("/{id}/lines/{lineId}/upgrades", h.AddUpgrade)
	r.Patch("/{id}/lines/{lineId}", h.SetQuantity)
	r.Delete("/{id}/lines/{lineId}", h.RemoveLine)

	r.Post("/{id}/offers", h.ApplyOffer)
	r.Delete("/{id}/offers/{offerId}", h.RemoveOffer)

	r.Put("/{id}/party", h.SetParty)
	r.Delete("/{id}/party", h.ClearParty)
	r.Post("/{id}/party/skip", h.SkipParty)
	r.Put("/{id}/order-type", h.SetOrderType)

	r.Post("/{id}/pay", h.Pay)
	r.Post("/{id}/payments", h.TakePayment)
	r.Post("/{id}/commit", h.Commit)
	r.Post("/{id}/store", h.Store)
}

// RegisterPendingRoutes registers parked order endpoints. Expected to be
// mounted at /pending-orders.
func (h *DraftHandler) RegisterPendingRoutes(r chi.Router) {
	r.Get("/", h.ListPending)
	r.Post("/{pid}/recall", h.Recall)
}

// --- Request / Response types ---

type addItemRequest struct {
	ItemID   string   `json:"item_id" validate:"required"`
	Quantity int32    `json:"quantity" validate:"gte=0"`
	Sauces   []string `json:"sauces"`
}

type addUpgradeRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int32  `json:"quantity" validate:"gte=0"`
}

type setQuantityRequest struct {
	Quantity int32 `json:"quantity" validate:"gte=1"`
}

type applyOfferRequest struct {
	OfferID string `json:"offer_id" validate:"required"`
}

type setPartyRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=CUSTOMER EMPLOYEE"`
	Phone string `json:"phone" validate:"required"`
}

type setOrderTypeRequest struct {
	OrderType string `json:"order_type" validate:"required"`
}

type takePaymentRequest struct {
	Tenders []payment.Tender `json:"tenders" validate:"dive"`
}

type commitResponse struct {
	Order       order.Order     `json:"order"`
	Receipt     receipt.Receipt `json:"receipt"`
	ReceiptText string          `json:"receipt_text"`
}

type pendingListResponse struct {
	PendingOrders []service.PendingSummary `json:"pending_orders"`
}

// --- Handlers ---

// Create handles POST /drafts.
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	d := h.svc.CreateDraft(claims.Name)
	writeJSON(w, http.StatusCreated, d.Snapshot())
}

// Get handles GET /drafts/{id}.
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDraft(chi.URLParam(r, "id"))
	h.respondDraft(w, d, err)
}

// Cancel handles DELETE /drafts/{id}.
func (h *DraftHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelDraft(chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /drafts/{id}/items.
func (h *DraftHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	d, err := h.svc.AddItem(r.Context(), chi.URLParam(r, "id"), req.ItemID, req.Quantity, req.Sauces)
	h.respondDraft(w, d, err)
}

// AddUpgrade handles POST /drafts/{id}/lines/{lineId}/upgrades.
func (h *DraftHandler) AddUpgrade(w http.ResponseWriter, r *http.Request) {
	var req addUpgradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	d, err := h.svc.AddUpgrade(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineId"), req.ItemID, req.Quantity)
	h.respondDraft(w, d, err)
}

// SetQuantity handles PATCH /drafts/{id}/lines/{lineId}.
func (h *DraftHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.SetQuantity(chi.URLParam(r, "id"), chi.URLParam(r, "lineId"), req.Quantity)
	h.respondDraft(w, d, err)
}

// RemoveLine handles DELETE /drafts/{id}/lines/{lineId}.
func (h *DraftHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.RemoveLine(chi.URLParam(r, "id"), chi.URLParam(r, "lineId"))
	h.respondDraft(w, d, err)
}

// ApplyOffer handles POST /drafts/{id}/offers.
func (h *DraftHandler) ApplyOffer(w http.ResponseWriter, r *http.Request) {
	var req applyOfferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.ApplyOffer(r.Context(), chi.URLParam(r, "id"), req.OfferID)
	h.respondDraft(w, d, err)
}

// RemoveOffer handles DELETE /drafts/{id}/offers/{offerId}.
func (h *DraftHandler) RemoveOffer(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.RemoveOffer(chi.URLParam(r, "id"), chi.URLParam(r, "offerId"))
	h.respondDraft(w, d, err)
}

// SetParty handles PUT /drafts/{id}/party.
func (h *DraftHandler) SetParty(w http.ResponseWriter, r *http.Request) {
	var req setPartyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")

	var (
		d   *draft.Draft
		err error
	)
	if req.Kind == enum.PartyKindEmployee {
		d, err = h.svc.SetEmployee(r.Context(), id, req.Phone)
	} else {
		d, err = h.svc.SetCustomer(r.Context(), id, req.Phone)
	}
	h.respondDraft(w, d, err)
}

// ClearParty handles DELETE /drafts/{id}/party.
func (h *DraftHandler) ClearParty(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.ClearParty(chi.URLParam(r, "id"))
	h.respondDraft(w, d, err)
}

// SkipParty handles POST /drafts/{id}/party/skip.
func (h *DraftHandler) SkipParty(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.SkipParty(chi.URLParam(r, "id"))
	h.respondDraft(w, d, err)
}

// SetOrderType handles PUT /drafts/{id}/order-type.
func (h *DraftHandler) SetOrderType(w http.ResponseWriter, r *http.Request) {
	var req setOrderTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.SetOrderType(chi.URLParam(r, "id"), req.OrderType)
	h.respondDraft(w, d, err)
}

// Pay handles POST /drafts/{id}/pay.
func (h *DraftHandler) Pay(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Pay(r.Context(), chi.URLParam(r, "id"))
	h.respondDraft(w, d, err)
}

// TakePayment handles POST /drafts/{id}/payments.
func (h *DraftHandler) TakePayment(w http.ResponseWriter, r *http.Request) {
	var req takePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.TakePayment(chi.URLParam(r, "id"), req.Tenders)
	h.respondDraft(w, d, err)
}

// Commit handles POST /drafts/{id}/commit. The signed-in staff name is
// recorded as the cashier.
func (h *DraftHandler) Commit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	res, err := h.svc.Commit(r.Context(), chi.URLParam(r, "id"), claims.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, commitResponse{
		Order:       res.Order,
		Receipt:     res.Receipt,
		ReceiptText: h.renderReceipt(res.Receipt),
	})
}

func (h *DraftHandler) renderReceipt(rc receipt.Receipt) string {
	var b strings.Builder
	if err := rc.Render(&b, h.svc.Location()); err != nil {
		h.logger.Warn("render receipt", zap.String("order_id", rc.OrderID), zap.Error(err))
		return ""
	}
	return b.String()
}

// Store handles POST /drafts/{id}/store.
func (h *DraftHandler) Store(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Store(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListPending handles GET /pending-orders.
func (h *DraftHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPending(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pendingListResponse{PendingOrders: list})
}

// Recall handles POST /pending-orders/{pid}/recall.
func (h *DraftHandler) Recall(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	pid, err := uuid.Parse(chi.URLParam(r, "pid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pending order ID"})
		return
	}

	d, err := h.svc.Recall(r.Context(), pid, claims.Name)
	h.respondDraft(w, d, err)
}

// --- Helpers ---

func (h *DraftHandler) respondDraft(w http.ResponseWriter, d *draft.Draft, err error) {
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Snapshot())
}
