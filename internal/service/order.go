package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/draft"
	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/Harsh-n409/bhookie-pos-system/internal/offer"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/Harsh-n409/bhookie-pos-system/internal/payment"
	"github.com/Harsh-n409/bhookie-pos-system/internal/receipt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to commit, park and read orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	InventoryStore
	LedgerStore
	OrderIDStore
	CreateKotOrder(ctx context.Context, arg database.CreateKotOrderParams) (database.KotOrder, error)
	GetKotOrder(ctx context.Context, orderID string) (database.KotOrder, error)
	ListKotOrdersByDate(ctx context.Context, orderDate pgtype.Date) ([]database.KotOrder, error)
	ListRefundsByOrder(ctx context.Context, orderID string) ([]database.Refund, error)
	CompletePendingOrder(ctx context.Context, arg database.CompletePendingOrderParams) (database.PendingOrder, error)
	CreatePendingOrder(ctx context.Context, arg database.CreatePendingOrderParams) (database.PendingOrder, error)
	UpdatePendingOrderSnapshot(ctx context.Context, arg database.UpdatePendingOrderSnapshotParams) (database.PendingOrder, error)
	GetPendingOrder(ctx context.Context, id uuid.UUID) (database.PendingOrder, error)
	ListActivePendingOrders(ctx context.Context, now pgtype.Timestamptz) ([]database.PendingOrder, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// Catalog prices items and offers. Satisfied by *CatalogService.
type Catalog interface {
	Item(ctx context.Context, id string) (draft.Item, error)
	Offer(ctx context.Context, id string) (offer.Offer, error)
}

// PartyResolver looks up paying parties. Satisfied by *CustomerService.
type PartyResolver interface {
	Customer(ctx context.Context, phone string) (order.Party, error)
	Employee(ctx context.Context, phone string) (order.Party, error)
}

// SessionChecker is the cashier gate for the Pay action. Satisfied by
// *CashierService.
type SessionChecker interface {
	IsSessionOpen(ctx context.Context) (bool, error)
}

// Publisher pushes events to live clients. Satisfied by *ws.Hub.
type Publisher interface {
	Publish(topic, event string, payload any)
}

// OrderServiceDeps wires an OrderService.
type OrderServiceDeps struct {
	Pool       TxBeginner
	DB         database.DBTX
	NewStore   NewOrderStore
	Drafts     *draft.Registry
	Catalog    Catalog
	Parties    PartyResolver
	Sessions   SessionChecker
	Publisher  Publisher
	Logger     *zap.Logger
	Location   *time.Location
	PendingTTL time.Duration
}

// OrderService runs the order lifecycle from draft to committed KOT.
type OrderService struct {
	pool       TxBeginner
	db         database.DBTX
	newStore   NewOrderStore
	drafts     *draft.Registry
	catalog    Catalog
	parties    PartyResolver
	sessions   SessionChecker
	publisher  Publisher
	logger     *zap.Logger
	loc        *time.Location
	pendingTTL time.Duration
	now        func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(d OrderServiceDeps) *OrderService {
	s := &OrderService{
		pool:       d.Pool,
		db:         d.DB,
		newStore:   d.NewStore,
		drafts:     d.Drafts,
		catalog:    d.Catalog,
		parties:    d.Parties,
		sessions:   d.Sessions,
		publisher:  d.Publisher,
		logger:     d.Logger,
		loc:        d.Location,
		pendingTTL: d.PendingTTL,
		now:        time.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.pendingTTL == 0 {
		s.pendingTTL = 24 * time.Hour
	}
	return s
}

// CommitResult is a committed order with its printable receipt.
type CommitResult struct {
	Order   order.Order     `json:"order"`
	Receipt receipt.Receipt `json:"receipt"`
}

// OrderDetail is a committed order with the refunds made against it.
type OrderDetail struct {
	Order   order.Order       `json:"order"`
	Refunds []database.Refund `json:"refunds"`
}

// PendingSummary is a parked order as listed for recall.
type PendingSummary struct {
	ID        uuid.UUID      `json:"id"`
	CreatedBy string         `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
	Snapshot  draft.Snapshot `json:"snapshot"`
}

// =====================
// Draft editing
// =====================

func (s *OrderService) CreateDraft(createdBy string) *draft.Draft {
	return s.drafts.Create(createdBy)
}

func (s *OrderService) GetDraft(id string) (*draft.Draft, error) {
	return s.drafts.Get(id)
}

func (s *OrderService) CancelDraft(id string) error {
	_, err := s.drafts.Update(id, func(d *draft.Draft) error { return d.Cancel() })
	return err
}

// AddItem prices itemID from the catalog and adds it to the draft.
func (s *OrderService) AddItem(ctx context.Context, id, itemID string, qty int32, sauces []string) (*draft.Draft, error) {
	item, err := s.catalog.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.drafts.Update(id, func(d *draft.Draft) error {
		_, err := d.AddItem(item, qty, sauces)
		return err
	})
}

func (s *OrderService) AddUpgrade(ctx context.Context, id, parentLineID, itemID string, qty int32) (*draft.Draft, error) {
	item, err := s.catalog.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.drafts.Update(id, func(d *draft.Draft) error {
		_, err := d.AddUpgrade(parentLineID, item, qty)
		return err
	})
}

func (s *OrderService) SetQuantity(id, lineID string, qty int32) (*draft.Draft, error) {
	return s.drafts.Update(id, func(d *draft.Draft) error { return d.SetQuantity(lineID, qty) })
}

func (s *OrderService) RemoveLine(id, lineID string) (*draft.Draft, error) {
	return s.drafts.Update(id, func(d *draft.Draft) error {
		removed, err := d.RemoveLine(lineID)
		for _, offerID := range removed {
			s.logger.Info("offer removed with its last line",
				zap.String("draft_id", id), zap.String("offer_id", offerID))
		}
		return err
	})
}

func (s *OrderService) ApplyOffer(ctx context.Context, id, offerID string) (*draft.Draft, error) {
	o, err := s.catalog.Offer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	return s.drafts.Update(id, func(d *draft.Draft) error {
		_, err := d.ApplyOffer(o)
		return err
	})
}

func (s *OrderService) RemoveOffer(id, offerID string) (*draft.Draft, error) {
	return s.drafts.Update(id, func(d *draft.Draft) error { return d.RemoveOffer(offerID) })
}

// SetCustomer attaches the customer with their current points balance.
func (s *OrderService) SetCustomer(ctx context.Context, id, phone string) (*draft.Draft, error) {
	p, err := s.parties.Customer(ctx, phone)
	if err != nil {
		return nil, err
	}
	return s.drafts.Update(id, func(d *draft.Draft) error { return d.SetCustomer(p) })
}

// SetEmployee attaches a clocked-in employee with their meal credits.
func (s *OrderService) SetEmployee(ctx context.Context, id, phone string) (*draft.Draft, error) {
	p, err := s.parties.Employee(ctx, phone)
	if err != nil {
		return nil, err
	}
	return s.drafts.Update(id, func(d *draft.Draft) error { return d.SetEmployee(p) })
}

func (s *OrderService) ClearParty(id string) (*draft.Draft, error) {
	return s.drafts.Update(id, func(d *draft.Draft) error { return d.ClearParty() })
}

func (s *OrderService) SkipParty(id string) (*draft.Draft, error) {
	return s.drafts.Update(id, func(d *draft.Draft) error { return d.SkipParty() })
}

func (s *OrderService) SetOrderType(id, orderType string) (*draft.Draft, error) {
	return s.drafts.Update(id, func(d *draft.Draft) error { return d.SetOrderType(orderType) })
}

// =====================
// Pay
// =====================

// Pay starts the pay flow. It fails on an empty order, when no cashier has
// an open till, or when stock cannot cover the lines.
func (s *OrderService) Pay(ctx context.Context, id string) (*draft.Draft, error) {
	work, err := s.drafts.Begin(id)
	if err != nil {
		return nil, err
	}

	if err := work.CheckPayable(); err != nil {
		s.drafts.Abort(id)
		return nil, err
	}

	open, err := s.sessions.IsSessionOpen(ctx)
	if err != nil {
		s.drafts.Abort(id)
		return nil, err
	}
	if !open {
		s.drafts.Abort(id)
		return nil, ErrNoCashierSession
	}

	shortfalls, err := checkAvailability(ctx, s.newStore(s.db), work.Lines, false)
	if err != nil {
		s.drafts.Abort(id)
		return nil, err
	}
	if len(shortfalls) > 0 {
		work.BackToPriced()
		s.drafts.End(work)
		return nil, &StockShortfallError{Shortfalls: shortfalls}
	}

	if err := work.StartPayment(); err != nil {
		s.drafts.Abort(id)
		return nil, err
	}
	s.drafts.End(work)
	return work.Clone(), nil
}

// TakePayment settles the amount due with the tendered payments.
func (s *OrderService) TakePayment(id string, tenders []payment.Tender) (*draft.Draft, error) {
	return s.drafts.Update(id, func(d *draft.Draft) error {
		if d.State != draft.StateAwaitingPayment {
			return draft.ErrInvalidState
		}
		res, err := payment.Collect(d.AmountDue(), d.Party.IsEmployee(), tenders)
		if err != nil {
			return err
		}
		return d.RecordPayment(res)
	})
}

// =====================
// Commit
// =====================

// Commit turns a paid draft into a KOT. Stock, balances, order id, the KOT
// row, the parked order status and the loyalty changes are written in one
// transaction. A stock shortfall or an insufficient balance returns the
// draft to Priced.
func (s *OrderService) Commit(ctx context.Context, id, cashier string) (*CommitResult, error) {
	work, err := s.drafts.Begin(id)
	if err != nil {
		return nil, err
	}
	if err := work.BeginCommit(); err != nil {
		s.drafts.Abort(id)
		return nil, err
	}

	// Retry loop: handles order id unique constraint race condition.
	var result *CommitResult
	for attempt := 0; attempt < maxOrderIDRetries; attempt++ {
		result, err = s.commitTx(ctx, work, cashier)
		if err == nil || !isOrderIDConflict(err) {
			break
		}
		s.logger.Warn("order id conflict, retrying", zap.String("draft_id", id), zap.Int("attempt", attempt+1))
	}
	if err != nil {
		work.CommitFailed(needsAmend(err))
		s.drafts.End(work)
		s.logger.Warn("commit failed", zap.String("draft_id", id), zap.Error(err))
		return nil, err
	}

	work.MarkCommitted()
	s.drafts.End(work)

	s.logger.Info("order committed",
		zap.String("order_id", result.Order.OrderID),
		zap.String("cashier", cashier),
		zap.String("total", result.Order.Totals.Total.StringFixed(2)),
	)
	if s.publisher != nil {
		s.publisher.Publish(enum.TopicKitchen, enum.EventKOTCommitted, result.Receipt)
	}
	return result, nil
}

// needsAmend reports whether a failed commit can only succeed after the
// operator changes the order or its party.
func needsAmend(err error) bool {
	var shortfall *StockShortfallError
	return errors.As(err, &shortfall) ||
		errors.Is(err, ErrInsufficientPoints) ||
		errors.Is(err, ErrInsufficientCredits)
}

func (s *OrderService) commitTx(ctx context.Context, d *draft.Draft, cashier string) (*CommitResult, error) {
	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	ledger := NewLedger(store)
	t := d.Totals

	// --- Re-check stock with the rows locked ---
	shortfalls, err := checkAvailability(ctx, store, d.Lines, true)
	if err != nil {
		return nil, err
	}
	if len(shortfalls) > 0 {
		return nil, &StockShortfallError{Shortfalls: shortfalls}
	}

	// --- Balances before any write ---
	switch {
	case d.Party.IsEmployee() && t.CreditsUsed.IsPositive():
		if _, err := ledger.CheckCredits(ctx, d.Party.Phone, t.CreditsUsed); err != nil {
			return nil, err
		}
	case d.Party.IsCustomer():
		if _, err := ledger.CheckPoints(ctx, d.Party.Phone, t.PointsToRedeem); err != nil {
			return nil, err
		}
	}

	// --- Deduct inventory ---
	if err := deductInventory(ctx, store, d.Lines); err != nil {
		return nil, err
	}

	// --- Allocate order id ---
	now := s.now()
	day := dateIn(now, s.loc)
	orderID, err := nextOrderID(ctx, store, day)
	if err != nil {
		return nil, err
	}

	// --- Insert KOT ---
	linesJSON, err := json.Marshal(d.Lines)
	if err != nil {
		return nil, fmt.Errorf("encode lines: %w", err)
	}
	pendingID := pgtype.UUID{}
	if d.PendingID != "" {
		pid, err := uuid.Parse(d.PendingID)
		if err != nil {
			return nil, fmt.Errorf("pending order id: %w", err)
		}
		pendingID = pgtype.UUID{Bytes: pid, Valid: true}
	}
	row, err := store.CreateKotOrder(ctx, database.CreateKotOrderParams{
		OrderID:         orderID,
		OrderDate:       day,
		Lines:           linesJSON,
		Subtotal:        decimalToNumeric(t.Subtotal),
		OfferDiscount:   decimalToNumeric(t.OfferDiscount),
		LoyaltyDiscount: decimalToNumeric(t.LoyaltyDiscount),
		Discount:        decimalToNumeric(t.Discount),
		Total:           decimalToNumeric(t.Total),
		PartyKind:       d.Party.Kind,
		PartyPhone:      textOrNull(d.Party.Phone),
		PartyID:         textOrNull(d.Party.ID),
		PartyName:       textOrNull(d.Party.Name),
		CreditsUsed:     decimalToNumeric(t.CreditsUsed),
		CashPaid:        decimalToNumeric(d.Payment.CashPaid),
		EarnedPoints:    t.EarnedPoints,
		PointsRedeemed:  decimalToNumeric(t.PointsToRedeem),
		OrderType:       d.OrderType,
		PaymentMethods:  d.Payment.Methods,
		ChangeDue:       decimalToNumeric(d.Payment.ChangeDue),
		Status:          enum.OrderStatusCompleted,
		Cashier:         cashier,
		PendingOrderID:  pendingID,
	})
	if err != nil {
		return nil, fmt.Errorf("create kot order: %w", err)
	}

	// --- Close the parked order ---
	if pendingID.Valid {
		_, err := store.CompletePendingOrder(ctx, database.CompletePendingOrderParams{
			ID:      pendingID.Bytes,
			OrderID: textOrNull(orderID),
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrPendingOrderCompleted
			}
			return nil, fmt.Errorf("complete pending order: %w", err)
		}
	}

	// --- Credits / points ---
	pointsBalance := decimal.NullDecimal{}
	switch {
	case d.Party.IsEmployee() && t.CreditsUsed.IsPositive():
		if _, err := ledger.Consume(ctx, d.Party.Phone, t.CreditsUsed); err != nil {
			return nil, err
		}
	case d.Party.IsCustomer():
		bal, err := ledger.Redeem(ctx, d.Party.Phone, t.PointsToRedeem, t.EarnedPoints, orderID)
		if err != nil {
			return nil, err
		}
		pointsBalance = decimal.NewNullDecimal(bal)
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	o, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}
	o.Party = d.Party
	o.Totals = t
	return &CommitResult{
		Order:   o,
		Receipt: receipt.Build(o, offerNames(d.Offers()), pointsBalance),
	}, nil
}

func offerNames(applied []order.AppliedOffer) map[string]string {
	names := make(map[string]string, len(applied))
	for _, a := range applied {
		names[a.OfferID] = a.Name
	}
	return names
}

// =====================
// Store / recall
// =====================

// Store parks the draft as a pending order. A draft recalled from a pending
// order updates that record instead of creating another.
func (s *OrderService) Store(ctx context.Context, id string) (*PendingSummary, error) {
	work, err := s.drafts.Begin(id)
	if err != nil {
		return nil, err
	}
	snap := work.Snapshot()
	if err := work.Park(); err != nil {
		s.drafts.Abort(id)
		return nil, err
	}

	body, err := json.Marshal(snap)
	if err != nil {
		s.drafts.Abort(id)
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	store := s.newStore(s.db)
	expires := timestamptz(s.now().Add(s.pendingTTL))
	var row database.PendingOrder
	if work.PendingID != "" {
		pid, perr := uuid.Parse(work.PendingID)
		if perr != nil {
			s.drafts.Abort(id)
			return nil, fmt.Errorf("pending order id: %w", perr)
		}
		row, err = store.UpdatePendingOrderSnapshot(ctx, database.UpdatePendingOrderSnapshotParams{
			ID:        pid,
			Snapshot:  body,
			ExpiresAt: expires,
		})
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrPendingOrderCompleted
		}
	} else {
		row, err = store.CreatePendingOrder(ctx, database.CreatePendingOrderParams{
			ID:        uuid.New(),
			Snapshot:  body,
			CreatedBy: work.CreatedBy,
			ExpiresAt: expires,
		})
	}
	if err != nil {
		s.drafts.Abort(id)
		if errors.Is(err, ErrPendingOrderCompleted) {
			return nil, err
		}
		return nil, fmt.Errorf("store pending order: %w", err)
	}

	s.drafts.End(work)
	s.logger.Info("order parked", zap.String("pending_order_id", row.ID.String()))
	return pendingSummary(row, snap), nil
}

// Recall turns a pending order back into a live draft. Party balances are
// read again since they may have changed while the order was parked.
func (s *OrderService) Recall(ctx context.Context, pendingID uuid.UUID, createdBy string) (*draft.Draft, error) {
	row, err := s.newStore(s.db).GetPendingOrder(ctx, pendingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPendingOrderNotFound
		}
		return nil, fmt.Errorf("get pending order: %w", err)
	}
	if row.Status == enum.PendingStatusCompleted {
		return nil, ErrPendingOrderCompleted
	}
	if !row.ExpiresAt.Time.After(s.now()) {
		return nil, ErrPendingOrderExpired
	}

	var snap draft.Snapshot
	if err := json.Unmarshal(row.Snapshot, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	d := draft.Restore(snap, row.ID.String(), createdBy, s.now())
	switch {
	case d.Party.IsCustomer():
		p, err := s.parties.Customer(ctx, d.Party.Phone)
		if err == nil {
			err = d.SetCustomer(p)
		}
		if err != nil {
			return nil, err
		}
	case d.Party.IsEmployee():
		p, err := s.parties.Employee(ctx, d.Party.Phone)
		if err == nil {
			err = d.SetEmployee(p)
		}
		if err != nil {
			return nil, err
		}
	}

	s.drafts.Put(d)
	return d.Clone(), nil
}

// ListPending returns the parked orders that can still be recalled.
func (s *OrderService) ListPending(ctx context.Context) ([]PendingSummary, error) {
	rows, err := s.newStore(s.db).ListActivePendingOrders(ctx, timestamptz(s.now()))
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	out := make([]PendingSummary, 0, len(rows))
	for _, r := range rows {
		var snap draft.Snapshot
		if err := json.Unmarshal(r.Snapshot, &snap); err != nil {
			s.logger.Error("skipping unreadable pending order", zap.String("id", r.ID.String()), zap.Error(err))
			continue
		}
		out = append(out, *pendingSummary(r, snap))
	}
	return out, nil
}

func pendingSummary(r database.PendingOrder, snap draft.Snapshot) *PendingSummary {
	return &PendingSummary{
		ID:        r.ID,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt.Time,
		ExpiresAt: r.ExpiresAt.Time,
		Snapshot:  snap,
	}
}

// =====================
// History
// =====================

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*OrderDetail, error) {
	store := s.newStore(s.db)
	row, err := store.GetKotOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}
	refunds, err := store.ListRefundsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	if refunds == nil {
		refunds = []database.Refund{}
	}
	return &OrderDetail{Order: o, Refunds: refunds}, nil
}

// ListOrders returns the orders committed on the shop day of day.
func (s *OrderService) ListOrders(ctx context.Context, day time.Time) ([]order.Order, error) {
	rows, err := s.newStore(s.db).ListKotOrdersByDate(ctx, dateIn(day, s.loc))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]order.Order, 0, len(rows))
	for _, r := range rows {
		o, err := orderFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// Location is the shop time zone.
func (s *OrderService) Location() *time.Location {
	return s.loc
}
