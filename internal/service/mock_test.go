package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type mockTx struct {
	commitErr   error
	rollbackErr error
	commits     int
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitErr == nil {
		m.commits++
	}
	return m.commitErr
}
func (m *mockTx) Rollback(ctx context.Context) error { return m.rollbackErr }
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner.
type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// mockStore is an in-memory OrderStore and RefundStore. Writes are not
// rolled back, so tests inspect it only after successful operations or
// before the failing write. The fn fields override single queries.
type mockStore struct {
	mu sync.Mutex

	inventory map[string]int32
	customers map[string]database.Customer
	employees map[string]database.Employee
	orders    map[string]database.KotOrder
	pending   map[uuid.UUID]database.PendingOrder
	refunds   []database.Refund
	history   []database.CreateLoyaltyHistoryParams

	countKotOrdersFn func(ctx context.Context, day pgtype.Date) (int64, error)
	createKotOrderFn func(ctx context.Context, arg database.CreateKotOrderParams) (database.KotOrder, error)
}

func newMockStore() *mockStore {
	return &mockStore{
		inventory: map[string]int32{},
		customers: map[string]database.Customer{},
		employees: map[string]database.Employee{},
		orders:    map[string]database.KotOrder{},
		pending:   map[uuid.UUID]database.PendingOrder{},
	}
}

func (m *mockStore) GetInventory(ctx context.Context, itemID string) (database.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.inventory[itemID]
	if !ok {
		return database.Inventory{}, pgx.ErrNoRows
	}
	return database.Inventory{ItemID: itemID, TotalStockOnHand: n}, nil
}

func (m *mockStore) GetInventoryForUpdate(ctx context.Context, itemID string) (database.Inventory, error) {
	return m.GetInventory(ctx, itemID)
}

func (m *mockStore) DeductInventory(ctx context.Context, arg database.DeductInventoryParams) (database.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.inventory[arg.ItemID]
	if !ok {
		return database.Inventory{}, pgx.ErrNoRows
	}
	m.inventory[arg.ItemID] = n - arg.Quantity
	return database.Inventory{ItemID: arg.ItemID, TotalStockOnHand: n - arg.Quantity}, nil
}

func (m *mockStore) RestockInventory(ctx context.Context, arg database.RestockInventoryParams) (database.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.inventory[arg.ItemID]
	if !ok {
		return database.Inventory{}, pgx.ErrNoRows
	}
	m.inventory[arg.ItemID] = n + arg.Quantity
	return database.Inventory{ItemID: arg.ItemID, TotalStockOnHand: n + arg.Quantity}, nil
}

func (m *mockStore) GetCustomerByPhoneForUpdate(ctx context.Context, phone string) (database.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[phone]
	if !ok {
		return database.Customer{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockStore) UpdateCustomerPoints(ctx context.Context, arg database.UpdateCustomerPointsParams) (database.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[arg.Phone]
	if !ok {
		return database.Customer{}, pgx.ErrNoRows
	}
	c.Points = arg.Points
	m.customers[arg.Phone] = c
	return c, nil
}

func (m *mockStore) CreateLoyaltyHistory(ctx context.Context, arg database.CreateLoyaltyHistoryParams) (database.LoyaltyHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, arg)
	return database.LoyaltyHistory{ID: uuid.New(), CustomerID: arg.CustomerID, EntryType: arg.EntryType, Points: arg.Points, OrderID: arg.OrderID}, nil
}

func (m *mockStore) GetEmployeeByPhoneForUpdate(ctx context.Context, phone string) (database.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[phone]
	if !ok {
		return database.Employee{}, pgx.ErrNoRows
	}
	return e, nil
}

func (m *mockStore) UpdateMealCredits(ctx context.Context, arg database.UpdateMealCreditsParams) (database.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[arg.Phone]
	if !ok {
		return database.Employee{}, pgx.ErrNoRows
	}
	e.MealCredits = arg.MealCredits
	m.employees[arg.Phone] = e
	return e, nil
}

func (m *mockStore) CountKotOrdersForDate(ctx context.Context, day pgtype.Date) (int64, error) {
	if m.countKotOrdersFn != nil {
		return m.countKotOrdersFn(ctx, day)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, o := range m.orders {
		if o.OrderDate.Time.Equal(day.Time) {
			n++
		}
	}
	return n, nil
}

func (m *mockStore) CreateKotOrder(ctx context.Context, arg database.CreateKotOrderParams) (database.KotOrder, error) {
	if m.createKotOrderFn != nil {
		return m.createKotOrderFn(ctx, arg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[arg.OrderID]; ok {
		return database.KotOrder{}, &pgconn.PgError{Code: "23505", ConstraintName: "kot_orders_pkey"}
	}
	o := database.KotOrder{
		OrderID:         arg.OrderID,
		OrderDate:       arg.OrderDate,
		Lines:           arg.Lines,
		Subtotal:        arg.Subtotal,
		OfferDiscount:   arg.OfferDiscount,
		LoyaltyDiscount: arg.LoyaltyDiscount,
		Discount:        arg.Discount,
		Total:           arg.Total,
		PartyKind:       arg.PartyKind,
		PartyPhone:      arg.PartyPhone,
		PartyID:         arg.PartyID,
		PartyName:       arg.PartyName,
		CreditsUsed:     arg.CreditsUsed,
		CashPaid:        arg.CashPaid,
		EarnedPoints:    arg.EarnedPoints,
		PointsRedeemed:  arg.PointsRedeemed,
		OrderType:       arg.OrderType,
		PaymentMethods:  arg.PaymentMethods,
		ChangeDue:       arg.ChangeDue,
		Status:          arg.Status,
		RefundedAmount:  makeNumeric("0"),
		Cashier:         arg.Cashier,
		PendingOrderID:  arg.PendingOrderID,
		CreatedAt:       pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	m.orders[arg.OrderID] = o
	return o, nil
}

func (m *mockStore) GetKotOrder(ctx context.Context, orderID string) (database.KotOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return database.KotOrder{}, pgx.ErrNoRows
	}
	return o, nil
}

func (m *mockStore) GetKotOrderForUpdate(ctx context.Context, orderID string) (database.KotOrder, error) {
	return m.GetKotOrder(ctx, orderID)
}

func (m *mockStore) ListKotOrdersByDate(ctx context.Context, day pgtype.Date) ([]database.KotOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.KotOrder
	for _, o := range m.orders {
		if o.OrderDate.Time.Equal(day.Time) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateKotOrderRefund(ctx context.Context, arg database.UpdateKotOrderRefundParams) (database.KotOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[arg.OrderID]
	if !ok {
		return database.KotOrder{}, pgx.ErrNoRows
	}
	o.Lines = arg.Lines
	o.Refunded = arg.Refunded
	o.RefundedAmount = arg.RefundedAmount
	m.orders[arg.OrderID] = o
	return o, nil
}

func (m *mockStore) CreateRefund(ctx context.Context, arg database.CreateRefundParams) (database.Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := database.Refund{
		ID:               uuid.New(),
		OrderID:          arg.OrderID,
		RefundType:       arg.RefundType,
		Lines:            arg.Lines,
		RefundAmount:     arg.RefundAmount,
		PointsClawedBack: arg.PointsClawedBack,
		CreditsRestored:  arg.CreditsRestored,
		ProcessedBy:      arg.ProcessedBy,
	}
	m.refunds = append(m.refunds, r)
	return r, nil
}

func (m *mockStore) ListRefundsByOrder(ctx context.Context, orderID string) ([]database.Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.Refund
	for _, r := range m.refunds {
		if r.OrderID == orderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) CompletePendingOrder(ctx context.Context, arg database.CompletePendingOrderParams) (database.PendingOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[arg.ID]
	if !ok || p.Status != enum.PendingStatusPending {
		return database.PendingOrder{}, pgx.ErrNoRows
	}
	p.Status = enum.PendingStatusCompleted
	p.OrderID = arg.OrderID
	m.pending[arg.ID] = p
	return p, nil
}

func (m *mockStore) CreatePendingOrder(ctx context.Context, arg database.CreatePendingOrderParams) (database.PendingOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := database.PendingOrder{
		ID:        arg.ID,
		Snapshot:  arg.Snapshot,
		Status:    enum.PendingStatusPending,
		CreatedBy: arg.CreatedBy,
		CreatedAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
		ExpiresAt: arg.ExpiresAt,
	}
	m.pending[arg.ID] = p
	return p, nil
}

func (m *mockStore) UpdatePendingOrderSnapshot(ctx context.Context, arg database.UpdatePendingOrderSnapshotParams) (database.PendingOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[arg.ID]
	if !ok || p.Status != enum.PendingStatusPending {
		return database.PendingOrder{}, pgx.ErrNoRows
	}
	p.Snapshot = arg.Snapshot
	p.ExpiresAt = arg.ExpiresAt
	m.pending[arg.ID] = p
	return p, nil
}

func (m *mockStore) GetPendingOrder(ctx context.Context, id uuid.UUID) (database.PendingOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[id]
	if !ok {
		return database.PendingOrder{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockStore) ListActivePendingOrders(ctx context.Context, now pgtype.Timestamptz) ([]database.PendingOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.PendingOrder
	for _, p := range m.pending {
		if p.Status == enum.PendingStatusPending && p.ExpiresAt.Time.After(now.Time) {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- Collaborator mocks ---

type mockPublisher struct {
	mu     sync.Mutex
	events []string
}

func (m *mockPublisher) Publish(topic, event string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, topic+":"+event)
}

type mockSessions struct {
	open bool
	err  error
}

func (m *mockSessions) IsSessionOpen(ctx context.Context) (bool, error) { return m.open, m.err }

// --- Test helpers ---

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	d := numericToDecimal(n)
	exp, _ := decimal.NewFromString(expected)
	return d.Equal(exp)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
