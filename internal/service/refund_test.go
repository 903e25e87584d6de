package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/Harsh-n409/bhookie-pos-system/internal/refund"
	"github.com/jackc/pgx/v5/pgtype"
)

func newTestRefundService(store *mockStore) (*RefundService, *mockTx, *mockPublisher) {
	tx := &mockTx{}
	pub := &mockPublisher{}
	newStore := func(db database.DBTX) RefundStore { return store }
	return NewRefundService(&mockTxBeginner{tx: tx}, nil, newStore, pub, nil), tx, pub
}

// seedOrder stores a committed order: 10 wraps at 6.00 and 4 fries at 2.50.
func seedOrder(t *testing.T, store *mockStore, party order.Party, totals order.Totals) {
	t.Helper()
	lines := []order.LineItem{
		{LineID: "l-wrap", ItemID: "wrap", Name: "Chicken Wrap", UnitPrice: dec("6.00"), Quantity: 10},
		{LineID: "l-fries", ItemID: "fries", Name: "Fries", UnitPrice: dec("2.50"), Quantity: 4},
	}
	body, err := json.Marshal(lines)
	if err != nil {
		t.Fatal(err)
	}
	store.orders["250101001"] = database.KotOrder{
		OrderID:        "250101001",
		Lines:          body,
		Subtotal:       decimalToNumeric(totals.Subtotal),
		Total:          decimalToNumeric(totals.Total),
		PartyKind:      party.Kind,
		PartyPhone:     textOrNull(party.Phone),
		CreditsUsed:    decimalToNumeric(totals.CreditsUsed),
		EarnedPoints:   totals.EarnedPoints,
		OrderType:      enum.OrderTypeTakeaway,
		Status:         enum.OrderStatusCompleted,
		RefundedAmount: makeNumeric("0"),
		PendingOrderID: pgtype.UUID{},
	}
}

func customerOrderStore(points string) *mockStore {
	store := newMockStore()
	store.inventory["wrap"] = 0
	store.inventory["fries"] = 0
	store.customers["0712345678"] = database.Customer{Phone: "0712345678", CustomerID: "cus01", Points: makeNumeric(points)}
	return store
}

var customerParty = order.Party{Kind: enum.PartyKindCustomer, Phone: "0712345678"}

func TestRefund_PartialThenRest(t *testing.T) {
	store := customerOrderStore("50.00")
	seedOrder(t, store, customerParty, order.Totals{Subtotal: dec("70.00"), Total: dec("70.00"), EarnedPoints: 7})
	svc, tx, pub := newTestRefundService(store)
	ctx := context.Background()

	res, err := svc.Refund(ctx, "250101001", []refund.Request{{Key: "l-wrap", Quantity: 5}}, "manager")
	if err != nil {
		t.Fatalf("partial refund: %v", err)
	}
	if !res.Amount.Equal(dec("30.00")) {
		t.Errorf("amount: got %s, want 30.00", res.Amount)
	}
	if res.FullyRefunded {
		t.Error("order should not be fully refunded")
	}
	if !res.PointsClawback.Equal(dec("3")) {
		t.Errorf("clawback: got %s, want 3", res.PointsClawback)
	}
	if !numericEquals(store.customers["0712345678"].Points, "47.00") {
		t.Errorf("points: got %s, want 47.00", numericToDecimal(store.customers["0712345678"].Points))
	}
	if store.inventory["wrap"] != 5 {
		t.Errorf("wrap stock: got %d, want 5", store.inventory["wrap"])
	}
	if res.Refund.RefundType != enum.RefundTypePartial || res.Refund.PointsClawedBack != 3 {
		t.Errorf("refund record: %+v", res.Refund)
	}
	if tx.commits != 1 {
		t.Errorf("commits: got %d, want 1", tx.commits)
	}
	if len(pub.events) != 1 || pub.events[0] != enum.TopicOrders+":"+enum.EventRefundProcessed {
		t.Errorf("events: %v", pub.events)
	}

	// The rest: plan would claw back 3 + 7 but only 4 earned points remain.
	res, err = svc.RefundEntireOrder(ctx, "250101001", "manager")
	if err != nil {
		t.Fatalf("refund rest: %v", err)
	}
	if !res.Amount.Equal(dec("40.00")) || !res.FullyRefunded {
		t.Errorf("rest: amount %s fully %v", res.Amount, res.FullyRefunded)
	}
	if res.Refund.PointsClawedBack != 4 {
		t.Errorf("capped clawback: got %d, want 4", res.Refund.PointsClawedBack)
	}
	if !numericEquals(store.customers["0712345678"].Points, "43.00") {
		t.Errorf("points: got %s, want 43.00", numericToDecimal(store.customers["0712345678"].Points))
	}
	if !res.Order.Refunded || !res.Order.RefundedAmount.Equal(dec("70.00")) {
		t.Errorf("order after refund: refunded %v amount %s", res.Order.Refunded, res.Order.RefundedAmount)
	}
	for _, l := range res.Order.Lines {
		if !l.Refunded || l.RefundedQuantity != l.Quantity {
			t.Errorf("line %s not fully refunded: %+v", l.LineID, l)
		}
	}

	if _, err := svc.RefundEntireOrder(ctx, "250101001", "manager"); !errors.Is(err, refund.ErrAlreadyRefunded) {
		t.Fatalf("expected ErrAlreadyRefunded, got %v", err)
	}
	if len(store.refunds) != 2 {
		t.Errorf("refund records: got %d, want 2", len(store.refunds))
	}
}

func TestRefund_EntireOrderIsFull(t *testing.T) {
	store := customerOrderStore("50.00")
	seedOrder(t, store, customerParty, order.Totals{Subtotal: dec("70.00"), Total: dec("70.00"), EarnedPoints: 7})
	svc, _, _ := newTestRefundService(store)

	res, err := svc.RefundEntireOrder(context.Background(), "250101001", "manager")
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if res.Refund.RefundType != enum.RefundTypeFull || res.Refund.PointsClawedBack != 7 {
		t.Errorf("refund record: %+v", res.Refund)
	}
	if store.inventory["wrap"] != 10 || store.inventory["fries"] != 4 {
		t.Errorf("stock: %v", store.inventory)
	}
}

func TestRefund_ClawbackClampedAtBalance(t *testing.T) {
	store := customerOrderStore("1.00")
	seedOrder(t, store, customerParty, order.Totals{Subtotal: dec("70.00"), Total: dec("70.00"), EarnedPoints: 7})
	svc, _, _ := newTestRefundService(store)

	res, err := svc.Refund(context.Background(), "250101001", []refund.Request{{Key: "l-wrap", Quantity: 5}}, "manager")
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if !res.PointsClawback.Equal(dec("1")) {
		t.Errorf("taken: got %s, want 1", res.PointsClawback)
	}
	if !numericEquals(store.customers["0712345678"].Points, "0") {
		t.Errorf("points: got %s, want 0", numericToDecimal(store.customers["0712345678"].Points))
	}
}

func TestRefund_EmployeeCreditsRestored(t *testing.T) {
	store := newMockStore()
	store.inventory["wrap"] = 0
	store.inventory["fries"] = 0
	store.employees["0799999999"] = database.Employee{Phone: "0799999999", MealCredits: makeNumeric("0")}
	emp := order.Party{Kind: enum.PartyKindEmployee, Phone: "0799999999"}
	seedOrder(t, store, emp, order.Totals{Subtotal: dec("70.00"), Total: dec("60.00"), CreditsUsed: dec("10.00")})
	svc, _, _ := newTestRefundService(store)

	res, err := svc.Refund(context.Background(), "250101001", []refund.Request{{Key: "l-fries", Quantity: 1}}, "manager")
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if !res.CreditsRestore.Equal(dec("2.50")) {
		t.Errorf("credits restored: got %s, want 2.50", res.CreditsRestore)
	}
	if !numericEquals(store.employees["0799999999"].MealCredits, "2.50") {
		t.Errorf("credits: got %s", numericToDecimal(store.employees["0799999999"].MealCredits))
	}
	if len(store.history) != 0 {
		t.Errorf("no loyalty history for employees, got %+v", store.history)
	}
}

func TestRefund_ExceedsRemaining(t *testing.T) {
	store := customerOrderStore("50.00")
	seedOrder(t, store, customerParty, order.Totals{Subtotal: dec("70.00"), Total: dec("70.00"), EarnedPoints: 7})
	svc, tx, _ := newTestRefundService(store)

	_, err := svc.Refund(context.Background(), "250101001", []refund.Request{{Key: "l-fries", Quantity: 5}}, "manager")
	if !errors.Is(err, refund.ErrExceedsRemaining) {
		t.Fatalf("expected ErrExceedsRemaining, got %v", err)
	}
	if tx.commits != 0 || len(store.refunds) != 0 || store.inventory["fries"] != 0 {
		t.Error("nothing should be written")
	}
}

func TestRefund_NothingSelected(t *testing.T) {
	store := customerOrderStore("50.00")
	seedOrder(t, store, customerParty, order.Totals{Subtotal: dec("70.00"), Total: dec("70.00"), EarnedPoints: 7})
	svc, _, _ := newTestRefundService(store)

	_, err := svc.Refund(context.Background(), "250101001", []refund.Request{{Key: "l-fries", Quantity: 0}}, "manager")
	if !errors.Is(err, refund.ErrNothingToRefund) {
		t.Fatalf("expected ErrNothingToRefund, got %v", err)
	}
}

func TestRefund_OrderNotFound(t *testing.T) {
	svc, _, _ := newTestRefundService(newMockStore())
	_, err := svc.RefundEntireOrder(context.Background(), "250101009", "manager")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestRefund_MissingInventoryRecord(t *testing.T) {
	store := customerOrderStore("50.00")
	delete(store.inventory, "fries")
	seedOrder(t, store, customerParty, order.Totals{Subtotal: dec("70.00"), Total: dec("70.00"), EarnedPoints: 7})
	svc, tx, _ := newTestRefundService(store)

	_, err := svc.Refund(context.Background(), "250101001", []refund.Request{{Key: "l-fries", Quantity: 1}}, "manager")
	var integrity *DataIntegrityError
	if !errors.As(err, &integrity) || integrity.Key != "fries" {
		t.Fatalf("expected DataIntegrityError for fries, got %v", err)
	}
	if tx.commits != 0 {
		t.Error("transaction must not commit")
	}
}

func TestOpenRefundSession(t *testing.T) {
	store := customerOrderStore("50.00")
	seedOrder(t, store, customerParty, order.Totals{Subtotal: dec("70.00"), Total: dec("70.00"), EarnedPoints: 7})
	svc, _, _ := newTestRefundService(store)

	sess, err := svc.Open(context.Background(), "250101001")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(sess.Entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(sess.Entries))
	}
	for _, e := range sess.Entries {
		if e.Quantity != 0 {
			t.Errorf("entry %s starts selected: %d", e.Key, e.Quantity)
		}
	}

	if _, err := svc.Open(context.Background(), "nope"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}
