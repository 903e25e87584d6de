package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Harsh-n409/bhookie-pos-system/internal/handler"
	"github.com/Harsh-n409/bhookie-pos-system/internal/middleware"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/Harsh-n409/bhookie-pos-system/internal/service"
	"github.com/go-chi/chi/v5"
)

// mockInventoryService serves availability from a fixed stock table.
type mockInventoryService struct {
	stock map[string]int32
}

func (m *mockInventoryService) CheckAvailability(_ context.Context, lines []order.LineItem) ([]service.Shortfall, error) {
	need := map[string]int32{}
	var ids []string
	for _, l := range lines {
		if _, seen := need[l.ItemID]; !seen {
			ids = append(ids, l.ItemID)
		}
		need[l.ItemID] += l.Quantity
	}
	var out []service.Shortfall
	for _, id := range ids {
		have, ok := m.stock[id]
		if !ok || have < need[id] {
			out = append(out, service.Shortfall{ItemID: id, Requested: need[id], Available: have, NoRecord: !ok})
		}
	}
	return out, nil
}

func (m *mockInventoryService) StockLevel(_ context.Context, itemID string) (int32, error) {
	n, ok := m.stock[itemID]
	if !ok {
		return 0, service.ErrItemNotFound
	}
	return n, nil
}

func setupInventoryRouter() *chi.Mux {
	h := handler.NewInventoryHandler(&mockInventoryService{stock: map[string]int32{"wrap": 3, "fries": 0}}, nil)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/inventory", h.RegisterRoutes)
	return r
}

func TestInventoryAvailability(t *testing.T) {
	router := setupInventoryRouter()

	tests := []struct {
		name      string
		query     string
		status    int
		available bool
	}{
		{"in stock", "item=wrap&qty=3", http.StatusOK, true},
		{"default quantity", "item=wrap", http.StatusOK, true},
		{"short", "item=wrap&qty=4", http.StatusOK, false},
		{"out of stock", "item=fries", http.StatusOK, false},
		{"no record", "item=lobster", http.StatusOK, false},
		{"missing item", "qty=1", http.StatusBadRequest, false},
		{"bad qty", "item=wrap&qty=0", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doAuthRequest(t, router, "GET", "/inventory/availability?"+tt.query, nil, cashierClaims())
			expectStatus(t, rr, tt.status)
			if tt.status != http.StatusOK {
				return
			}
			if resp := decodeResponse(t, rr); resp["available"] != tt.available {
				t.Errorf("available: got %v, want %v", resp["available"], tt.available)
			}
		})
	}
}

func TestInventoryCheckLines(t *testing.T) {
	router := setupInventoryRouter()

	body := map[string]interface{}{"lines": []map[string]interface{}{
		{"item_id": "wrap", "quantity": 2},
		{"item_id": "wrap", "quantity": 2},
	}}
	rr := doAuthRequest(t, router, "POST", "/inventory/availability", body, cashierClaims())
	expectStatus(t, rr, http.StatusOK)
	resp := decodeResponse(t, rr)
	shortfalls, _ := resp["shortfalls"].([]interface{})
	if resp["available"] != false || len(shortfalls) != 1 {
		t.Errorf("aggregated check: %v", resp)
	}

	rr = doAuthRequest(t, router, "POST", "/inventory/availability", map[string]interface{}{"lines": []interface{}{}}, cashierClaims())
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestInventoryStockLevel(t *testing.T) {
	router := setupInventoryRouter()

	rr := doAuthRequest(t, router, "GET", "/inventory/wrap", nil, cashierClaims())
	expectStatus(t, rr, http.StatusOK)
	if resp := decodeResponse(t, rr); resp["stock_on_hand"] != float64(3) {
		t.Errorf("stock: %v", resp["stock_on_hand"])
	}

	rr = doAuthRequest(t, router, "GET", "/inventory/lobster", nil, cashierClaims())
	expectStatus(t, rr, http.StatusNotFound)
}
