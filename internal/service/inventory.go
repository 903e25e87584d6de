package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/jackc/pgx/v5"
)

// InventoryReader reads stock levels. Satisfied by *database.Queries.
type InventoryReader interface {
	GetInventory(ctx context.Context, itemID string) (database.Inventory, error)
	GetInventoryForUpdate(ctx context.Context, itemID string) (database.Inventory, error)
}

// InventoryStore is the stock ledger inside a transaction.
type InventoryStore interface {
	InventoryReader
	DeductInventory(ctx context.Context, arg database.DeductInventoryParams) (database.Inventory, error)
	RestockInventory(ctx context.Context, arg database.RestockInventoryParams) (database.Inventory, error)
}

type stockNeed struct {
	itemID string
	name   string
	qty    int32
}

// aggregateLines sums quantities per item, sorted by item id so concurrent
// commits lock inventory rows in the same order.
func aggregateLines(lines []order.LineItem) []stockNeed {
	byItem := make(map[string]*stockNeed)
	for _, l := range lines {
		n, ok := byItem[l.ItemID]
		if !ok {
			n = &stockNeed{itemID: l.ItemID, name: l.Name}
			byItem[l.ItemID] = n
		}
		n.qty += l.Quantity
	}
	needs := make([]stockNeed, 0, len(byItem))
	for _, n := range byItem {
		needs = append(needs, *n)
	}
	sort.Slice(needs, func(i, j int) bool { return needs[i].itemID < needs[j].itemID })
	return needs
}

// checkAvailability collects every item the lines cannot be served from.
// With lock set the inventory rows are locked for the rest of the
// transaction. A missing inventory record is reported as a shortfall with
// nothing available.
func checkAvailability(ctx context.Context, store InventoryReader, lines []order.LineItem, lock bool) ([]Shortfall, error) {
	var shortfalls []Shortfall
	for _, n := range aggregateLines(lines) {
		get := store.GetInventory
		if lock {
			get = store.GetInventoryForUpdate
		}
		inv, err := get(ctx, n.itemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				shortfalls = append(shortfalls, Shortfall{ItemID: n.itemID, Name: n.name, Requested: n.qty, NoRecord: true})
				continue
			}
			return nil, fmt.Errorf("get inventory %s: %w", n.itemID, err)
		}
		if inv.TotalStockOnHand < n.qty {
			shortfalls = append(shortfalls, Shortfall{
				ItemID:    n.itemID,
				Name:      n.name,
				Requested: n.qty,
				Available: inv.TotalStockOnHand,
			})
		}
	}
	return shortfalls, nil
}

// deductInventory decrements stock for every line. It must follow an empty
// availability check in the same transaction.
func deductInventory(ctx context.Context, store InventoryStore, lines []order.LineItem) error {
	for _, n := range aggregateLines(lines) {
		_, err := store.DeductInventory(ctx, database.DeductInventoryParams{ItemID: n.itemID, Quantity: n.qty})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &DataIntegrityError{Resource: "inventory", Key: n.itemID}
			}
			return fmt.Errorf("deduct inventory %s: %w", n.itemID, err)
		}
	}
	return nil
}

func restockInventory(ctx context.Context, store InventoryStore, itemID string, qty int32) error {
	_, err := store.RestockInventory(ctx, database.RestockInventoryParams{ItemID: itemID, Quantity: qty})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &DataIntegrityError{Resource: "inventory", Key: itemID}
		}
		return fmt.Errorf("restock inventory %s: %w", itemID, err)
	}
	return nil
}

// InventoryService answers availability questions outside a commit.
type InventoryService struct {
	store InventoryReader
}

func NewInventoryService(store InventoryReader) *InventoryService {
	return &InventoryService{store: store}
}

// CheckAvailability returns the shortfalls for lines; empty when all can be
// served.
func (s *InventoryService) CheckAvailability(ctx context.Context, lines []order.LineItem) ([]Shortfall, error) {
	return checkAvailability(ctx, s.store, lines, false)
}

// StockLevel returns the stock on hand of one item.
func (s *InventoryService) StockLevel(ctx context.Context, itemID string) (int32, error) {
	inv, err := s.store.GetInventory(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrItemNotFound
		}
		return 0, fmt.Errorf("get inventory: %w", err)
	}
	return inv.TotalStockOnHand, nil
}
