package database

import (
	"context"
)

const deductInventory = `-- name: DeductInventory :one
UPDATE inventory
SET total_stock_on_hand = total_stock_on_hand - $2,
    last_updated = now()
WHERE item_id = $1 AND total_stock_on_hand >= $2
RETURNING item_id, total_stock_on_hand, last_updated
`

type DeductInventoryParams struct {
	ItemID   string `json:"item_id"`
	Quantity int32  `json:"quantity"`
}

func (q *Queries) DeductInventory(ctx context.Context, arg DeductInventoryParams) (Inventory, error) {
	row := q.db.QueryRow(ctx, deductInventory, arg.ItemID, arg.Quantity)
	var i Inventory
	err := row.Scan(&i.ItemID, &i.TotalStockOnHand, &i.LastUpdated)
	return i, err
}

const getInventory = `-- name: GetInventory :one
SELECT item_id, total_stock_on_hand, last_updated
FROM inventory
WHERE item_id = $1
`

func (q *Queries) GetInventory(ctx context.Context, itemID string) (Inventory, error) {
	row := q.db.QueryRow(ctx, getInventory, itemID)
	var i Inventory
	err := row.Scan(&i.ItemID, &i.TotalStockOnHand, &i.LastUpdated)
	return i, err
}

const getInventoryForUpdate = `-- name: GetInventoryForUpdate :one
SELECT item_id, total_stock_on_hand, last_updated
FROM inventory
WHERE item_id = $1
FOR UPDATE
`

func (q *Queries) GetInventoryForUpdate(ctx context.Context, itemID string) (Inventory, error) {
	row := q.db.QueryRow(ctx, getInventoryForUpdate, itemID)
	var i Inventory
	err := row.Scan(&i.ItemID, &i.TotalStockOnHand, &i.LastUpdated)
	return i, err
}

const restockInventory = `-- name: RestockInventory :one
UPDATE inventory
SET total_stock_on_hand = total_stock_on_hand + $2,
    last_updated = now()
WHERE item_id = $1
RETURNING item_id, total_stock_on_hand, last_updated
`

type RestockInventoryParams struct {
	ItemID   string `json:"item_id"`
	Quantity int32  `json:"quantity"`
}

func (q *Queries) RestockInventory(ctx context.Context, arg RestockInventoryParams) (Inventory, error) {
	row := q.db.QueryRow(ctx, restockInventory, arg.ItemID, arg.Quantity)
	var i Inventory
	err := row.Scan(&i.ItemID, &i.TotalStockOnHand, &i.LastUpdated)
	return i, err
}

const upsertInventory = `-- name: UpsertInventory :one
INSERT INTO inventory (item_id, total_stock_on_hand)
VALUES ($1, $2)
ON CONFLICT (item_id) DO UPDATE SET total_stock_on_hand = EXCLUDED.total_stock_on_hand, last_updated = now()
RETURNING item_id, total_stock_on_hand, last_updated
`

type UpsertInventoryParams struct {
	ItemID           string `json:"item_id"`
	TotalStockOnHand int32  `json:"total_stock_on_hand"`
}

func (q *Queries) UpsertInventory(ctx context.Context, arg UpsertInventoryParams) (Inventory, error) {
	row := q.db.QueryRow(ctx, upsertInventory, arg.ItemID, arg.TotalStockOnHand)
	var i Inventory
	err := row.Scan(&i.ItemID, &i.TotalStockOnHand, &i.LastUpdated)
	return i, err
}
