package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const addOfferItem = `-- name: AddOfferItem :exec
INSERT INTO offer_items (offer_id, item_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

type AddOfferItemParams struct {
	OfferID string `json:"offer_id"`
	ItemID  string `json:"item_id"`
}

func (q *Queries) AddOfferItem(ctx context.Context, arg AddOfferItemParams) error {
	_, err := q.db.Exec(ctx, addOfferItem, arg.OfferID, arg.ItemID)
	return err
}

const createMenuItem = `-- name: CreateMenuItem :one
INSERT INTO menu_items (id, name, price)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, is_active = true
RETURNING id, name, price, is_active, created_at
`

type CreateMenuItemParams struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Price pgtype.Numeric `json:"price"`
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, createMenuItem, arg.ID, arg.Name, arg.Price)
	var i MenuItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const createOffer = `-- name: CreateOffer :one
INSERT INTO offers (id, name, offer_price)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, offer_price = EXCLUDED.offer_price, is_active = true
RETURNING id, name, offer_price, is_active, created_at
`

type CreateOfferParams struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	OfferPrice pgtype.Numeric `json:"offer_price"`
}

func (q *Queries) CreateOffer(ctx context.Context, arg CreateOfferParams) (Offer, error) {
	row := q.db.QueryRow(ctx, createOffer, arg.ID, arg.Name, arg.OfferPrice)
	var i Offer
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.OfferPrice,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const getActiveMenuItem = `-- name: GetActiveMenuItem :one
SELECT id, name, price, is_active, created_at
FROM menu_items
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetActiveMenuItem(ctx context.Context, id string) (MenuItem, error) {
	row := q.db.QueryRow(ctx, getActiveMenuItem, id)
	var i MenuItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const getActiveOffer = `-- name: GetActiveOffer :one
SELECT id, name, offer_price, is_active, created_at
FROM offers
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetActiveOffer(ctx context.Context, id string) (Offer, error) {
	row := q.db.QueryRow(ctx, getActiveOffer, id)
	var i Offer
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.OfferPrice,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const listOfferMembers = `-- name: ListOfferMembers :many
SELECT m.id, m.name, m.price
FROM offer_items oi
JOIN menu_items m ON m.id = oi.item_id
WHERE oi.offer_id = $1 AND m.is_active = true
ORDER BY m.id
`

type ListOfferMembersRow struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Price pgtype.Numeric `json:"price"`
}

func (q *Queries) ListOfferMembers(ctx context.Context, offerID string) ([]ListOfferMembersRow, error) {
	rows, err := q.db.Query(ctx, listOfferMembers, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOfferMembersRow
	for rows.Next() {
		var i ListOfferMembersRow
		if err := rows.Scan(&i.ID, &i.Name, &i.Price); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
