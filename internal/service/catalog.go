package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/draft"
	"github.com/Harsh-n409/bhookie-pos-system/internal/offer"
	"github.com/jackc/pgx/v5"
)

// CatalogStore reads menu items and offers. Satisfied by *database.Queries.
type CatalogStore interface {
	GetActiveMenuItem(ctx context.Context, id string) (database.MenuItem, error)
	GetActiveOffer(ctx context.Context, id string) (database.Offer, error)
	ListOfferMembers(ctx context.Context, offerID string) ([]database.ListOfferMembersRow, error)
}

// CatalogService prices selections server-side.
type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) Item(ctx context.Context, id string) (draft.Item, error) {
	m, err := s.store.GetActiveMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return draft.Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		return draft.Item{}, fmt.Errorf("get menu item: %w", err)
	}
	return draft.Item{ID: m.ID, Name: m.Name, Price: numericToDecimal(m.Price)}, nil
}

func (s *CatalogService) Offer(ctx context.Context, id string) (offer.Offer, error) {
	o, err := s.store.GetActiveOffer(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return offer.Offer{}, fmt.Errorf("%w: %s", ErrOfferNotFound, id)
		}
		return offer.Offer{}, fmt.Errorf("get offer: %w", err)
	}
	rows, err := s.store.ListOfferMembers(ctx, id)
	if err != nil {
		return offer.Offer{}, fmt.Errorf("list offer members: %w", err)
	}
	out := offer.Offer{ID: o.ID, Name: o.Name, BundlePrice: numericToDecimal(o.OfferPrice)}
	for _, r := range rows {
		out.Members = append(out.Members, offer.Member{ItemID: r.ID, Name: r.Name, Price: numericToDecimal(r.Price)})
	}
	return out, nil
}
