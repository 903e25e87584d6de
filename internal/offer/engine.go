// Package offer tracks the promotional bundles applied to a draft order and
// keeps them consistent with the order's lines.
package offer

import (
	"errors"

	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyApplied = errors.New("offer already applied")
	ErrNoMembers      = errors.New("offer has no items")
	ErrNotApplied     = errors.New("offer not applied")
	ErrInvalidBundle  = errors.New("offer price exceeds the price of its items")
)

// Member is a catalog item that belongs to an offer.
type Member struct {
	ItemID string
	Name   string
	Price  decimal.Decimal
}

// Offer is a bundle as read from the catalog.
type Offer struct {
	ID          string
	Name        string
	BundlePrice decimal.Decimal
	Members     []Member
}

// OriginalPrice is the sum of the member prices.
func (o Offer) OriginalPrice() decimal.Decimal {
	sum := decimal.Zero
	for _, m := range o.Members {
		sum = sum.Add(m.Price)
	}
	return sum
}

// Engine holds the applied offers of one draft, in application order.
type Engine struct {
	applied []order.AppliedOffer
}

// NewEngine restores an engine from a previously applied set.
func NewEngine(applied []order.AppliedOffer) *Engine {
	e := &Engine{}
	e.applied = append(e.applied, applied...)
	return e
}

// Applied returns a copy of the active offers.
func (e *Engine) Applied() []order.AppliedOffer {
	out := make([]order.AppliedOffer, len(e.applied))
	copy(out, e.applied)
	return out
}

func (e *Engine) IsApplied(offerID string) bool {
	return e.index(offerID) >= 0
}

// DiscountTotal is the sum of active offer discounts.
func (e *Engine) DiscountTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range e.applied {
		total = total.Add(a.Discount)
	}
	return total
}

// Apply activates an offer. It returns the discount and the member lines,
// tagged with the offer id, that the caller must add to the order. Each
// member line carries its share of the bundle price as effective price,
// with the rounding remainder on the last member.
func (e *Engine) Apply(o Offer) (decimal.Decimal, []order.LineItem, error) {
	if e.IsApplied(o.ID) {
		return decimal.Zero, nil, ErrAlreadyApplied
	}
	if len(o.Members) == 0 {
		return decimal.Zero, nil, ErrNoMembers
	}
	original := o.OriginalPrice()
	if o.BundlePrice.GreaterThan(original) {
		return decimal.Zero, nil, ErrInvalidBundle
	}
	discount := original.Sub(o.BundlePrice)

	lines := make([]order.LineItem, len(o.Members))
	itemIDs := make([]string, len(o.Members))
	allocated := decimal.Zero
	for i, m := range o.Members {
		var share decimal.Decimal
		switch {
		case i == len(o.Members)-1:
			share = o.BundlePrice.Sub(allocated)
		case original.IsZero():
			share = decimal.Zero
		default:
			share = m.Price.Mul(o.BundlePrice).Div(original).Round(2)
		}
		allocated = allocated.Add(share)
		itemIDs[i] = m.ItemID
		lines[i] = order.LineItem{
			LineID:         uuid.NewString(),
			ItemID:         m.ItemID,
			Name:           m.Name,
			UnitPrice:      m.Price,
			Quantity:       1,
			OfferID:        o.ID,
			EffectivePrice: decimal.NewNullDecimal(share),
		}
	}

	e.applied = append(e.applied, order.AppliedOffer{
		OfferID:       o.ID,
		Name:          o.Name,
		Discount:      discount,
		MemberItemIDs: itemIDs,
	})
	return discount, lines, nil
}

// Remove deactivates an offer and returns it.
func (e *Engine) Remove(offerID string) (order.AppliedOffer, error) {
	i := e.index(offerID)
	if i < 0 {
		return order.AppliedOffer{}, ErrNotApplied
	}
	removed := e.applied[i]
	e.applied = append(e.applied[:i], e.applied[i+1:]...)
	return removed, nil
}

// Revalidate returns the ids of offers whose member items are no longer all
// present among lines. It does not remove them.
func (e *Engine) Revalidate(lines []order.LineItem) []string {
	present := make(map[string]bool, len(lines))
	for _, l := range lines {
		present[l.ItemID] = true
	}
	var stale []string
	for _, a := range e.applied {
		for _, id := range a.MemberItemIDs {
			if !present[id] {
				stale = append(stale, a.OfferID)
				break
			}
		}
	}
	return stale
}

// RemoveByLineRemoval removes the offer a deleted line belonged to when no
// other line of that offer remains. It reports the removed offer, if any.
func (e *Engine) RemoveByLineRemoval(removed order.LineItem, remaining []order.LineItem) (order.AppliedOffer, bool) {
	if removed.OfferID == "" {
		return order.AppliedOffer{}, false
	}
	for _, l := range remaining {
		if l.OfferID == removed.OfferID {
			return order.AppliedOffer{}, false
		}
	}
	a, err := e.Remove(removed.OfferID)
	if err != nil {
		return order.AppliedOffer{}, false
	}
	return a, true
}

func (e *Engine) index(offerID string) int {
	for i, a := range e.applied {
		if a.OfferID == offerID {
			return i
		}
	}
	return -1
}
