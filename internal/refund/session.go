// Package refund computes partial and full refunds of committed orders.
// Lines sold as part of an offer are refunded together as one bundle.
package refund

import (
	"errors"
	"fmt"

	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyRefunded  = errors.New("order already fully refunded")
	ErrNothingToRefund  = errors.New("select at least one item to refund")
	ErrExceedsRemaining = errors.New("refund quantity exceeds remaining quantity")
	ErrUnknownEntry     = errors.New("unknown refund line")
	ErrNegativeQuantity = errors.New("refund quantity must not be negative")
)

// Entry is one refundable unit of the session: a standalone line or an
// offer bundle. Remaining for a bundle is the minimum across its members.
type Entry struct {
	Key       string   `json:"key"`
	OfferID   string   `json:"offer_id,omitempty"`
	LineIDs   []string `json:"line_ids"`
	Name      string   `json:"name"`
	Remaining int32    `json:"remaining"`
	Quantity  int32    `json:"quantity"`
}

// Request asks for qty units of the entry identified by Key.
type Request struct {
	Key      string `json:"key" validate:"required"`
	Quantity int32  `json:"quantity" validate:"gte=0"`
}

// Session is an in-progress refund of one order.
type Session struct {
	OrderID string
	Entries []Entry

	lines []order.LineItem
	index map[string]int
}

// Open builds a session with every requested quantity at zero.
func Open(o order.Order) *Session {
	s := &Session{
		OrderID: o.OrderID,
		lines:   append([]order.LineItem(nil), o.Lines...),
		index:   make(map[string]int),
	}
	for _, l := range s.lines {
		key := l.LineID
		if l.OfferID != "" {
			key = l.OfferID
		}
		if i, ok := s.index[key]; ok {
			e := &s.Entries[i]
			e.LineIDs = append(e.LineIDs, l.LineID)
			e.Name += " + " + l.Name
			if l.Remaining() < e.Remaining {
				e.Remaining = l.Remaining()
			}
			continue
		}
		s.index[key] = len(s.Entries)
		s.Entries = append(s.Entries, Entry{
			Key:       key,
			OfferID:   l.OfferID,
			LineIDs:   []string{l.LineID},
			Name:      l.Name,
			Remaining: l.Remaining(),
		})
	}
	return s
}

// Set records the requested quantity for an entry.
func (s *Session) Set(key string, qty int32) error {
	i, ok := s.index[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, key)
	}
	if qty < 0 {
		return ErrNegativeQuantity
	}
	s.Entries[i].Quantity = qty
	return nil
}

// Apply sets every requested quantity in reqs.
func (s *Session) Apply(reqs []Request) error {
	for _, r := range reqs {
		if err := s.Set(r.Key, r.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// SetAll requests the full remaining quantity of every entry.
func (s *Session) SetAll() {
	for i := range s.Entries {
		s.Entries[i].Quantity = s.Entries[i].Remaining
	}
}

// Validate checks the requested quantities without changing anything.
func (s *Session) Validate() error {
	if order.FullyRefunded(s.lines) {
		return ErrAlreadyRefunded
	}
	selected := false
	for _, e := range s.Entries {
		if e.Quantity > e.Remaining {
			return fmt.Errorf("%s: %w (remaining %d)", e.Name, ErrExceedsRemaining, e.Remaining)
		}
		if e.Quantity > 0 {
			selected = true
		}
	}
	if !selected {
		return ErrNothingToRefund
	}
	return nil
}

// RefundedLine is the snapshot of one line in a refund record.
type RefundedLine struct {
	LineID           string          `json:"line_id"`
	ItemID           string          `json:"item_id"`
	Name             string          `json:"name"`
	Price            decimal.Decimal `json:"price"`
	Quantity         int32           `json:"quantity"`
	OriginalQuantity int32           `json:"original_quantity"`
	OfferID          string          `json:"associated_offer_id,omitempty"`
}

// Plan is the full effect of committing a session.
type Plan struct {
	Lines          []RefundedLine
	UpdatedLines   []order.LineItem
	Amount         decimal.Decimal
	FullyRefunded  bool
	PointsClawback int32
	CreditsRestore decimal.Decimal
}

// Plan validates the session and computes the refund. Clawback is
// floor(earnedPoints * q / quantity) per affected line, credit restoration
// creditsUsed * q / quantity per affected line; callers cap both.
func (s *Session) Plan(earnedPoints int32, creditsUsed decimal.Decimal) (Plan, error) {
	if err := s.Validate(); err != nil {
		return Plan{}, err
	}

	requested := make(map[string]int32)
	for _, e := range s.Entries {
		if e.Quantity == 0 {
			continue
		}
		for _, id := range e.LineIDs {
			requested[id] = e.Quantity
		}
	}

	p := Plan{
		UpdatedLines:   make([]order.LineItem, len(s.lines)),
		Amount:         decimal.Zero,
		CreditsRestore: decimal.Zero,
	}
	earned := decimal.NewFromInt32(earnedPoints)
	for i, l := range s.lines {
		q := requested[l.LineID]
		if q > 0 {
			qty := decimal.NewFromInt32(q)
			orig := decimal.NewFromInt32(l.Quantity)

			p.Amount = p.Amount.Add(l.RefundPrice().Mul(qty))
			p.PointsClawback += int32(earned.Mul(qty).Div(orig).Floor().IntPart())
			p.CreditsRestore = p.CreditsRestore.Add(creditsUsed.Mul(qty).Div(orig))
			p.Lines = append(p.Lines, RefundedLine{
				LineID:           l.LineID,
				ItemID:           l.ItemID,
				Name:             l.Name,
				Price:            l.RefundPrice(),
				Quantity:         q,
				OriginalQuantity: l.Quantity,
				OfferID:          l.OfferID,
			})

			l.RefundedQuantity += q
			l.Refunded = l.RefundedQuantity == l.Quantity
		}
		p.UpdatedLines[i] = l
	}
	p.CreditsRestore = p.CreditsRestore.Round(2)
	p.FullyRefunded = order.FullyRefunded(p.UpdatedLines)
	return p, nil
}
