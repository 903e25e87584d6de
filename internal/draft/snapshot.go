package draft

import (
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/offer"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/Harsh-n409/bhookie-pos-system/internal/payment"
	"github.com/google/uuid"
)

// Snapshot is the stored form of a parked draft and the JSON view of a live
// one.
type Snapshot struct {
	ID           string               `json:"id,omitempty"`
	State        State                `json:"state,omitempty"`
	Lines        []order.LineItem     `json:"lines"`
	Offers       []order.AppliedOffer `json:"offers"`
	Party        order.Party          `json:"party"`
	PartyDecided bool                 `json:"party_decided"`
	OrderType    string               `json:"order_type,omitempty"`
	Totals       order.Totals         `json:"totals"`
	AmountDue    string               `json:"amount_due,omitempty"`
	Payment      *payment.Result      `json:"payment,omitempty"`
	PendingID    string               `json:"pending_order_id,omitempty"`
	CreatedBy    string               `json:"created_by"`
}

func (d *Draft) Snapshot() Snapshot {
	c := d.Clone()
	if c.Lines == nil {
		c.Lines = []order.LineItem{}
	}
	return Snapshot{
		ID:           c.ID,
		State:        c.State,
		Lines:        c.Lines,
		Offers:       c.offers.Applied(),
		Party:        c.Party,
		PartyDecided: c.PartyDecided,
		OrderType:    c.OrderType,
		Totals:       c.Totals,
		AmountDue:    c.AmountDue().StringFixed(2),
		Payment:      c.Payment,
		PendingID:    c.PendingID,
		CreatedBy:    c.CreatedBy,
	}
}

// Restore rehydrates a parked snapshot into a new draft that remembers the
// pending order it came from. Totals are recomputed from the lines.
func Restore(s Snapshot, pendingID, createdBy string, now time.Time) *Draft {
	d := &Draft{
		ID:           uuid.NewString(),
		CreatedBy:    createdBy,
		Lines:        s.Lines,
		Party:        s.Party,
		PartyDecided: s.PartyDecided,
		OrderType:    s.OrderType,
		PendingID:    pendingID,
		CreatedAt:    now,
		UpdatedAt:    now,
		offers:       offer.NewEngine(s.Offers),
	}
	if d.Party.Kind == "" {
		d.Party = order.NoParty()
	}
	d.linesChanged()
	return d
}
