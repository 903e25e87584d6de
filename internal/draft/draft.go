// Package draft holds the in-progress order a cashier is building at a till.
//
// A Draft is the only place line items, applied offers, the paying party and
// the order type are mutated before commit. Every mutation re-prices the
// draft through the settlement engine.
package draft

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/Harsh-n409/bhookie-pos-system/internal/offer"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/Harsh-n409/bhookie-pos-system/internal/payment"
	"github.com/Harsh-n409/bhookie-pos-system/internal/settlement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is a step of the order lifecycle.
type State string

const (
	StateDraft             State = "DRAFT"
	StatePriced            State = "PRICED"
	StateAwaitingParty     State = "AWAITING_PARTY"
	StateAwaitingOrderType State = "AWAITING_ORDER_TYPE"
	StateAwaitingPayment   State = "AWAITING_PAYMENT"
	StatePaid              State = "PAID"
	StateCommitting        State = "COMMITTING"
	StateCommitted         State = "COMMITTED"
	StateParked            State = "PARKED"
	StateCancelled         State = "CANCELLED"
)

var (
	ErrInvalidState     = errors.New("action not allowed in current order state")
	ErrEmptyOrder       = errors.New("order has no items")
	ErrLineNotFound     = errors.New("line not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrOfferLineFixed   = errors.New("offer items cannot change quantity")
	ErrInvalidOrderType = errors.New("order type must be DINE_IN or TAKEAWAY")
	ErrInvalidUpgrade   = errors.New("upgrades attach to a regular item")
)

// Item is a catalog entry selected at the till, priced server-side.
type Item struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Draft is a single order being built.
type Draft struct {
	ID           string
	CreatedBy    string
	State        State
	Lines        []order.LineItem
	Party        order.Party
	PartyDecided bool
	OrderType    string
	Totals       order.Totals
	Payment      *payment.Result
	PendingID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	offers *offer.Engine
}

// New starts an empty draft.
func New(createdBy string, now time.Time) *Draft {
	d := &Draft{
		ID:        uuid.NewString(),
		CreatedBy: createdBy,
		State:     StateDraft,
		Party:     order.NoParty(),
		CreatedAt: now,
		UpdatedAt: now,
		offers:    offer.NewEngine(nil),
	}
	d.reprice()
	return d
}

// Offers returns the applied offers.
func (d *Draft) Offers() []order.AppliedOffer {
	return d.offers.Applied()
}

func (d *Draft) editable() bool {
	switch d.State {
	case StateDraft, StatePriced, StateAwaitingParty, StateAwaitingOrderType, StateAwaitingPayment:
		return true
	}
	return false
}

func (d *Draft) reprice() {
	d.Totals = settlement.Compute(d.Lines, d.offers.DiscountTotal(), d.Party)
}

// linesChanged drops offers left without all their members, re-prices and
// drops back to Priced; any collected payment is discarded. It returns the
// ids of the offers dropped.
func (d *Draft) linesChanged() []string {
	stale := d.dropStaleOffers()
	d.reprice()
	d.Payment = nil
	if len(d.Lines) == 0 {
		d.State = StateDraft
	} else {
		d.State = StatePriced
	}
	return stale
}

// partyChanged re-prices and, if the pay flow is in progress, moves to the
// next step it still needs.
func (d *Draft) partyChanged() {
	d.reprice()
	d.Payment = nil
	switch d.State {
	case StateAwaitingParty, StateAwaitingOrderType, StateAwaitingPayment:
		d.advance()
	}
}

func (d *Draft) lineIndex(lineID string) int {
	return slices.IndexFunc(d.Lines, func(l order.LineItem) bool { return l.LineID == lineID })
}

// AddItem adds qty of item. A regular line with the same item and sauces is
// merged instead of duplicated.
func (d *Draft) AddItem(item Item, qty int32, sauces []string) (order.LineItem, error) {
	if !d.editable() {
		return order.LineItem{}, ErrInvalidState
	}
	if qty < 1 {
		return order.LineItem{}, ErrInvalidQuantity
	}
	for i, l := range d.Lines {
		if l.ItemID == item.ID && l.OfferID == "" && !l.IsUpgrade && sameSauces(l.Sauces, sauces) {
			d.Lines[i].Quantity += qty
			d.linesChanged()
			return d.Lines[i], nil
		}
	}
	l := order.LineItem{
		LineID:    uuid.NewString(),
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  qty,
		Sauces:    slices.Clone(sauces),
	}
	d.Lines = append(d.Lines, l)
	d.linesChanged()
	return l, nil
}

// AddUpgrade attaches an upgrade line to a regular parent line.
func (d *Draft) AddUpgrade(parentLineID string, item Item, qty int32) (order.LineItem, error) {
	if !d.editable() {
		return order.LineItem{}, ErrInvalidState
	}
	if qty < 1 {
		return order.LineItem{}, ErrInvalidQuantity
	}
	i := d.lineIndex(parentLineID)
	if i < 0 {
		return order.LineItem{}, ErrLineNotFound
	}
	if d.Lines[i].IsUpgrade {
		return order.LineItem{}, ErrInvalidUpgrade
	}
	l := order.LineItem{
		LineID:       uuid.NewString(),
		ItemID:       item.ID,
		Name:         item.Name,
		UnitPrice:    item.Price,
		Quantity:     qty,
		IsUpgrade:    true,
		ParentLineID: parentLineID,
	}
	d.Lines = append(d.Lines, l)
	d.linesChanged()
	return l, nil
}

func (d *Draft) SetQuantity(lineID string, qty int32) error {
	if !d.editable() {
		return ErrInvalidState
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}
	i := d.lineIndex(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	if d.Lines[i].OfferID != "" {
		return ErrOfferLineFixed
	}
	d.Lines[i].Quantity = qty
	d.linesChanged()
	return nil
}

// RemoveLine deletes a line and its upgrades. Removing the last line of an
// offer, or the only line carrying one of its member items, removes the
// offer and its discount. It returns the ids of offers removed as a result.
func (d *Draft) RemoveLine(lineID string) ([]string, error) {
	if !d.editable() {
		return nil, ErrInvalidState
	}
	i := d.lineIndex(lineID)
	if i < 0 {
		return nil, ErrLineNotFound
	}

	var removed []order.LineItem
	kept := d.Lines[:0:0]
	for _, l := range d.Lines {
		if l.LineID == lineID || l.ParentLineID == lineID {
			removed = append(removed, l)
			continue
		}
		kept = append(kept, l)
	}
	d.Lines = kept

	var cascaded []string
	for _, l := range removed {
		if a, ok := d.offers.RemoveByLineRemoval(l, d.Lines); ok {
			cascaded = append(cascaded, a.OfferID)
		}
	}
	cascaded = append(cascaded, d.linesChanged()...)
	return cascaded, nil
}

// ApplyOffer activates a bundle and adds its member lines.
func (d *Draft) ApplyOffer(o offer.Offer) (decimal.Decimal, error) {
	if !d.editable() {
		return decimal.Zero, ErrInvalidState
	}
	discount, lines, err := d.offers.Apply(o)
	if err != nil {
		return decimal.Zero, fmt.Errorf("offer %s: %w", o.ID, err)
	}
	d.Lines = append(d.Lines, lines...)
	d.linesChanged()
	return discount, nil
}

// RemoveOffer deactivates a bundle and deletes its lines.
func (d *Draft) RemoveOffer(offerID string) error {
	if !d.editable() {
		return ErrInvalidState
	}
	if _, err := d.offers.Remove(offerID); err != nil {
		return err
	}
	d.Lines = slices.DeleteFunc(d.Lines, func(l order.LineItem) bool { return l.OfferID == offerID })
	d.linesChanged()
	return nil
}

// dropStaleOffers removes offers whose member items are no longer all on
// the order. Their remaining lines stay at regular price.
func (d *Draft) dropStaleOffers() []string {
	stale := d.offers.Revalidate(d.Lines)
	for _, id := range stale {
		d.offers.Remove(id) //nolint:errcheck
		for i := range d.Lines {
			if d.Lines[i].OfferID == id {
				d.Lines[i].OfferID = ""
				d.Lines[i].EffectivePrice = decimal.NullDecimal{}
			}
		}
	}
	return stale
}

// SetCustomer attaches a loyalty customer with the balance read at pricing.
func (d *Draft) SetCustomer(p order.Party) error {
	if !d.editable() {
		return ErrInvalidState
	}
	p.Kind = enum.PartyKindCustomer
	d.Party = p
	d.PartyDecided = true
	d.partyChanged()
	return nil
}

// SetEmployee attaches an employee paying with meal credits.
func (d *Draft) SetEmployee(p order.Party) error {
	if !d.editable() {
		return ErrInvalidState
	}
	p.Kind = enum.PartyKindEmployee
	d.Party = p
	d.PartyDecided = true
	d.partyChanged()
	return nil
}

// ClearParty detaches any party. The order continues as a walk-in.
func (d *Draft) ClearParty() error {
	if !d.editable() {
		return ErrInvalidState
	}
	d.Party = order.NoParty()
	d.PartyDecided = false
	d.partyChanged()
	return nil
}

// SkipParty confirms the order has no customer or employee.
func (d *Draft) SkipParty() error {
	if !d.editable() {
		return ErrInvalidState
	}
	d.Party = order.NoParty()
	d.PartyDecided = true
	d.partyChanged()
	return nil
}

func (d *Draft) SetOrderType(t string) error {
	if !d.editable() {
		return ErrInvalidState
	}
	if t != enum.OrderTypeDineIn && t != enum.OrderTypeTakeaway {
		return ErrInvalidOrderType
	}
	d.OrderType = t
	d.Payment = nil
	switch d.State {
	case StateAwaitingParty, StateAwaitingOrderType, StateAwaitingPayment:
		d.advance()
	}
	return nil
}

// CheckPayable reports whether the Pay action may start. Stale offers are
// dropped first so the checked totals are the ones that will be charged.
func (d *Draft) CheckPayable() error {
	if !d.editable() {
		return ErrInvalidState
	}
	if len(d.Lines) == 0 {
		return ErrEmptyOrder
	}
	if len(d.dropStaleOffers()) > 0 {
		d.reprice()
	}
	return nil
}

// StartPayment moves a priced draft into the pay flow once the external
// gates have passed.
func (d *Draft) StartPayment() error {
	if err := d.CheckPayable(); err != nil {
		return err
	}
	d.advance()
	return nil
}

// advance picks the next step of the pay flow. An employee order fully
// covered by meal credit needs no tender and is paid immediately.
func (d *Draft) advance() {
	switch {
	case !d.PartyDecided:
		d.State = StateAwaitingParty
	case d.OrderType == "":
		d.State = StateAwaitingOrderType
	case d.Party.IsEmployee() && d.Totals.Total.IsZero():
		res, _ := payment.Collect(decimal.Zero, true, nil)
		d.Payment = &res
		d.State = StatePaid
	default:
		d.State = StateAwaitingPayment
	}
}

// BackToPriced leaves the pay flow, for example after a stock shortfall.
func (d *Draft) BackToPriced() {
	if d.editable() {
		d.linesChanged()
	}
}

// RecordPayment stores a successful collection.
func (d *Draft) RecordPayment(res payment.Result) error {
	if d.State != StateAwaitingPayment {
		return ErrInvalidState
	}
	if d.Party.IsEmployee() && d.Totals.CreditsUsed.IsPositive() && !slices.Contains(res.Methods, enum.PaymentMethodMealCredit) {
		res.Methods = append([]string{enum.PaymentMethodMealCredit}, res.Methods...)
	}
	d.Payment = &res
	d.State = StatePaid
	return nil
}

// AmountDue is what must be tendered at the till.
func (d *Draft) AmountDue() decimal.Decimal {
	if d.Party.IsEmployee() {
		return d.Totals.CashDue
	}
	return d.Totals.Total
}

// BeginCommit enters Committing. Only a paid draft can be committed.
func (d *Draft) BeginCommit() error {
	if d.State != StatePaid || d.Payment == nil {
		return ErrInvalidState
	}
	d.State = StateCommitting
	return nil
}

// CommitFailed leaves Committing. When the order itself must change (stock
// shortfall, balance no longer sufficient) the draft goes back to Priced
// with its payment discarded; other failures keep it Paid for retry.
func (d *Draft) CommitFailed(amend bool) {
	if d.State != StateCommitting {
		return
	}
	if amend {
		d.Payment = nil
		d.State = StatePriced
		return
	}
	d.State = StatePaid
}

func (d *Draft) MarkCommitted() {
	d.State = StateCommitted
}

// Park validates that the draft can be stored as a pending order.
func (d *Draft) Park() error {
	if !d.editable() {
		return ErrInvalidState
	}
	if len(d.Lines) == 0 {
		return ErrEmptyOrder
	}
	d.State = StateParked
	return nil
}

// Cancel abandons the draft. Nothing has been persisted before commit.
func (d *Draft) Cancel() error {
	switch d.State {
	case StateCommitting, StateCommitted, StateParked, StateCancelled:
		return ErrInvalidState
	}
	d.State = StateCancelled
	return nil
}

// Clone returns a deep copy.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Lines = make([]order.LineItem, len(d.Lines))
	for i, l := range d.Lines {
		l.Sauces = slices.Clone(l.Sauces)
		c.Lines[i] = l
	}
	c.offers = offer.NewEngine(d.offers.Applied())
	if d.Payment != nil {
		p := *d.Payment
		p.Methods = slices.Clone(p.Methods)
		p.Tenders = slices.Clone(p.Tenders)
		c.Payment = &p
	}
	return &c
}

func sameSauces(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
