package service

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by the POS services.
var (
	ErrItemNotFound          = errors.New("menu item not found")
	ErrOfferNotFound         = errors.New("offer not found")
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrCustomerExists        = errors.New("customer already registered")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeNotClockedIn  = errors.New("employee is not clocked in today")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPendingOrderNotFound  = errors.New("pending order not found")
	ErrPendingOrderExpired   = errors.New("pending order expired")
	ErrPendingOrderCompleted = errors.New("pending order already completed")
	ErrNoCashierSession      = errors.New("no cashier is signed in with an open till")
	ErrInsufficientPoints    = errors.New("insufficient loyalty points")
	ErrInsufficientCredits   = errors.New("insufficient meal credits")
	ErrOrderSequenceFull     = errors.New("daily order sequence exhausted")
	ErrInvalidPhone          = errors.New("invalid phone number")
	ErrInvalidName           = errors.New("invalid name")
	ErrNotSignedIn           = errors.New("cashier is not signed in")
	ErrTillAlreadyOpen       = errors.New("till already open")
	ErrTillNotOpen           = errors.New("till is not open")
	ErrTillStillOpen         = errors.New("close the till before signing out")
	ErrInvalidCredentials    = errors.New("invalid credentials")
)

// Shortfall is one item that cannot be served from stock.
type Shortfall struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Requested int32  `json:"requested"`
	Available int32  `json:"available"`
	NoRecord  bool   `json:"no_record,omitempty"`
}

// StockShortfallError carries the itemized shortfall list.
type StockShortfallError struct {
	Shortfalls []Shortfall
}

func (e *StockShortfallError) Error() string {
	parts := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		name := s.Name
		if name == "" {
			name = s.ItemID
		}
		parts[i] = fmt.Sprintf("%s (requested %d, available %d)", name, s.Requested, s.Available)
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// DataIntegrityError reports a record the store should hold but does not.
type DataIntegrityError struct {
	Resource string
	Key      string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s %q missing", e.Resource, e.Key)
}
