package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Staff struct {
	ID        uuid.UUID          `json:"id"`
	Username  string             `json:"username"`
	FullName  string             `json:"full_name"`
	PinHash   string             `json:"pin_hash"`
	Role      string             `json:"role"`
	IsActive  bool               `json:"is_active"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type MenuItem struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Price     pgtype.Numeric     `json:"price"`
	IsActive  bool               `json:"is_active"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type Offer struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	OfferPrice pgtype.Numeric     `json:"offer_price"`
	IsActive   bool               `json:"is_active"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type OfferItem struct {
	OfferID string `json:"offer_id"`
	ItemID  string `json:"item_id"`
}

type Inventory struct {
	ItemID           string             `json:"item_id"`
	TotalStockOnHand int32              `json:"total_stock_on_hand"`
	LastUpdated      pgtype.Timestamptz `json:"last_updated"`
}

type Customer struct {
	Phone      string             `json:"phone"`
	CustomerID string             `json:"customer_id"`
	UserID     string             `json:"user_id"`
	Name       string             `json:"name"`
	Points     pgtype.Numeric     `json:"points"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

type Employee struct {
	Phone              string             `json:"phone"`
	EmployeeID         string             `json:"employee_id"`
	Name               string             `json:"name"`
	MealCredits        pgtype.Numeric     `json:"meal_credits"`
	DefaultMealCredits pgtype.Numeric     `json:"default_meal_credits"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
}

type EmployeeAttendance struct {
	Phone       string      `json:"phone"`
	WorkDate    pgtype.Date `json:"work_date"`
	IsClockedIn bool        `json:"is_clocked_in"`
}

type CashierAttendance struct {
	ID         uuid.UUID          `json:"id"`
	CashierID  uuid.UUID          `json:"cashier_id"`
	WorkDate   pgtype.Date        `json:"work_date"`
	IsSignedIn bool               `json:"is_signed_in"`
	IsOpen     bool               `json:"is_open"`
	OpenTimes  []time.Time        `json:"open_times"`
	CloseTimes []time.Time        `json:"close_times"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

type PendingOrder struct {
	ID        uuid.UUID          `json:"id"`
	Snapshot  []byte             `json:"snapshot"`
	Status    string             `json:"status"`
	OrderID   pgtype.Text        `json:"order_id"`
	CreatedBy string             `json:"created_by"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	ExpiresAt pgtype.Timestamptz `json:"expires_at"`
}

type KotOrder struct {
	OrderID         string             `json:"order_id"`
	OrderDate       pgtype.Date        `json:"order_date"`
	Lines           []byte             `json:"lines"`
	Subtotal        pgtype.Numeric     `json:"subtotal"`
	OfferDiscount   pgtype.Numeric     `json:"offer_discount"`
	LoyaltyDiscount pgtype.Numeric     `json:"loyalty_discount"`
	Discount        pgtype.Numeric     `json:"discount"`
	Total           pgtype.Numeric     `json:"total"`
	PartyKind       string             `json:"party_kind"`
	PartyPhone      pgtype.Text        `json:"party_phone"`
	PartyID         pgtype.Text        `json:"party_id"`
	PartyName       pgtype.Text        `json:"party_name"`
	CreditsUsed     pgtype.Numeric     `json:"credits_used"`
	CashPaid        pgtype.Numeric     `json:"cash_paid"`
	EarnedPoints    int32              `json:"earned_points"`
	PointsRedeemed  pgtype.Numeric     `json:"points_redeemed"`
	OrderType       string             `json:"order_type"`
	PaymentMethods  []string           `json:"payment_methods"`
	ChangeDue       pgtype.Numeric     `json:"change_due"`
	Status          string             `json:"status"`
	Refunded        bool               `json:"refunded"`
	RefundedAmount  pgtype.Numeric     `json:"refunded_amount"`
	Cashier         string             `json:"cashier"`
	PendingOrderID  pgtype.UUID        `json:"pending_order_id"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
}

type Refund struct {
	ID               uuid.UUID          `json:"id"`
	OrderID          string             `json:"order_id"`
	RefundType       string             `json:"refund_type"`
	Lines            []byte             `json:"lines"`
	RefundAmount     pgtype.Numeric     `json:"refund_amount"`
	PointsClawedBack int32              `json:"points_clawed_back"`
	CreditsRestored  pgtype.Numeric     `json:"credits_restored"`
	ProcessedBy      string             `json:"processed_by"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
}

type LoyaltyHistory struct {
	ID         uuid.UUID          `json:"id"`
	CustomerID string             `json:"customer_id"`
	EntryType  string             `json:"entry_type"`
	Points     pgtype.Numeric     `json:"points"`
	OrderID    string             `json:"order_id"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}
