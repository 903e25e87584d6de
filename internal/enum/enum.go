package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	OrderStatusCompleted = "COMPLETED"
)

const (
	PendingStatusPending   = "PENDING"
	PendingStatusCompleted = "COMPLETED"
)

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	StaffRoleManager = "MANAGER"
	StaffRoleCashier = "CASHIER"
)

const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeaway = "TAKEAWAY"
)

const (
	PartyKindNone     = "NONE"
	PartyKindCustomer = "CUSTOMER"
	PartyKindEmployee = "EMPLOYEE"
)

const (
	LoyaltyEntryRedeem   = "redeem"
	LoyaltyEntryEarn     = "earn"
	LoyaltyEntryClawback = "clawback"
)

const (
	RefundTypePartial = "PARTIAL"
	RefundTypeFull    = "FULL"
)

// ── Group B: Configurable labels (no DB constraint) ──

const (
	PaymentMethodCash       = "CASH"
	PaymentMethodCard       = "CARD"
	PaymentMethodMealCredit = "MEAL_CREDIT"
)

const (
	TopicKitchen = "kitchen"
	TopicOrders  = "orders"
)

const (
	EventKOTCommitted    = "kot.committed"
	EventRefundProcessed = "refund.processed"
)
