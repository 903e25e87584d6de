package payment

import (
	"errors"
	"testing"

	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cash(s string) Tender { return Tender{Method: enum.PaymentMethodCash, Amount: dec(s)} }
func card(s string) Tender { return Tender{Method: enum.PaymentMethodCard, Amount: dec(s)} }

func TestCollect_Success(t *testing.T) {
	tests := []struct {
		name     string
		due      string
		employee bool
		tenders  []Tender
		methods  []string
		cashPaid string
		change   string
	}{
		{"exact cash", "12.50", false, []Tender{cash("12.50")}, []string{"CASH"}, "12.50", "0"},
		{"cash with change", "12.50", false, []Tender{cash("20")}, []string{"CASH"}, "12.50", "7.50"},
		{"exact card", "12.50", false, []Tender{card("12.50")}, []string{"CARD"}, "0", "0"},
		{"partial cash then card", "12.50", false, []Tender{cash("5"), card("7.50")}, []string{"CASH", "CARD"}, "5", "0"},
		{"split cash then overpay", "12.50", false, []Tender{cash("5"), cash("10")}, []string{"CASH"}, "12.50", "2.50"},
		{"employee exact cash", "4.20", true, []Tender{cash("4.20")}, []string{"CASH"}, "4.20", "0"},
		{"employee card", "4.20", true, []Tender{card("4.20")}, []string{"CARD"}, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Collect(dec(tt.due), tt.employee, tt.tenders)
			if err != nil {
				t.Fatalf("collect: %v", err)
			}
			if len(res.Methods) != len(tt.methods) {
				t.Fatalf("methods: got %v, want %v", res.Methods, tt.methods)
			}
			for i := range tt.methods {
				if res.Methods[i] != tt.methods[i] {
					t.Errorf("methods[%d]: got %s, want %s", i, res.Methods[i], tt.methods[i])
				}
			}
			if !res.CashPaid.Equal(dec(tt.cashPaid)) {
				t.Errorf("cash paid: got %s, want %s", res.CashPaid, tt.cashPaid)
			}
			if !res.ChangeDue.Equal(dec(tt.change)) {
				t.Errorf("change: got %s, want %s", res.ChangeDue, tt.change)
			}
		})
	}
}

func TestCollect_Errors(t *testing.T) {
	tests := []struct {
		name     string
		due      string
		employee bool
		tenders  []Tender
		want     error
	}{
		{"no tenders", "5", false, nil, ErrNoTenders},
		{"card short", "5", false, []Tender{card("4")}, ErrCardAmountMismatch},
		{"card over", "5", false, []Tender{card("6")}, ErrCardAmountMismatch},
		{"employee overpays cash", "5", true, []Tender{cash("10")}, ErrEmployeeExactCash},
		{"employee partial cash", "5", true, []Tender{cash("2")}, ErrEmployeeExactCash},
		{"underpaid", "5", false, []Tender{cash("2")}, ErrUnderpaid},
		{"tender after settled", "5", false, []Tender{cash("5"), cash("1")}, ErrOverTendered},
		{"zero amount", "5", false, []Tender{cash("0")}, ErrInvalidAmount},
		{"meal credit tender", "5", true, []Tender{{Method: enum.PaymentMethodMealCredit, Amount: dec("5")}}, ErrInvalidMethod},
		{"unknown method", "5", false, []Tender{{Method: "CHEQUE", Amount: dec("5")}}, ErrInvalidMethod},
		{"tender on zero due", "0", false, []Tender{cash("1")}, ErrNothingDue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Collect(dec(tt.due), tt.employee, tt.tenders)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCollect_ZeroDue(t *testing.T) {
	res, err := Collect(decimal.Zero, true, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(res.Methods) != 1 || res.Methods[0] != enum.PaymentMethodMealCredit {
		t.Errorf("employee zero total: got methods %v, want [MEAL_CREDIT]", res.Methods)
	}

	res, err = Collect(decimal.Zero, false, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(res.Methods) != 0 {
		t.Errorf("customer zero total: got methods %v, want none", res.Methods)
	}
}
