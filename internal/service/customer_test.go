package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// mockCustomerStore implements CustomerStore with configurable behavior.
type mockCustomerStore struct {
	getCustomerByPhoneFn     func(ctx context.Context, phone string) (database.Customer, error)
	createCustomerFn         func(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error)
	customerUserIDExistsFn   func(ctx context.Context, userID string) (bool, error)
	getMaxCustomerSequenceFn func(ctx context.Context) (int32, error)
	getEmployeeByPhoneFn     func(ctx context.Context, phone string) (database.Employee, error)
	isEmployeeClockedInFn    func(ctx context.Context, arg database.IsEmployeeClockedInParams) (bool, error)
}

func (m *mockCustomerStore) GetCustomerByPhone(ctx context.Context, phone string) (database.Customer, error) {
	return m.getCustomerByPhoneFn(ctx, phone)
}
func (m *mockCustomerStore) CreateCustomer(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error) {
	return m.createCustomerFn(ctx, arg)
}
func (m *mockCustomerStore) CustomerUserIDExists(ctx context.Context, userID string) (bool, error) {
	return m.customerUserIDExistsFn(ctx, userID)
}
func (m *mockCustomerStore) GetMaxCustomerSequence(ctx context.Context) (int32, error) {
	return m.getMaxCustomerSequenceFn(ctx)
}
func (m *mockCustomerStore) GetEmployeeByPhone(ctx context.Context, phone string) (database.Employee, error) {
	return m.getEmployeeByPhoneFn(ctx, phone)
}
func (m *mockCustomerStore) IsEmployeeClockedIn(ctx context.Context, arg database.IsEmployeeClockedInParams) (bool, error) {
	return m.isEmployeeClockedInFn(ctx, arg)
}

func newTestCustomerService(store *mockCustomerStore) (*CustomerService, *mockTx) {
	tx := &mockTx{}
	svc := NewCustomerService(&mockTxBeginner{tx: tx}, nil, func(db database.DBTX) CustomerStore { return store }, time.UTC)
	svc.now = func() time.Time { return testNow }
	return svc, tx
}

func defaultCustomerStore() *mockCustomerStore {
	return &mockCustomerStore{
		getCustomerByPhoneFn: func(ctx context.Context, phone string) (database.Customer, error) {
			return database.Customer{}, pgx.ErrNoRows
		},
		createCustomerFn: func(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error) {
			return database.Customer{Phone: arg.Phone, CustomerID: arg.CustomerID, UserID: arg.UserID, Name: arg.Name, Points: arg.Points}, nil
		},
		customerUserIDExistsFn: func(ctx context.Context, userID string) (bool, error) {
			return false, nil
		},
		getMaxCustomerSequenceFn: func(ctx context.Context) (int32, error) {
			return 4, nil
		},
		getEmployeeByPhoneFn: func(ctx context.Context, phone string) (database.Employee, error) {
			return database.Employee{Phone: phone, EmployeeID: "emp01", Name: "Sam", MealCredits: makeNumeric("10.00")}, nil
		},
		isEmployeeClockedInFn: func(ctx context.Context, arg database.IsEmployeeClockedInParams) (bool, error) {
			return true, nil
		},
	}
}

func TestValidateCustomer(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterCustomerRequest
		wantErr error
	}{
		{"valid", RegisterCustomerRequest{Phone: "0712345678", Name: "Mary-Jane Smith"}, nil},
		{"short phone", RegisterCustomerRequest{Phone: "071234567", Name: "Mary"}, ErrInvalidPhone},
		{"letters in phone", RegisterCustomerRequest{Phone: "07123abc78", Name: "Mary"}, ErrInvalidPhone},
		{"empty phone", RegisterCustomerRequest{Phone: "", Name: "Mary"}, ErrInvalidPhone},
		{"digits in name", RegisterCustomerRequest{Phone: "0712345678", Name: "Mary2"}, ErrInvalidName},
		{"empty name", RegisterCustomerRequest{Phone: "0712345678", Name: ""}, ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCustomer(tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegister_Success(t *testing.T) {
	var created database.CreateCustomerParams
	store := defaultCustomerStore()
	store.createCustomerFn = func(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error) {
		created = arg
		return database.Customer{Phone: arg.Phone, CustomerID: arg.CustomerID, UserID: arg.UserID, Name: arg.Name, Points: arg.Points}, nil
	}
	svc, tx := newTestCustomerService(store)

	c, err := svc.Register(context.Background(), RegisterCustomerRequest{Phone: "0712345678", Name: "  Jane Doe "})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if c.CustomerID != "cus05" {
		t.Errorf("customer id: got %s, want cus05", c.CustomerID)
	}
	if len(created.UserID) != 9 {
		t.Errorf("user id should have 9 digits, got %q", created.UserID)
	}
	if created.Name != "Jane Doe" {
		t.Errorf("name not trimmed: %q", created.Name)
	}
	if !numericEquals(created.Points, "20") {
		t.Errorf("welcome points: got %s", numericToDecimal(created.Points))
	}
	if tx.commits != 1 {
		t.Errorf("commits: got %d, want 1", tx.commits)
	}
}

func TestRegister_AlreadyExists(t *testing.T) {
	store := defaultCustomerStore()
	store.getCustomerByPhoneFn = func(ctx context.Context, phone string) (database.Customer, error) {
		return database.Customer{Phone: phone}, nil
	}
	svc, _ := newTestCustomerService(store)

	_, err := svc.Register(context.Background(), RegisterCustomerRequest{Phone: "0712345678", Name: "Jane"})
	if !errors.Is(err, ErrCustomerExists) {
		t.Fatalf("expected ErrCustomerExists, got %v", err)
	}
}

func TestRegister_RetryOnCustomerIDRace(t *testing.T) {
	store := defaultCustomerStore()
	calls := 0
	store.createCustomerFn = func(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error) {
		calls++
		if calls == 1 {
			return database.Customer{}, &pgconn.PgError{Code: "23505", ConstraintName: "customers_customer_id_key"}
		}
		return database.Customer{CustomerID: arg.CustomerID}, nil
	}
	svc, _ := newTestCustomerService(store)

	if _, err := svc.Register(context.Background(), RegisterCustomerRequest{Phone: "0712345678", Name: "Jane"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if calls != 2 {
		t.Errorf("create calls: got %d, want 2", calls)
	}
}

func TestRegister_UserIDCollisionRedrawn(t *testing.T) {
	store := defaultCustomerStore()
	checks := 0
	store.customerUserIDExistsFn = func(ctx context.Context, userID string) (bool, error) {
		checks++
		return checks < 3, nil
	}
	svc, _ := newTestCustomerService(store)

	if _, err := svc.Register(context.Background(), RegisterCustomerRequest{Phone: "0712345678", Name: "Jane"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if checks != 3 {
		t.Errorf("user id checks: got %d, want 3", checks)
	}
}

func TestCustomerLookup(t *testing.T) {
	store := defaultCustomerStore()
	store.getCustomerByPhoneFn = func(ctx context.Context, phone string) (database.Customer, error) {
		if phone == "0712345678" {
			return database.Customer{Phone: phone, CustomerID: "cus01", Name: "Jane", Points: makeNumeric("12.50")}, nil
		}
		return database.Customer{}, pgx.ErrNoRows
	}
	svc, _ := newTestCustomerService(store)

	p, err := svc.Customer(context.Background(), "0712345678")
	if err != nil {
		t.Fatalf("customer: %v", err)
	}
	if p.Kind != enum.PartyKindCustomer || !p.Points.Equal(dec("12.50")) || p.ID != "cus01" {
		t.Errorf("party: %+v", p)
	}
	if _, err := svc.Customer(context.Background(), "0700000000"); !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestEmployeeLookup_ClockedIn(t *testing.T) {
	store := defaultCustomerStore()
	var asked database.IsEmployeeClockedInParams
	store.isEmployeeClockedInFn = func(ctx context.Context, arg database.IsEmployeeClockedInParams) (bool, error) {
		asked = arg
		return true, nil
	}
	svc, _ := newTestCustomerService(store)

	p, err := svc.Employee(context.Background(), "0799999999")
	if err != nil {
		t.Fatalf("employee: %v", err)
	}
	if p.Kind != enum.PartyKindEmployee || !p.MealCredits.Equal(dec("10")) {
		t.Errorf("party: %+v", p)
	}
	if !asked.WorkDate.Time.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("work date: got %v", asked.WorkDate.Time)
	}
}

func TestEmployeeLookup_NotClockedIn(t *testing.T) {
	store := defaultCustomerStore()
	store.isEmployeeClockedInFn = func(ctx context.Context, arg database.IsEmployeeClockedInParams) (bool, error) {
		return false, nil
	}
	svc, _ := newTestCustomerService(store)

	if _, err := svc.Employee(context.Background(), "0799999999"); !errors.Is(err, ErrEmployeeNotClockedIn) {
		t.Fatalf("expected ErrEmployeeNotClockedIn, got %v", err)
	}
}
