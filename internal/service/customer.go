package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/enum"
	"github.com/Harsh-n409/bhookie-pos-system/internal/order"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// WelcomePoints are credited to every newly registered customer.
const WelcomePoints = 20

const maxCustomerRetries = 3

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s\-]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return phonePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("personname", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return namePattern.MatchString(fl.Field().String())
	})
	return v
}

// RegisterCustomerRequest is the input for a new loyalty customer.
type RegisterCustomerRequest struct {
	Phone string `validate:"required,phone10"`
	Name  string `validate:"required,max=60,personname"`
}

// CustomerStore defines the DB methods for customer and employee lookups.
// Satisfied by *database.Queries.
type CustomerStore interface {
	GetCustomerByPhone(ctx context.Context, phone string) (database.Customer, error)
	CreateCustomer(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error)
	CustomerUserIDExists(ctx context.Context, userID string) (bool, error)
	GetMaxCustomerSequence(ctx context.Context) (int32, error)
	GetEmployeeByPhone(ctx context.Context, phone string) (database.Employee, error)
	IsEmployeeClockedIn(ctx context.Context, arg database.IsEmployeeClockedInParams) (bool, error)
}

// NewCustomerStore creates a CustomerStore from a DBTX (pool or tx).
type NewCustomerStore func(db database.DBTX) CustomerStore

// CustomerService registers customers and resolves paying parties.
type CustomerService struct {
	pool     TxBeginner
	db       database.DBTX
	newStore NewCustomerStore
	loc      *time.Location
	now      func() time.Time
}

func NewCustomerService(pool TxBeginner, db database.DBTX, newStore NewCustomerStore, loc *time.Location) *CustomerService {
	return &CustomerService{pool: pool, db: db, newStore: newStore, loc: loc, now: time.Now}
}

// ValidateCustomer checks the phone and name formats.
func ValidateCustomer(req RegisterCustomerRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		if ve[0].Field() == "Phone" {
			return ErrInvalidPhone
		}
		return ErrInvalidName
	}
	return err
}

// Register creates a customer with a fresh cusNN id, a unique 9-digit user
// id and the welcome points.
func (s *CustomerService) Register(ctx context.Context, req RegisterCustomerRequest) (database.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := ValidateCustomer(req); err != nil {
		return database.Customer{}, err
	}

	var lastErr error
	for attempt := 0; attempt < maxCustomerRetries; attempt++ {
		c, err := s.registerTx(ctx, req)
		if err == nil {
			return c, nil
		}
		if isUniqueViolation(err, "customers_customer_id_key") || isUniqueViolation(err, "customers_user_id_key") {
			lastErr = err
			continue
		}
		return database.Customer{}, err
	}
	return database.Customer{}, lastErr
}

func (s *CustomerService) registerTx(ctx context.Context, req RegisterCustomerRequest) (database.Customer, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Customer{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.GetCustomerByPhone(ctx, req.Phone); err == nil {
		return database.Customer{}, ErrCustomerExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return database.Customer{}, fmt.Errorf("get customer: %w", err)
	}

	seq, err := store.GetMaxCustomerSequence(ctx)
	if err != nil {
		return database.Customer{}, fmt.Errorf("get customer sequence: %w", err)
	}
	userID, err := newUserID(ctx, store)
	if err != nil {
		return database.Customer{}, err
	}

	c, err := store.CreateCustomer(ctx, database.CreateCustomerParams{
		Phone:      req.Phone,
		CustomerID: fmt.Sprintf("cus%02d", seq+1),
		UserID:     userID,
		Name:       req.Name,
		Points:     decimalToNumeric(decimal.NewFromInt(WelcomePoints)),
	})
	if err != nil {
		if isUniqueViolation(err, "customers_pkey") {
			return database.Customer{}, ErrCustomerExists
		}
		return database.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Customer{}, fmt.Errorf("commit tx: %w", err)
	}
	return c, nil
}

func newUserID(ctx context.Context, store CustomerStore) (string, error) {
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("%d", 100000000+rand.Intn(900000000))
		exists, err := store.CustomerUserIDExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check user id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a unique user id")
}

// Customer resolves a loyalty customer by phone.
func (s *CustomerService) Customer(ctx context.Context, phone string) (order.Party, error) {
	c, err := s.newStore(s.db).GetCustomerByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Party{}, ErrCustomerNotFound
		}
		return order.Party{}, fmt.Errorf("get customer: %w", err)
	}
	return CustomerParty(c), nil
}

// Employee resolves an employee by phone. Only employees clocked in today
// can pay with meal credits.
func (s *CustomerService) Employee(ctx context.Context, phone string) (order.Party, error) {
	store := s.newStore(s.db)
	e, err := store.GetEmployeeByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Party{}, ErrEmployeeNotFound
		}
		return order.Party{}, fmt.Errorf("get employee: %w", err)
	}
	in, err := store.IsEmployeeClockedIn(ctx, database.IsEmployeeClockedInParams{
		Phone:    phone,
		WorkDate: dateIn(s.now(), s.loc),
	})
	if err != nil {
		return order.Party{}, fmt.Errorf("check attendance: %w", err)
	}
	if !in {
		return order.Party{}, ErrEmployeeNotClockedIn
	}
	return EmployeeParty(e), nil
}

func CustomerParty(c database.Customer) order.Party {
	return order.Party{
		Kind:   enum.PartyKindCustomer,
		Phone:  c.Phone,
		ID:     c.CustomerID,
		Name:   c.Name,
		Points: numericToDecimal(c.Points),
	}
}

func EmployeeParty(e database.Employee) order.Party {
	return order.Party{
		Kind:        enum.PartyKindEmployee,
		Phone:       e.Phone,
		ID:          e.EmployeeID,
		Name:        e.Name,
		MealCredits: numericToDecimal(e.MealCredits),
	}
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}
