package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Account is a money container owned by the user.
	Account struct {
		ID      string
		Name    string
		Balance decimal.Decimal
		Income  decimal.Decimal
		Expense decimal.Decimal
	}

	Transaction struct {
		ID          string
		AccountID   string
		IsIncome    bool
		Amount      decimal.Decimal
		Category    Category
		Timestamp   time.Time
		Description string
	}

	// Budget caps spending (or targets income) over a date range for a set
	// of categories.
	Budget struct {
		ID         string
		AccountID  string
		Name       string
		Categories []Category
		Limit      decimal.Decimal
		IsExpense  bool
		StartDate  time.Time
		EndDate    time.Time
	}

	// BudgetStatus is computed by the backend.
	BudgetStatus struct {
		Budget     Budget
		Spent      decimal.Decimal
		Remaining  decimal.Decimal
		Percentage float64
		Exceeded   bool
	}

	User struct {
		ID    string
		Name  string
		Email string
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyAccount     = errors.New("missing account")
	ErrNoCategories     = errors.New("at least one category is required")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrCategoryMismatch = errors.New("category does not match transaction direction")
)

// IsNew reports whether the account has not been created on the backend yet.
func (a Account) IsNew() bool { return a.ID == "" }

// IsNew reports whether the transaction has not been created on the backend yet.
func (t Transaction) IsNew() bool { return t.ID == "" }

// IsNew reports whether the budget has not been created on the backend yet.
func (b Budget) IsNew() bool { return b.ID == "" }

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccount
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Category.Valid() {
		return ErrUnknownCategory
	}
	if t.Category.IsIncome() != t.IsIncome {
		return ErrCategoryMismatch
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(b.AccountID) == "" {
		return ErrEmptyAccount
	}
	if len(b.Categories) == 0 {
		return ErrNoCategories
	}
	for _, c := range b.Categories {
		if !c.Valid() {
			return ErrUnknownCategory
		}
	}
	if !b.Limit.IsPositive() {
		return ErrInvalidAmount
	}
	if !b.StartDate.IsZero() && !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}
