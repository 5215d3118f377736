package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Granularity selects the period length of summary queries.
type Granularity string

const (
	Weekly  Granularity = "week"
	Monthly Granularity = "month"
	Yearly  Granularity = "year"
)

func (g Granularity) Valid() bool {
	switch g {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

type (
	// SummaryFilter narrows every summary projection. Zero fields are not
	// sent to the backend.
	SummaryFilter struct {
		AccountID string
		Period    Granularity
		StartDate time.Time
		EndDate   time.Time
	}

	Highlights struct {
		HighestIncome      *Transaction
		HighestExpense     *Transaction
		TopIncomeCategory  Category
		TopExpenseCategory Category
		AverageDailySpend  decimal.Decimal
	}

	// CategoryShare is one slice of the income or expense distribution.
	CategoryShare struct {
		Category   Category
		Amount     decimal.Decimal
		Percentage float64
	}

	Distribution struct {
		Income  []CategoryShare
		Expense []CategoryShare
	}

	OverviewPoint struct {
		Date    time.Time
		Income  decimal.Decimal
		Expense decimal.Decimal
	}

	Overview struct {
		Income  decimal.Decimal
		Expense decimal.Decimal
		Balance decimal.Decimal
		Points  []OverviewPoint
	}

	Counts struct {
		Income  int
		Expense int
		Total   int
	}

	// PeriodOption is a period for which the backend has transactions.
	PeriodOption struct {
		Label     string
		StartDate time.Time
		EndDate   time.Time
	}

	CategoryComparison struct {
		Category Category
		Current  decimal.Decimal
		Previous decimal.Decimal
		Change   float64
	}
)

// Cursor addresses the next page of a transaction listing.
type Cursor struct {
	AfterDate time.Time
	AfterID   string
}

type Page[T any] struct {
	Items []T
	Next  *Cursor
}

// HasNext reports whether another page can be requested.
func (p Page[T]) HasNext() bool {
	return p.Next != nil
}
