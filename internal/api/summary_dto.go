package api

import (
	"time"

	"fintrack/internal/core"
)

type HighlightsDTO struct {
	HighestIncome      *TransactionDTO `json:"highestIncome"`
	HighestExpense     *TransactionDTO `json:"highestExpense"`
	TopIncomeCategory  string          `json:"topIncomeCategory,omitempty"`
	TopExpenseCategory string          `json:"topExpenseCategory,omitempty"`
	AverageDailySpend  Amount          `json:"averageDailySpend"`
}

func (d HighlightsDTO) ToDomain() core.Highlights {
	h := core.Highlights{AverageDailySpend: d.AverageDailySpend.Decimal}
	if d.HighestIncome != nil {
		t := d.HighestIncome.ToDomain()
		h.HighestIncome = &t
	}
	if d.HighestExpense != nil {
		t := d.HighestExpense.ToDomain()
		h.HighestExpense = &t
	}
	if d.TopIncomeCategory != "" {
		h.TopIncomeCategory = categoryOf(d.TopIncomeCategory, true)
	}
	if d.TopExpenseCategory != "" {
		h.TopExpenseCategory = categoryOf(d.TopExpenseCategory, false)
	}
	return h
}

type CategoryShareDTO struct {
	Category   string  `json:"category"`
	Amount     Amount  `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type DistributionDTO struct {
	Income  []CategoryShareDTO `json:"income"`
	Expense []CategoryShareDTO `json:"expense"`
}

func (d DistributionDTO) ToDomain() core.Distribution {
	share := func(isIncome bool) func(CategoryShareDTO) core.CategoryShare {
		return func(s CategoryShareDTO) core.CategoryShare {
			return core.CategoryShare{
				Category:   categoryOf(s.Category, isIncome),
				Amount:     s.Amount.Decimal,
				Percentage: s.Percentage,
			}
		}
	}
	return core.Distribution{
		Income:  mapSlice(d.Income, share(true)),
		Expense: mapSlice(d.Expense, share(false)),
	}
}

type OverviewPointDTO struct {
	Date    time.Time `json:"date"`
	Income  Amount    `json:"income"`
	Expense Amount    `json:"expense"`
}

type OverviewDTO struct {
	Income  Amount             `json:"income"`
	Expense Amount             `json:"expense"`
	Balance Amount             `json:"balance"`
	Points  []OverviewPointDTO `json:"points"`
}

func (d OverviewDTO) ToDomain() core.Overview {
	return core.Overview{
		Income:  d.Income.Decimal,
		Expense: d.Expense.Decimal,
		Balance: d.Balance.Decimal,
		Points: mapSlice(d.Points, func(p OverviewPointDTO) core.OverviewPoint {
			return core.OverviewPoint{Date: p.Date, Income: p.Income.Decimal, Expense: p.Expense.Decimal}
		}),
	}
}

type CountsDTO struct {
	Income  int `json:"income"`
	Expense int `json:"expense"`
	Total   int `json:"total"`
}

// ToDomain fills a missing total from its parts.
func (d CountsDTO) ToDomain() core.Counts {
	total := d.Total
	if total == 0 {
		total = d.Income + d.Expense
	}
	return core.Counts{Income: d.Income, Expense: d.Expense, Total: total}
}

type PeriodDTO struct {
	Label     string    `json:"label"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func (d PeriodDTO) ToDomain() core.PeriodOption {
	return core.PeriodOption{Label: d.Label, StartDate: d.StartDate, EndDate: d.EndDate}
}

type CategoryComparisonDTO struct {
	Category string  `json:"category"`
	IsIncome bool    `json:"isIncome"`
	Current  Amount  `json:"current"`
	Previous Amount  `json:"previous"`
	Change   float64 `json:"change"`
}

func (d CategoryComparisonDTO) ToDomain() core.CategoryComparison {
	return core.CategoryComparison{
		Category: categoryOf(d.Category, d.IsIncome),
		Current:  d.Current.Decimal,
		Previous: d.Previous.Decimal,
		Change:   d.Change,
	}
}
