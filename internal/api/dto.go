// Package api holds the raw HTTP calls of each feature and the wire-format
// DTOs they exchange, together with the DTO <-> domain mappers.
package api

import (
	"time"

	"fintrack/internal/core"
)

// idPtr maps the domain "new" sentinel to an absent id.
func idPtr(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func idOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// categoryOf maps a wire category to the closed set. Unknown values fall
// back to the "other" category of the right direction.
func categoryOf(s string, isIncome bool) core.Category {
	if c, err := core.ParseCategory(s); err == nil {
		return c
	}
	if isIncome {
		return core.OtherIncome
	}
	return core.OtherExpense
}

type UserDTO struct {
	ID    *string `json:"id,omitempty"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
}

func (d UserDTO) ToDomain() core.User {
	return core.User{ID: idOf(d.ID), Name: d.Name, Email: d.Email}
}

func UserFromDomain(u core.User) UserDTO {
	return UserDTO{ID: idPtr(u.ID), Name: u.Name, Email: u.Email}
}

type AccountDTO struct {
	ID      *string `json:"id,omitempty"`
	Name    string  `json:"name"`
	Balance Amount  `json:"balance"`
	Income  Amount  `json:"income"`
	Expense Amount  `json:"expense"`
}

func (d AccountDTO) ToDomain() core.Account {
	return core.Account{
		ID:      idOf(d.ID),
		Name:    d.Name,
		Balance: d.Balance.Decimal,
		Income:  d.Income.Decimal,
		Expense: d.Expense.Decimal,
	}
}

func AccountFromDomain(a core.Account) AccountDTO {
	return AccountDTO{
		ID:      idPtr(a.ID),
		Name:    a.Name,
		Balance: NewAmount(a.Balance),
		Income:  NewAmount(a.Income),
		Expense: NewAmount(a.Expense),
	}
}

type TransactionDTO struct {
	ID          *string   `json:"id,omitempty"`
	AccountID   string    `json:"accountId"`
	IsIncome    bool      `json:"isIncome"`
	Amount      Amount    `json:"amount"`
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description,omitempty"`
}

func (d TransactionDTO) ToDomain() core.Transaction {
	return core.Transaction{
		ID:          idOf(d.ID),
		AccountID:   d.AccountID,
		IsIncome:    d.IsIncome,
		Amount:      d.Amount.Decimal,
		Category:    categoryOf(d.Category, d.IsIncome),
		Timestamp:   d.Timestamp,
		Description: d.Description,
	}
}

func TransactionFromDomain(t core.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          idPtr(t.ID),
		AccountID:   t.AccountID,
		IsIncome:    t.IsIncome,
		Amount:      NewAmount(t.Amount),
		Category:    t.Category.String(),
		Timestamp:   t.Timestamp,
		Description: t.Description,
	}
}

type BudgetDTO struct {
	ID         *string   `json:"id,omitempty"`
	AccountID  string    `json:"accountId"`
	Name       string    `json:"name"`
	Categories []string  `json:"categories"`
	Limit      Amount    `json:"limit"`
	IsExpense  bool      `json:"isExpense"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
}

func (d BudgetDTO) ToDomain() core.Budget {
	cats := make([]core.Category, 0, len(d.Categories))
	for _, c := range d.Categories {
		cats = append(cats, categoryOf(c, !d.IsExpense))
	}
	return core.Budget{
		ID:         idOf(d.ID),
		AccountID:  d.AccountID,
		Name:       d.Name,
		Categories: cats,
		Limit:      d.Limit.Decimal,
		IsExpense:  d.IsExpense,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
	}
}

func BudgetFromDomain(b core.Budget) BudgetDTO {
	cats := make([]string, len(b.Categories))
	for i, c := range b.Categories {
		cats[i] = c.String()
	}
	return BudgetDTO{
		ID:         idPtr(b.ID),
		AccountID:  b.AccountID,
		Name:       b.Name,
		Categories: cats,
		Limit:      NewAmount(b.Limit),
		IsExpense:  b.IsExpense,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
	}
}

type BudgetStatusDTO struct {
	Budget     BudgetDTO `json:"budget"`
	Spent      Amount    `json:"spent"`
	Remaining  Amount    `json:"remaining"`
	Percentage float64   `json:"percentage"`
	Exceeded   bool      `json:"exceeded"`
}

func (d BudgetStatusDTO) ToDomain() core.BudgetStatus {
	return core.BudgetStatus{
		Budget:     d.Budget.ToDomain(),
		Spent:      d.Spent.Decimal,
		Remaining:  d.Remaining.Decimal,
		Percentage: d.Percentage,
		Exceeded:   d.Exceeded,
	}
}

func BudgetStatusFromDomain(s core.BudgetStatus) BudgetStatusDTO {
	return BudgetStatusDTO{
		Budget:     BudgetFromDomain(s.Budget),
		Spent:      NewAmount(s.Spent),
		Remaining:  NewAmount(s.Remaining),
		Percentage: s.Percentage,
		Exceeded:   s.Exceeded,
	}
}

type CursorDTO struct {
	AfterDate time.Time `json:"afterDate"`
	AfterID   string    `json:"afterId"`
}

type PageDTO[T any] struct {
	Data       []T        `json:"data"`
	NextCursor *CursorDTO `json:"nextCursor"`
}

// PageToDomain maps every item with fn and converts the cursor.
func PageToDomain[T, U any](p PageDTO[T], fn func(T) U) core.Page[U] {
	items := make([]U, len(p.Data))
	for i, d := range p.Data {
		items[i] = fn(d)
	}
	page := core.Page[U]{Items: items}
	if p.NextCursor != nil {
		page.Next = &core.Cursor{AfterDate: p.NextCursor.AfterDate, AfterID: p.NextCursor.AfterID}
	}
	return page
}

// mapSlice converts a DTO list, returning an empty (non-nil) slice for
// missing lists so that "no items" renders as an empty success.
func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
