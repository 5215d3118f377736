package apitest

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fintrack/internal/api"
)

const defaultLimit = 20

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	var found *user
	for _, u := range b.users {
		if strings.EqualFold(u.dto.Email, req.Email) && u.password == req.Password {
			found = u
			break
		}
	}
	b.mu.Unlock()
	if found == nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": IssueToken(*found.dto.ID)})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "email and password are required")
		return
	}
	b.mu.Lock()
	for _, u := range b.users {
		if strings.EqualFold(u.dto.Email, req.Email) {
			b.mu.Unlock()
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
	}
	u := b.addUserLocked(req.Name, req.Email, req.Password)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"token": IssueToken(*u.dto.ID)})
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	u, ok := b.users[chi.URLParam(r, "id")]
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeResult(w, http.StatusOK, u.dto)
}

func (b *Backend) listAccounts(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, b.Accounts())
}

func (b *Backend) getAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.accounts, id, func(a api.AccountDTO) *string { return a.ID })
	if i < 0 {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeResult(w, http.StatusOK, b.accounts[i])
}

func (b *Backend) createAccount(w http.ResponseWriter, r *http.Request) {
	var dto api.AccountDTO
	if !decode(w, r, &dto) {
		return
	}
	if dto.ID != nil {
		writeError(w, http.StatusBadRequest, "id must be absent on create")
		return
	}
	writeResult(w, http.StatusCreated, b.AddAccount(dto))
}

func (b *Backend) updateAccount(w http.ResponseWriter, r *http.Request) {
	var dto api.AccountDTO
	if !decode(w, r, &dto) {
		return
	}
	id := chi.URLParam(r, "id")
	dto.ID = &id
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.accounts, id, func(a api.AccountDTO) *string { return a.ID })
	if i < 0 {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	b.accounts[i] = dto
	writeResult(w, http.StatusOK, dto)
}

func (b *Backend) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.accounts, id, func(a api.AccountDTO) *string { return a.ID })
	if i < 0 {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	b.accounts = slices.Delete(b.accounts, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

// listTransactions pages by timestamp, newest first unless order=asc. The
// cursor names the last item of the previous page.
func (b *Backend) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := defaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	asc := q.Get("order") == "asc"
	accountID := q.Get("accountId")

	b.mu.Lock()
	var items []api.TransactionDTO
	for _, t := range b.transactions {
		if accountID == "" || t.AccountID == accountID {
			items = append(items, t)
		}
	}
	b.mu.Unlock()

	slices.SortStableFunc(items, func(x, y api.TransactionDTO) int {
		c := x.Timestamp.Compare(y.Timestamp)
		if c == 0 {
			c = strings.Compare(*x.ID, *y.ID)
		}
		if asc {
			return c
		}
		return -c
	})

	if after := q.Get("afterId"); after != "" {
		i := indexOf(items, after, func(t api.TransactionDTO) *string { return t.ID })
		if i < 0 {
			writeError(w, http.StatusBadRequest, "unknown cursor")
			return
		}
		items = items[i+1:]
	}

	page := api.PageDTO[api.TransactionDTO]{Data: items}
	if len(items) > limit {
		page.Data = items[:limit]
		last := page.Data[limit-1]
		page.NextCursor = &api.CursorDTO{AfterDate: last.Timestamp, AfterID: *last.ID}
	}
	if page.Data == nil {
		page.Data = []api.TransactionDTO{}
	}
	writeResult(w, http.StatusOK, page)
}

func (b *Backend) getTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.transactions, id, func(t api.TransactionDTO) *string { return t.ID })
	if i < 0 {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeResult(w, http.StatusOK, b.transactions[i])
}

func (b *Backend) createTransaction(w http.ResponseWriter, r *http.Request) {
	var dto api.TransactionDTO
	if !decode(w, r, &dto) {
		return
	}
	if dto.ID != nil {
		writeError(w, http.StatusBadRequest, "id must be absent on create")
		return
	}
	if !dto.Amount.IsPositive() {
		writeError(w, http.StatusUnprocessableEntity, "amount must be positive")
		return
	}
	writeResult(w, http.StatusCreated, b.AddTransaction(dto))
}

func (b *Backend) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto api.TransactionDTO
	if !decode(w, r, &dto) {
		return
	}
	id := chi.URLParam(r, "id")
	dto.ID = &id
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.transactions, id, func(t api.TransactionDTO) *string { return t.ID })
	if i < 0 {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	b.transactions[i] = dto
	writeResult(w, http.StatusOK, dto)
}

func (b *Backend) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.transactions, id, func(t api.TransactionDTO) *string { return t.ID })
	if i < 0 {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	b.transactions = slices.Delete(b.transactions, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listBudgets(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	b.mu.Lock()
	defer b.mu.Unlock()
	statuses := []api.BudgetStatusDTO{}
	for _, bd := range b.budgets {
		if accountID == "" || bd.AccountID == accountID {
			statuses = append(statuses, b.statusLocked(bd))
		}
	}
	writeResult(w, http.StatusOK, statuses)
}

func (b *Backend) getBudget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.budgets, id, func(bd api.BudgetDTO) *string { return bd.ID })
	if i < 0 {
		writeError(w, http.StatusNotFound, "budget not found")
		return
	}
	writeResult(w, http.StatusOK, b.statusLocked(b.budgets[i]))
}

func (b *Backend) createBudget(w http.ResponseWriter, r *http.Request) {
	var dto api.BudgetDTO
	if !decode(w, r, &dto) {
		return
	}
	if dto.ID != nil {
		writeError(w, http.StatusBadRequest, "id must be absent on create")
		return
	}
	writeResult(w, http.StatusCreated, b.AddBudget(dto))
}

func (b *Backend) updateBudget(w http.ResponseWriter, r *http.Request) {
	var dto api.BudgetDTO
	if !decode(w, r, &dto) {
		return
	}
	id := chi.URLParam(r, "id")
	dto.ID = &id
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.budgets, id, func(bd api.BudgetDTO) *string { return bd.ID })
	if i < 0 {
		writeError(w, http.StatusNotFound, "budget not found")
		return
	}
	b.budgets[i] = dto
	writeResult(w, http.StatusOK, dto)
}

func (b *Backend) deleteBudget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.budgets, id, func(bd api.BudgetDTO) *string { return bd.ID })
	if i < 0 {
		writeError(w, http.StatusNotFound, "budget not found")
		return
	}
	b.budgets = slices.Delete(b.budgets, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

// statusLocked sums the matching transactions of the budget's account that
// fall inside its date range.
func (b *Backend) statusLocked(bd api.BudgetDTO) api.BudgetStatusDTO {
	spent := decimal.Zero
	for _, t := range b.transactions {
		if t.AccountID != bd.AccountID || t.IsIncome == bd.IsExpense {
			continue
		}
		if !slices.Contains(bd.Categories, t.Category) {
			continue
		}
		if inRange(t.Timestamp, bd.StartDate, bd.EndDate) {
			spent = spent.Add(t.Amount.Decimal)
		}
	}
	status := api.BudgetStatusDTO{
		Budget:    bd,
		Spent:     api.NewAmount(spent),
		Remaining: api.NewAmount(bd.Limit.Sub(spent)),
		Exceeded:  spent.GreaterThan(bd.Limit.Decimal),
	}
	if bd.Limit.IsPositive() {
		status.Percentage = spent.Div(bd.Limit.Decimal).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	return status
}

func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

func (b *Backend) counts(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	b.mu.Lock()
	defer b.mu.Unlock()
	var c api.CountsDTO
	for _, t := range b.transactions {
		if accountID != "" && t.AccountID != accountID {
			continue
		}
		if t.IsIncome {
			c.Income++
		} else {
			c.Expense++
		}
	}
	c.Total = c.Income + c.Expense
	writeResult(w, http.StatusOK, c)
}

// summary serves canned projections set with SetSummary.
func (b *Backend) summary(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	b.mu.Lock()
	v, ok := b.summaries[name]
	b.mu.Unlock()
	if ok {
		writeResult(w, http.StatusOK, v)
		return
	}
	switch name {
	case "highlights", "distribution", "overview":
		writeResult(w, http.StatusOK, map[string]any{})
	case "available-weeks", "available-months", "available-years", "category-comparison":
		writeResult(w, http.StatusOK, []any{})
	default:
		writeError(w, http.StatusNotFound, "unknown summary")
	}
}

func indexOf[T any](items []T, id string, idOf func(T) *string) int {
	return slices.IndexFunc(items, func(v T) bool {
		p := idOf(v)
		return p != nil && *p == id
	})
}
