package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

var ts = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestDomainRoundTrip(t *testing.T) {
	t.Run("account", func(t *testing.T) {
		a := core.Account{
			ID:      "acc-1",
			Name:    "Checking",
			Balance: decimal.RequireFromString("120.50"),
			Income:  decimal.RequireFromString("200"),
			Expense: decimal.RequireFromString("79.50"),
		}
		assert.Equal(t, a, AccountFromDomain(a).ToDomain())
	})

	t.Run("transaction", func(t *testing.T) {
		txn := core.Transaction{
			ID:          "txn-1",
			AccountID:   "acc-1",
			Amount:      decimal.RequireFromString("12.30"),
			Category:    core.Food,
			Timestamp:   ts,
			Description: "lunch",
		}
		assert.Equal(t, txn, TransactionFromDomain(txn).ToDomain())
	})

	t.Run("budget", func(t *testing.T) {
		b := core.Budget{
			ID:         "bud-1",
			AccountID:  "acc-1",
			Name:       "Groceries",
			Categories: []core.Category{core.Food, core.Shopping},
			Limit:      decimal.RequireFromString("300"),
			IsExpense:  true,
			StartDate:  ts,
			EndDate:    ts.AddDate(0, 1, 0),
		}
		assert.Equal(t, b, BudgetFromDomain(b).ToDomain())
	})

	t.Run("user", func(t *testing.T) {
		u := core.User{ID: "usr-1", Name: "Ada", Email: "ada@example.com"}
		assert.Equal(t, u, UserFromDomain(u).ToDomain())
	})
}

func TestNewEntityOmitsID(t *testing.T) {
	dto := TransactionFromDomain(core.Transaction{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(5),
		Category:  core.Transport,
		Timestamp: ts,
	})
	assert.Nil(t, dto.ID)

	raw, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"id"`)
	assert.Contains(t, string(raw), `"amount":5`)
}

func TestAbsentIDMapsToNew(t *testing.T) {
	var dto AccountDTO
	require.NoError(t, json.Unmarshal([]byte(`{"id":null,"name":"Cash","balance":1.5}`), &dto))

	a := dto.ToDomain()
	assert.True(t, a.IsNew())
	assert.True(t, decimal.RequireFromString("1.5").Equal(a.Balance))
}

func TestUnknownCategoryFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		wire     string
		isIncome bool
		want     core.Category
	}{
		{name: "known expense", wire: "FOOD", want: core.Food},
		{name: "lower case", wire: "salary", isIncome: true, want: core.Salary},
		{name: "unknown expense", wire: "PETS", want: core.OtherExpense},
		{name: "unknown income", wire: "LOTTERY", isIncome: true, want: core.OtherIncome},
		{name: "empty", wire: "", want: core.OtherExpense},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransactionDTO{Category: tt.wire, IsIncome: tt.isIncome}.ToDomain()
			assert.Equal(t, tt.want, got.Category)
		})
	}
}

func TestPageToDomain(t *testing.T) {
	id := "txn-9"
	p := PageDTO[TransactionDTO]{
		Data:       []TransactionDTO{{ID: &id, Category: "FOOD", Timestamp: ts}},
		NextCursor: &CursorDTO{AfterDate: ts, AfterID: id},
	}

	page := PageToDomain(p, TransactionDTO.ToDomain)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "txn-9", page.Items[0].ID)
	require.True(t, page.HasNext())
	assert.Equal(t, core.Cursor{AfterDate: ts, AfterID: id}, *page.Next)

	last := PageToDomain(PageDTO[TransactionDTO]{}, TransactionDTO.ToDomain)
	assert.False(t, last.HasNext())
	assert.NotNil(t, last.Items)
	assert.Empty(t, last.Items)
}

func TestSummaryDTOs(t *testing.T) {
	raw := `{
		"highestExpense": {"id":"t1","accountId":"a","isIncome":false,"amount":40,"category":"TRAVEL","timestamp":"2025-03-14T09:30:00Z"},
		"topExpenseCategory": "TRAVEL",
		"averageDailySpend": 12.5
	}`
	var h HighlightsDTO
	require.NoError(t, json.Unmarshal([]byte(raw), &h))

	got := h.ToDomain()
	assert.Nil(t, got.HighestIncome)
	require.NotNil(t, got.HighestExpense)
	assert.Equal(t, core.Travel, got.HighestExpense.Category)
	assert.Equal(t, core.Travel, got.TopExpenseCategory)
	assert.Equal(t, core.Category(""), got.TopIncomeCategory)
	assert.Equal(t, "12.5", got.AverageDailySpend.String())

	assert.Equal(t, core.Counts{Income: 2, Expense: 3, Total: 5}, CountsDTO{Income: 2, Expense: 3}.ToDomain())

	d := DistributionDTO{Expense: []CategoryShareDTO{{Category: "??", Percentage: 100}}}.ToDomain()
	assert.Empty(t, d.Income)
	require.Len(t, d.Expense, 1)
	assert.Equal(t, core.OtherExpense, d.Expense[0].Category)
}

func TestAmountWireFormat(t *testing.T) {
	raw, err := json.Marshal(BudgetDTO{Name: "Food", Limit: NewAmount(decimal.RequireFromString("150.25"))})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"limit":150.25`)

	plain, err := json.Marshal(decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, `"3"`, string(plain), "decimals outside DTOs keep the library default")

	tests := map[string]string{
		"number": `{"amount":12.5}`,
		"string": `{"amount":"12.5"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var dto TransactionDTO
			require.NoError(t, json.Unmarshal([]byte(body), &dto))
			assert.True(t, decimal.RequireFromString("12.5").Equal(dto.Amount.Decimal))
		})
	}

	var dto TransactionDTO
	require.NoError(t, json.Unmarshal([]byte(`{"amount":null}`), &dto))
	assert.True(t, dto.Amount.IsZero())
}
