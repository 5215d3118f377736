package viewmodel

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/api"
	"fintrack/internal/apiclient"
	"fintrack/internal/apierr"
	"fintrack/internal/apitest"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/repository"
	"fintrack/internal/tokenstore"
)

type fixture struct {
	backend *apitest.Backend
	tokens  *tokenstore.MemoryStore
	client  *apiclient.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := apitest.New(t)
	tokens := tokenstore.NewMemoryStore()
	client, err := apiclient.New(apiclient.Config{BaseURL: backend.URL()}, tokens, log.Discard())
	require.NoError(t, err)
	return &fixture{backend: backend, tokens: tokens, client: client}
}

func (f *fixture) accounts(t *testing.T) *AccountsViewModel {
	vm := NewAccountsViewModel(context.Background(), repository.NewAccountsRepository(api.NewAccountsAPI(f.client), log.Discard()))
	t.Cleanup(vm.Close)
	return vm
}

func (f *fixture) addAccount(name string) string {
	return *f.backend.AddAccount(api.AccountFromDomain(core.Account{Name: name})).ID
}

func kindOf(t *testing.T, err error) apierr.Kind {
	t.Helper()
	e, ok := apierr.As(err)
	require.True(t, ok, "not a taxonomy error: %v", err)
	return e.Kind
}

func TestReloadAccountsEmpty(t *testing.T) {
	f := newFixture(t)
	vm := f.accounts(t)

	vm.ReloadAccounts()
	vm.Wait()

	accounts := vm.Accounts().Get()
	require.True(t, accounts.IsSuccess())
	assert.Empty(t, accounts.Value())

	selected := vm.SelectedAccount().Get()
	require.True(t, selected.IsError())
	assert.Equal(t, apierr.InvalidState, kindOf(t, selected.Err()))
	assert.Contains(t, selected.Err().Error(), "no accounts available")
}

func TestReloadAccountsSelection(t *testing.T) {
	f := newFixture(t)
	first := f.addAccount("Checking")
	second := f.addAccount("Savings")
	vm := f.accounts(t)

	vm.ReloadAccounts()
	vm.Wait()
	assert.Equal(t, first, vm.SelectedAccount().Get().Value().ID)

	vm.SelectAccount(second)
	vm.ReloadAccounts()
	vm.Wait()
	assert.Equal(t, second, vm.SelectedAccount().Get().Value().ID, "selection survives a reload")

	vm.DeleteAccount(second)
	vm.Wait()
	require.True(t, vm.Action().Get().IsSuccess())
	assert.Equal(t, Action{Op: OpDeleted, ID: second}, vm.Action().Get().Value())
	assert.Equal(t, first, vm.SelectedAccount().Get().Value().ID, "falls back to the first account")
}

func TestSelectUnlistedAccount(t *testing.T) {
	f := newFixture(t)
	vm := f.accounts(t)

	vm.SelectAccount("missing")
	vm.Wait()
	selected := vm.SelectedAccount().Get()
	require.True(t, selected.IsError())
	assert.Equal(t, apierr.NotFound, kindOf(t, selected.Err()))
}

func TestSaveAccountSelectsIt(t *testing.T) {
	f := newFixture(t)
	f.addAccount("Checking")
	vm := f.accounts(t)

	vm.SaveAccount(core.Account{Name: "Holiday"})
	vm.Wait()

	action := vm.Action().Get()
	require.True(t, action.IsSuccess(), action.String())
	assert.Equal(t, OpSaved, action.Value().Op)
	assert.Len(t, vm.Accounts().Get().Value(), 2)
	assert.Equal(t, action.Value().ID, vm.SelectedAccount().Get().Value().ID)

	vm.SaveAccount(core.Account{})
	vm.Wait()
	assert.Equal(t, apierr.InvalidState, kindOf(t, vm.Action().Get().Err()))
}

func TestAccountsErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.backend.Fail(http.MethodGet, "/accounts", http.StatusInternalServerError, "boom")
	vm := f.accounts(t)

	vm.ReloadAccounts()
	vm.Wait()

	e, ok := apierr.As(vm.Accounts().Get().Err())
	require.True(t, ok)
	assert.Equal(t, apierr.ServerError, e.Kind)
	assert.Equal(t, 500, e.Code)
	assert.True(t, vm.SelectedAccount().Get().IsError())
}

func TestCloseDropsUpdates(t *testing.T) {
	f := newFixture(t)
	f.backend.Delay(http.MethodGet, "/accounts", 5*time.Second)
	vm := f.accounts(t)

	vm.ReloadAccounts()
	time.Sleep(50 * time.Millisecond)
	vm.Close()

	assert.True(t, vm.Accounts().Get().IsLoading(), "a cancelled load never becomes an error")
	assert.True(t, vm.SelectedAccount().Get().IsLoading())
}

func TestTransactionsPaging(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	for i := range 5 {
		f.backend.AddTransaction(api.TransactionFromDomain(core.Transaction{
			AccountID: "acc-1",
			Amount:    decimal.NewFromInt(int64(i + 1)),
			Category:  core.Food,
			Timestamp: base.AddDate(0, 0, i),
		}))
	}
	repo := repository.NewTransactionsRepository(api.NewTransactionAPI(f.client), 2, log.Discard())
	vm := NewTransactionsViewModel(context.Background(), repo)
	defer vm.Close()

	vm.LoadMore()
	vm.Wait()
	assert.True(t, vm.Transactions().Get().IsLoading(), "LoadMore before Load is a no-op")
	assert.Zero(t, f.backend.Count(http.MethodGet, "/transactions"))

	vm.Load("acc-1")
	vm.Wait()
	require.Len(t, vm.Transactions().Get().Value(), 2)
	assert.True(t, vm.HasMore())

	vm.LoadMore()
	vm.Wait()
	vm.LoadMore()
	vm.Wait()
	got := vm.Transactions().Get().Value()
	require.Len(t, got, 5)
	assert.Equal(t, "5", got[0].Amount.String())
	assert.Equal(t, "1", got[4].Amount.String())
	assert.False(t, vm.HasMore())

	requests := f.backend.Count(http.MethodGet, "/transactions")
	vm.LoadMore()
	vm.Wait()
	assert.Equal(t, requests, f.backend.Count(http.MethodGet, "/transactions"))
}

func TestTransactionsSaveReloads(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewTransactionsRepository(api.NewTransactionAPI(f.client), 10, log.Discard())
	vm := NewTransactionsViewModel(context.Background(), repo)
	defer vm.Close()

	vm.Load("acc-1")
	vm.Wait()
	assert.Empty(t, vm.Transactions().Get().Value())

	vm.Save(core.Transaction{
		AccountID: "acc-1",
		IsIncome:  true,
		Amount:    decimal.NewFromInt(1000),
		Category:  core.Salary,
		Timestamp: time.Now().UTC(),
	})
	vm.Wait()
	require.True(t, vm.Action().Get().IsSuccess(), vm.Action().Get().String())
	id := vm.Action().Get().Value().ID
	require.Len(t, vm.Transactions().Get().Value(), 1)

	vm.Delete(id)
	vm.Wait()
	assert.Equal(t, Action{Op: OpDeleted, ID: id}, vm.Action().Get().Value())
	assert.Empty(t, vm.Transactions().Get().Value())
}

func TestTransactionChangeDropsCachedPeriods(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	summaryRepo := repository.NewSummaryRepository(api.NewSummaryAPI(f.client), log.Discard())
	repo := repository.NewTransactionsRepository(api.NewTransactionAPI(f.client), 10, log.Discard())
	vm := NewTransactionsViewModel(ctx, repo, summaryRepo.ForgetPeriods)
	defer vm.Close()
	const path = "/transactions/summary/available-months"

	for range 2 {
		_, err := summaryRepo.Periods(ctx, "acc-1", core.Monthly)
		require.NoError(t, err)
	}
	require.Equal(t, 1, f.backend.Count(http.MethodGet, path))

	vm.Save(core.Transaction{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(7),
		Category:  core.Transport,
		Timestamp: time.Now().UTC(),
	})
	vm.Wait()
	require.True(t, vm.Action().Get().IsSuccess(), vm.Action().Get().String())

	_, err := summaryRepo.Periods(ctx, "acc-1", core.Monthly)
	require.NoError(t, err)
	assert.Equal(t, 2, f.backend.Count(http.MethodGet, path))

	vm.Save(core.Transaction{AccountID: "acc-1", Category: core.Transport})
	vm.Wait()
	require.True(t, vm.Action().Get().IsError())
	_, err = summaryRepo.Periods(ctx, "acc-1", core.Monthly)
	require.NoError(t, err)
	assert.Equal(t, 2, f.backend.Count(http.MethodGet, path), "failed saves keep the cache")
}

func TestBudgetsViewModel(t *testing.T) {
	f := newFixture(t)
	vm := NewBudgetsViewModel(context.Background(), repository.NewBudgetsRepository(api.NewBudgetAPI(f.client), log.Discard()))
	defer vm.Close()

	budget := core.Budget{
		AccountID:  "acc-1",
		Name:       "Eating out",
		Categories: []core.Category{core.Food},
		Limit:      decimal.NewFromInt(150),
		IsExpense:  true,
	}
	vm.Load("acc-1")
	vm.Wait()
	assert.Empty(t, vm.Budgets().Get().Value())

	vm.Save(budget)
	vm.Wait()

	require.True(t, vm.Action().Get().IsSuccess(), vm.Action().Get().String())
	id := vm.Action().Get().Value().ID
	assert.Equal(t, 1, f.backend.Count(http.MethodPost, "/budgets"))
	require.Len(t, vm.Budgets().Get().Value(), 1)
	assert.Equal(t, id, vm.Selected().Get().Value().Budget.ID)

	budget.ID = id
	budget.Name = "Restaurants"
	vm.Save(budget)
	vm.Wait()
	assert.Equal(t, 1, f.backend.Count(http.MethodPost, "/budgets"))
	assert.Equal(t, 1, f.backend.Count(http.MethodPut, "/budgets/"+id))
	assert.Equal(t, "Restaurants", vm.Selected().Get().Value().Budget.Name)

	vm.Delete(id)
	vm.Wait()
	assert.Empty(t, vm.Budgets().Get().Value())
	assert.Equal(t, apierr.NotFound, kindOf(t, vm.Selected().Get().Err()))
}

func TestSummaryViewModel(t *testing.T) {
	f := newFixture(t)
	f.backend.SetSummary("overview", api.OverviewDTO{Income: api.NewAmount(decimal.NewFromInt(10)), Balance: api.NewAmount(decimal.NewFromInt(10))})
	f.backend.SetSummary("available-months", []api.PeriodDTO{{Label: "2025-03"}, {Label: "2025-02"}})
	f.backend.Fail(http.MethodGet, "/transactions/summary/highlights", http.StatusNotFound, "")
	f.backend.AddTransaction(api.TransactionDTO{AccountID: "acc-1", Amount: api.NewAmount(decimal.NewFromInt(3)), Category: "FOOD"})

	vm := NewSummaryViewModel(context.Background(), repository.NewSummaryRepository(api.NewSummaryAPI(f.client), log.Discard()))
	defer vm.Close()

	vm.Load(core.SummaryFilter{AccountID: "acc-1", Period: core.Monthly})
	vm.Wait()

	assert.Equal(t, apierr.NotFound, kindOf(t, vm.Highlights().Get().Err()))
	assert.True(t, vm.Distribution().Get().IsSuccess())
	assert.Equal(t, "10", vm.Overview().Get().Value().Balance.String())
	assert.Equal(t, core.Counts{Expense: 1, Total: 1}, vm.Counts().Get().Value())
	assert.True(t, vm.Comparison().Get().IsSuccess())

	vm.LoadPeriods(core.Monthly)
	vm.Wait()
	require.Len(t, vm.Periods().Get().Value(), 2)
	req, ok := f.backend.LastRequest(http.MethodGet, "/transactions/summary/available-months")
	require.True(t, ok)
	assert.Equal(t, "acc-1", req.Query.Get("accountId"))

	vm.Compare(true)
	vm.Wait()
	req, ok = f.backend.LastRequest(http.MethodGet, "/transactions/summary/category-comparison")
	require.True(t, ok)
	assert.Equal(t, "true", req.Query.Get("isIncome"))
}

func TestAuthViewModel(t *testing.T) {
	f := newFixture(t)
	f.backend.RequireAuth(true)
	f.backend.AddUser("Linus", "linus@example.com", "penguin")
	repo := repository.NewAuthRepository(api.NewAuthAPI(f.client), f.tokens, log.Discard())

	vm := NewAuthViewModel(context.Background(), repo)
	defer vm.Close()
	assert.True(t, vm.Session().Get().IsLoading())

	vm.RefreshUser()
	vm.Wait()
	assert.Equal(t, apierr.Unauthorized, kindOf(t, vm.Session().Get().Err()))
	assert.False(t, vm.LoggedIn().Get())

	vm.Login("linus@example.com", "penguin")
	vm.Wait()
	require.True(t, vm.Session().Get().IsSuccess(), vm.Session().Get().String())
	assert.Equal(t, "Linus", vm.Session().Get().Value().Name)
	assert.Eventually(t, func() bool { return vm.LoggedIn().Get() }, time.Second, 10*time.Millisecond)

	vm.Logout()
	vm.Wait()
	assert.True(t, vm.Session().Get().Err().(*apierr.Error).RequiresAuth())
	assert.Eventually(t, func() bool { return !vm.LoggedIn().Get() }, time.Second, 10*time.Millisecond)
}
