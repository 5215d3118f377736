package repository

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

func kindOf(t *testing.T, err error) apierr.Kind {
	t.Helper()
	e, ok := apierr.As(err)
	require.True(t, ok, "not a taxonomy error: %v", err)
	return e.Kind
}

func TestAccountsRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := NewAccountsRepository(api.NewAccountsAPI(f.client), log.Discard())

	res, err := repo.List(ctx)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.NotNil(t, res.Value())
	assert.Empty(t, res.Value())

	saved, err := repo.Save(ctx, core.Account{Name: "Wallet", Balance: decimal.NewFromInt(10)})
	require.NoError(t, err)
	require.True(t, saved.IsSuccess(), saved.String())
	assert.False(t, saved.Value().IsNew())

	got, err := repo.Get(ctx, saved.Value().ID)
	require.NoError(t, err)
	assert.Equal(t, "Wallet", got.Value().Name)

	del, err := repo.Delete(ctx, saved.Value().ID)
	require.NoError(t, err)
	assert.True(t, del.IsSuccess())

	missing, err := repo.Get(ctx, saved.Value().ID)
	require.NoError(t, err)
	require.True(t, missing.IsError())
	assert.Equal(t, apierr.NotFound, kindOf(t, missing.Err()))
}

func TestAccountsRepositoryRejectsInvalid(t *testing.T) {
	f := newFixture(t)
	repo := NewAccountsRepository(api.NewAccountsAPI(f.client), log.Discard())

	res, err := repo.Save(context.Background(), core.Account{})
	require.NoError(t, err)
	require.True(t, res.IsError())
	assert.Equal(t, apierr.InvalidState, kindOf(t, res.Err()))
	assert.ErrorIs(t, res.Err(), core.ErrEmptyName)
	assert.Empty(t, f.backend.Requests())
}

func TestServerErrorsBecomeResults(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   apierr.Kind
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, kind: apierr.Unauthorized},
		{name: "forbidden", status: http.StatusForbidden, kind: apierr.Forbidden},
		{name: "conflict", status: http.StatusConflict, kind: apierr.ClientError},
		{name: "internal", status: http.StatusInternalServerError, kind: apierr.ServerError},
		{name: "unavailable", status: http.StatusServiceUnavailable, kind: apierr.ServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.backend.Fail(http.MethodGet, "/accounts", tt.status, "nope")
			repo := NewAccountsRepository(api.NewAccountsAPI(f.client), log.Discard())

			res, err := repo.List(context.Background())
			require.NoError(t, err)
			require.True(t, res.IsError())
			e, ok := apierr.As(res.Err())
			require.True(t, ok)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.status, e.Code)
		})
	}
}

func TestCancellationIsNotAnError(t *testing.T) {
	f := newFixture(t)
	f.backend.Delay(http.MethodGet, "/accounts", 5*time.Second)
	repo := NewAccountsRepository(api.NewAccountsAPI(f.client), log.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	res, err := repo.List(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.IsLoading())
}

func TestBudgetsRepositorySaveRouting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := NewBudgetsRepository(api.NewBudgetAPI(f.client), log.Discard())

	budget := core.Budget{
		AccountID:  "acc-1",
		Name:       "Travel",
		Categories: []core.Category{core.Travel},
		Limit:      decimal.NewFromInt(500),
		IsExpense:  true,
	}
	created, err := repo.Save(ctx, budget)
	require.NoError(t, err)
	require.True(t, created.IsSuccess(), created.String())
	id := created.Value().ID
	require.NotEmpty(t, id)

	budget.ID = id
	budget.Limit = decimal.NewFromInt(750)
	updated, err := repo.Save(ctx, budget)
	require.NoError(t, err)
	require.True(t, updated.IsSuccess(), updated.String())

	assert.Equal(t, 1, f.backend.Count(http.MethodPost, "/budgets"))
	assert.Equal(t, 1, f.backend.Count(http.MethodPut, "/budgets/"+id))

	list, err := repo.List(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, list.Value(), 1)
	assert.True(t, decimal.NewFromInt(750).Equal(list.Value()[0].Budget.Limit))

	status, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, status.Value().Exceeded)

	del, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, del.IsSuccess())
}

func TestTransactionsRepositoryPages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := range 3 {
		f.backend.AddTransaction(api.TransactionFromDomain(core.Transaction{
			AccountID: "acc-1",
			Amount:    decimal.NewFromInt(int64(i + 1)),
			Category:  core.Food,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	repo := NewTransactionsRepository(api.NewTransactionAPI(f.client), 2, log.Discard())

	first, err := repo.List(ctx, "acc-1", nil)
	require.NoError(t, err)
	require.Len(t, first.Value().Items, 2)
	require.True(t, first.Value().HasNext())

	second, err := repo.List(ctx, "acc-1", first.Value().Next)
	require.NoError(t, err)
	require.Len(t, second.Value().Items, 1)
	assert.False(t, second.Value().HasNext())
	assert.Equal(t, "1", second.Value().Items[0].Amount.String())

	bad, err := repo.Save(ctx, core.Transaction{AccountID: "acc-1", Amount: decimal.NewFromInt(1), Category: core.Salary})
	require.NoError(t, err)
	assert.ErrorIs(t, bad.Err(), core.ErrCategoryMismatch)
}

func TestAuthRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.backend.RequireAuth(true)
	repo := NewAuthRepository(api.NewAuthAPI(f.client), f.tokens, log.Discard())

	anon, err := repo.CurrentUser(ctx)
	require.NoError(t, err)
	require.True(t, anon.IsError())
	assert.Equal(t, apierr.Unauthorized, kindOf(t, anon.Err()))

	registered, err := repo.Register(ctx, "Grace", "grace@example.com", "hopper")
	require.NoError(t, err)
	require.True(t, registered.IsSuccess(), registered.String())
	assert.Equal(t, "Grace", registered.Value().Name)
	assert.True(t, repo.IsLoggedIn())

	current, err := repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, registered.Value(), current.Value())

	out, err := repo.Logout(ctx)
	require.NoError(t, err)
	assert.True(t, out.IsSuccess())
	assert.False(t, repo.IsLoggedIn())

	wrong, err := repo.Login(ctx, "grace@example.com", "nope")
	require.NoError(t, err)
	assert.Equal(t, apierr.Unauthorized, kindOf(t, wrong.Err()))
	assert.False(t, repo.IsLoggedIn())

	again, err := repo.Login(ctx, "grace@example.com", "hopper")
	require.NoError(t, err)
	assert.Equal(t, registered.Value().ID, again.Value().ID)
}

func TestAuthRepositoryRejectsGarbageToken(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.Save(context.Background(), "not-a-jwt"))
	repo := NewAuthRepository(api.NewAuthAPI(f.client), f.tokens, log.Discard())

	res, err := repo.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, apierr.InvalidState, kindOf(t, res.Err()))
}

func TestWatchLoggedIn(t *testing.T) {
	f := newFixture(t)
	repo := NewAuthRepository(api.NewAuthAPI(f.client), f.tokens, log.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	states := repo.WatchLoggedIn(ctx)
	assert.False(t, <-states)

	require.NoError(t, f.tokens.Save(ctx, apitest.IssueToken("usr-1")))
	assert.True(t, <-states)

	cancel()
	for range states {
	}
}

func TestSummaryRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := NewSummaryRepository(api.NewSummaryAPI(f.client), log.Discard())
	filter := core.SummaryFilter{AccountID: "acc-1"}

	f.backend.SetSummary("distribution", api.DistributionDTO{
		Expense: []api.CategoryShareDTO{{Category: "FOOD", Amount: api.NewAmount(decimal.NewFromInt(30)), Percentage: 100}},
	})
	dist, err := repo.Distribution(ctx, filter)
	require.NoError(t, err)
	require.Len(t, dist.Value().Expense, 1)
	assert.Equal(t, core.Food, dist.Value().Expense[0].Category)

	bad, err := repo.Periods(ctx, "acc-1", core.Granularity("decade"))
	require.NoError(t, err)
	assert.Equal(t, apierr.InvalidState, kindOf(t, bad.Err()))

	f.backend.Fail(http.MethodGet, "/transactions/summary/overview", http.StatusBadGateway, "")
	overview, err := repo.Overview(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, apierr.ServerError, kindOf(t, overview.Err()))
}

func TestSummaryPeriodsCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := NewSummaryRepository(api.NewSummaryAPI(f.client), log.Discard())
	f.backend.SetSummary("available-months", []api.PeriodDTO{{Label: "2025-02"}, {Label: "2025-03"}})
	const path = "/transactions/summary/available-months"

	for range 2 {
		res, err := repo.Periods(ctx, "acc-1", core.Monthly)
		require.NoError(t, err)
		require.Len(t, res.Value(), 2)
	}
	assert.Equal(t, 1, f.backend.Count(http.MethodGet, path))

	_, err := repo.Periods(ctx, "acc-2", core.Monthly)
	require.NoError(t, err)
	assert.Equal(t, 2, f.backend.Count(http.MethodGet, path))

	repo.ForgetPeriods()
	f.backend.Fail(http.MethodGet, path, http.StatusInternalServerError, "")
	failed, err := repo.Periods(ctx, "acc-1", core.Monthly)
	require.NoError(t, err)
	assert.True(t, failed.IsError())

	f.backend.Fail(http.MethodGet, path, 0, "")
	res, err := repo.Periods(ctx, "acc-1", core.Monthly)
	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.Equal(t, 4, f.backend.Count(http.MethodGet, path))
}
