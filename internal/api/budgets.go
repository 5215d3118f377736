package api

import (
	"context"

	"fintrack/internal/apiclient"
)

type BudgetAPI struct {
	client *apiclient.Client
}

func NewBudgetAPI(client *apiclient.Client) *BudgetAPI {
	return &BudgetAPI{client: client}
}

// List returns the status of every budget, optionally for one account.
func (a *BudgetAPI) List(ctx context.Context, accountID string) ([]BudgetStatusDTO, error) {
	q := apiclient.NewQuery().Add("accountId", accountID)
	return apiclient.Get[[]BudgetStatusDTO](ctx, a.client, "/budgets", q)
}

func (a *BudgetAPI) Get(ctx context.Context, id string) (BudgetStatusDTO, error) {
	return apiclient.Get[BudgetStatusDTO](ctx, a.client, apiclient.PathOf("budgets", id), nil)
}

// Save routes a budget without id to the create endpoint and one with an id
// to the update endpoint for that id.
func (a *BudgetAPI) Save(ctx context.Context, dto BudgetDTO) (BudgetDTO, error) {
	if id := idOf(dto.ID); id != "" {
		return apiclient.Put[BudgetDTO](ctx, a.client, apiclient.PathOf("budgets", id), dto)
	}
	dto.ID = nil
	return apiclient.Post[BudgetDTO](ctx, a.client, "/budgets", dto)
}

func (a *BudgetAPI) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, a.client, apiclient.PathOf("budgets", id))
}
