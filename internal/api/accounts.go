package api

import (
	"context"

	"fintrack/internal/apiclient"
)

type AccountsAPI struct {
	client *apiclient.Client
}

func NewAccountsAPI(client *apiclient.Client) *AccountsAPI {
	return &AccountsAPI{client: client}
}

func (a *AccountsAPI) List(ctx context.Context) ([]AccountDTO, error) {
	return apiclient.Get[[]AccountDTO](ctx, a.client, "/accounts", nil)
}

func (a *AccountsAPI) Get(ctx context.Context, id string) (AccountDTO, error) {
	return apiclient.Get[AccountDTO](ctx, a.client, apiclient.PathOf("accounts", id), nil)
}

// Save creates the account when it has no id and updates it otherwise.
func (a *AccountsAPI) Save(ctx context.Context, dto AccountDTO) (AccountDTO, error) {
	if id := idOf(dto.ID); id != "" {
		return apiclient.Put[AccountDTO](ctx, a.client, apiclient.PathOf("accounts", id), dto)
	}
	dto.ID = nil
	return apiclient.Post[AccountDTO](ctx, a.client, "/accounts", dto)
}

func (a *AccountsAPI) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, a.client, apiclient.PathOf("accounts", id))
}
