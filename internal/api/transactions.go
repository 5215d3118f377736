package api

import (
	"context"

	"fintrack/internal/apiclient"
	"fintrack/internal/core"
)

const (
	SortByTimestamp = "timestamp"
	SortByAmount    = "amount"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListParams are the cursor pagination parameters of GET /transactions.
type ListParams struct {
	AccountID string
	Limit     int
	SortBy    string
	Order     string
	After     *core.Cursor
}

func (p ListParams) query() apiclient.Query {
	q := apiclient.NewQuery().
		Add("accountId", p.AccountID).
		AddInt("limit", p.Limit).
		Add("sortBy", p.SortBy).
		Add("order", p.Order)
	if p.After != nil {
		q.AddTime("afterDate", p.After.AfterDate).Add("afterId", p.After.AfterID)
	}
	return q
}

type TransactionAPI struct {
	client *apiclient.Client
}

func NewTransactionAPI(client *apiclient.Client) *TransactionAPI {
	return &TransactionAPI{client: client}
}

func (a *TransactionAPI) List(ctx context.Context, p ListParams) (PageDTO[TransactionDTO], error) {
	return apiclient.Get[PageDTO[TransactionDTO]](ctx, a.client, "/transactions", p.query())
}

func (a *TransactionAPI) Get(ctx context.Context, id string) (TransactionDTO, error) {
	return apiclient.Get[TransactionDTO](ctx, a.client, apiclient.PathOf("transactions", id), nil)
}

// Save creates the transaction when it has no id and updates it otherwise.
func (a *TransactionAPI) Save(ctx context.Context, dto TransactionDTO) (TransactionDTO, error) {
	if id := idOf(dto.ID); id != "" {
		return apiclient.Put[TransactionDTO](ctx, a.client, apiclient.PathOf("transactions", id), dto)
	}
	dto.ID = nil
	return apiclient.Post[TransactionDTO](ctx, a.client, "/transactions", dto)
}

func (a *TransactionAPI) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, a.client, apiclient.PathOf("transactions", id))
}
