package repository

import (
	"context"

	"fintrack/internal/api"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/result"
)

const DefaultPageSize = 20

type TransactionsRepository struct {
	api      *api.TransactionAPI
	pageSize int
	logger   *log.Logger
}

// NewTransactionsRepository pages transactions pageSize at a time, newest
// first. A non-positive pageSize means DefaultPageSize.
func NewTransactionsRepository(txnAPI *api.TransactionAPI, pageSize int, logger *log.Logger) *TransactionsRepository {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &TransactionsRepository{
		api:      txnAPI,
		pageSize: pageSize,
		logger:   logger.WithComponent(log.ComponentTransactions),
	}
}

// List fetches the page after cursor; a nil cursor starts from the newest
// transaction.
func (r *TransactionsRepository) List(ctx context.Context, accountID string, after *core.Cursor) (result.Result[core.Page[core.Transaction]], error) {
	return call(ctx, r.logger, log.OpList, func(ctx context.Context) (core.Page[core.Transaction], error) {
		page, err := r.api.List(ctx, api.ListParams{
			AccountID: accountID,
			Limit:     r.pageSize,
			SortBy:    api.SortByTimestamp,
			Order:     api.OrderDesc,
			After:     after,
		})
		if err != nil {
			return core.Page[core.Transaction]{}, err
		}
		return api.PageToDomain(page, api.TransactionDTO.ToDomain), nil
	}, log.FieldAccountID, accountID)
}

func (r *TransactionsRepository) Get(ctx context.Context, id string) (result.Result[core.Transaction], error) {
	return call(ctx, r.logger, log.OpRead, func(ctx context.Context) (core.Transaction, error) {
		dto, err := r.api.Get(ctx, id)
		return dto.ToDomain(), err
	}, log.FieldTxnID, id)
}

func (r *TransactionsRepository) Save(ctx context.Context, t core.Transaction) (result.Result[core.Transaction], error) {
	return call(ctx, r.logger, saveOp(t.IsNew()), func(ctx context.Context) (core.Transaction, error) {
		if err := t.Validate(); err != nil {
			return core.Transaction{}, invalid(err)
		}
		dto, err := r.api.Save(ctx, api.TransactionFromDomain(t))
		return dto.ToDomain(), err
	}, log.FieldTxnID, t.ID)
}

func (r *TransactionsRepository) Delete(ctx context.Context, id string) (result.Result[none], error) {
	return call(ctx, r.logger, log.OpDelete, func(ctx context.Context) (none, error) {
		return none{}, r.api.Delete(ctx, id)
	}, log.FieldTxnID, id)
}
