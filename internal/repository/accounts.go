package repository

import (
	"context"

	"fintrack/internal/api"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/result"
)

type AccountsRepository struct {
	api    *api.AccountsAPI
	logger *log.Logger
}

func NewAccountsRepository(accountsAPI *api.AccountsAPI, logger *log.Logger) *AccountsRepository {
	return &AccountsRepository{api: accountsAPI, logger: logger.WithComponent(log.ComponentAccounts)}
}

func (r *AccountsRepository) List(ctx context.Context) (result.Result[[]core.Account], error) {
	return call(ctx, r.logger, log.OpList, func(ctx context.Context) ([]core.Account, error) {
		dtos, err := r.api.List(ctx)
		if err != nil {
			return nil, err
		}
		return mapAll(dtos, api.AccountDTO.ToDomain), nil
	})
}

func (r *AccountsRepository) Get(ctx context.Context, id string) (result.Result[core.Account], error) {
	return call(ctx, r.logger, log.OpRead, func(ctx context.Context) (core.Account, error) {
		dto, err := r.api.Get(ctx, id)
		return dto.ToDomain(), err
	}, log.FieldAccountID, id)
}

// Save creates a new account or updates an existing one.
func (r *AccountsRepository) Save(ctx context.Context, a core.Account) (result.Result[core.Account], error) {
	return call(ctx, r.logger, saveOp(a.IsNew()), func(ctx context.Context) (core.Account, error) {
		if err := a.Validate(); err != nil {
			return core.Account{}, invalid(err)
		}
		dto, err := r.api.Save(ctx, api.AccountFromDomain(a))
		return dto.ToDomain(), err
	}, log.FieldAccountID, a.ID)
}

func (r *AccountsRepository) Delete(ctx context.Context, id string) (result.Result[none], error) {
	return call(ctx, r.logger, log.OpDelete, func(ctx context.Context) (none, error) {
		return none{}, r.api.Delete(ctx, id)
	}, log.FieldAccountID, id)
}
