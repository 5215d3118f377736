package repository

import (
	"context"

	"fintrack/internal/api"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/result"
)

type BudgetsRepository struct {
	api    *api.BudgetAPI
	logger *log.Logger
}

func NewBudgetsRepository(budgetAPI *api.BudgetAPI, logger *log.Logger) *BudgetsRepository {
	return &BudgetsRepository{api: budgetAPI, logger: logger.WithComponent(log.ComponentBudgets)}
}

// List returns budget statuses, for every account when accountID is empty.
func (r *BudgetsRepository) List(ctx context.Context, accountID string) (result.Result[[]core.BudgetStatus], error) {
	return call(ctx, r.logger, log.OpList, func(ctx context.Context) ([]core.BudgetStatus, error) {
		dtos, err := r.api.List(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return mapAll(dtos, api.BudgetStatusDTO.ToDomain), nil
	}, log.FieldAccountID, accountID)
}

func (r *BudgetsRepository) Get(ctx context.Context, id string) (result.Result[core.BudgetStatus], error) {
	return call(ctx, r.logger, log.OpRead, func(ctx context.Context) (core.BudgetStatus, error) {
		dto, err := r.api.Get(ctx, id)
		return dto.ToDomain(), err
	}, log.FieldBudgetID, id)
}

// Save creates the budget when it is new and updates it otherwise.
func (r *BudgetsRepository) Save(ctx context.Context, b core.Budget) (result.Result[core.Budget], error) {
	return call(ctx, r.logger, saveOp(b.IsNew()), func(ctx context.Context) (core.Budget, error) {
		if err := b.Validate(); err != nil {
			return core.Budget{}, invalid(err)
		}
		dto, err := r.api.Save(ctx, api.BudgetFromDomain(b))
		return dto.ToDomain(), err
	}, log.FieldBudgetID, b.ID)
}

func (r *BudgetsRepository) Delete(ctx context.Context, id string) (result.Result[none], error) {
	return call(ctx, r.logger, log.OpDelete, func(ctx context.Context) (none, error) {
		return none{}, r.api.Delete(ctx, id)
	}, log.FieldBudgetID, id)
}
