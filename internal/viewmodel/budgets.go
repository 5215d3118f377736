package viewmodel

import (
	"context"
	"sync"

	"fintrack/internal/apierr"
	"fintrack/internal/core"
	"fintrack/internal/repository"
	"fintrack/internal/result"
	"fintrack/internal/stream"
)

type BudgetsViewModel struct {
	*scope
	repo     *repository.BudgetsRepository
	budgets  *stream.Value[result.Result[[]core.BudgetStatus]]
	selected *stream.Value[result.Result[core.BudgetStatus]]
	action   *stream.Value[result.Result[Action]]

	mu        sync.Mutex
	accountID string
}

func NewBudgetsViewModel(ctx context.Context, repo *repository.BudgetsRepository) *BudgetsViewModel {
	return &BudgetsViewModel{
		scope:    newScope(ctx),
		repo:     repo,
		budgets:  stream.New(result.Loading[[]core.BudgetStatus]()),
		selected: stream.New(result.Loading[core.BudgetStatus]()),
		action:   stream.New(result.Loading[Action]()),
	}
}

func (vm *BudgetsViewModel) Budgets() *stream.Value[result.Result[[]core.BudgetStatus]] {
	return vm.budgets
}

// Selected holds the budget opened with Open.
func (vm *BudgetsViewModel) Selected() *stream.Value[result.Result[core.BudgetStatus]] {
	return vm.selected
}

func (vm *BudgetsViewModel) Action() *stream.Value[result.Result[Action]] {
	return vm.action
}

// Load lists the budgets of accountID, or of every account when it is empty.
func (vm *BudgetsViewModel) Load(accountID string) {
	vm.mu.Lock()
	vm.accountID = accountID
	vm.mu.Unlock()

	vm.budgets.Set(result.Loading[[]core.BudgetStatus]())
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.List(ctx, accountID)
		publish(vm.budgets, res, err)
	})
}

func (vm *BudgetsViewModel) Open(id string) {
	vm.selected.Set(result.Loading[core.BudgetStatus]())
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.Get(ctx, id)
		publish(vm.selected, res, err)
	})
}

// Save creates a new budget or updates an existing one, then reloads the
// list and the saved budget.
func (vm *BudgetsViewModel) Save(b core.Budget) {
	vm.action.Set(result.Loading[Action]())
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.Save(ctx, b)
		if err != nil {
			return
		}
		saved, ok := res.Get()
		if !ok {
			vm.action.Set(result.Error[Action](res.Err()))
			return
		}
		vm.action.Set(result.Success(Action{Op: OpSaved, ID: saved.ID}))
		vm.reload()
		vm.Open(saved.ID)
	})
}

func (vm *BudgetsViewModel) Delete(id string) {
	vm.action.Set(result.Loading[Action]())
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.Delete(ctx, id)
		if err != nil {
			return
		}
		if res.IsError() {
			vm.action.Set(result.Error[Action](res.Err()))
			return
		}
		if cur, ok := vm.selected.Get().Get(); ok && cur.Budget.ID == id {
			vm.selected.Set(result.Error[core.BudgetStatus](apierr.New(apierr.NotFound, "budget deleted")))
		}
		vm.action.Set(result.Success(Action{Op: OpDeleted, ID: id}))
		vm.reload()
	})
}

func (vm *BudgetsViewModel) reload() {
	vm.mu.Lock()
	accountID := vm.accountID
	vm.mu.Unlock()
	vm.Load(accountID)
}
