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

var errNoAccounts = apierr.New(apierr.InvalidState, "no accounts available")

type AccountsViewModel struct {
	*scope
	repo     *repository.AccountsRepository
	accounts *stream.Value[result.Result[[]core.Account]]
	selected *stream.Value[result.Result[core.Account]]
	action   *stream.Value[result.Result[Action]]

	mu     sync.Mutex
	prefer string
}

func NewAccountsViewModel(ctx context.Context, repo *repository.AccountsRepository) *AccountsViewModel {
	return &AccountsViewModel{
		scope:    newScope(ctx),
		repo:     repo,
		accounts: stream.New(result.Loading[[]core.Account]()),
		selected: stream.New(result.Loading[core.Account]()),
		action:   stream.New(result.Loading[Action]()),
	}
}

func (vm *AccountsViewModel) Accounts() *stream.Value[result.Result[[]core.Account]] {
	return vm.accounts
}

func (vm *AccountsViewModel) SelectedAccount() *stream.Value[result.Result[core.Account]] {
	return vm.selected
}

// Action reports the last save or delete; Loading until one completes.
func (vm *AccountsViewModel) Action() *stream.Value[result.Result[Action]] {
	return vm.action
}

// ReloadAccounts fetches the account list. The previous selection is kept
// when it is still listed, otherwise the first account is selected; an
// empty list selects an InvalidState error.
func (vm *AccountsViewModel) ReloadAccounts() {
	vm.accounts.Set(result.Loading[[]core.Account]())
	vm.launch(vm.reload)
}

func (vm *AccountsViewModel) reload(ctx context.Context) {
	res, err := vm.repo.List(ctx)
	if !publish(vm.accounts, res, err) {
		return
	}
	list, ok := res.Get()
	if !ok {
		vm.selected.Set(result.Error[core.Account](res.Err()))
		return
	}
	if len(list) == 0 {
		vm.selected.Set(result.Error[core.Account](errNoAccounts))
		return
	}

	vm.mu.Lock()
	want := vm.prefer
	vm.prefer = ""
	vm.mu.Unlock()
	if want == "" {
		if cur, ok := vm.selected.Get().Get(); ok {
			want = cur.ID
		}
	}

	pick := list[0]
	for _, a := range list {
		if a.ID == want {
			pick = a
			break
		}
	}
	vm.selected.Set(result.Success(pick))
}

// SelectAccount selects a listed account, fetching it when it is not in the
// current list.
func (vm *AccountsViewModel) SelectAccount(id string) {
	if list, ok := vm.accounts.Get().Get(); ok {
		for _, a := range list {
			if a.ID == id {
				vm.selected.Set(result.Success(a))
				return
			}
		}
	}
	vm.selected.Set(result.Loading[core.Account]())
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.Get(ctx, id)
		publish(vm.selected, res, err)
	})
}

// SaveAccount creates or updates a, then reloads with a selected.
func (vm *AccountsViewModel) SaveAccount(a core.Account) {
	vm.action.Set(result.Loading[Action]())
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.Save(ctx, a)
		if err != nil {
			return
		}
		saved, ok := res.Get()
		if !ok {
			vm.action.Set(result.Error[Action](res.Err()))
			return
		}
		vm.mu.Lock()
		vm.prefer = saved.ID
		vm.mu.Unlock()
		vm.action.Set(result.Success(Action{Op: OpSaved, ID: saved.ID}))
		vm.reload(ctx)
	})
}

func (vm *AccountsViewModel) DeleteAccount(id string) {
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
		vm.action.Set(result.Success(Action{Op: OpDeleted, ID: id}))
		vm.reload(ctx)
	})
}
