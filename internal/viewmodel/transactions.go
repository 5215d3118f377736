package viewmodel

import (
	"context"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/repository"
	"fintrack/internal/result"
	"fintrack/internal/stream"
)

type TransactionsViewModel struct {
	*scope
	repo         *repository.TransactionsRepository
	transactions *stream.Value[result.Result[[]core.Transaction]]
	action       *stream.Value[result.Result[Action]]
	onChange     []func()

	// mu guards the paging state. gen changes on every Load so that pages of
	// an older load are discarded.
	mu        sync.Mutex
	gen       int
	accountID string
	items     []core.Transaction
	next      *core.Cursor
	fetching  bool
}

// NewTransactionsViewModel calls every onChange hook after a transaction is
// saved or deleted, e.g. to drop data derived from the transaction list.
func NewTransactionsViewModel(ctx context.Context, repo *repository.TransactionsRepository, onChange ...func()) *TransactionsViewModel {
	return &TransactionsViewModel{
		scope:        newScope(ctx),
		repo:         repo,
		transactions: stream.New(result.Loading[[]core.Transaction]()),
		action:       stream.New(result.Loading[Action]()),
		onChange:     onChange,
	}
}

// Transactions holds every page loaded so far, newest first.
func (vm *TransactionsViewModel) Transactions() *stream.Value[result.Result[[]core.Transaction]] {
	return vm.transactions
}

func (vm *TransactionsViewModel) Action() *stream.Value[result.Result[Action]] {
	return vm.action
}

// HasMore reports whether another page can be loaded.
func (vm *TransactionsViewModel) HasMore() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.next != nil
}

// Load starts over with the first page of accountID.
func (vm *TransactionsViewModel) Load(accountID string) {
	vm.mu.Lock()
	vm.gen++
	gen := vm.gen
	vm.accountID = accountID
	vm.items = nil
	vm.next = nil
	vm.fetching = true
	vm.mu.Unlock()

	vm.transactions.Set(result.Loading[[]core.Transaction]())
	vm.launch(func(ctx context.Context) {
		vm.fetch(ctx, gen, accountID, nil)
	})
}

// LoadMore appends the next page. It does nothing when there is no next
// page or a page is already being fetched.
func (vm *TransactionsViewModel) LoadMore() {
	vm.mu.Lock()
	if vm.next == nil || vm.fetching {
		vm.mu.Unlock()
		return
	}
	vm.fetching = true
	gen, accountID, after := vm.gen, vm.accountID, vm.next
	vm.mu.Unlock()

	vm.launch(func(ctx context.Context) {
		vm.fetch(ctx, gen, accountID, after)
	})
}

func (vm *TransactionsViewModel) fetch(ctx context.Context, gen int, accountID string, after *core.Cursor) {
	res, err := vm.repo.List(ctx, accountID, after)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if gen != vm.gen {
		return
	}
	vm.fetching = false
	if err != nil {
		return
	}
	page, ok := res.Get()
	if !ok {
		vm.transactions.Set(result.Error[[]core.Transaction](res.Err()))
		return
	}
	items := make([]core.Transaction, 0, len(vm.items)+len(page.Items))
	items = append(items, vm.items...)
	items = append(items, page.Items...)
	vm.items = items
	vm.next = page.Next
	vm.transactions.Set(result.Success(items))
}

// Save creates or updates t and reloads its account.
func (vm *TransactionsViewModel) Save(t core.Transaction) {
	vm.mutate(func(ctx context.Context) (result.Result[Action], error) {
		res, err := vm.repo.Save(ctx, t)
		return result.Map(res, func(saved core.Transaction) Action {
			return Action{Op: OpSaved, ID: saved.ID}
		}), err
	})
}

func (vm *TransactionsViewModel) Delete(id string) {
	vm.mutate(func(ctx context.Context) (result.Result[Action], error) {
		res, err := vm.repo.Delete(ctx, id)
		return result.Map(res, func(struct{}) Action {
			return Action{Op: OpDeleted, ID: id}
		}), err
	})
}

func (vm *TransactionsViewModel) mutate(fn func(context.Context) (result.Result[Action], error)) {
	vm.action.Set(result.Loading[Action]())
	vm.launch(func(ctx context.Context) {
		res, err := fn(ctx)
		if !publish(vm.action, res, err) || !res.IsSuccess() {
			return
		}
		for _, fn := range vm.onChange {
			fn()
		}
		vm.mu.Lock()
		accountID := vm.accountID
		loaded := vm.gen > 0
		vm.mu.Unlock()
		if loaded {
			vm.Load(accountID)
		}
	})
}
