package viewmodel

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/repository"
	"fintrack/internal/result"
	"fintrack/internal/stream"
)

type SummaryViewModel struct {
	*scope
	repo         *repository.SummaryRepository
	highlights   *stream.Value[result.Result[core.Highlights]]
	distribution *stream.Value[result.Result[core.Distribution]]
	overview     *stream.Value[result.Result[core.Overview]]
	counts       *stream.Value[result.Result[core.Counts]]
	periods      *stream.Value[result.Result[[]core.PeriodOption]]
	comparison   *stream.Value[result.Result[[]core.CategoryComparison]]

	mu     sync.Mutex
	filter core.SummaryFilter
}

func NewSummaryViewModel(ctx context.Context, repo *repository.SummaryRepository) *SummaryViewModel {
	return &SummaryViewModel{
		scope:        newScope(ctx),
		repo:         repo,
		highlights:   stream.New(result.Loading[core.Highlights]()),
		distribution: stream.New(result.Loading[core.Distribution]()),
		overview:     stream.New(result.Loading[core.Overview]()),
		counts:       stream.New(result.Loading[core.Counts]()),
		periods:      stream.New(result.Loading[[]core.PeriodOption]()),
		comparison:   stream.New(result.Loading[[]core.CategoryComparison]()),
	}
}

func (vm *SummaryViewModel) Highlights() *stream.Value[result.Result[core.Highlights]] {
	return vm.highlights
}

func (vm *SummaryViewModel) Distribution() *stream.Value[result.Result[core.Distribution]] {
	return vm.distribution
}

func (vm *SummaryViewModel) Overview() *stream.Value[result.Result[core.Overview]] {
	return vm.overview
}

func (vm *SummaryViewModel) Counts() *stream.Value[result.Result[core.Counts]] {
	return vm.counts
}

func (vm *SummaryViewModel) Periods() *stream.Value[result.Result[[]core.PeriodOption]] {
	return vm.periods
}

// Comparison holds the expense comparison against the previous period
// unless Compare asked for income.
func (vm *SummaryViewModel) Comparison() *stream.Value[result.Result[[]core.CategoryComparison]] {
	return vm.comparison
}

// Load fetches every projection for f in parallel. Each stream is updated
// as soon as its own request completes.
func (vm *SummaryViewModel) Load(f core.SummaryFilter) {
	vm.mu.Lock()
	vm.filter = f
	vm.mu.Unlock()

	vm.highlights.Set(result.Loading[core.Highlights]())
	vm.distribution.Set(result.Loading[core.Distribution]())
	vm.overview.Set(result.Loading[core.Overview]())
	vm.counts.Set(result.Loading[core.Counts]())
	vm.comparison.Set(result.Loading[[]core.CategoryComparison]())

	vm.launch(func(ctx context.Context) {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			res, err := vm.repo.Highlights(ctx, f)
			publish(vm.highlights, res, err)
			return err
		})
		g.Go(func() error {
			res, err := vm.repo.Distribution(ctx, f)
			publish(vm.distribution, res, err)
			return err
		})
		g.Go(func() error {
			res, err := vm.repo.Overview(ctx, f)
			publish(vm.overview, res, err)
			return err
		})
		g.Go(func() error {
			res, err := vm.repo.Counts(ctx, f)
			publish(vm.counts, res, err)
			return err
		})
		g.Go(func() error {
			res, err := vm.repo.Comparison(ctx, f, false)
			publish(vm.comparison, res, err)
			return err
		})
		// Only cancellation surfaces here and it is dropped.
		_ = g.Wait()
	})
}

// Compare reloads the category comparison of the last filter for income or
// expense categories.
func (vm *SummaryViewModel) Compare(isIncome bool) {
	vm.mu.Lock()
	f := vm.filter
	vm.mu.Unlock()

	vm.comparison.Set(result.Loading[[]core.CategoryComparison]())
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.Comparison(ctx, f, isIncome)
		publish(vm.comparison, res, err)
	})
}

// LoadPeriods lists the periods of granularity g for the account of the
// last filter.
func (vm *SummaryViewModel) LoadPeriods(g core.Granularity) {
	vm.mu.Lock()
	accountID := vm.filter.AccountID
	vm.mu.Unlock()

	vm.periods.Set(result.Loading[[]core.PeriodOption]())
	vm.launch(func(ctx context.Context) {
		res, err := vm.repo.Periods(ctx, accountID, g)
		publish(vm.periods, res, err)
	})
}
