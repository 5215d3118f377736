package repository

import (
	"context"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/apierr"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/result"
)

const periodsTTL = 5 * time.Minute

type periodsKey struct {
	accountID string
	g         core.Granularity
}

type SummaryRepository struct {
	api     *api.SummaryAPI
	logger  *log.Logger
	periods *cache.LRU[periodsKey, []core.PeriodOption]
}

func NewSummaryRepository(summaryAPI *api.SummaryAPI, logger *log.Logger) *SummaryRepository {
	return &SummaryRepository{
		api:     summaryAPI,
		logger:  logger.WithComponent(log.ComponentSummary),
		periods: cache.NewLRU[periodsKey, []core.PeriodOption](32, periodsTTL),
	}
}

func (r *SummaryRepository) Highlights(ctx context.Context, f core.SummaryFilter) (result.Result[core.Highlights], error) {
	return call(ctx, r.logger, "highlights", func(ctx context.Context) (core.Highlights, error) {
		dto, err := r.api.Highlights(ctx, f)
		return dto.ToDomain(), err
	}, log.FieldAccountID, f.AccountID)
}

func (r *SummaryRepository) Distribution(ctx context.Context, f core.SummaryFilter) (result.Result[core.Distribution], error) {
	return call(ctx, r.logger, "distribution", func(ctx context.Context) (core.Distribution, error) {
		dto, err := r.api.Distribution(ctx, f)
		return dto.ToDomain(), err
	}, log.FieldAccountID, f.AccountID)
}

func (r *SummaryRepository) Overview(ctx context.Context, f core.SummaryFilter) (result.Result[core.Overview], error) {
	return call(ctx, r.logger, "overview", func(ctx context.Context) (core.Overview, error) {
		dto, err := r.api.Overview(ctx, f)
		return dto.ToDomain(), err
	}, log.FieldAccountID, f.AccountID)
}

func (r *SummaryRepository) Counts(ctx context.Context, f core.SummaryFilter) (result.Result[core.Counts], error) {
	return call(ctx, r.logger, "counts", func(ctx context.Context) (core.Counts, error) {
		dto, err := r.api.Counts(ctx, f)
		return dto.ToDomain(), err
	}, log.FieldAccountID, f.AccountID)
}

func (r *SummaryRepository) Comparison(ctx context.Context, f core.SummaryFilter, isIncome bool) (result.Result[[]core.CategoryComparison], error) {
	return call(ctx, r.logger, "category_comparison", func(ctx context.Context) ([]core.CategoryComparison, error) {
		dtos, err := r.api.CategoryComparison(ctx, f, isIncome)
		if err != nil {
			return nil, err
		}
		return mapAll(dtos, api.CategoryComparisonDTO.ToDomain), nil
	}, log.FieldAccountID, f.AccountID)
}

// Periods lists the selectable weeks, months or years. Successful answers
// are kept for a few minutes per account and granularity.
func (r *SummaryRepository) Periods(ctx context.Context, accountID string, g core.Granularity) (result.Result[[]core.PeriodOption], error) {
	key := periodsKey{accountID: accountID, g: g}
	if cached, ok := r.periods.Get(key); ok {
		return result.Success(cached), nil
	}
	res, err := call(ctx, r.logger, "periods", func(ctx context.Context) ([]core.PeriodOption, error) {
		if !g.Valid() {
			return nil, apierr.New(apierr.InvalidState, "unknown period granularity "+string(g))
		}
		dtos, err := r.api.AvailablePeriods(ctx, accountID, g)
		if err != nil {
			return nil, err
		}
		return mapAll(dtos, api.PeriodDTO.ToDomain), nil
	}, log.FieldAccountID, accountID)
	if err == nil && res.IsSuccess() {
		r.periods.Set(key, res.Value())
	}
	return res, err
}

// ForgetPeriods drops cached periods, e.g. after transactions changed.
func (r *SummaryRepository) ForgetPeriods() {
	r.periods.Purge()
}
