package api

import (
	"context"

	"fintrack/internal/apiclient"
	"fintrack/internal/core"
)

type SummaryAPI struct {
	client *apiclient.Client
}

func NewSummaryAPI(client *apiclient.Client) *SummaryAPI {
	return &SummaryAPI{client: client}
}

func summaryPath(name string) string {
	return apiclient.PathOf("transactions", "summary", name)
}

func filterQuery(f core.SummaryFilter) apiclient.Query {
	return apiclient.NewQuery().
		Add("accountId", f.AccountID).
		Add("period", string(f.Period)).
		AddTime("startDate", f.StartDate).
		AddTime("endDate", f.EndDate)
}

func (a *SummaryAPI) Highlights(ctx context.Context, f core.SummaryFilter) (HighlightsDTO, error) {
	return apiclient.Get[HighlightsDTO](ctx, a.client, summaryPath("highlights"), filterQuery(f))
}

func (a *SummaryAPI) Distribution(ctx context.Context, f core.SummaryFilter) (DistributionDTO, error) {
	return apiclient.Get[DistributionDTO](ctx, a.client, summaryPath("distribution"), filterQuery(f))
}

func (a *SummaryAPI) Overview(ctx context.Context, f core.SummaryFilter) (OverviewDTO, error) {
	return apiclient.Get[OverviewDTO](ctx, a.client, summaryPath("overview"), filterQuery(f))
}

func (a *SummaryAPI) Counts(ctx context.Context, f core.SummaryFilter) (CountsDTO, error) {
	return apiclient.Get[CountsDTO](ctx, a.client, summaryPath("counts"), filterQuery(f))
}

// CategoryComparison compares each category against the previous period.
func (a *SummaryAPI) CategoryComparison(ctx context.Context, f core.SummaryFilter, isIncome bool) ([]CategoryComparisonDTO, error) {
	q := filterQuery(f).AddBool("isIncome", &isIncome)
	return apiclient.Get[[]CategoryComparisonDTO](ctx, a.client, summaryPath("category-comparison"), q)
}

// AvailablePeriods lists the weeks, months or years that have transactions.
func (a *SummaryAPI) AvailablePeriods(ctx context.Context, accountID string, g core.Granularity) ([]PeriodDTO, error) {
	var name string
	switch g {
	case core.Weekly:
		name = "available-weeks"
	case core.Yearly:
		name = "available-years"
	default:
		name = "available-months"
	}
	q := apiclient.NewQuery().Add("accountId", accountID)
	return apiclient.Get[[]PeriodDTO](ctx, a.client, summaryPath(name), q)
}
