package main

import (
	"context"
	"io"

	"fintrack/internal/api"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/repository"
	"fintrack/internal/tokenstore"
	"fintrack/internal/viewmodel"
)

// app is the composition root: one client, one repository and one
// view-model per feature, all sharing the token store.
type app struct {
	out    io.Writer
	errOut io.Writer
	format *cli.Formatter
	logger *log.Logger

	auth         *viewmodel.AuthViewModel
	accounts     *viewmodel.AccountsViewModel
	transactions *viewmodel.TransactionsViewModel
	budgets      *viewmodel.BudgetsViewModel
	summary      *viewmodel.SummaryViewModel
}

func newApp(ctx context.Context, cfg *config.Config, tokens tokenstore.Store, logger *log.Logger, out, errOut io.Writer) (*app, error) {
	client, err := cli.NewAPIClient(cfg, tokens, logger)
	if err != nil {
		return nil, err
	}
	format, err := cli.NewFormatter(cfg.Locale)
	if err != nil {
		return nil, err
	}

	authRepo := repository.NewAuthRepository(api.NewAuthAPI(client), tokens, logger)
	accountsRepo := repository.NewAccountsRepository(api.NewAccountsAPI(client), logger)
	txnRepo := repository.NewTransactionsRepository(api.NewTransactionAPI(client), cfg.PageSize, logger)
	budgetsRepo := repository.NewBudgetsRepository(api.NewBudgetAPI(client), logger)
	summaryRepo := repository.NewSummaryRepository(api.NewSummaryAPI(client), logger)

	return &app{
		out:    out,
		errOut: errOut,
		format: format,
		logger: logger.WithComponent(log.ComponentCLI),

		auth:         viewmodel.NewAuthViewModel(ctx, authRepo),
		accounts:     viewmodel.NewAccountsViewModel(ctx, accountsRepo),
		transactions: viewmodel.NewTransactionsViewModel(ctx, txnRepo, summaryRepo.ForgetPeriods),
		budgets:      viewmodel.NewBudgetsViewModel(ctx, budgetsRepo),
		summary:      viewmodel.NewSummaryViewModel(ctx, summaryRepo),
	}, nil
}

// Close cancels every in-flight task.
func (a *app) Close() {
	a.auth.Close()
	a.accounts.Close()
	a.transactions.Close()
	a.budgets.Close()
	a.summary.Close()
}
