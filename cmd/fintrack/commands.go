package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/viewmodel"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"login", "sign in and store the session token", runLogin},
		{"register", "create a user and sign in", runRegister},
		{"logout", "forget the session token", runLogout},
		{"whoami", "show the signed-in user", runWhoami},
		{"accounts", "list accounts", runAccounts},
		{"transactions", "list transactions of an account, newest first", runTransactions},
		{"add-transaction", "create or update a transaction", runAddTransaction},
		{"budgets", "list budgets and their status", runBudgets},
		{"save-budget", "create or update a budget", runSaveBudget},
		{"delete-budget", "delete a budget", runDeleteBudget},
		{"summary", "show highlights, distribution and trends", runSummary},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// usageError marks malformed command-line input; run exits with 2.
// reported is set when the flag package already printed the problem.
type usageError struct {
	err      error
	reported bool
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// parse reports flag errors as usage errors; the flag package has already
// printed the details to the command's error output.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return &usageError{err: err, reported: true}
	}
	if fs.NArg() > 0 {
		return usagef("%s: unexpected argument %q", fs.Name(), fs.Arg(0))
	}
	return nil
}

func required(fs *flag.FlagSet, names ...string) error {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	var missing []string
	for _, n := range names {
		if !set[n] {
			missing = append(missing, "-"+n)
		}
	}
	if len(missing) > 0 {
		return usagef("%s: missing %s", fs.Name(), strings.Join(missing, ", "))
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, usagef("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account e-mail")
	password := fs.String("password", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "email", "password"); err != nil {
		return err
	}

	a.auth.Login(*email, *password)
	user, err := await(ctx, a.auth.Session())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := a.flags("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account e-mail")
	password := fs.String("password", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "name", "email", "password"); err != nil {
		return err
	}

	a.auth.Register(*name, *email, *password)
	user, err := await(ctx, a.auth.Session())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s. You are now logged in.\n", user.Name)
	return nil
}

func runLogout(ctx context.Context, a *app, args []string) error {
	if err := parse(a.flags("logout"), args); err != nil {
		return err
	}
	a.auth.Logout()
	a.auth.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.auth.Session().Get().Err(); err != nil && err != viewmodel.ErrLoggedOut {
		return failure(err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func runWhoami(ctx context.Context, a *app, args []string) error {
	if err := parse(a.flags("whoami"), args); err != nil {
		return err
	}
	if !a.auth.LoggedIn().Get() {
		return errors.New("not logged in; run 'fintrack login'")
	}
	a.auth.RefreshUser()
	user, err := await(ctx, a.auth.Session())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s>\nid: %s\n", user.Name, user.Email, user.ID)
	return nil
}

// resolveAccount returns id, or the account ReloadAccounts selects when id
// is empty.
func (a *app) resolveAccount(ctx context.Context, id string) (core.Account, error) {
	if id != "" {
		a.accounts.SelectAccount(id)
	} else {
		a.accounts.ReloadAccounts()
	}
	acc, err := await(ctx, a.accounts.SelectedAccount())
	a.accounts.Wait()
	return acc, err
}

func runAccounts(ctx context.Context, a *app, args []string) error {
	if err := parse(a.flags("accounts"), args); err != nil {
		return err
	}
	a.accounts.ReloadAccounts()
	list, err := await(ctx, a.accounts.Accounts())
	if err != nil {
		return err
	}
	a.accounts.Wait()
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No accounts yet.")
		return nil
	}
	selected, _ := a.accounts.SelectedAccount().Get().Get()

	tw := table(a.out, "", "ID", "NAME", "BALANCE", "INCOME", "EXPENSE")
	for _, acc := range list {
		mark := ""
		if acc.ID == selected.ID {
			mark = "*"
		}
		row(tw, mark, acc.ID, acc.Name,
			a.format.Amount(acc.Balance, acc.Balance.IsNegative(), false),
			a.format.Amount(acc.Income, false, false),
			a.format.Amount(acc.Expense, true, false))
	}
	return tw.Flush()
}

func runTransactions(ctx context.Context, a *app, args []string) error {
	fs := a.flags("transactions")
	accountID := fs.String("account", "", "account id (default: first account)")
	pages := fs.Int("pages", 1, "number of pages to load")
	if err := parse(fs, args); err != nil {
		return err
	}
	acc, err := a.resolveAccount(ctx, *accountID)
	if err != nil {
		return err
	}

	a.transactions.Load(acc.ID)
	txns, err := await(ctx, a.transactions.Transactions())
	if err != nil {
		return err
	}
	for i := 1; i < *pages && a.transactions.HasMore(); i++ {
		a.transactions.LoadMore()
		a.transactions.Wait()
		if txns, err = await(ctx, a.transactions.Transactions()); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.out, "Transactions of %s\n", acc.Name)
	if len(txns) == 0 {
		fmt.Fprintln(a.out, "No transactions yet.")
		return nil
	}
	tw := table(a.out, "WHEN", "CATEGORY", "AMOUNT", "DESCRIPTION", "ID")
	for _, t := range txns {
		row(tw, a.format.When(t.Timestamp), t.Category.Label(),
			a.format.Amount(t.Amount, !t.IsIncome, true), t.Description, t.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if a.transactions.HasMore() {
		fmt.Fprintln(a.out, "More transactions available; use -pages to load them.")
	}
	return nil
}

func runAddTransaction(ctx context.Context, a *app, args []string) error {
	fs := a.flags("add-transaction")
	id := fs.String("id", "", "transaction id to update (default: create)")
	accountID := fs.String("account", "", "account id (default: first account)")
	amount := fs.String("amount", "", "positive amount, e.g. 12.50 or 12,50")
	category := fs.String("category", "", "category, e.g. FOOD or SALARY")
	description := fs.String("description", "", "free text")
	date := fs.String("date", "", "YYYY-MM-DD (default: now)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "amount", "category"); err != nil {
		return err
	}

	value, err := core.ParseAmount(*amount)
	if err != nil {
		return err
	}
	cat, err := core.ParseCategory(*category)
	if err != nil {
		return err
	}
	when := time.Now()
	if *date != "" {
		if when, err = parseDate(*date); err != nil {
			return err
		}
	}
	acc, err := a.resolveAccount(ctx, *accountID)
	if err != nil {
		return err
	}

	a.transactions.Save(core.Transaction{
		ID:          *id,
		AccountID:   acc.ID,
		IsIncome:    cat.IsIncome(),
		Amount:      value,
		Category:    cat,
		Timestamp:   when.UTC(),
		Description: *description,
	})
	action, err := await(ctx, a.transactions.Action())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Transaction %s %s: %s %s\n", action.ID, action.Op,
		cat.Label(), a.format.Amount(value, !cat.IsIncome(), true))
	return nil
}

func runBudgets(ctx context.Context, a *app, args []string) error {
	fs := a.flags("budgets")
	accountID := fs.String("account", "", "account id (default: every account)")
	if err := parse(fs, args); err != nil {
		return err
	}

	a.budgets.Load(*accountID)
	list, err := await(ctx, a.budgets.Budgets())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No budgets yet.")
		return nil
	}
	tw := table(a.out, "", "ID", "NAME", "SPENT", "LIMIT", "USED", "REMAINING")
	for _, s := range list {
		mark := ""
		if s.Exceeded {
			mark = "!"
		}
		row(tw, mark, s.Budget.ID, s.Budget.Name,
			a.format.Amount(s.Spent, false, false),
			a.format.Amount(s.Budget.Limit, false, false),
			a.format.Percent(s.Percentage),
			a.format.Amount(s.Remaining, s.Remaining.IsNegative(), s.Remaining.IsNegative()))
	}
	return tw.Flush()
}

func runSaveBudget(ctx context.Context, a *app, args []string) error {
	fs := a.flags("save-budget")
	id := fs.String("id", "", "budget id to update (default: create)")
	accountID := fs.String("account", "", "account id (default: first account)")
	name := fs.String("name", "", "budget name")
	categories := fs.String("categories", "", "comma separated categories, e.g. FOOD,TRAVEL")
	limit := fs.String("limit", "", "spending limit")
	income := fs.Bool("income", false, "track income instead of expenses")
	start := fs.String("start", "", "first day, YYYY-MM-DD")
	end := fs.String("end", "", "last day, YYYY-MM-DD")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "name", "categories", "limit"); err != nil {
		return err
	}

	value, err := core.ParseAmount(*limit)
	if err != nil {
		return err
	}
	var cats []core.Category
	for _, s := range strings.Split(*categories, ",") {
		c, err := core.ParseCategory(s)
		if err != nil {
			return err
		}
		cats = append(cats, c)
	}
	startDate, err := parseDate(*start)
	if err != nil {
		return err
	}
	endDate, err := parseDate(*end)
	if err != nil {
		return err
	}
	acc, err := a.resolveAccount(ctx, *accountID)
	if err != nil {
		return err
	}

	a.budgets.Save(core.Budget{
		ID:         *id,
		AccountID:  acc.ID,
		Name:       *name,
		Categories: cats,
		Limit:      value,
		IsExpense:  !*income,
		StartDate:  startDate,
		EndDate:    endDate,
	})
	action, err := await(ctx, a.budgets.Action())
	if err != nil {
		return err
	}
	a.budgets.Wait()
	fmt.Fprintf(a.out, "Budget %s %s\n", action.ID, action.Op)
	if s, ok := a.budgets.Selected().Get().Get(); ok {
		fmt.Fprintf(a.out, "%s of %s used (%s)\n",
			a.format.Amount(s.Spent, false, false),
			a.format.Amount(s.Budget.Limit, false, false),
			a.format.Percent(s.Percentage))
	}
	return nil
}

func runDeleteBudget(ctx context.Context, a *app, args []string) error {
	fs := a.flags("delete-budget")
	id := fs.String("id", "", "budget id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id"); err != nil {
		return err
	}

	a.budgets.Delete(*id)
	action, err := await(ctx, a.budgets.Action())
	if err != nil {
		return err
	}
	a.budgets.Wait()
	fmt.Fprintf(a.out, "Budget %s %s\n", action.ID, action.Op)
	return nil
}
