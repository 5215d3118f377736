package main

import (
	"context"
	"fmt"
	"io"

	"fintrack/internal/core"
)

func runSummary(ctx context.Context, a *app, args []string) error {
	fs := a.flags("summary")
	accountID := fs.String("account", "", "account id (default: every account)")
	period := fs.String("period", string(core.Monthly), "week, month or year")
	start := fs.String("start", "", "first day, YYYY-MM-DD")
	end := fs.String("end", "", "last day, YYYY-MM-DD")
	income := fs.Bool("income", false, "compare income instead of expense categories")
	periods := fs.Bool("periods", false, "also list the available periods")
	if err := parse(fs, args); err != nil {
		return err
	}

	g := core.Granularity(*period)
	if !g.Valid() {
		return usagef("summary: invalid period %q: want week, month or year", *period)
	}
	startDate, err := parseDate(*start)
	if err != nil {
		return err
	}
	endDate, err := parseDate(*end)
	if err != nil {
		return err
	}

	vm := a.summary
	vm.Load(core.SummaryFilter{AccountID: *accountID, Period: g, StartDate: startDate, EndDate: endDate})
	if *periods {
		vm.LoadPeriods(g)
	}
	vm.Wait()
	if *income {
		vm.Compare(true)
		vm.Wait()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w := a.out
	section(w, "Overview", vm.Overview().Get(), func(w io.Writer, o core.Overview) {
		fmt.Fprintf(w, "  income   %s\n", a.format.Amount(o.Income, false, false))
		fmt.Fprintf(w, "  expense  %s\n", a.format.Amount(o.Expense, true, false))
		fmt.Fprintf(w, "  balance  %s\n", a.format.Amount(o.Balance, o.Balance.IsNegative(), true))
	})
	section(w, "Highlights", vm.Highlights().Get(), func(w io.Writer, h core.Highlights) {
		if h.HighestIncome != nil {
			fmt.Fprintf(w, "  highest income   %s %s\n", a.format.Amount(h.HighestIncome.Amount, false, false), h.HighestIncome.Category.Label())
		}
		if h.HighestExpense != nil {
			fmt.Fprintf(w, "  highest expense  %s %s\n", a.format.Amount(h.HighestExpense.Amount, true, false), h.HighestExpense.Category.Label())
		}
		if h.TopExpenseCategory != "" {
			fmt.Fprintf(w, "  top category     %s\n", h.TopExpenseCategory.Label())
		}
		fmt.Fprintf(w, "  daily spend      %s\n", a.format.Amount(h.AverageDailySpend, true, false))
	})
	section(w, "Counts", vm.Counts().Get(), func(w io.Writer, c core.Counts) {
		fmt.Fprintf(w, "  %d transactions (%d income, %d expense)\n", c.Total, c.Income, c.Expense)
	})
	section(w, "Expense distribution", vm.Distribution().Get(), func(w io.Writer, d core.Distribution) {
		if len(d.Expense) == 0 {
			fmt.Fprintln(w, "  no expenses")
			return
		}
		for _, s := range d.Expense {
			fmt.Fprintf(w, "  %-14s %s  %s\n", s.Category.Label(), a.format.Percent(s.Percentage), a.format.Amount(s.Amount, true, false))
		}
	})
	section(w, "Compared with the previous period", vm.Comparison().Get(), func(w io.Writer, cs []core.CategoryComparison) {
		if len(cs) == 0 {
			fmt.Fprintln(w, "  nothing to compare")
			return
		}
		for _, c := range cs {
			fmt.Fprintf(w, "  %-14s %s -> %s (%+.1f%%)\n", c.Category.Label(),
				a.format.Amount(c.Previous, false, false), a.format.Amount(c.Current, false, false), c.Change)
		}
	})
	if *periods {
		section(w, "Available periods", vm.Periods().Get(), func(w io.Writer, ps []core.PeriodOption) {
			for _, p := range ps {
				fmt.Fprintf(w, "  %s\n", p.Label)
			}
		})
	}
	return nil
}
