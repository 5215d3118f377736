package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts and dates for one locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
	now     func() time.Time
}

// NewFormatter builds a formatter for a BCP 47 locale such as "en-US" or
// "it-IT". The currency symbol is the one of the locale's region.
func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	printer := message.NewPrinter(tag)
	symbol := ""
	if unit, conf := currency.FromTag(tag); conf != language.No {
		symbol = printer.Sprint(currency.Symbol(unit))
	}
	return &Formatter{
		printer: printer,
		symbol:  symbol,
		now:     time.Now,
	}, nil
}

// Amount prints d with two decimals, grouping and the currency symbol,
// prefixed with "-" for expenses when signed is set.
func (f *Formatter) Amount(d decimal.Decimal, expense, signed bool) string {
	s := f.printer.Sprintf("%.2f", d.Abs().InexactFloat64())
	if f.symbol != "" {
		s = f.symbol + " " + s
	}
	if signed && expense {
		return "-" + s
	}
	if signed {
		return "+" + s
	}
	return s
}

// When prints t as a date followed by how long ago it was.
func (f *Formatter) When(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", t.Local().Format("2006-01-02"), humanize.RelTime(t, f.now(), "ago", "from now"))
}

// Percent prints p with one decimal.
func (f *Formatter) Percent(p float64) string {
	return f.printer.Sprintf("%.1f%%", p)
}
