package core

import (
	"errors"
	"strings"
)

// Category is a closed set of transaction categories. Each category belongs
// to exactly one direction (income or expense).
type Category string

const (
	Food          Category = "FOOD"
	Transport     Category = "TRANSPORT"
	Housing       Category = "HOUSING"
	Utilities     Category = "UTILITIES"
	Health        Category = "HEALTH"
	Entertainment Category = "ENTERTAINMENT"
	Shopping      Category = "SHOPPING"
	Education     Category = "EDUCATION"
	Travel        Category = "TRAVEL"
	OtherExpense  Category = "OTHER_EXPENSE"

	Salary      Category = "SALARY"
	Business    Category = "BUSINESS"
	Investment  Category = "INVESTMENT"
	Gift        Category = "GIFT"
	OtherIncome Category = "OTHER_INCOME"
)

var ErrUnknownCategory = errors.New("unknown category")

var (
	expenseCategories = []Category{Food, Transport, Housing, Utilities, Health, Entertainment, Shopping, Education, Travel, OtherExpense}
	incomeCategories  = []Category{Salary, Business, Investment, Gift, OtherIncome}
)

// Categories returns the categories available for one direction.
func Categories(isIncome bool) []Category {
	src := expenseCategories
	if isIncome {
		src = incomeCategories
	}
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// ParseCategory accepts any casing and "-" or " " as word separators.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	c := Category(norm)
	if !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

func (c Category) Valid() bool {
	for _, k := range expenseCategories {
		if k == c {
			return true
		}
	}
	return c.IsIncome()
}

func (c Category) IsIncome() bool {
	for _, k := range incomeCategories {
		if k == c {
			return true
		}
	}
	return false
}

// Label returns a human readable name, e.g. "Other expense".
func (c Category) Label() string {
	s := strings.ToLower(strings.ReplaceAll(string(c), "_", " "))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (c Category) String() string {
	return string(c)
}
