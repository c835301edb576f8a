package expense

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Totals struct {
	Total         decimal.Decimal `json:"total"`
	ApprovedTotal decimal.Decimal `json:"approved_total"`
	RejectedTotal decimal.Decimal `json:"rejected_total"`
}

// ComputeTotals sums requested amounts over all expenses, approved amounts
// over approved ones and requested amounts over rejected ones.
func ComputeTotals(expenses []Expense) Totals {
	t := Totals{
		Total:         decimal.Zero,
		ApprovedTotal: decimal.Zero,
		RejectedTotal: decimal.Zero,
	}
	for _, e := range expenses {
		t.Total = t.Total.Add(e.RequestedAmount)
		switch d := e.Decision.(type) {
		case Approved:
			amount := d.Amount
			if amount.IsZero() {
				amount = e.RequestedAmount
			}
			t.ApprovedTotal = t.ApprovedTotal.Add(amount)
		case Rejected:
			t.RejectedTotal = t.RejectedTotal.Add(e.RequestedAmount)
		}
	}
	return t
}

type GroupBy string

const (
	ByYear     GroupBy = "year"
	ByMonth    GroupBy = "month"
	ByCategory GroupBy = "category"
)

var ErrUnknownGrouping = errors.New("unknown breakdown grouping")

type BreakdownRow struct {
	Key string `json:"key"`
	Totals
}

// Breakdown splits expenses by year, month or category and totals each
// bucket. Rows are sorted by key.
func Breakdown(expenses []Expense, by GroupBy) ([]BreakdownRow, error) {
	var keyOf func(Expense) string
	switch by {
	case ByYear:
		keyOf = func(e Expense) string { return e.Date.Format("2006") }
	case ByMonth:
		keyOf = func(e Expense) string { return e.Date.Format("2006-01") }
	case ByCategory:
		keyOf = func(e Expense) string { return e.Category }
	default:
		return nil, errors.Wrapf(ErrUnknownGrouping, "%q", by)
	}

	buckets := make(map[string][]Expense)
	for _, e := range expenses {
		k := keyOf(e)
		buckets[k] = append(buckets[k], e)
	}

	rows := make([]BreakdownRow, 0, len(buckets))
	for k, bucket := range buckets {
		rows = append(rows, BreakdownRow{Key: k, Totals: ComputeTotals(bucket)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows, nil
}
