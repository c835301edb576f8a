package expense

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Engine moves expenses from pending to approved or rejected and computes
// aggregates over them. Decided expenses are never changed again.
type Engine struct {
	repo Repository
	now  func() time.Time
}

func NewEngine(repo Repository) *Engine {
	return &Engine{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) Get(ctx context.Context, id int64) (*Expense, error) {
	exp, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching expense %d", id)
	}
	if exp == nil {
		return nil, ErrNotFound
	}
	return exp, nil
}

func (e *Engine) Approve(ctx context.Context, id int64, amount decimal.Decimal, note string) (*Expense, error) {
	exp, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp.Status() != StatusPending {
		return nil, ErrInvalidState
	}
	if !validAmount(amount, exp.RequestedAmount) {
		return nil, ErrInvalidAmount
	}

	d := Approved{Amount: amount, Note: note, At: e.now()}
	if err := e.repo.Decide(ctx, id, StatusPending, d); err != nil {
		return nil, err
	}
	exp.Decision = d
	return exp, nil
}

func (e *Engine) Reject(ctx context.Context, id int64, note string) (*Expense, error) {
	exp, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp.Status() != StatusPending {
		return nil, ErrInvalidState
	}

	d := Rejected{Note: note, At: e.now()}
	if err := e.repo.Decide(ctx, id, StatusPending, d); err != nil {
		return nil, err
	}
	exp.Decision = d
	return exp, nil
}

// validAmount reports whether amount is positive, has at most two decimal
// places and does not exceed requested.
func validAmount(amount, requested decimal.Decimal) bool {
	if !amount.Equal(amount.Round(2)) {
		return false
	}
	return amount.IsPositive() && !amount.GreaterThan(requested)
}

// Groups returns the per-employee groups whose name, email or code contain search.
func (e *Engine) Groups(ctx context.Context, search string) ([]UserExpenseGroup, error) {
	groups, err := e.repo.Groups(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing expense groups")
	}
	filtered := make([]UserExpenseGroup, 0, len(groups))
	for _, g := range groups {
		if g.Matches(search) {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

func (e *Engine) Overview(ctx context.Context) (Totals, error) {
	all, err := e.repo.List(ctx)
	if err != nil {
		return Totals{}, errors.Wrap(err, "listing expenses")
	}
	return ComputeTotals(all), nil
}

func (e *Engine) Breakdown(ctx context.Context, by GroupBy) ([]BreakdownRow, error) {
	all, err := e.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing expenses")
	}
	return Breakdown(all, by)
}

func (e *Engine) Pending(ctx context.Context) ([]Expense, error) {
	all, err := e.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing expenses")
	}
	pending := make([]Expense, 0)
	for _, exp := range all {
		if exp.Status() == StatusPending {
			pending = append(pending, exp)
		}
	}
	return pending, nil
}
