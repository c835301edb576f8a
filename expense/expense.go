package expense

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var (
	ErrNotFound      = errors.New("expense not found")
	ErrInvalidState  = errors.New("expense is not pending")
	ErrInvalidAmount = errors.New("approved amount must be a positive cent amount not above the requested amount")
)

// Decision is the approval state of an expense. Only Pending, Approved and
// Rejected implement it, so an approved amount can only exist on an
// approved expense.
type Decision interface {
	Status() Status
	decision()
}

type Pending struct{}

type Approved struct {
	Amount decimal.Decimal
	Note   string
	At     time.Time
}

type Rejected struct {
	Note string
	At   time.Time
}

func (Pending) Status() Status  { return StatusPending }
func (Approved) Status() Status { return StatusApproved }
func (Rejected) Status() Status { return StatusRejected }

func (Pending) decision()  {}
func (Approved) decision() {}
func (Rejected) decision() {}

type Expense struct {
	ID              int64
	EmployeeCode    string
	Category        string
	RequestedAmount decimal.Decimal
	Date            time.Time
	Description     string
	Decision        Decision
}

func (e Expense) Status() Status {
	if e.Decision == nil {
		return StatusPending
	}
	return e.Decision.Status()
}

// ApprovedAmount reports the approved amount, present only for approved expenses.
func (e Expense) ApprovedAmount() (decimal.Decimal, bool) {
	a, ok := e.Decision.(Approved)
	if !ok {
		return decimal.Zero, false
	}
	return a.Amount, true
}

func (e Expense) Note() string {
	switch d := e.Decision.(type) {
	case Approved:
		return d.Note
	case Rejected:
		return d.Note
	}
	return ""
}

func (e Expense) decidedAt() *time.Time {
	var at time.Time
	switch d := e.Decision.(type) {
	case Approved:
		at = d.At
	case Rejected:
		at = d.At
	}
	if at.IsZero() {
		return nil
	}
	return &at
}

type expenseJSON struct {
	ID              int64            `json:"id"`
	EmployeeCode    string           `json:"employee_code"`
	Category        string           `json:"category"`
	RequestedAmount decimal.Decimal  `json:"amount"`
	Date            string           `json:"date"`
	Description     string           `json:"description"`
	Status          Status           `json:"status"`
	ApprovedAmount  *decimal.Decimal `json:"approved_amount,omitempty"`
	Note            string           `json:"note,omitempty"`
	DecidedAt       *time.Time       `json:"decided_at,omitempty"`
}

func (e Expense) MarshalJSON() ([]byte, error) {
	out := expenseJSON{
		ID:              e.ID,
		EmployeeCode:    e.EmployeeCode,
		Category:        e.Category,
		RequestedAmount: e.RequestedAmount,
		Date:            e.Date.Format(dateLayout),
		Description:     e.Description,
		Status:          e.Status(),
		Note:            e.Note(),
		DecidedAt:       e.decidedAt(),
	}
	if amount, ok := e.ApprovedAmount(); ok {
		out.ApprovedAmount = &amount
	}
	return json.Marshal(out)
}

// UserExpenseGroup holds the expenses claimed by one employee, in claim order.
type UserExpenseGroup struct {
	EmployeeCode string    `json:"employee_code"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Expenses     []Expense `json:"expenses"`
}

func (g UserExpenseGroup) Totals() Totals {
	return ComputeTotals(g.Expenses)
}

// Matches reports whether term is a case-insensitive substring of the name,
// email or employee code. An empty term matches every group.
func (g UserExpenseGroup) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(g.Name), term) ||
		strings.Contains(strings.ToLower(g.Email), term) ||
		strings.Contains(strings.ToLower(g.EmployeeCode), term)
}

type Repository interface {
	// Get returns nil when no expense has the given id.
	Get(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context) ([]Expense, error)
	Groups(ctx context.Context) ([]UserExpenseGroup, error)
	// Decide stores d only if the expense's current status is still expected.
	// It returns ErrNotFound or ErrInvalidState otherwise.
	Decide(ctx context.Context, id int64, expected Status, d Decision) error
}
