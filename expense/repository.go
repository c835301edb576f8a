package expense

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type repository struct {
	db *sql.DB
}

// NewRepository stores expenses in the expenses and expense_owners tables.
func NewRepository(db *sql.DB) *repository {
	return &repository{db: db}
}

const selectExpense = `SELECT id, employee_code, category, requested_amount, expense_date, description, status, approved_amount, COALESCE(note, ''), decided_at
              FROM expenses`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (Expense, error) {
	var (
		e         Expense
		status    Status
		approved  decimal.NullDecimal
		note      string
		decidedAt sql.NullTime
	)
	err := row.Scan(
		&e.ID,
		&e.EmployeeCode,
		&e.Category,
		&e.RequestedAmount,
		&e.Date,
		&e.Description,
		&status,
		&approved,
		&note,
		&decidedAt,
	)
	if err != nil {
		return e, err
	}

	switch status {
	case StatusPending:
		e.Decision = Pending{}
	case StatusApproved:
		if !approved.Valid {
			return e, errors.Errorf("expense %d approved without an amount", e.ID)
		}
		e.Decision = Approved{Amount: approved.Decimal, Note: note, At: decidedAt.Time}
	case StatusRejected:
		e.Decision = Rejected{Note: note, At: decidedAt.Time}
	default:
		return e, errors.Errorf("expense %d has unknown status %q", e.ID, status)
	}
	return e, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx, selectExpense+` WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "querying expense")
	}
	return &e, nil
}

func (r *repository) List(ctx context.Context) ([]Expense, error) {
	rows, err := r.db.QueryContext(ctx, selectExpense+` ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying expenses")
	}
	defer rows.Close()

	expenses := make([]Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning expense")
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

func (r *repository) Groups(ctx context.Context) ([]UserExpenseGroup, error) {
	query := `SELECT employee_code, name, email FROM expense_owners ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "querying expense owners")
	}
	defer rows.Close()

	var groups []UserExpenseGroup
	for rows.Next() {
		var g UserExpenseGroup
		if err := rows.Scan(&g.EmployeeCode, &g.Name, &g.Email); err != nil {
			return nil, errors.Wrap(err, "scanning expense owner")
		}
		g.Expenses = []Expense{}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(groups))
	for i, g := range groups {
		index[g.EmployeeCode] = i
	}
	for _, e := range all {
		if i, ok := index[e.EmployeeCode]; ok {
			groups[i].Expenses = append(groups[i].Expenses, e)
		}
	}

	return groups, nil
}

// Decide updates the row only while its status still equals expected, so two
// concurrent decisions on the same expense cannot both succeed.
func (r *repository) Decide(ctx context.Context, id int64, expected Status, d Decision) error {
	var (
		amount decimal.NullDecimal
		note   sql.NullString
		at     sql.NullTime
	)
	switch v := d.(type) {
	case Approved:
		amount = decimal.NewNullDecimal(v.Amount)
		note = sql.NullString{String: v.Note, Valid: true}
		at = sql.NullTime{Time: v.At, Valid: !v.At.IsZero()}
	case Rejected:
		note = sql.NullString{String: v.Note, Valid: true}
		at = sql.NullTime{Time: v.At, Valid: !v.At.IsZero()}
	}

	query := `UPDATE expenses SET status = $1, approved_amount = $2, note = $3, decided_at = $4
              WHERE id = $5 AND status = $6`
	res, err := r.db.ExecContext(ctx, query, d.Status(), amount, note, at, id, expected)
	if err != nil {
		return errors.Wrapf(err, "updating expense %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}
	if n == 1 {
		return nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM expenses WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return errors.Wrap(err, "checking expense")
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInvalidState
}

// Migrate creates the expense tables when they do not exist yet.
func (r *repository) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS expense_owners (
			employee_code TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL,
			position      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id               BIGINT PRIMARY KEY,
			employee_code    TEXT NOT NULL REFERENCES expense_owners (employee_code),
			category         TEXT NOT NULL,
			requested_amount NUMERIC(14, 2) NOT NULL CHECK (requested_amount > 0),
			expense_date     DATE NOT NULL,
			description      TEXT NOT NULL,
			status           TEXT NOT NULL DEFAULT 'pending',
			approved_amount  NUMERIC(14, 2) CHECK (approved_amount IS NULL OR approved_amount > 0),
			note             TEXT,
			decided_at       TIMESTAMPTZ,
			CHECK ((status = 'approved') = (approved_amount IS NOT NULL))
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrating expenses")
		}
	}
	return nil
}

// Seed inserts groups that are not stored yet. Existing rows are left alone.
func (r *repository) Seed(ctx context.Context, groups []UserExpenseGroup) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for pos, g := range groups {
		insertOwner := `INSERT INTO expense_owners (employee_code, name, email, position) VALUES ($1, $2, $3, $4)
                        ON CONFLICT (employee_code) DO NOTHING`
		if _, err := tx.ExecContext(ctx, insertOwner, g.EmployeeCode, g.Name, g.Email, pos); err != nil {
			return errors.Wrapf(err, "inserting owner %s", g.EmployeeCode)
		}

		for _, e := range g.Expenses {
			var (
				amount decimal.NullDecimal
				note   sql.NullString
			)
			switch v := e.Decision.(type) {
			case Approved:
				amount = decimal.NewNullDecimal(v.Amount)
				note = sql.NullString{String: v.Note, Valid: v.Note != ""}
			case Rejected:
				note = sql.NullString{String: v.Note, Valid: v.Note != ""}
			}
			insertExpense := `INSERT INTO expenses (id, employee_code, category, requested_amount, expense_date, description, status, approved_amount, note, decided_at)
                              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                              ON CONFLICT (id) DO NOTHING`
			_, err := tx.ExecContext(
				ctx,
				insertExpense,
				e.ID,
				g.EmployeeCode,
				e.Category,
				e.RequestedAmount,
				e.Date,
				e.Description,
				e.Status(),
				amount,
				note,
				nil,
			)
			if err != nil {
				return errors.Wrapf(err, "inserting expense %d", e.ID)
			}
		}
	}

	return tx.Commit()
}
