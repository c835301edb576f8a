package expense

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	owners   []UserExpenseGroup // expenses left empty, filled on read
	expenses map[int64]*Expense
	order    []int64
}

// NewMemoryRepository keeps the given groups in process memory.
func NewMemoryRepository(groups []UserExpenseGroup) *memoryRepository {
	r := &memoryRepository{
		expenses: make(map[int64]*Expense),
	}
	for _, g := range groups {
		r.owners = append(r.owners, UserExpenseGroup{
			EmployeeCode: g.EmployeeCode,
			Name:         g.Name,
			Email:        g.Email,
		})
		for _, e := range g.Expenses {
			e.EmployeeCode = g.EmployeeCode
			if e.Decision == nil {
				e.Decision = Pending{}
			}
			r.expenses[e.ID] = &e
			r.order = append(r.order, e.ID)
		}
	}
	return r
}

func (r *memoryRepository) Get(_ context.Context, id int64) (*Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.expenses[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Expense, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.expenses[id])
	}
	return out, nil
}

func (r *memoryRepository) Groups(_ context.Context) ([]UserExpenseGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byOwner := make(map[string][]Expense, len(r.owners))
	for _, id := range r.order {
		e := r.expenses[id]
		byOwner[e.EmployeeCode] = append(byOwner[e.EmployeeCode], *e)
	}

	out := make([]UserExpenseGroup, 0, len(r.owners))
	for _, o := range r.owners {
		g := o
		g.Expenses = byOwner[o.EmployeeCode]
		if g.Expenses == nil {
			g.Expenses = []Expense{}
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *memoryRepository) Decide(_ context.Context, id int64, expected Status, d Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.expenses[id]
	if !ok {
		return ErrNotFound
	}
	if e.Status() != expected {
		return ErrInvalidState
	}
	e.Decision = d
	return nil
}
