package user

import (
	"context"
	"strings"
	"sync"
	"time"
)

type repository struct {
	mu     sync.RWMutex
	users  []*User
	nextID int64
	now    func() time.Time
}

func NewRepository(seed []User) *repository {
	r := &repository{
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, u := range seed {
		if u.Approval == "" {
			u.Approval = ApprovalPending
		}
		r.users = append(r.users, &u)
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r
}

// conflict must be called with the lock held. skip excludes the user being edited.
func (r *repository) conflict(d Details, skip int64) error {
	for _, u := range r.users {
		if u.ID == skip {
			continue
		}
		if strings.EqualFold(u.Email, d.Email) {
			return ErrEmailExists
		}
		if strings.EqualFold(u.EmployeeCode, d.EmployeeCode) {
			return ErrCodeExists
		}
	}
	return nil
}

func (r *repository) find(id int64) *User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (r *repository) Register(_ context.Context, d Details) (*User, error) {
	d = d.trimmed()
	if err := d.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.conflict(d, 0); err != nil {
		return nil, err
	}

	user := &User{
		ID:           r.nextID,
		EmployeeCode: d.EmployeeCode,
		Name:         d.Name,
		Email:        d.Email,
		Designation:  d.Designation,
		Phone:        d.Phone,
		JobLocation:  d.JobLocation,
		Role:         RoleUser,
		Status:       StatusActive,
		Approval:     ApprovalPending,
		CreatedAt:    r.now(),
	}
	r.nextID++
	r.users = append(r.users, user)

	cp := *user
	return &cp, nil
}

func (r *repository) Update(_ context.Context, id int64, d Details) (*User, error) {
	d = d.trimmed()
	if err := d.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.find(id)
	if user == nil {
		return nil, ErrNotFound
	}
	if err := r.conflict(d, id); err != nil {
		return nil, err
	}

	user.EmployeeCode = d.EmployeeCode
	user.Name = d.Name
	user.Email = d.Email
	user.Designation = d.Designation
	user.Phone = d.Phone
	user.JobLocation = d.JobLocation

	cp := *user
	return &cp, nil
}

func (r *repository) GetByID(_ context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user := r.find(id)
	if user == nil {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r *repository) List(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *repository) ListPending(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]User, 0)
	for _, u := range r.users {
		if u.Approval == ApprovalPending {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *repository) Overview(_ context.Context) (Overview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o := Overview{Total: len(r.users)}
	for _, u := range r.users {
		if u.Status == StatusActive {
			o.Active++
		}
		if u.Role == RoleManager {
			o.Managers++
		}
		if u.Approval == ApprovalPending {
			o.Pending++
		}
	}
	return o, nil
}

func (r *repository) Approve(_ context.Context, id int64) (*User, error) {
	return r.decide(id, ApprovalApproved)
}

func (r *repository) Reject(_ context.Context, id int64) (*User, error) {
	return r.decide(id, ApprovalRejected)
}

func (r *repository) decide(id int64, to Approval) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.find(id)
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Approval != ApprovalPending {
		return nil, ErrInvalidState
	}
	user.Approval = to

	cp := *user
	return &cp, nil
}

// Toggle flips an approved user to rejected and back. A pending user becomes
// approved; no user ever returns to pending.
func (r *repository) Toggle(_ context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.find(id)
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Approval == ApprovalApproved {
		user.Approval = ApprovalRejected
	} else {
		user.Approval = ApprovalApproved
	}

	cp := *user
	return &cp, nil
}
