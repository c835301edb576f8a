package user

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Approval string

const (
	ApprovalPending  Approval = "pending"
	ApprovalApproved Approval = "approved"
	ApprovalRejected Approval = "rejected"
)

const (
	RoleUser    = "User"
	RoleManager = "Manager"

	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
	ErrCodeExists   = errors.New("employee code already exists")
	ErrInvalidState = errors.New("user is not pending approval")
)

type User struct {
	ID           int64     `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Designation  string    `json:"designation"`
	Phone        string    `json:"phone"`
	JobLocation  string    `json:"job_location"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	Approval     Approval  `json:"approval"`
	CreatedAt    time.Time `json:"created_at"`
}

// Details is what the add and edit forms collect. Every field is required.
type Details struct {
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Designation  string `json:"designation"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	JobLocation  string `json:"job_location"`
}

type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return e.Field + " can't be blank"
}

func (d Details) trimmed() Details {
	return Details{
		EmployeeCode: strings.TrimSpace(d.EmployeeCode),
		Name:         strings.TrimSpace(d.Name),
		Designation:  strings.TrimSpace(d.Designation),
		Email:        strings.TrimSpace(d.Email),
		Phone:        strings.TrimSpace(d.Phone),
		JobLocation:  strings.TrimSpace(d.JobLocation),
	}
}

func (d Details) Validate() error {
	fields := []struct{ name, value string }{
		{"employee_code", d.EmployeeCode},
		{"name", d.Name},
		{"designation", d.Designation},
		{"email", d.Email},
		{"phone", d.Phone},
		{"job_location", d.JobLocation},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return MissingFieldError{Field: f.name}
		}
	}
	return nil
}

type Overview struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Managers int `json:"managers"`
	Pending  int `json:"pending"`
}

type Repository interface {
	Register(ctx context.Context, d Details) (*User, error)
	Update(ctx context.Context, id int64, d Details) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	ListPending(ctx context.Context) ([]User, error)
	Overview(ctx context.Context) (Overview, error)
	Approve(ctx context.Context, id int64) (*User, error)
	Reject(ctx context.Context, id int64) (*User, error)
	Toggle(ctx context.Context, id int64) (*User, error)
}
