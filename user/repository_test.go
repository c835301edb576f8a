package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func validDetails() Details {
	return Details{
		EmployeeCode: "EMP100",
		Name:         "New Hire",
		Designation:  "Engineer",
		Email:        "new.hire@example.com",
		Phone:        "+91 90000 00000",
		JobLocation:  "mumbai",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("starts pending", func(t *testing.T) {
		repo := NewRepository(SampleUsers())

		u, err := repo.Register(ctx, validDetails())
		require.NoError(t, err)
		require.Equal(t, int64(8), u.ID)
		require.Equal(t, ApprovalPending, u.Approval)
		require.Equal(t, StatusActive, u.Status)
		require.Equal(t, RoleUser, u.Role)

		pending, err := repo.ListPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 2)
	})

	t.Run("blank field", func(t *testing.T) {
		repo := NewRepository(nil)
		d := validDetails()
		d.Phone = "   "

		_, err := repo.Register(ctx, d)
		var missing MissingFieldError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "phone", missing.Field)
	})

	t.Run("duplicates", func(t *testing.T) {
		repo := NewRepository(SampleUsers())

		d := validDetails()
		d.Email = "JOHN.SMITH@example.com"
		_, err := repo.Register(ctx, d)
		require.ErrorIs(t, err, ErrEmailExists)

		d = validDetails()
		d.EmployeeCode = "emp001"
		_, err = repo.Register(ctx, d)
		require.ErrorIs(t, err, ErrCodeExists)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(SampleUsers())

	d := validDetails()
	d.EmployeeCode = "EMP001"
	d.Email = "john.smith@example.com"
	d.Name = "John A. Smith"
	u, err := repo.Update(ctx, 1, d)
	require.NoError(t, err)
	require.Equal(t, "John A. Smith", u.Name)
	require.Equal(t, ApprovalApproved, u.Approval)

	d.Email = "sarah.j@example.com"
	_, err = repo.Update(ctx, 1, d)
	require.ErrorIs(t, err, ErrEmailExists)

	_, err = repo.Update(ctx, 99, validDetails())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApprovalDecisions(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(SampleUsers())

	u, err := repo.Approve(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, ApprovalApproved, u.Approval)

	_, err = repo.Reject(ctx, 7)
	require.ErrorIs(t, err, ErrInvalidState)

	_, err = repo.Approve(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(SampleUsers())

	u, err := repo.Toggle(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, ApprovalRejected, u.Approval)

	u, err = repo.Toggle(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, ApprovalApproved, u.Approval)

	u, err = repo.Toggle(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, ApprovalApproved, u.Approval)

	u, err = repo.Toggle(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, ApprovalRejected, u.Approval)

	_, err = repo.Toggle(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOverview(t *testing.T) {
	repo := NewRepository(SampleUsers())

	o, err := repo.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, Overview{Total: 7, Active: 6, Managers: 2, Pending: 1}, o)
}
