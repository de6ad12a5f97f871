package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	for _, existing := range r.employees {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		if existing.Email == e.Email {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}
	e.ID = "id-" + e.EmployeeCode
	r.employees[e.ID] = e
	return e, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e employee.Employee) error {
	r.employees[e.ID] = e
	return nil
}

func (r *fakeEmployeeRepo) SetActive(_ context.Context, id string, active bool) error {
	e := r.employees[id]
	e.IsActive = active
	r.employees[id] = e
	return nil
}

func validCreateRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		EmployeeCode: "EMP001",
		FirstName:    "Budi",
		LastName:     "Santoso",
		Email:        "Budi@Example.com",
		HireDate:     "2023-07-01",
		Salary:       decimal.RequireFromString("5500000"),
	}
}

func TestEmployeeService_Create(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: map[string]employee.Employee{}}
	svc := NewEmployeeService(repo)

	resp, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", resp.FullName)
	assert.Equal(t, "budi@example.com", resp.Email)
	assert.Equal(t, "2023-07-01", resp.HireDate)
	assert.True(t, resp.IsActive)

	_, err = svc.Create(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
}

func TestEmployeeService_Create_Validation(t *testing.T) {
	svc := NewEmployeeService(&fakeEmployeeRepo{employees: map[string]employee.Employee{}})

	req := validCreateRequest()
	req.Salary = decimal.Zero
	req.Allowance = decimal.NewFromInt(-1)

	_, err := svc.Create(context.Background(), req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestEmployeeService_UpdateAndDeactivate(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: map[string]employee.Employee{}}
	svc := NewEmployeeService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	salary := decimal.RequireFromString("6000000.456")
	updated, err := svc.Update(ctx, employee.UpdateEmployeeRequest{ID: created.ID, Salary: &salary})
	require.NoError(t, err)
	assert.Equal(t, "6000000.46", updated.Salary.StringFixed(2))

	require.NoError(t, svc.Deactivate(ctx, created.ID))
	assert.False(t, repo.employees[created.ID].IsActive)
	assert.ErrorIs(t, svc.Deactivate(ctx, created.ID), employee.ErrEmployeeAlreadyInactive)
	assert.ErrorIs(t, svc.Deactivate(ctx, "missing"), employee.ErrEmployeeNotFound)
}
