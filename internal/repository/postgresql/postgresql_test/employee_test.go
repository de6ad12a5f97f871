package postgresql_test

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository_CreateAndGet(t *testing.T) {
	ctx := setupTestDB(t)
	repo := postgresql.NewEmployeeRepository(testDB)

	created := createTestEmployee(t, ctx, "EMP001")

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", got.EmployeeCode)
	assert.True(t, got.Salary.Equal(decimal.NewFromInt(4400)))
	assert.True(t, got.IsActive)
}

func TestEmployeeRepository_Create_DuplicateCode(t *testing.T) {
	ctx := setupTestDB(t)
	repo := postgresql.NewEmployeeRepository(testDB)

	createTestEmployee(t, ctx, "EMP001")

	_, err := repo.Create(ctx, employee.Employee{
		EmployeeCode: "EMP001",
		FirstName:    "Other",
		LastName:     "Person",
		Email:        "other@example.com",
		HireDate:     time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Salary:       decimal.NewFromInt(1000),
		IsActive:     true,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	ctx := setupTestDB(t)
	repo := postgresql.NewEmployeeRepository(testDB)

	_, err := repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_ListAndDeactivate(t *testing.T) {
	ctx := setupTestDB(t)
	repo := postgresql.NewEmployeeRepository(testDB)

	a := createTestEmployee(t, ctx, "EMP001")
	createTestEmployee(t, ctx, "EMP002")

	require.NoError(t, repo.SetActive(ctx, a.ID, false))

	ids, err := repo.ListActiveIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	active := true
	list, total, err := repo.List(ctx, employee.EmployeeFilter{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "EMP002", list[0].EmployeeCode)

	search := "emp001"
	list, total, err = repo.List(ctx, employee.EmployeeFilter{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.ID, list[0].ID)
}
