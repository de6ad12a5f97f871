package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		db, err := database.NewPostgreSQLDB(dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect to test database: %v\n", err)
			os.Exit(1)
		}
		if err := db.Migrate(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to migrate test database: %v\n", err)
			os.Exit(1)
		}
		testDB = db
	}

	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

// setupTestDB skips the test without a database and truncates all tables otherwise.
func setupTestDB(t *testing.T) context.Context {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	_, err := testDB.Exec(ctx, "TRUNCATE TABLE payments, payroll_records, attendance, employees, users CASCADE")
	require.NoError(t, err)
	return ctx
}

func createTestEmployee(t *testing.T, ctx context.Context, code string) employee.Employee {
	t.Helper()

	repo := postgresql.NewEmployeeRepository(testDB)
	emp, err := repo.Create(ctx, employee.Employee{
		EmployeeCode: code,
		FirstName:    "Test",
		LastName:     code,
		Email:        code + "@example.com",
		HireDate:     time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Salary:       decimal.NewFromInt(4400),
		Allowance:    decimal.NewFromInt(100),
		IsActive:     true,
	})
	require.NoError(t, err)
	return emp
}
