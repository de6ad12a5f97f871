package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, employee Employee) error
	SetActive(ctx context.Context, id string, active bool) error
}
