package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"   // Full access
	RoleHR      Role = "hr"      // Manages employees, attendance, payroll and payments
	RoleManager Role = "manager" // Read-only access to records and reports
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleManager:
		return true
	}
	return false
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}

// CanManagePayroll checks if user may change payroll, payment and employee data
func (u *User) CanManagePayroll() bool {
	return u.Role == RoleAdmin || u.Role == RoleHR
}
