package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireRole allows the request through when the token role is one of roles
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}

			for _, role := range roles {
				if user.Role(roleStr) == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.HandleError(w, user.ErrInsufficientPermissions)
		})
	}
}

// RequireManagePayroll allows users who may change payroll, payment and employee data
func RequireManagePayroll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, _ := jwtauth.FromContext(r.Context())
		roleStr, _ := claims["role"].(string)

		u := user.User{Role: user.Role(roleStr)}
		if !u.CanManagePayroll() {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}
		next.ServeHTTP(w, r)
	})
}
