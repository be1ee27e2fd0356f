package middleware

import (
	"net/http"

	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/pkg/response"
)

// RequireRole lets the request through only when the role placed on the
// context by Authenticate is one of allowed.
func RequireRole(allowed ...entity.Role) func(http.Handler) http.Handler {
	permitted := make(map[entity.Role]struct{}, len(allowed))
	for _, role := range allowed {
		permitted[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			if _, ok := permitted[role]; !ok {
				response.Forbidden(w, "Role "+string(role)+" may not perform this action")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequirePatient guards booking, which only a patient can do for themselves.
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}

func RequireAdminOrDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, entity.RoleDoctor)(next)
}
