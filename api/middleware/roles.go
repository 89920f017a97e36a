package middleware

import (
	"net/http"
	"slices"

	"github.com/balarco/balarco-backend/api/responses"
	"github.com/balarco/balarco-backend/pkg/enums"
	pkgerrors "github.com/balarco/balarco-backend/pkg/errors"
	"github.com/balarco/balarco-backend/pkg/logger"
)

// RequireAnyRole admits users holding at least one of roles. Super usuario
// always passes.
func RequireAnyRole(logg *logger.Logger, roles ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			held := RolesFromContext(r.Context())
			allowed := slices.Contains(held, enums.RoleSuperUsuario)
			for _, role := range roles {
				if allowed {
					break
				}
				allowed = slices.Contains(held, role)
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
