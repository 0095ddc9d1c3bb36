package middleware

import (
	"net/http"

	"github.com/PHRJr/BuritisProject/pkg/enums"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/logger"
)

// RequireRole checks the identity placed on the context by RequireSession.
// Admin identities pass user checks.
func RequireRole(required enums.Role, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, ok := IdentityFromContext(r.Context())
			if !ok {
				deny(w, r, required, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, unauthorizedMessage))
				return
			}
			if !who.Role.Allows(required) {
				deny(w, r, required, logg, pkgerrors.New(pkgerrors.CodeForbidden, forbiddenMessage(required)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbiddenMessage(required enums.Role) string {
	if required == enums.RoleAdmin {
		return "Acesso restrito a administradores."
	}
	return "Acesso negado."
}
