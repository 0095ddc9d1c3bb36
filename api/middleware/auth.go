package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/PHRJr/BuritisProject/api/responses"
	"github.com/PHRJr/BuritisProject/pkg/auth/session"
	"github.com/PHRJr/BuritisProject/pkg/enums"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/identity"
	"github.com/PHRJr/BuritisProject/pkg/logger"
)

const (
	UserLoginPage  = "/login.html"
	AdminLoginPage = "/login_admin.html"

	unauthorizedMessage = "Acesso não autorizado. Por favor, faça login novamente."
)

type sessionCookieReader interface {
	SessionID(r *http.Request) (string, error)
}

type sessionResolver interface {
	Get(ctx context.Context, sessionID string) (identity.Identity, error)
}

// RequireSession resolves the session cookie and then applies RequireRole.
// Callers whose Accept header mentions json get a JSON error; page
// navigation is redirected to the matching login page.
func RequireSession(required enums.Role, cookies sessionCookieReader, sessions sessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	authorize := RequireRole(required, logg)
	return func(next http.Handler) http.Handler {
		guarded := authorize(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := cookies.SessionID(r)
			if err != nil {
				deny(w, r, required, logg, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, unauthorizedMessage))
				return
			}

			who, err := sessions.Get(r.Context(), sessionID)
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					deny(w, r, required, logg, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, unauthorizedMessage))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Não foi possível validar a sessão."))
				return
			}

			ctx := WithIdentity(r.Context(), sessionID, who)
			if logg != nil {
				ctx = logg.WithIdentity(ctx, who.Subject, who.Role.String())
			}

			guarded.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, required enums.Role, logg *logger.Logger, err error) {
	if WantsJSON(r) {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	target := UserLoginPage
	if required == enums.RoleAdmin {
		target = AdminLoginPage
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// WantsJSON reports whether the caller asked for a JSON response.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "json")
}
