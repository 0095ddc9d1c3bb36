package controllers

import (
	"net/http"
	"time"

	"github.com/PHRJr/BuritisProject/api/middleware"
	"github.com/PHRJr/BuritisProject/api/responses"
	"github.com/PHRJr/BuritisProject/api/validators"
	"github.com/PHRJr/BuritisProject/internal/auth"
	"github.com/PHRJr/BuritisProject/pkg/enums"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/logger"
)

// sessionCookies is satisfied by *session.Cookies.
type sessionCookies interface {
	Write(w http.ResponseWriter, now time.Time, sessionID string, role enums.Role) error
	Clear(w http.ResponseWriter)
}

// UserLogin opens a shopper session from an allow-listed e-mail or the shared passcode.
func UserLogin(svc auth.Service, cookies sessionCookies, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || cookies == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.UserLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cred, ok := body.Credential()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Informe o e-mail ou a senha."))
			return
		}

		login(w, r, svc, cookies, logg, cred, "Login bem-sucedido!")
	}
}

// AdminLogin opens an administrator session.
func AdminLogin(svc auth.Service, cookies sessionCookies, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || cookies == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.AdminLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		login(w, r, svc, cookies, logg, body.Credential(), "Login de admin bem-sucedido!")
	}
}

func login(w http.ResponseWriter, r *http.Request, svc auth.Service, cookies sessionCookies, logg *logger.Logger, cred auth.Credential, message string) {
	result, err := svc.Login(r.Context(), cred)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	if err := cookies.Write(w, time.Now(), result.SessionID, result.Identity.Role); err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro interno do servidor."))
		return
	}

	responses.WriteMessage(w, http.StatusOK, message, nil)
}

// Logout destroys the current session and clears the cookie.
func Logout(svc auth.Service, cookies sessionCookies, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || cookies == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		if err := svc.Logout(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cookies.Clear(w)
		responses.WriteMessage(w, http.StatusOK, "Logout bem-sucedido.", nil)
	}
}
