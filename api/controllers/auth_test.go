package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PHRJr/BuritisProject/api/middleware"
	"github.com/PHRJr/BuritisProject/internal/auth"
	"github.com/PHRJr/BuritisProject/pkg/enums"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/identity"
	"github.com/PHRJr/BuritisProject/pkg/logger"
)

type stubAuthService struct {
	gotCred   auth.Credential
	gotLogout string
	result    *auth.LoginResult
	loginErr  error
	logoutErr error
}

func (s *stubAuthService) Login(_ context.Context, cred auth.Credential) (*auth.LoginResult, error) {
	s.gotCred = cred
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.result, nil
}

func (s *stubAuthService) Logout(_ context.Context, sessionID string) error {
	s.gotLogout = sessionID
	return s.logoutErr
}

func TestUserLoginWithEmailSetsCookie(t *testing.T) {
	svc := &stubAuthService{result: &auth.LoginResult{
		SessionID: "sess-1",
		Identity:  identity.Identity{Role: enums.RoleUser, Kind: enums.CredentialKindEmail, Subject: "loja@example.com"},
	}}
	cookies := &stubCookies{}

	rr := httptest.NewRecorder()
	UserLogin(svc, cookies, logger.Nop()).ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/user-login", `{"email":"Loja@Example.com"}`))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Login bem-sucedido!", decodeBody(t, rr)["message"])
	assert.Equal(t, auth.EmailCredential{Email: "Loja@Example.com"}, svc.gotCred)
	assert.Equal(t, []string{"sess-1"}, cookies.writes)
	assert.Equal(t, []enums.Role{enums.RoleUser}, cookies.roles)
	assert.NotEmpty(t, rr.Result().Cookies())
}

func TestUserLoginWithPasscode(t *testing.T) {
	svc := &stubAuthService{result: &auth.LoginResult{
		SessionID: "sess-2",
		Identity:  identity.Identity{Role: enums.RoleUser, Kind: enums.CredentialKindPasscode, Subject: "passcode:abc"},
	}}

	rr := httptest.NewRecorder()
	UserLogin(svc, &stubCookies{}, logger.Nop()).ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/user-login", `{"senha":"segredo"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, auth.PasscodeCredential{Passcode: "segredo"}, svc.gotCred)
}

func TestUserLoginRequiresCredential(t *testing.T) {
	svc := &stubAuthService{}
	rr := httptest.NewRecorder()
	UserLogin(svc, &stubCookies{}, logger.Nop()).ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/user-login", `{}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, svc.gotCred)
}

func TestUserLoginRejectedCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "Credenciais inválidas.")}
	cookies := &stubCookies{}

	rr := httptest.NewRecorder()
	UserLogin(svc, cookies, logger.Nop()).ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/user-login", `{"email":"x@example.com"}`))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "Credenciais inválidas.", body["message"])
	assert.Equal(t, string(pkgerrors.CodeUnauthorized), body["code"])
	assert.Empty(t, cookies.writes)
}

func TestUserLoginCookieFailure(t *testing.T) {
	svc := &stubAuthService{result: &auth.LoginResult{SessionID: "s", Identity: identity.Identity{Role: enums.RoleUser}}}
	rr := httptest.NewRecorder()
	UserLogin(svc, &stubCookies{writeErr: errors.New("sign")}, logger.Nop()).ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/user-login", `{"email":"x@example.com"}`))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestAdminLogin(t *testing.T) {
	svc := &stubAuthService{result: &auth.LoginResult{
		SessionID: "adm-1",
		Identity:  identity.Identity{Role: enums.RoleAdmin, Kind: enums.CredentialKindAdmin, Subject: "admin@example.com"},
	}}
	cookies := &stubCookies{}

	rr := httptest.NewRecorder()
	AdminLogin(svc, cookies, logger.Nop()).ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/admin-login", `{"email":"admin@example.com","password":"Secret#123"}`))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Login de admin bem-sucedido!", decodeBody(t, rr)["message"])
	assert.Equal(t, auth.AdminCredential{Email: "admin@example.com", Password: "Secret#123"}, svc.gotCred)
	assert.Equal(t, []enums.Role{enums.RoleAdmin}, cookies.roles)
}

func TestAdminLoginRequiresPassword(t *testing.T) {
	rr := httptest.NewRecorder()
	AdminLogin(&stubAuthService{}, &stubCookies{}, logger.Nop()).ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/admin-login", `{"email":"admin@example.com"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	svc := &stubAuthService{}
	cookies := &stubCookies{}

	req := jsonRequest(http.MethodPost, "/api/logout", "")
	req = req.WithContext(middleware.WithIdentity(req.Context(), "sess-9", identity.Identity{Role: enums.RoleUser}))
	rr := httptest.NewRecorder()
	Logout(svc, cookies, logger.Nop()).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "sess-9", svc.gotLogout)
	assert.Equal(t, 1, cookies.cleared)
	assert.Equal(t, "Logout bem-sucedido.", decodeBody(t, rr)["message"])
}

func TestLogoutStoreFailure(t *testing.T) {
	svc := &stubAuthService{logoutErr: pkgerrors.New(pkgerrors.CodeInternal, "Erro ao fazer logout.")}
	cookies := &stubCookies{}

	rr := httptest.NewRecorder()
	Logout(svc, cookies, logger.Nop()).ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/logout", ""))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Zero(t, cookies.cleared)
}
