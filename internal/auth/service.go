// Package auth resolves login credentials into sessions.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/db/models"
	"github.com/PHRJr/BuritisProject/pkg/enums"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/identity"
	"github.com/PHRJr/BuritisProject/pkg/logger"
	"github.com/PHRJr/BuritisProject/pkg/security"
)

const (
	invalidCredentialsMessage = "Credenciais inválidas."
	passcodeSubjectPrefix     = "passcode:"
	passcodeDigestLen         = 12
)

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Login(ctx context.Context, cred Credential) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

// LoginResult carries the new session id and who it belongs to.
type LoginResult struct {
	SessionID string
	Identity  identity.Identity
}

type allowList interface {
	IsAllowed(ctx context.Context, email string) (bool, error)
}

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	UpdatePasswordHash(ctx context.Context, id uint, passwordHash string) error
}

type sessionStore interface {
	Create(ctx context.Context, id identity.Identity) (string, error)
	Destroy(ctx context.Context, sessionID string) error
}

type service struct {
	allowList   allowList
	admins      adminRepository
	sessions    sessionStore
	authCfg     config.AuthConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	AllowList      allowList
	Admins         adminRepository
	Sessions       sessionStore
	AuthConfig     config.AuthConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AllowList == nil {
		return nil, fmt.Errorf("allow-list repository is required")
	}
	if params.Admins == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		allowList:   params.AllowList,
		admins:      params.Admins,
		sessions:    params.Sessions,
		authCfg:     params.AuthConfig,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

func (s *service) Login(ctx context.Context, cred Credential) (*LoginResult, error) {
	var (
		who identity.Identity
		err error
	)
	switch c := cred.(type) {
	case EmailCredential:
		who, err = s.loginEmail(ctx, c)
	case PasscodeCredential:
		who, err = s.loginPasscode(c)
	case AdminCredential:
		who, err = s.loginAdmin(ctx, c)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if err != nil {
		return nil, err
	}

	sessionID, err := s.sessions.Create(ctx, who)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Não foi possível iniciar a sessão.")
	}
	return &LoginResult{SessionID: sessionID, Identity: who}, nil
}

func (s *service) loginEmail(ctx context.Context, c EmailCredential) (identity.Identity, error) {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email == "" {
		return identity.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	allowed, err := s.allowList.IsAllowed(ctx, email)
	if err != nil {
		return identity.Identity{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro interno no servidor.")
	}
	if !allowed {
		return identity.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return identity.Identity{Role: enums.RoleUser, Kind: enums.CredentialKindEmail, Subject: email}, nil
}

func (s *service) loginPasscode(c PasscodeCredential) (identity.Identity, error) {
	hash := strings.TrimSpace(s.authCfg.SharedPasscodeHash)
	if hash == "" || c.Passcode == "" {
		return identity.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	ok, err := security.VerifyPassword(c.Passcode, hash)
	if err != nil {
		return identity.Identity{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro interno no servidor.")
	}
	if !ok {
		return identity.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return identity.Identity{Role: enums.RoleUser, Kind: enums.CredentialKindPasscode, Subject: PasscodeSubject(hash)}, nil
}

// PasscodeSubject derives the stable subject recorded for passcode sessions
// from the configured hash.
func PasscodeSubject(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return passcodeSubjectPrefix + hex.EncodeToString(sum[:])[:passcodeDigestLen]
}

func (s *service) loginAdmin(ctx context.Context, c AdminCredential) (identity.Identity, error) {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email == "" || c.Password == "" {
		return identity.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return identity.Identity{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro interno no servidor.")
	}
	if admin == nil {
		return identity.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	ok, err := security.VerifyPassword(c.Password, admin.PasswordHash)
	if err != nil {
		ctx = s.logg.WithField(ctx, "admin_id", admin.ID)
		s.logg.Error(ctx, "admin password hash unreadable", err)
		return identity.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !ok {
		return identity.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if security.IsLegacyHash(admin.PasswordHash) {
		s.upgradeHash(ctx, admin, c.Password)
	}
	return identity.Identity{Role: enums.RoleAdmin, Kind: enums.CredentialKindAdmin, Subject: admin.Email}, nil
}

// upgradeHash replaces a bcrypt hash with argon2id after a successful login.
// Failures are logged and otherwise ignored.
func (s *service) upgradeHash(ctx context.Context, admin *models.AdminUser, password string) {
	ctx = s.logg.WithField(ctx, "admin_id", admin.ID)
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		s.logg.Error(ctx, "rehash admin password", err)
		return
	}
	if err := s.admins.UpdatePasswordHash(ctx, admin.ID, hash); err != nil {
		s.logg.Error(ctx, "store upgraded admin password", err)
		return
	}
	s.logg.Info(ctx, "admin password hash upgraded")
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao fazer logout.")
	}
	return nil
}
