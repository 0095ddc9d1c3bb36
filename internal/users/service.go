// Package users manages who may sign in: the shopper allow-list and the
// administrator accounts.
package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/PHRJr/BuritisProject/internal/ingest"
	"github.com/PHRJr/BuritisProject/pkg/config"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/logger"
	"github.com/PHRJr/BuritisProject/pkg/security"
	"gorm.io/gorm"
)

const emailColumn = "email"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the account management operations.
type Service interface {
	ReplaceAllowList(ctx context.Context, data []byte) (int, error)
	CreateAdmin(ctx context.Context, email, password string) error
}

type service struct {
	repo        *Repository
	admins      *AdminRepository
	tx          txRunner
	delim       rune
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService builds the account service.
func NewService(repo *Repository, admins *AdminRepository, tx txRunner, catalogCfg config.CatalogConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("allow-list repository required")
	}
	if admins == nil {
		return nil, fmt.Errorf("admin repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	delim, err := ingest.ParseDelimiter(catalogCfg.UserListDelimiter)
	if err != nil {
		return nil, fmt.Errorf("user list delimiter: %w", err)
	}
	return &service{
		repo:        repo,
		admins:      admins,
		tx:          tx,
		delim:       delim,
		passwordCfg: passwordCfg,
		logg:        logg,
	}, nil
}

// ReplaceAllowList swaps the allow-list for the e-mails in the uploaded
// file and returns how many were stored.
func (s *service) ReplaceAllowList(ctx context.Context, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Nenhum arquivo CSV de utilizador enviado.")
	}

	header, err := ingest.Header(data, s.delim)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Arquivo de utilizadores inválido.")
	}
	if !ingest.HasColumn(header, emailColumn) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "O arquivo deve conter a coluna email.")
	}
	rows, err := ingest.ParseRecords(data, s.delim)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Arquivo de utilizadores inválido.")
	}

	seen := make(map[string]struct{}, len(rows))
	emails := make([]string, 0, len(rows))
	for _, row := range rows {
		email := strings.ToLower(strings.TrimSpace(row.Get(emailColumn)))
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}

	var stored int64
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Replace(ctx, emails); err != nil {
			return err
		}
		var err error
		stored, err = repo.Count(ctx)
		return err
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro interno ao processar o arquivo de utilizadores.")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"emails": len(emails), "stored": stored}), "allow-list replaced")
	return int(stored), nil
}

// CreateAdmin hashes the password with argon2id and stores the account.
func (s *service) CreateAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "E-mail inválido.")
	}
	if len(password) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "A senha deve ter pelo menos 8 caracteres.")
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao gerar hash da senha.")
	}
	if _, err := s.admins.Create(ctx, email, hash); err != nil {
		if pkgerrors.ClassifyStoreFailure(err) == pkgerrors.StoreFailureUnique {
			return pkgerrors.New(pkgerrors.CodeConflict, "Administrador já cadastrado.")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao criar administrador.")
	}
	return nil
}
