package users

import (
	"context"
	"testing"

	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/db"
	"github.com/PHRJr/BuritisProject/pkg/db/dbtest"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/logger"
	"github.com/PHRJr/BuritisProject/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), NewAdminRepository(conn), db.FromConn(conn),
		config.CatalogConfig{UserListDelimiter: ","}, testPasswordConfig(), logger.Nop())
	require.NoError(t, err)
	return svc
}

func TestReplaceAllowList(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn)
	repo := NewRepository(conn)
	ctx := context.Background()

	imported, err := svc.ReplaceAllowList(ctx, []byte("\ufeffnome,Email\nAna, Ana@Example.com \nBia,\nAna,ana@example.com\nCaio,caio@example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	ok, err := repo.IsAllowed(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	imported, err = svc.ReplaceAllowList(ctx, []byte("email\ncaio@example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	ok, err = repo.IsAllowed(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, ok, "previous list is replaced")

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestReplaceAllowListValidation(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn)

	for name, data := range map[string][]byte{
		"no file":      nil,
		"empty file":   []byte("   "),
		"no email col": []byte("nome\nAna\n"),
	} {
		_, err := svc.ReplaceAllowList(context.Background(), data)
		require.Error(t, err, name)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code(), name)
	}
}

func TestCreateAdmin(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn)
	admins := NewAdminRepository(conn)
	ctx := context.Background()

	require.NoError(t, svc.CreateAdmin(ctx, " Root@Example.com ", "s3nha-forte"))

	admin, err := admins.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	ok, err := security.VerifyPassword("s3nha-forte", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	err = svc.CreateAdmin(ctx, "root@example.com", "outra-senha")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	err = svc.CreateAdmin(ctx, "sem-arroba", "s3nha-forte")
	require.Error(t, err)
	err = svc.CreateAdmin(ctx, "x@example.com", "curta")
	require.Error(t, err)
}

func TestAdminRepository(t *testing.T) {
	conn := dbtest.Open(t)
	admins := NewAdminRepository(conn)
	ctx := context.Background()

	missing, err := admins.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := admins.Create(ctx, "Root@Example.com", "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", created.Email)

	require.NoError(t, admins.UpdatePasswordHash(ctx, created.ID, "hash-2"))
	found, err := admins.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-2", found.PasswordHash)
}
