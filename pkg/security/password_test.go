package security_test

import (
	"testing"

	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/security"
	"golang.org/x/crypto/bcrypt"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password", testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}
	if security.IsLegacyHash(hash) {
		t.Fatal("argon2id hash reported as legacy")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("senha-antiga"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if !security.IsLegacyHash(string(legacy)) {
		t.Fatal("expected bcrypt hash to be legacy")
	}

	ok, err := security.VerifyPassword("senha-antiga", string(legacy))
	if err != nil || !ok {
		t.Fatalf("expected legacy hash to verify, ok=%v err=%v", ok, err)
	}
	ok, err = security.VerifyPassword("outra", string(legacy))
	if err != nil || ok {
		t.Fatalf("expected mismatch for wrong password, ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
	if _, err := security.VerifyPassword("irrelevant", "$2b$short"); err == nil {
		t.Fatal("expected error for malformed bcrypt hash")
	}
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := security.GenerateTempPassword(16)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(pw) != 16 {
		t.Fatalf("expected 16 chars, got %d", len(pw))
	}
	if _, err := security.GenerateTempPassword(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}
