package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/enums"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "secret",
		CookieName: "buritis.sid",
		TTL:        24 * time.Hour,
		Issuer:     "buritis",
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := testSessionConfig()
	now := time.Now().UTC()

	token, err := MintSessionToken(cfg, now, SessionTokenPayload{SessionID: "sid-1", Role: enums.RoleAdmin})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}
	if claims.ID != "sid-1" {
		t.Fatalf("expected jti sid-1, got %s", claims.ID)
	}
	if claims.Role != enums.RoleAdmin {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(cfg.TTL)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp, claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	cfg := testSessionConfig()
	token, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{SessionID: "sid", Role: enums.RoleUser})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	other := cfg
	other.Secret = "another-secret"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseSessionTokenExpired(t *testing.T) {
	cfg := testSessionConfig()
	token, err := MintSessionToken(cfg, time.Now().Add(-48*time.Hour), SessionTokenPayload{SessionID: "sid", Role: enums.RoleUser})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	_, err = ParseSessionToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMintSessionTokenValidation(t *testing.T) {
	cfg := testSessionConfig()
	if _, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{SessionID: "sid", Role: ""}); err == nil {
		t.Fatal("expected invalid role error")
	}
	if _, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{SessionID: " ", Role: enums.RoleUser}); err == nil {
		t.Fatal("expected missing session id error")
	}
	cfg.Secret = ""
	if _, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{SessionID: "sid", Role: enums.RoleUser}); err == nil {
		t.Fatal("expected missing secret error")
	}
}
