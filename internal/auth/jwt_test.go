// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/config"
	"github.com/ewastex/marketplace-api/internal/core"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     strings.Repeat("k", 32),
		SessionTTL: time.Hour,
		Issuer:     "ewastex-test",
		Audience:   "ewastex-test-web",
	}
}

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()

	m, err := NewJWTManager(testJWTConfig())
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""

	if _, err := NewJWTManager(cfg); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := newTestJWTManager(t)

	tok, err := m.CreateSessionToken("user-1", access.RoleSeller)
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}
	if tok.ID == "" {
		t.Fatal("expected token id")
	}

	id, err := m.VerifySessionToken(context.Background(), tok.Token)
	if err != nil {
		t.Fatalf("VerifySessionToken: %v", err)
	}
	if id.UserID != "user-1" || id.Role != access.RoleSeller {
		t.Errorf("identity = %+v", id)
	}
	if id.TokenID != tok.ID {
		t.Errorf("TokenID = %q, want %q", id.TokenID, tok.ID)
	}
	if id.ExpiresAt != tok.ExpiresAt.Unix() {
		t.Errorf("ExpiresAt = %d, want %d", id.ExpiresAt, tok.ExpiresAt.Unix())
	}
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	m := newTestJWTManager(t)

	cfg := testJWTConfig()
	cfg.Secret = strings.Repeat("x", 32)
	other, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	tok, err := other.CreateSessionToken("user-1", access.RoleBuyer)
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}

	_, err = m.VerifySessionToken(context.Background(), tok.Token)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newTestJWTManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := m.CreateSessionToken("user-1", access.RoleBuyer)
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}

	m.now = time.Now
	_, err = m.VerifySessionToken(context.Background(), tok.Token)
	if err == nil {
		t.Fatal("expected expired token to be rejected")
	}
	if !errors.Is(err, core.ErrTokenExpired) &&
		!errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("err = %v, want token error", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestJWTManager(t)

	for _, raw := range []string{"", "abc", "a.b.c"} {
		if _, err := m.VerifySessionToken(context.Background(), raw); err == nil {
			t.Errorf("VerifySessionToken(%q) succeeded", raw)
		}
	}
}
