// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/config"
	"github.com/ewastex/marketplace-api/internal/core"
)

const tokenTypeSession = "session"

// JWTManager mints and verifies session tokens. Tokens are HS256-signed
// with the process-wide secret and are never renewed; an expired session
// means logging in again.
type JWTManager struct {
	key    jwk.Key
	config config.JWTConfig
	now    func() time.Time
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}

	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import signing secret: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &JWTManager{
		key:    key,
		config: cfg,
		now:    time.Now,
	}, nil
}

type SessionToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

func (m *JWTManager) CreateSessionToken(
	userID string,
	role access.Role,
) (*SessionToken, error) {
	now := m.now()
	expiresAt := now.Add(m.config.SessionTTL)
	jti := uuid.New().String()

	token, err := jwt.NewBuilder().
		JwtID(jti).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(userID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim("role", string(role)).
		Claim("type", tokenTypeSession).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &SessionToken{
		Token:     string(signed),
		ID:        jti,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifySessionToken checks signature, expiry, issuer and audience and
// returns the embedded identity.
func (m *JWTManager) VerifySessionToken(
	_ context.Context,
	tokenString string,
) (*access.Identity, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != tokenTypeSession {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var roleStr string
	if err := token.Get("role", &roleStr); err != nil ||
		!access.Role(roleStr).Valid() {
		return nil, fmt.Errorf(
			"verify token: missing or unknown role: %w",
			core.ErrTokenInvalid,
		)
	}

	jti, _ := token.JwtID()
	exp, _ := token.Expiration()

	return &access.Identity{
		UserID:    subject,
		Role:      access.Role(roleStr),
		TokenID:   jti,
		ExpiresAt: exp.Unix(),
	}, nil
}

func (m *JWTManager) SessionTTL() time.Duration {
	return m.config.SessionTTL
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
