// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("user already exists")
)

const revokedKeyPrefix = "session:revoked:"

type UserInfo struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Bio          string
	Company      string
	Location     string
	Phone        string
	Website      string
	CreatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(
		ctx context.Context,
		name, email, passwordHash string,
		role access.Role,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	jwt          *JWTManager
	userProvider UserProvider
	redis        *redis.Client
}

// NewService wires the session flow. redisClient may be nil, in which case
// logout only clears the cookie and tokens stay valid until they expire.
func NewService(
	jwt *JWTManager,
	userProvider UserProvider,
	redisClient *redis.Client,
) *Service {
	return &Service{
		jwt:          jwt,
		userProvider: userProvider,
		redis:        redisClient,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	exists, err := s.userProvider.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(
		ctx,
		req.Name,
		req.Email,
		passwordHash,
		access.Role(req.Role),
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)

	return s.issue(user, "User created successfully")
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.BurnPasswordCheck(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, stale, err := core.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if stale {
		if newHash, hashErr := core.HashPassword(req.Password); hashErr == nil {
			//nolint:errcheck // best-effort rehash upgrade
			_ = s.userProvider.UpdatePassword(ctx, user.ID, newHash)
		}
	}

	return s.issue(user, "Login successful")
}

// VerifySession resolves a raw cookie value to an identity. Revocation is
// checked in Redis; a Redis failure is logged and the token is accepted.
func (s *Service) VerifySession(
	ctx context.Context,
	token string,
) (*access.Identity, error) {
	id, err := s.jwt.VerifySessionToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.redis == nil || id.TokenID == "" {
		return id, nil
	}

	n, err := s.redis.Exists(ctx, revokedKeyPrefix+id.TokenID).Result()
	if err != nil {
		slog.WarnContext(ctx, "session revocation check failed", "error", err)
		return id, nil
	}
	if n > 0 {
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
	}

	return id, nil
}

func (s *Service) Logout(ctx context.Context, id *access.Identity) error {
	if s.redis == nil || id == nil || id.TokenID == "" {
		return nil
	}

	ttl := time.Until(time.Unix(id.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, revokedKeyPrefix+id.TokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *Service) issue(user *UserInfo, message string) (*AuthResponse, error) {
	session, err := s.jwt.CreateSessionToken(user.ID, access.Role(user.Role))
	if err != nil {
		return nil, fmt.Errorf("create session token: %w", err)
	}

	return &AuthResponse{
		Message:   message,
		User:      toUserResponse(user),
		ExpiresAt: session.ExpiresAt,
		token:     session.Token,
	}, nil
}
