// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/core"
)

type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*access.Identity, error)
}

// Authenticator requires a valid session cookie and stores the resolved
// identity on the request context. An identity already resolved by an
// outer OptionalAuth is reused without verifying the token again.
func Authenticator(
	verifier SessionVerifier,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if access.FromContext(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			token := ExtractToken(r, cookieName)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing session"),
				)
				return
			}

			id, err := verifier.VerifySession(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			noteCaller(r.Context(), id.UserID)
			ctx := access.WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the identity when a valid cookie is present and
// otherwise lets the request through anonymously.
func OptionalAuth(
	verifier SessionVerifier,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r, cookieName)

			if token != "" && access.FromContext(r.Context()) == nil {
				id, err := verifier.VerifySession(r.Context(), token)
				if err == nil {
					noteCaller(r.Context(), id.UserID)
					r = r.WithContext(access.WithIdentity(r.Context(), id))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireRole(roles ...access.Role) func(http.Handler) http.Handler {
	roleSet := make(map[access.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := access.FromContext(r.Context())

			if id == nil {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if _, ok := roleSet[id.Role]; !ok {
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(access.RoleAdmin)(next)
}

func ExtractToken(r *http.Request, cookieName string) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}
