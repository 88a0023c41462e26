// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/config"
	"github.com/ewastex/marketplace-api/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	cookie    config.CookieConfig
	ttl       time.Duration
}

func NewHandler(
	service *Service,
	cookie config.CookieConfig,
	ttl time.Duration,
) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
		cookie:    cookie,
		ttl:       ttl,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
			r.Post("/logout", h.Logout)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	req.Email = normalizeEmail(req.Email)

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.UnauthorizedError("invalid credentials"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.setSessionCookie(w, resp.token)
	core.OK(w, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			core.JSONError(w, core.ConflictError("user already exists"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.setSessionCookie(w, resp.token)
	core.Created(w, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	id := access.FromContext(r.Context())
	if id == nil {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.Logout(r.Context(), id); err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.clearSessionCookie(w)
	core.OK(w, map[string]string{"message": "Logged out"})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	id := access.FromContext(r.Context())
	if id == nil {
		core.Unauthorized(w, "")
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, MeResponse{User: *user})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   int(h.ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
