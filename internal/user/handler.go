// AngelaMos | 2026
// handler.go

package user

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/profile", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.GetProfile)
		r.Put("/", h.UpdateProfile)
	})
}

// GetProfile returns the caller's own profile, or another user's profile
// with contact fields masked when ?userId names someone else.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller := access.FromContext(r.Context())
	targetID := r.URL.Query().Get("userId")

	profile, err := h.service.GetProfile(r.Context(), caller, targetID)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "user"))
		return
	}

	core.OK(w, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller := access.FromContext(r.Context())

	var req UpdateProfileRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), caller, req)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "user"))
		return
	}

	core.OK(w, profile)
}

// RegisterAdminRoutes registers admin-only user management endpoints.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListUsers)
		r.Put("/", h.UpdateUserRole)
		r.Delete("/", h.DeleteUser)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Role:     r.URL.Query().Get("role"),
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "user"))
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRoleRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.UpdateUserRole(
		r.Context(),
		access.FromContext(r.Context()),
		req.UserID,
		access.Role(req.Role),
	)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "user"))
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID := r.URL.Query().Get("userId")
	if targetID == "" {
		core.BadRequest(w, "userId is required")
		return
	}

	err := h.service.DeleteUser(
		r.Context(),
		access.FromContext(r.Context()),
		targetID,
	)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "user"))
		return
	}

	core.OK(w, map[string]string{"message": "User deleted"})
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
