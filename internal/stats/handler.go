// AngelaMos | 2026
// handler.go

package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/stats", func(r chi.Router) {
		r.Get("/public", h.Public)
		r.With(authenticator).Get("/user", h.User)
	})
}

func (h *Handler) Public(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Public(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ForUser(r.Context(), access.FromContext(r.Context()))
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "stats"))
		return
	}

	core.OK(w, resp)
}
