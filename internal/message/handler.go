// AngelaMos | 2026
// handler.go

package message

import (
	"net/http"

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
	r.Route("/messages", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Send)
		r.Put("/read", h.MarkRead)
	})
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.Send(r.Context(), access.FromContext(r.Context()), req)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "listing or receiver"))
		return
	}

	core.Created(w, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListParams{
		ListingID:     q.Get("listingId"),
		CounterpartID: q.Get("counterpartId"),
		UserID:        q.Get("userId"),
		After:         q.Get("after"),
	}

	msgs, err := h.service.List(r.Context(), access.FromContext(r.Context()), params)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "message"))
		return
	}

	core.OK(w, msgs)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req MarkReadRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.MarkRead(r.Context(), access.FromContext(r.Context()), req)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "message"))
		return
	}

	core.OK(w, resp)
}
