// AngelaMos | 2026
// handler.go

package interest

import (
	"errors"
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
	authenticator, buyerOnly, sellerOnly func(http.Handler) http.Handler,
) {
	r.Route("/interests", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.With(buyerOnly).Post("/", h.Create)
		r.With(sellerOnly).Put("/{interestID}", h.UpdateStatus)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInterestRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.Create(r.Context(), access.FromContext(r.Context()), req)
	if err != nil {
		h.writeError(w, err, "listing")
		return
	}

	core.Created(w, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := Filter{
		ListingID: q.Get("listingId"),
		BuyerID:   q.Get("buyerId"),
		SellerID:  q.Get("sellerId"),
		Status:    q.Get("status"),
	}

	items, err := h.service.List(r.Context(), access.FromContext(r.Context()), filter)
	if err != nil {
		h.writeError(w, err, "interest")
		return
	}

	core.OK(w, items)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.UpdateStatus(
		r.Context(),
		access.FromContext(r.Context()),
		chi.URLParam(r, "interestID"),
		Status(req.Status),
	)
	if err != nil {
		h.writeError(w, err, "interest")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, resource string) {
	if errors.Is(err, ErrAlreadySent) {
		core.JSONError(w, core.ConflictError("Interest already sent"))
		return
	}
	core.JSONError(w, core.ErrorFromDomain(err, resource))
}
