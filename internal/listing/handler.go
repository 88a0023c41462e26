// AngelaMos | 2026
// handler.go

package listing

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

// RegisterRoutes mounts /listings. Reads accept anonymous callers; writes
// need a session, and creation is limited to sellers.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth, sellerOnly func(http.Handler) http.Handler,
) {
	r.Route("/listings", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", h.List)
			r.Get("/{listingID}", h.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.With(sellerOnly).Post("/", h.Create)
			r.Put("/{listingID}", h.Update)
			r.Delete("/{listingID}", h.Delete)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.Create(r.Context(), access.FromContext(r.Context()), req)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "listing"))
		return
	}

	core.Created(w, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListParams{
		Status:      q.Get("status"),
		Category:    q.Get("category"),
		HazardLevel: q.Get("hazardLevel"),
		SellerID:    q.Get("sellerId"),
		Page:        parseIntQuery(r, "page", 1),
		PageSize:    parseIntQuery(r, "page_size", 50),
	}
	params.Normalize()

	listings, total, err := h.service.List(
		r.Context(),
		access.FromContext(r.Context()),
		params,
	)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "listing"))
		return
	}

	core.Paginated(w, listings, params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Get(
		r.Context(),
		access.FromContext(r.Context()),
		chi.URLParam(r, "listingID"),
	)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "listing"))
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateListingRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.Update(
		r.Context(),
		access.FromContext(r.Context()),
		chi.URLParam(r, "listingID"),
		req,
	)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "listing"))
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		access.FromContext(r.Context()),
		chi.URLParam(r, "listingID"),
	)
	if err != nil {
		core.JSONError(w, core.ErrorFromDomain(err, "listing"))
		return
	}

	core.OK(w, map[string]string{"message": "Deleted successfully"})
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
