// AngelaMos | 2026
// service.go

package listing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/core"
)

type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldCondition   Field = "condition"
	FieldLocation    Field = "location"
	FieldStatus      Field = "status"
)

// updatePolicy is the per-role field set for PUT /listings/{id}. Sellers
// additionally must own the listing.
var updatePolicy = access.NewPolicy("update listing", map[access.Role][]Field{
	access.RoleAdmin:  {FieldStatus},
	access.RoleSeller: {FieldTitle, FieldDescription, FieldCondition, FieldLocation},
})

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	caller *access.Identity,
	req CreateListingRequest,
) (*ListingResponse, error) {
	if caller == nil {
		return nil, fmt.Errorf("create listing: %w", core.ErrUnauthorized)
	}
	if caller.Role != access.RoleSeller {
		return nil, fmt.Errorf("create listing: %w", core.ErrForbidden)
	}

	category := Category(req.Category)
	if !category.Valid() {
		return nil, fmt.Errorf(
			"create listing: category %q: %w",
			req.Category,
			core.ErrInvalidInput,
		)
	}

	l := &Listing{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		Condition:   strings.TrimSpace(req.Condition),
		HazardLevel: HazardLevel(category),
		Status:      StatusPending,
		SellerID:    caller.UserID,
		Images:      Images(req.Images),
		Location:    strings.TrimSpace(req.Location),
	}
	if loc := req.PreciseLocation; loc != nil {
		l.PreciseLat = loc.Lat
		l.PreciseLng = loc.Lng
		l.Address = loc.Address
		l.City = loc.City
		l.Area = loc.Area
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	core.RecordEvent("listing", "created")
	slog.InfoContext(ctx, "listing created",
		"listing_id", l.ID,
		"seller_id", l.SellerID,
		"hazard_level", l.HazardLevel,
	)

	created, err := s.repo.GetByID(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	resp := ToListingResponse(created, true)
	return &resp, nil
}

// Get returns one listing. Listings still in or failed moderation are
// reported as missing to everyone except their seller and admins.
func (s *Service) Get(
	ctx context.Context,
	caller *access.Identity,
	id string,
) (*ListingResponse, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	privileged := canSeeAddress(caller, l)
	if !privileged && !publicStatus(string(l.Status)) {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}

	resp := ToListingResponse(l, privileged)
	return &resp, nil
}

// List filters the catalog. Statuses outside the public market, including
// "all", are limited to the caller's own listings unless the caller is an
// admin.
func (s *Service) List(
	ctx context.Context,
	caller *access.Identity,
	params ListParams,
) ([]ListingResponse, int, error) {
	params.Normalize()

	if params.Status != "all" && !Status(params.Status).Valid() {
		return nil, 0, fmt.Errorf(
			"list listings: status %q: %w",
			params.Status,
			core.ErrInvalidInput,
		)
	}
	if params.Category != "" && !Category(params.Category).Valid() {
		return nil, 0, fmt.Errorf(
			"list listings: category %q: %w",
			params.Category,
			core.ErrInvalidInput,
		)
	}
	if params.HazardLevel != "" && !Hazard(params.HazardLevel).Valid() {
		return nil, 0, fmt.Errorf(
			"list listings: hazard level %q: %w",
			params.HazardLevel,
			core.ErrInvalidInput,
		)
	}
	if params.SellerID != "" {
		if _, err := uuid.Parse(params.SellerID); err != nil {
			return nil, 0, fmt.Errorf(
				"list listings: seller id: %w",
				core.ErrInvalidInput,
			)
		}
	}

	if !publicStatus(params.Status) && !caller.IsAdmin() {
		if caller == nil {
			return nil, 0, fmt.Errorf(
				"list listings: status %q: %w",
				params.Status,
				core.ErrUnauthorized,
			)
		}
		if params.SellerID == "" {
			params.SellerID = caller.UserID
		}
		if !caller.Owns(params.SellerID) {
			return nil, 0, fmt.Errorf(
				"list listings: status %q of another seller: %w",
				params.Status,
				core.ErrForbidden,
			)
		}
	}

	listings, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		out = append(out, ToListingResponse(l, canSeeAddress(caller, l)))
	}

	return out, total, nil
}

// Update applies the fields the caller's role may change. Admins moderate
// status; the owning seller edits content, which sends the listing back
// to moderation. Fields outside the caller's set are ignored.
func (s *Service) Update(
	ctx context.Context,
	caller *access.Identity,
	id string,
	req UpdateListingRequest,
) (_ *ListingResponse, err error) {
	if caller == nil {
		return nil, fmt.Errorf("update listing: %w", core.ErrUnauthorized)
	}

	ctx, span := core.StartSpan(ctx, "listing.update",
		attribute.String("listing.id", id),
		attribute.String("caller.role", string(caller.Role)),
	)
	defer func() { core.EndSpan(span, err) }()

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !updatePolicy.Allows(caller.Role) {
		return nil, fmt.Errorf("update listing: %w", core.ErrForbidden)
	}
	if caller.Role == access.RoleSeller && !l.OwnedBy(caller.UserID) {
		return nil, fmt.Errorf("update listing: not owner: %w", core.ErrForbidden)
	}

	from := l.Status
	var ev Event
	changed := false

	if updatePolicy.Permits(caller.Role, FieldStatus) && req.Status != "" {
		var ok bool
		ev, ok = ModerationEvent(Status(req.Status))
		if !ok {
			return nil, fmt.Errorf(
				"update listing: admins may only approve or reject, not set %q: %w",
				req.Status,
				core.ErrInvalidTransition,
			)
		}
		changed = true
	}

	if applyContent(l, caller.Role, req) {
		ev = EventResubmit
		changed = true
	}

	if !changed {
		resp := ToListingResponse(l, true)
		return &resp, nil
	}

	next, err := Next(l.Status, ev)
	if err != nil {
		return nil, err
	}
	l.Status = next

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	core.RecordEvent("listing", ev.String())
	slog.InfoContext(ctx, "listing updated",
		"listing_id", l.ID,
		"event", ev.String(),
		"from", from,
		"to", next,
		"by", caller.UserID,
	)

	resp := ToListingResponse(l, true)
	return &resp, nil
}

func applyContent(l *Listing, role access.Role, req UpdateListingRequest) bool {
	edits := []struct {
		field Field
		value string
		dst   *string
	}{
		{FieldTitle, req.Title, &l.Title},
		{FieldDescription, req.Description, &l.Description},
		{FieldCondition, req.Condition, &l.Condition},
		{FieldLocation, req.Location, &l.Location},
	}

	// A permitted non-empty field counts as an edit even when unchanged.
	edited := false
	for _, e := range edits {
		v := strings.TrimSpace(e.value)
		if v == "" || !updatePolicy.Permits(role, e.field) {
			continue
		}
		*e.dst = v
		edited = true
	}
	return edited
}

func (s *Service) Delete(
	ctx context.Context,
	caller *access.Identity,
	id string,
) error {
	if caller == nil {
		return fmt.Errorf("delete listing: %w", core.ErrUnauthorized)
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() &&
		(caller.Role != access.RoleSeller || !l.OwnedBy(caller.UserID)) {
		return fmt.Errorf("delete listing: %w", core.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	core.RecordEvent("listing", "deleted")
	slog.InfoContext(ctx, "listing deleted", "listing_id", id, "by", caller.UserID)
	return nil
}

func canSeeAddress(caller *access.Identity, l *Listing) bool {
	return caller.IsAdmin() || caller.Owns(l.SellerID)
}

// publicStatus reports whether listings in status are visible to anyone.
func publicStatus(status string) bool {
	return status == string(StatusApproved) || status == string(StatusSold)
}
