// AngelaMos | 2026
// service.go

package interest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/core"
	"github.com/ewastex/marketplace-api/internal/listing"
)

var ErrAlreadySent = errors.New("interest already sent")

// ListingReader is the slice of the listing catalog interests need.
type ListingReader interface {
	GetByID(ctx context.Context, id string) (*listing.Listing, error)
}

// transitionPolicy lists the target statuses each role may request.
var transitionPolicy = access.NewPolicy("update interest", map[access.Role][]Status{
	access.RoleSeller: SellerTargets,
})

type Service struct {
	repo     Repository
	listings ListingReader
}

func NewService(repo Repository, listings ListingReader) *Service {
	return &Service{repo: repo, listings: listings}
}

// Create records a buyer's interest. A buyer gets one interest per
// listing; the seller is copied from the listing.
func (s *Service) Create(
	ctx context.Context,
	caller *access.Identity,
	req CreateInterestRequest,
) (*InterestResponse, error) {
	if caller == nil {
		return nil, fmt.Errorf("create interest: %w", core.ErrUnauthorized)
	}
	if caller.Role != access.RoleBuyer {
		return nil, fmt.Errorf("create interest: %w", core.ErrForbidden)
	}

	l, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, l.ID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySent
	}

	i := &Interest{
		ID:        uuid.New().String(),
		ListingID: l.ID,
		BuyerID:   caller.UserID,
		SellerID:  l.SellerID,
		Status:    StatusPending,
		Message:   strings.TrimSpace(req.Message),
	}

	if err := s.repo.Create(ctx, i); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrAlreadySent
		}
		return nil, err
	}

	core.RecordEvent("interest", "created")
	slog.InfoContext(ctx, "interest created",
		"interest_id", i.ID,
		"listing_id", i.ListingID,
		"buyer_id", i.BuyerID,
	)

	created, err := s.repo.GetByID(ctx, i.ID)
	if err != nil {
		return nil, err
	}

	resp := ToInterestResponse(created)
	return &resp, nil
}

// List scopes results by role: buyers see their own interests, sellers
// the ones on their listings, admins everything the filter matches.
func (s *Service) List(
	ctx context.Context,
	caller *access.Identity,
	filter Filter,
) ([]InterestResponse, error) {
	if caller == nil {
		return nil, fmt.Errorf("list interests: %w", core.ErrUnauthorized)
	}

	if filter.Status != "" && !Status(filter.Status).Valid() {
		return nil, fmt.Errorf(
			"list interests: status %q: %w",
			filter.Status,
			core.ErrInvalidInput,
		)
	}

	for _, id := range []string{filter.ListingID, filter.BuyerID, filter.SellerID} {
		if id == "" {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("list interests: id %q: %w", id, core.ErrInvalidInput)
		}
	}

	switch caller.Role {
	case access.RoleBuyer:
		filter.BuyerID = caller.UserID
	case access.RoleSeller:
		filter.SellerID = caller.UserID
	case access.RoleAdmin:
	default:
		return nil, fmt.Errorf("list interests: %w", core.ErrForbidden)
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return ToInterestResponseList(items), nil
}

// UpdateStatus moves an interest along its lifecycle. Only the seller on
// the record may do so; completing it sells the listing atomically.
func (s *Service) UpdateStatus(
	ctx context.Context,
	caller *access.Identity,
	id string,
	target Status,
) (_ *InterestResponse, err error) {
	if caller == nil {
		return nil, fmt.Errorf("update interest: %w", core.ErrUnauthorized)
	}

	ctx, span := core.StartSpan(ctx, "interest.update_status",
		attribute.String("interest.id", id),
		attribute.String("interest.target", string(target)),
	)
	defer func() { core.EndSpan(span, err) }()

	if !slices.Contains(SellerTargets, target) {
		return nil, fmt.Errorf(
			"update interest: status %q: %w",
			target,
			core.ErrInvalidInput,
		)
	}

	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionPolicy.Permits(caller.Role, target) || !caller.Owns(i.SellerID) {
		return nil, fmt.Errorf("update interest: %w", core.ErrForbidden)
	}

	if err := CheckTransition(i.Status, target); err != nil {
		return nil, err
	}

	from := i.Status
	if target == StatusCompleted {
		if _, err := listing.Next(listing.Status(i.ListingStatus), listing.EventSell); err != nil {
			return nil, err
		}
		if err := s.repo.Complete(ctx, i.ID, i.ListingID); err != nil {
			return nil, err
		}
		core.RecordEvent("listing", listing.EventSell.String())
	} else {
		if err := s.repo.UpdateStatus(ctx, i.ID, from, target); err != nil {
			return nil, err
		}
	}

	core.RecordEvent("interest", string(target))
	slog.InfoContext(ctx, "interest status changed",
		"interest_id", i.ID,
		"listing_id", i.ListingID,
		"from", from,
		"to", target,
	)

	updated, err := s.repo.GetByID(ctx, i.ID)
	if err != nil {
		return nil, err
	}

	resp := ToInterestResponse(updated)
	return &resp, nil
}
