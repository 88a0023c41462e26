// AngelaMos | 2026
// service.go

package message

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/core"
)

// ListParams is the raw query of a conversation fetch. UserID is only
// honoured for admins; everyone else is pinned to their own messages.
type ListParams struct {
	ListingID     string
	CounterpartID string
	UserID        string
	After         string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Send appends a message about a listing. Unknown listings or receivers
// surface as not found through the foreign keys.
func (s *Service) Send(
	ctx context.Context,
	caller *access.Identity,
	req SendMessageRequest,
) (*MessageResponse, error) {
	if caller == nil {
		return nil, fmt.Errorf("send message: %w", core.ErrUnauthorized)
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("send message: empty content: %w", core.ErrInvalidInput)
	}

	if caller.Owns(req.ReceiverID) {
		return nil, fmt.Errorf("send message: receiver is sender: %w", core.ErrInvalidInput)
	}

	m := &Message{
		ID:         uuid.New().String(),
		SenderID:   caller.UserID,
		ReceiverID: req.ReceiverID,
		ListingID:  req.ListingID,
		Content:    content,
	}
	if loc := req.Location; loc != nil {
		m.LocationLat = loc.Lat
		m.LocationLng = loc.Lng
		m.LocationAddress = loc.Address
		m.LocationLabel = loc.Label
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	core.RecordEvent("message", "sent")
	slog.DebugContext(ctx, "message sent",
		"message_id", m.ID,
		"listing_id", m.ListingID,
		"sender_id", m.SenderID,
	)

	created, err := s.repo.GetByID(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	resp := ToMessageResponse(created)
	return &resp, nil
}

// List returns messages in chronological order.
func (s *Service) List(
	ctx context.Context,
	caller *access.Identity,
	params ListParams,
) ([]MessageResponse, error) {
	if caller == nil {
		return nil, fmt.Errorf("list messages: %w", core.ErrUnauthorized)
	}

	for _, id := range []string{params.ListingID, params.CounterpartID, params.UserID} {
		if id == "" {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("list messages: id %q: %w", id, core.ErrInvalidInput)
		}
	}

	filter := Filter{
		ListingID:     params.ListingID,
		CounterpartID: params.CounterpartID,
	}

	if caller.IsAdmin() {
		filter.ParticipantID = params.UserID
	} else {
		filter.ParticipantID = caller.UserID
	}

	if params.After != "" {
		after, err := time.Parse(time.RFC3339Nano, params.After)
		if err != nil {
			return nil, fmt.Errorf("list messages: after %q: %w", params.After, core.ErrInvalidInput)
		}
		filter.After = &after
	}

	msgs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return ToMessageResponseList(msgs), nil
}

// MarkRead flags every unread message the counterpart sent the caller on
// a listing.
func (s *Service) MarkRead(
	ctx context.Context,
	caller *access.Identity,
	req MarkReadRequest,
) (*MarkReadResponse, error) {
	if caller == nil {
		return nil, fmt.Errorf("mark messages read: %w", core.ErrUnauthorized)
	}

	n, err := s.repo.MarkRead(ctx, req.ListingID, req.CounterpartID, caller.UserID)
	if err != nil {
		return nil, err
	}

	return &MarkReadResponse{Updated: n}, nil
}
