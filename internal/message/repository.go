// AngelaMos | 2026
// repository.go

package message

import (
	"context"
	"fmt"
	"strings"

	"github.com/ewastex/marketplace-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id string) (*Message, error)
	List(ctx context.Context, filter Filter) ([]Message, error)
	MarkRead(ctx context.Context, listingID, senderID, receiverID string) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const messageColumns = `m.id, m.sender_id, m.receiver_id, m.listing_id, m.content,
		       m.location_lat, m.location_lng, m.location_address,
		       m.location_label, m.is_read, m.created_at,
		       s.name AS sender_name, s.role AS sender_role,
		       r.name AS receiver_name, r.role AS receiver_role,
		       l.title AS listing_title`

const messageFrom = `FROM messages m
		JOIN users s ON s.id = m.sender_id
		JOIN users r ON r.id = m.receiver_id
		JOIN listings l ON l.id = m.listing_id`

// messageListLimit bounds a single conversation fetch.
const messageListLimit = 500

func (r *repository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, listing_id, content,
		                      location_lat, location_lng, location_address,
		                      location_label)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		m.ID,
		m.SenderID,
		m.ReceiverID,
		m.ListingID,
		m.Content,
		m.LocationLat,
		m.LocationLng,
		m.LocationAddress,
		m.LocationLabel,
	).Scan(&m.CreatedAt)
	if err != nil {
		return core.MapWriteError("create message", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Message, error) {
	query := `SELECT ` + messageColumns + ` ` + messageFrom + `
		WHERE m.id = $1`

	var m Message
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, core.MapReadError("get message", err)
	}

	return &m, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]Message, error) {
	whereClause, args := filter.where()
	argIdx := len(args) + 1

	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY m.created_at ASC
		LIMIT $%d`,
		messageColumns, messageFrom, whereClause, argIdx)
	args = append(args, messageListLimit)

	var msgs []Message
	if err := r.db.SelectContext(ctx, &msgs, query, args...); err != nil {
		return nil, core.MapReadError("list messages", err)
	}

	return msgs, nil
}

// where renders the filter as a WHERE clause over messageFrom. Participant
// and counterpart each match either side of the conversation.
func (f Filter) where() (string, []any) {
	var conditions []string
	var args []any

	if f.ListingID != "" {
		args = append(args, f.ListingID)
		conditions = append(conditions, fmt.Sprintf("m.listing_id = $%d", len(args)))
	}

	for _, id := range []string{f.ParticipantID, f.CounterpartID} {
		if id == "" {
			continue
		}
		args = append(args, id)
		conditions = append(conditions, fmt.Sprintf(
			"(m.sender_id = $%d OR m.receiver_id = $%d)", len(args), len(args)))
	}

	if f.After != nil {
		args = append(args, *f.After)
		conditions = append(conditions, fmt.Sprintf("m.created_at > $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "TRUE", nil
	}
	return strings.Join(conditions, " AND "), args
}

func (r *repository) MarkRead(
	ctx context.Context,
	listingID, senderID, receiverID string,
) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE messages
		SET is_read = TRUE
		WHERE listing_id = $1 AND sender_id = $2 AND receiver_id = $3
		  AND is_read = FALSE`,
		listingID, senderID, receiverID,
	)
	if err != nil {
		return 0, core.MapWriteError("mark messages read", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}

	return rows, nil
}
