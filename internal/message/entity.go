// AngelaMos | 2026
// entity.go

package message

import (
	"time"
)

// Message is immutable once written apart from its read flag.
type Message struct {
	ID              string    `db:"id"`
	SenderID        string    `db:"sender_id"`
	ReceiverID      string    `db:"receiver_id"`
	ListingID       string    `db:"listing_id"`
	Content         string    `db:"content"`
	LocationLat     *float64  `db:"location_lat"`
	LocationLng     *float64  `db:"location_lng"`
	LocationAddress *string   `db:"location_address"`
	LocationLabel   *string   `db:"location_label"`
	IsRead          bool      `db:"is_read"`
	CreatedAt       time.Time `db:"created_at"`

	SenderName   string `db:"sender_name"`
	SenderRole   string `db:"sender_role"`
	ReceiverName string `db:"receiver_name"`
	ReceiverRole string `db:"receiver_role"`
	ListingTitle string `db:"listing_title"`
}

// Filter selects messages. ParticipantID restricts to messages the user
// sent or received; CounterpartID further narrows to the other party.
type Filter struct {
	ListingID     string
	ParticipantID string
	CounterpartID string
	After         *time.Time
}
