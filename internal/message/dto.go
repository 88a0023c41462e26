// AngelaMos | 2026
// dto.go

package message

import (
	"time"
)

type Location struct {
	Lat     *float64 `json:"lat,omitempty"     validate:"omitempty,latitude"`
	Lng     *float64 `json:"lng,omitempty"     validate:"omitempty,longitude"`
	Address *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Label   *string  `json:"label,omitempty"   validate:"omitempty,max=100"`
}

type SendMessageRequest struct {
	ReceiverID string    `json:"receiverId" validate:"required,uuid"`
	ListingID  string    `json:"listingId"  validate:"required,uuid"`
	Content    string    `json:"content"    validate:"required,max=5000"`
	Location   *Location `json:"location"`
}

type MarkReadRequest struct {
	ListingID     string `json:"listingId"     validate:"required,uuid"`
	CounterpartID string `json:"counterpartId" validate:"required,uuid"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type ListingRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type MessageResponse struct {
	ID        string      `json:"id"`
	Sender    Participant `json:"sender"`
	Receiver  Participant `json:"receiver"`
	Listing   ListingRef  `json:"listing"`
	Content   string      `json:"content"`
	Location  *Location   `json:"location,omitempty"`
	Read      bool        `json:"read"`
	CreatedAt time.Time   `json:"createdAt"`
}

func ToMessageResponse(m *Message) MessageResponse {
	resp := MessageResponse{
		ID:        m.ID,
		Sender:    Participant{ID: m.SenderID, Name: m.SenderName, Role: m.SenderRole},
		Receiver:  Participant{ID: m.ReceiverID, Name: m.ReceiverName, Role: m.ReceiverRole},
		Listing:   ListingRef{ID: m.ListingID, Title: m.ListingTitle},
		Content:   m.Content,
		Read:      m.IsRead,
		CreatedAt: m.CreatedAt,
	}

	if m.LocationLat != nil || m.LocationLng != nil ||
		m.LocationAddress != nil || m.LocationLabel != nil {
		resp.Location = &Location{
			Lat:     m.LocationLat,
			Lng:     m.LocationLng,
			Address: m.LocationAddress,
			Label:   m.LocationLabel,
		}
	}

	return resp
}

func ToMessageResponseList(msgs []Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, ToMessageResponse(&msgs[i]))
	}
	return out
}
