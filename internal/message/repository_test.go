// AngelaMos | 2026
// repository_test.go

package message

import (
	"reflect"
	"testing"
	"time"
)

func TestFilterWhere(t *testing.T) {
	after := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter Filter
		where  string
		args   []any
	}{
		{
			name:  "admin without filters",
			where: "TRUE",
		},
		{
			name:   "participant only",
			filter: Filter{ParticipantID: buyerID},
			where:  "(m.sender_id = $1 OR m.receiver_id = $1)",
			args:   []any{buyerID},
		},
		{
			name: "conversation since",
			filter: Filter{
				ListingID:     listingA,
				ParticipantID: buyerID,
				CounterpartID: sellerID,
				After:         &after,
			},
			where: "m.listing_id = $1 AND " +
				"(m.sender_id = $2 OR m.receiver_id = $2) AND " +
				"(m.sender_id = $3 OR m.receiver_id = $3) AND " +
				"m.created_at > $4",
			args: []any{listingA, buyerID, sellerID, after},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.where()
			if where != tt.where {
				t.Errorf("where = %q, want %q", where, tt.where)
			}
			if !reflect.DeepEqual(args, tt.args) {
				t.Errorf("args = %v, want %v", args, tt.args)
			}
		})
	}
}
