// AngelaMos | 2026
// repository_test.go

package interest

import (
	"reflect"
	"testing"
)

func TestFilterWhere(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		where  string
		args   []any
	}{
		{
			name:  "no filters",
			where: "TRUE",
		},
		{
			name:   "buyer scope",
			filter: Filter{BuyerID: buyerID},
			where:  "i.buyer_id = $1",
			args:   []any{buyerID},
		},
		{
			name:   "seller scope with status",
			filter: Filter{SellerID: sellerID, Status: "accepted"},
			where:  "i.seller_id = $1 AND i.status = $2",
			args:   []any{sellerID, "accepted"},
		},
		{
			name: "every filter",
			filter: Filter{
				ListingID: listingID,
				BuyerID:   buyerID,
				SellerID:  sellerID,
				Status:    "pending",
			},
			where: "i.listing_id = $1 AND i.buyer_id = $2 AND i.seller_id = $3 AND i.status = $4",
			args:  []any{listingID, buyerID, sellerID, "pending"},
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
