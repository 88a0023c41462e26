// AngelaMos | 2026
// entity.go

package interest

import (
	"time"
)

type Interest struct {
	ID        string    `db:"id"`
	ListingID string    `db:"listing_id"`
	BuyerID   string    `db:"buyer_id"`
	SellerID  string    `db:"seller_id"`
	Status    Status    `db:"status"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	ListingTitle    string `db:"listing_title"`
	ListingCategory string `db:"listing_category"`
	ListingHazard   string `db:"listing_hazard_level"`
	ListingStatus   string `db:"listing_status"`
	ListingLocation string `db:"listing_location"`
	BuyerName       string `db:"buyer_name"`
	SellerName      string `db:"seller_name"`
}

type Filter struct {
	ListingID string
	BuyerID   string
	SellerID  string
	Status    string
}
