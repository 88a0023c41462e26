// AngelaMos | 2026
// dto.go

package interest

import (
	"time"
)

type CreateInterestRequest struct {
	ListingID string `json:"listingId" validate:"required,uuid"`
	Message   string `json:"message"   validate:"omitempty,max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ListingSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	HazardLevel string `json:"hazardLevel"`
	Status      string `json:"status"`
	Location    string `json:"location"`
}

type Party struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type InterestResponse struct {
	ID        string         `json:"id"`
	Listing   ListingSummary `json:"listing"`
	Buyer     Party          `json:"buyer"`
	Seller    Party          `json:"seller"`
	Status    Status         `json:"status"`
	Message   string         `json:"message"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func ToInterestResponse(i *Interest) InterestResponse {
	return InterestResponse{
		ID: i.ID,
		Listing: ListingSummary{
			ID:          i.ListingID,
			Title:       i.ListingTitle,
			Category:    i.ListingCategory,
			HazardLevel: i.ListingHazard,
			Status:      i.ListingStatus,
			Location:    i.ListingLocation,
		},
		Buyer:     Party{ID: i.BuyerID, Name: i.BuyerName},
		Seller:    Party{ID: i.SellerID, Name: i.SellerName},
		Status:    i.Status,
		Message:   i.Message,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func ToInterestResponseList(items []Interest) []InterestResponse {
	out := make([]InterestResponse, 0, len(items))
	for i := range items {
		out = append(out, ToInterestResponse(&items[i]))
	}
	return out
}
