// AngelaMos | 2026
// dto.go

package listing

import (
	"time"
)

type PreciseLocation struct {
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Address *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	City    *string  `json:"city,omitempty"    validate:"omitempty,max=200"`
	Area    *string  `json:"area,omitempty"    validate:"omitempty,max=200"`
}

type CreateListingRequest struct {
	Title           string           `json:"title"           validate:"required,min=1,max=200"`
	Description     string           `json:"description"     validate:"required,min=1,max=5000"`
	Category        string           `json:"category"        validate:"required,oneof=Laptops Smartphones Monitors Accessories Appliances Industrial Batteries"`
	Condition       string           `json:"condition"       validate:"required,max=100"`
	Images          []string         `json:"images"          validate:"omitempty,max=10,dive,max=2048"`
	Location        string           `json:"location"        validate:"required,max=200"`
	PreciseLocation *PreciseLocation `json:"preciseLocation"`
}

// UpdateListingRequest carries every field any role may send. Which ones
// are applied depends on the caller's role.
type UpdateListingRequest struct {
	Title       string `json:"title"       validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Condition   string `json:"condition"   validate:"omitempty,max=100"`
	Location    string `json:"location"    validate:"omitempty,max=200"`
	Status      string `json:"status"      validate:"omitempty,oneof=pending approved rejected sold"`
}

type SellerSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListingResponse struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Category        Category         `json:"category"`
	Condition       string           `json:"condition"`
	HazardLevel     Hazard           `json:"hazardLevel"`
	Status          Status           `json:"status"`
	Seller          SellerSummary    `json:"seller"`
	Images          []string         `json:"images"`
	Location        string           `json:"location"`
	PreciseLocation *PreciseLocation `json:"preciseLocation,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type ListParams struct {
	Status      string
	Category    string
	HazardLevel string
	SellerID    string
	Page        int
	PageSize    int
}

func (p *ListParams) Normalize() {
	if p.Status == "" {
		p.Status = string(StatusApproved)
	}
	if p.Category == "all" {
		p.Category = ""
	}
	if p.HazardLevel == "all" {
		p.HazardLevel = ""
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 50
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ToListingResponse projects a listing for a viewer. The precise street
// address is kept only for the owning seller and admins.
func ToListingResponse(l *Listing, canSeeAddress bool) ListingResponse {
	images := []string(l.Images)
	if images == nil {
		images = []string{}
	}

	resp := ListingResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Condition:   l.Condition,
		HazardLevel: l.HazardLevel,
		Status:      l.Status,
		Seller:      SellerSummary{ID: l.SellerID, Name: l.SellerName},
		Images:      images,
		Location:    l.Location,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}

	if l.HasPreciseLocation() {
		loc := &PreciseLocation{
			Lat:  l.PreciseLat,
			Lng:  l.PreciseLng,
			City: l.City,
			Area: l.Area,
		}
		if canSeeAddress {
			loc.Address = l.Address
		}
		resp.PreciseLocation = loc
	}

	return resp
}
