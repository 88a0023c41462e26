// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1,max=100"`
	Bio      *string `json:"bio,omitempty"      validate:"omitempty,max=1000"`
	Company  *string `json:"company,omitempty"  validate:"omitempty,max=200"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=200"`
	Phone    *string `json:"phone,omitempty"    validate:"omitempty,max=50"`
	Website  *string `json:"website,omitempty"  validate:"omitempty,max=255"`
}

type UpdateUserRoleRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Role   string `json:"role"   validate:"required,oneof=seller buyer admin"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Bio       string    `json:"bio"`
	Company   string    `json:"company"`
	Location  string    `json:"location"`
	Phone     string    `json:"phone"`
	Website   string    `json:"website"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserResponse is the admin view of an account: the full record without
// the password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Bio       string    `json:"bio"`
	Company   string    `json:"company"`
	Location  string    `json:"location"`
	Phone     string    `json:"phone"`
	Website   string    `json:"website"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ToProfileResponse renders a profile for the given viewer. Contact fields
// are only real when the viewer owns the profile.
func ToProfileResponse(u *User, viewerID string) ProfileResponse {
	resp := ProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Bio:       u.Bio,
		Company:   u.Company,
		Location:  u.Location,
		Phone:     u.Phone,
		Website:   u.Website,
		CreatedAt: u.CreatedAt,
	}

	if viewerID != u.ID {
		resp.Email = ContactPlaceholder
		resp.Phone = ContactPlaceholder
		resp.Website = ContactPlaceholder
	}

	return resp
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Bio:       u.Bio,
		Company:   u.Company,
		Location:  u.Location,
		Phone:     u.Phone,
		Website:   u.Website,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
