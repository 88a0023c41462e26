// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role"     validate:"required,oneof=seller buyer"`
}

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
}

type AuthResponse struct {
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`

	token string
}

type MeResponse struct {
	User UserResponse `json:"user"`
}

func toUserResponse(u *UserInfo) UserResponse {
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
	}
}
