// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/auth"
	"github.com/ewastex/marketplace-api/internal/core"
)

// roleAssignment lists the roles each caller role may grant through the
// admin console.
var roleAssignment = access.NewPolicy("assign role", map[access.Role][]access.Role{
	access.RoleAdmin: {access.RoleSeller, access.RoleBuyer, access.RoleAdmin},
})

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	name, email, passwordHash string,
	role access.Role,
) (*auth.UserInfo, error) {
	if role != access.RoleSeller && role != access.RoleBuyer {
		return nil, fmt.Errorf(
			"create user: role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Role:         string(role),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, strings.ToLower(email))
}

// GetProfile returns the profile of targetID as seen by the caller. An
// empty targetID means the caller's own profile.
func (s *Service) GetProfile(
	ctx context.Context,
	caller *access.Identity,
	targetID string,
) (*ProfileResponse, error) {
	if caller == nil {
		return nil, fmt.Errorf("get profile: %w", core.ErrUnauthorized)
	}
	if targetID == "" {
		targetID = caller.UserID
	}

	user, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	resp := ToProfileResponse(user, caller.UserID)
	return &resp, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	caller *access.Identity,
	req UpdateProfileRequest,
) (*ProfileResponse, error) {
	if caller == nil {
		return nil, fmt.Errorf("update profile: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	applyProfile(user, req)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := ToProfileResponse(user, caller.UserID)
	return &resp, nil
}

func applyProfile(u *User, req UpdateProfileRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		u.Name = strings.TrimSpace(*req.Name)
	}
	set(&u.Bio, req.Bio)
	set(&u.Company, req.Company)
	set(&u.Location, req.Location)
	set(&u.Phone, req.Phone)
	set(&u.Website, req.Website)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	if params.Role != "" && !access.Role(params.Role).Valid() {
		return nil, 0, fmt.Errorf(
			"list users: role %q: %w",
			params.Role,
			core.ErrInvalidInput,
		)
	}
	return s.repo.List(ctx, params)
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	caller *access.Identity,
	targetID string,
	role access.Role,
) (*User, error) {
	if caller == nil {
		return nil, fmt.Errorf("update role: %w", core.ErrUnauthorized)
	}
	if !roleAssignment.Allows(caller.Role) {
		return nil, fmt.Errorf("update role: %w", core.ErrForbidden)
	}
	if !roleAssignment.Permits(caller.Role, role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.Role = string(role)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user role changed",
		"user_id", targetID,
		"role", role,
		"by", caller.UserID,
	)

	return user, nil
}

// DeleteUser soft deletes targetID. Admin accounts and the caller's own
// account cannot be removed this way.
func (s *Service) DeleteUser(
	ctx context.Context,
	caller *access.Identity,
	targetID string,
) error {
	if caller == nil {
		return fmt.Errorf("delete user: %w", core.ErrUnauthorized)
	}
	if !caller.IsAdmin() {
		return fmt.Errorf("delete user: %w", core.ErrForbidden)
	}
	if caller.Owns(targetID) {
		return fmt.Errorf(
			"delete user: cannot delete own account: %w",
			core.ErrInvalidInput,
		)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	if err := s.repo.SoftDelete(ctx, targetID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "user deleted", "user_id", targetID, "by", caller.UserID)
	return nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Bio:          u.Bio,
		Company:      u.Company,
		Location:     u.Location,
		Phone:        u.Phone,
		Website:      u.Website,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
