// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/ewastex/marketplace-api/internal/access"
)

// ContactPlaceholder replaces contact fields on profiles viewed by anyone
// other than their owner.
const ContactPlaceholder = "Shared after interaction"

type User struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	Bio          string     `db:"bio"`
	Company      string     `db:"company"`
	Location     string     `db:"location"`
	Phone        string     `db:"phone"`
	Website      string     `db:"website"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsAdmin() bool {
	return access.Role(u.Role) == access.RoleAdmin
}
