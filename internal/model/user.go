package model

import "time"

// Role determines what a user may do beyond owning their own content.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// ReservedUsername is rejected at signup because it collides with the
// self-profile endpoint path segment.
const ReservedUsername = "me"

// User represents a registered account.
// Username and email uniqueness is exact byte comparison; on MySQL the
// migration forces a binary collation on both columns so the server's
// default case-insensitive collation cannot widen the match.
type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Username         string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email            string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	FirstName        string    `json:"first_name,omitempty" gorm:"size:150"`
	LastName         string    `json:"last_name,omitempty" gorm:"size:150"`
	Bio              string    `json:"bio,omitempty" gorm:"type:text"`
	Role             Role      `json:"role" gorm:"size:10;not null;default:'user';index"`
	ConfirmationCode string    `json:"-" gorm:"size:50;not null"` // Never expose in JSON
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
