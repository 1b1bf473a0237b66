package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"admin@tam.events"`
	Password    string     `json:"-" db:"password"` // bcrypt hash
	DisplayName string     `json:"displayName" db:"display_name" example:"Event Desk"`
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"ADMIN"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user may use the admin console
func (u *User) IsAdmin() bool {
	return u != nil && u.RoleType == RoleAdmin && u.IsActive
}
