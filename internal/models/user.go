package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"not null" json:"username"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"not null" json:"-"` // bcrypt hash
	Avatar        string     `gorm:"default:🕊️" json:"avatar"`
	Bio           string     `gorm:"size:200" json:"bio"`
	Role          string     `gorm:"size:20;default:'user';not null" json:"role"` // user, admin (clergy/moderators)
	Status        int        `gorm:"default:0" json:"status"`                     // 0: normal, 1: muted, 2: banned
	PunishExpires *time.Time `json:"punish_expires"`
	IsActivated   bool       `gorm:"default:false" json:"is_activated"`
	VerifyCode    string     `gorm:"size:20" json:"-"` // activation / password reset code
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user carries the moderator role.
// Handlers pass this down as a plain flag; nothing below the handler
// layer looks at the role string.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
