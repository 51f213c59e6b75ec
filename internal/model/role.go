package model

import (
	"time"

	"gorm.io/gorm"
)

// UserRole assigns the single primary role to a user. The unique index
// on UserID enforces at most one role row per user; a user with no row
// has no role at all, never an implicit default.
type UserRole struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	Role      string         `json:"role" gorm:"type:varchar(50);not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User Profile `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// SuperAdminGrant is the cross-company privilege, held independently of
// the primary role. Presence of a row is the grant.
type SuperAdminGrant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`

	User Profile `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
