package model

import (
	"time"

	"gorm.io/gorm"
)

// DivisionPermission is a (user, division) access grant. Absence of a
// row means no access; admin and specialist roles never consult this
// table.
type DivisionPermission struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"index:idx_division_perm_user_division,unique;not null"`
	DivisionID uint           `json:"division_id" gorm:"index:idx_division_perm_user_division,unique;not null"`
	CanAccess  bool           `json:"can_access" gorm:"default:false"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	User     Profile  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Division Division `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
}

// RolePermission is a (role, page) grant defining which navigation
// pages a role may open. Absence of a row denies.
type RolePermission struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Role      string         `json:"role" gorm:"type:varchar(50);index:idx_role_perm_role_page,unique;not null"`
	Page      string         `json:"page" gorm:"type:varchar(100);index:idx_role_perm_role_page,unique;not null"`
	CanAccess bool           `json:"can_access" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
