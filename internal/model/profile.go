package model

import (
	"time"

	"gorm.io/gorm"
)

// Profile represents an application user. Approved gates all access:
// a freshly registered profile stays unapproved until an administrator
// approves it, and rejection deletes the row.
type Profile struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	FullName  string         `json:"full_name" gorm:"type:varchar(100)"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	Approved  bool           `json:"approved" gorm:"default:false"`
	CompanyID *uint          `json:"company_id,omitempty" gorm:"index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}
