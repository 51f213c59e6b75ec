package model

import (
	"time"

	"gorm.io/gorm"
)

// Company represents a camp organization. All domain records are scoped
// to exactly one company.
type Company struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug       string         `json:"slug" gorm:"type:varchar(100);uniqueIndex"`
	LogoURL    string         `json:"logo_url" gorm:"type:text"`
	ThemeColor string         `json:"theme_color" gorm:"type:varchar(7);default:'#2E7D32'"`
	Active     bool           `json:"active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// Division is a sub-group within a company (bunk, age cohort) and the
// unit of access-control granularity below the company level.
type Division struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CompanyID uint           `json:"company_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	SortOrder int            `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Company Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}
