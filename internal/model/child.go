package model

import (
	"time"

	"gorm.io/gorm"
)

// Child is a camper record, scoped to a company and assigned to a
// division. Division assignment drives row visibility for roles without
// full division access.
type Child struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CompanyID    uint           `json:"company_id" gorm:"index;not null"`
	DivisionID   *uint          `json:"division_id,omitempty" gorm:"index"`
	FirstName    string         `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName     string         `json:"last_name" gorm:"type:varchar(100);not null"`
	DateOfBirth  *time.Time     `json:"date_of_birth,omitempty"`
	Bunk         string         `json:"bunk" gorm:"type:varchar(50)"`
	GuardianName string         `json:"guardian_name" gorm:"type:varchar(100)"`
	GuardianTel  string         `json:"guardian_phone" gorm:"type:varchar(30)"`
	Allergies    string         `json:"allergies" gorm:"type:text"`
	Notes        string         `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Division *Division `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
}

// StaffMember is an employment record, scoped to a company.
type StaffMember struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CompanyID uint           `json:"company_id" gorm:"index;not null"`
	FirstName string         `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName  string         `json:"last_name" gorm:"type:varchar(100);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100)"`
	Phone     string         `json:"phone" gorm:"type:varchar(30)"`
	Position  string         `json:"position" gorm:"type:varchar(100)"`
	StartDate *time.Time     `json:"start_date,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
