package model

import (
	"time"

	"gorm.io/gorm"
)

// Award recognizes a child for an achievement.
type Award struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CompanyID   uint           `json:"company_id" gorm:"index;not null"`
	ChildID     uint           `json:"child_id" gorm:"index;not null"`
	Title       string         `json:"title" gorm:"type:varchar(150);not null"`
	Description string         `json:"description" gorm:"type:text"`
	AwardedOn   time.Time      `json:"awarded_on"`
	AwardedByID uint           `json:"awarded_by_id" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Child Child `json:"child,omitempty" gorm:"foreignKey:ChildID"`
}

// Trip is an off-site outing.
type Trip struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CompanyID   uint           `json:"company_id" gorm:"index;not null"`
	Name        string         `json:"name" gorm:"type:varchar(150);not null"`
	Destination string         `json:"destination" gorm:"type:varchar(200)"`
	TripDate    time.Time      `json:"trip_date"`
	Notes       string         `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Attendance []TripAttendance `json:"attendance,omitempty" gorm:"foreignKey:TripID"`
}

// TripAttendance marks a child on a trip roster. Roster replacement is
// delete-then-insert inside one transaction.
type TripAttendance struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TripID    uint      `json:"trip_id" gorm:"index:idx_trip_attendance_trip_child,unique;not null"`
	ChildID   uint      `json:"child_id" gorm:"index:idx_trip_attendance_trip_child,unique;not null"`
	CreatedAt time.Time `json:"created_at"`

	Child Child `json:"child,omitempty" gorm:"foreignKey:ChildID"`
}
