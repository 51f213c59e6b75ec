package model

import (
	"time"

	"gorm.io/gorm"
)

// IncidentReport documents an incident involving a child.
type IncidentReport struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CompanyID    uint           `json:"company_id" gorm:"index;not null"`
	ChildID      *uint          `json:"child_id,omitempty" gorm:"index"`
	ReportedByID uint           `json:"reported_by_id" gorm:"index;not null"`
	OccurredAt   time.Time      `json:"occurred_at"`
	Location     string         `json:"location" gorm:"type:varchar(200)"`
	Description  string         `json:"description" gorm:"type:text;not null"`
	ActionTaken  string         `json:"action_taken" gorm:"type:text"`
	Severity     string         `json:"severity" gorm:"type:varchar(20);default:'low'"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Child *Child `json:"child,omitempty" gorm:"foreignKey:ChildID"`
}

// DailyNote is a free-form note for a given day, optionally tied to a
// child.
type DailyNote struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CompanyID uint           `json:"company_id" gorm:"index;not null"`
	ChildID   *uint          `json:"child_id,omitempty" gorm:"index"`
	AuthorID  uint           `json:"author_id" gorm:"index;not null"`
	NoteDate  time.Time      `json:"note_date" gorm:"index"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Child *Child `json:"child,omitempty" gorm:"foreignKey:ChildID"`
}

// MedicationLog records a medication administration for a child.
type MedicationLog struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CompanyID      uint           `json:"company_id" gorm:"index;not null"`
	ChildID        uint           `json:"child_id" gorm:"index;not null"`
	AdministeredBy uint           `json:"administered_by" gorm:"index;not null"`
	Medication     string         `json:"medication" gorm:"type:varchar(150);not null"`
	Dosage         string         `json:"dosage" gorm:"type:varchar(100)"`
	AdministeredAt time.Time      `json:"administered_at"`
	Notes          string         `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	Child Child `json:"child,omitempty" gorm:"foreignKey:ChildID"`
}
