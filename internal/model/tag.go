package model

import (
	"time"

	"gorm.io/gorm"
)

// Tags usable for notification targeting. Independent of roles.
const (
	TagStaffAll    = "staff_all"
	TagLeadership  = "leadership"
	TagMedical     = "medical"
	TagOffice      = "office"
	TagMaintenance = "maintenance"
)

// ValidTags lists the fixed tag set.
var ValidTags = []string{TagStaffAll, TagLeadership, TagMedical, TagOffice, TagMaintenance}

// IsValidTag reports whether tag belongs to the fixed tag set.
func IsValidTag(tag string) bool {
	for _, t := range ValidTags {
		if t == tag {
			return true
		}
	}
	return false
}

// UserTag is a (user, tag) membership used only to resolve bulk-email
// recipients.
type UserTag struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index:idx_user_tag_user_tag,unique;not null"`
	Tag       string         `json:"tag" gorm:"type:varchar(50);index:idx_user_tag_user_tag,unique;not null"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User Profile `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// EmailLog records every bulk-email attempt. Status "sent" means the
// SMTP hand-off succeeded, "logged" means no mailer was configured and
// nothing was dispatched, "failed" carries the error detail.
type EmailLog struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	SenderID       uint      `json:"sender_id" gorm:"index;not null"`
	Subject        string    `json:"subject" gorm:"type:varchar(255)"`
	Body           string    `json:"body" gorm:"type:text"`
	RecipientCount int       `json:"recipient_count"`
	Status         string    `json:"status" gorm:"type:varchar(20)"`
	ErrorDetail    string    `json:"error_detail,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
}
