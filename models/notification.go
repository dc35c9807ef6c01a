package models

import "time"

// Notification severity classes, mirrored by the frontend styling.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

type Notification struct {
	NotificationID       uint       `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID               int        `gorm:"column:user_id" json:"user_id"`
	Title                string     `gorm:"column:title" json:"title"`
	Message              string     `gorm:"column:message" json:"message"`
	Type                 string     `gorm:"column:type" json:"type"`
	Domain               *string    `gorm:"column:domain" json:"domain,omitempty"`
	RelatedApplicationID *int       `gorm:"column:related_application_id" json:"related_application_id,omitempty"`
	IsRead               bool       `gorm:"column:is_read" json:"is_read"`
	ReadAt               *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	CreateAt             time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt             *time.Time `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
