package models

import "time"

// Tracking domains recorded in status history and notifications.
const (
	DomainScholarship = "scholarship"
	DomainCollege     = "college"
)

// StatusHistory records every applied status change on a tracking record.
type StatusHistory struct {
	HistoryID     int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	Domain        string    `gorm:"column:domain" json:"domain"`
	ApplicationID int       `gorm:"column:application_id" json:"application_id"`
	UserID        int       `gorm:"column:user_id" json:"user_id"`
	OldStatus     *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus     string    `gorm:"column:new_status" json:"new_status"`
	ChangedAt     time.Time `gorm:"column:changed_at" json:"changed_at"`
}

// TableName specifies the table for StatusHistory.
func (StatusHistory) TableName() string {
	return "tracking_status_history"
}
