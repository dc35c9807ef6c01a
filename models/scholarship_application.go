package models

import "time"

// ScholarshipApplication is one user's tracking record for one scholarship.
// A user holds at most one live record per scholarship; re-tracking after a
// soft delete creates a fresh record.
type ScholarshipApplication struct {
	ApplicationID  int               `gorm:"primaryKey;column:application_id" json:"application_id"`
	UserID         int               `gorm:"column:user_id" json:"user_id"`
	ScholarshipID  int               `gorm:"column:scholarship_id" json:"scholarship_id"`
	Status         ScholarshipStatus `gorm:"column:status" json:"status"`
	SavedAt        time.Time         `gorm:"column:saved_at" json:"saved_at"`
	StartedAt      *time.Time        `gorm:"column:started_at" json:"started_at"`
	SubmittedAt    *time.Time        `gorm:"column:submitted_at" json:"submitted_at"`
	DecisionDate   *time.Time        `gorm:"column:decision_date" json:"decision_date"`
	Deadline       *DateOnly         `gorm:"column:deadline" json:"deadline"`
	PotentialValue *float64          `gorm:"column:potential_value" json:"potential_value"`
	AwardAmount    *float64          `gorm:"column:award_amount" json:"award_amount"`
	Notes          *string           `gorm:"column:notes" json:"notes"`
	EssayStatus    *string           `gorm:"column:essay_status" json:"essay_status"`
	ApplicationURL *string           `gorm:"column:application_url" json:"application_url"`
	Version        int               `gorm:"column:version" json:"version"`
	CreateAt       *time.Time        `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time        `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time        `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (ScholarshipApplication) TableName() string {
	return "scholarship_applications"
}
