package models

import "time"

// Scholarship is a read-only mirror row of the external scholarship catalog.
// Tracking records validate their target against it and inherit the default
// deadline and amount when the caller omits them.
type Scholarship struct {
	ScholarshipID   int        `gorm:"primaryKey;column:scholarship_id" json:"scholarship_id"`
	Title           string     `gorm:"column:title" json:"title"`
	Organization    *string    `gorm:"column:organization" json:"organization"`
	AmountMin       *float64   `gorm:"column:amount_min" json:"amount_min"`
	AmountMax       *float64   `gorm:"column:amount_max" json:"amount_max"`
	Deadline        *DateOnly  `gorm:"column:deadline" json:"deadline"`
	ScholarshipType *string    `gorm:"column:scholarship_type" json:"scholarship_type"`
	Status          string     `gorm:"column:status" json:"status"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Institution is a read-only mirror row of the external institution catalog.
type Institution struct {
	InstitutionID int        `gorm:"primaryKey;column:institution_id" json:"institution_id"`
	Name          string     `gorm:"column:name" json:"name"`
	City          *string    `gorm:"column:city" json:"city"`
	State         *string    `gorm:"column:state" json:"state"`
	ControlType   *string    `gorm:"column:control_type" json:"control_type"`
	Website       *string    `gorm:"column:website" json:"website"`
	Status        string     `gorm:"column:status" json:"status"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (Scholarship) TableName() string {
	return "scholarships"
}

func (Institution) TableName() string {
	return "institutions"
}
