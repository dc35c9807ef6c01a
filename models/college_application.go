package models

import "time"

// CollegeApplication is one user's tracking record for one institution.
// DecidedAt is stamped by the status engine; DecisionDate and
// ActualDecisionDate are caller-maintained expectations.
type CollegeApplication struct {
	ApplicationID      int             `gorm:"primaryKey;column:application_id" json:"application_id"`
	UserID             int             `gorm:"column:user_id" json:"user_id"`
	InstitutionID      int             `gorm:"column:institution_id" json:"institution_id"`
	Status             CollegeStatus   `gorm:"column:status" json:"status"`
	ApplicationType    ApplicationType `gorm:"column:application_type" json:"application_type"`
	SavedAt            time.Time       `gorm:"column:saved_at" json:"saved_at"`
	StartedAt          *time.Time      `gorm:"column:started_at" json:"started_at"`
	SubmittedAt        *time.Time      `gorm:"column:submitted_at" json:"submitted_at"`
	DecidedAt          *time.Time      `gorm:"column:decided_at" json:"decided_at"`
	Deadline           *DateOnly       `gorm:"column:deadline" json:"deadline"`
	DecisionDate       *DateOnly       `gorm:"column:decision_date" json:"decision_date"`
	ActualDecisionDate *DateOnly       `gorm:"column:actual_decision_date" json:"actual_decision_date"`
	ApplicationFee     *float64        `gorm:"column:application_fee" json:"application_fee"`
	FeeWaiverObtained  bool            `gorm:"column:fee_waiver_obtained" json:"fee_waiver_obtained"`
	ApplicationPortal  *string         `gorm:"column:application_portal" json:"application_portal"`
	PortalURL          *string         `gorm:"column:portal_url" json:"portal_url"`
	PortalUsername     *string         `gorm:"column:portal_username" json:"portal_username"`
	PortalPasswordEnc  []byte          `gorm:"column:portal_password_enc" json:"-"`
	Notes              *string         `gorm:"column:notes" json:"notes"`
	Version            int             `gorm:"column:version" json:"version"`
	CreateAt           *time.Time      `gorm:"column:create_at" json:"create_at"`
	UpdateAt           *time.Time      `gorm:"column:update_at" json:"update_at"`
	DeleteAt           *time.Time      `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Derived for responses; the encrypted credential itself never leaves the server.
	PortalPasswordSet bool `gorm:"-" json:"portal_password_set"`
}

func (CollegeApplication) TableName() string {
	return "college_applications"
}
