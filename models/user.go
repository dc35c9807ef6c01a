package models

import "time"

// User is a local projection of an identity issued by the external auth
// service. Rows are upserted lazily from verified token claims; this service
// never creates credentials or issues tokens.
type User struct {
	UserID      int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email       string     `gorm:"column:email" json:"email"`
	FirstName   string     `gorm:"column:first_name" json:"first_name"`
	LastName    string     `gorm:"column:last_name" json:"last_name"`
	IsSuperuser bool       `gorm:"column:is_superuser" json:"is_superuser"`
	LastSeenAt  *time.Time `gorm:"column:last_seen_at" json:"last_seen_at,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

// DisplayName joins the projected name parts for notification text.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Email
}
