package services

import (
	"log"
	"time"

	"application-tracking-api/models"

	"gorm.io/gorm"
)

// appendStatusHistory writes one audit row per applied status change.
// History is advisory: a failed append is logged and never fails the
// write that triggered it.
func appendStatusHistory(db *gorm.DB, domain string, applicationID, userID int, oldStatus *string, newStatus string, changedAt time.Time) {
	entry := models.StatusHistory{
		Domain:        domain,
		ApplicationID: applicationID,
		UserID:        userID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ChangedAt:     changedAt,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("failed to record %s status history for application %d: %v", domain, applicationID, err)
	}
}
