package services

import (
	"errors"
	"fmt"
	"time"

	"application-tracking-api/config"
	"application-tracking-api/models"

	"gorm.io/gorm"
)

// scholarshipSortColumns maps caller-facing sort keys to columns. The
// "amount" alias sorts by the money still on the table.
var scholarshipSortColumns = map[string]string{
	"deadline": "deadline",
	"saved_at": "saved_at",
	"status":   "status",
	"amount":   "potential_value",
}

// ScholarshipTrackingStore is the only path to scholarship tracking rows.
// Every query it issues is scoped to the owner, so a record belonging to
// someone else is indistinguishable from a missing one.
type ScholarshipTrackingStore struct {
	db *gorm.DB
}

func NewScholarshipTrackingStore(db *gorm.DB) *ScholarshipTrackingStore {
	if db == nil {
		db = config.DB
	}
	return &ScholarshipTrackingStore{db: db}
}

// Create inserts a new tracking record owned by ownerID. The live
// (owner, scholarship) pair is unique: a second tracking attempt fails
// with ErrDuplicateTracking until the first record is deleted.
func (s *ScholarshipTrackingStore) Create(ownerID int, app *models.ScholarshipApplication, now time.Time) error {
	if app.ScholarshipID <= 0 {
		return fmt.Errorf("%w: scholarship_id is required", ErrValidation)
	}

	var count int64
	err := s.db.Model(&models.ScholarshipApplication{}).
		Where("user_id = ? AND scholarship_id = ? AND delete_at IS NULL", ownerID, app.ScholarshipID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check existing tracking: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: scholarship %d", ErrDuplicateTracking, app.ScholarshipID)
	}

	app.UserID = ownerID
	app.Version = 1
	if app.SavedAt.IsZero() {
		app.SavedAt = now
	}
	created := now
	app.CreateAt = &created
	app.UpdateAt = &created

	if err := s.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create tracking record: %w", err)
	}

	appendStatusHistory(s.db, models.DomainScholarship, app.ApplicationID, app.UserID, nil, string(app.Status), now)
	return nil
}

// Get loads one live record owned by ownerID, or ErrNotFound.
func (s *ScholarshipTrackingStore) Get(ownerID, applicationID int) (*models.ScholarshipApplication, error) {
	var app models.ScholarshipApplication
	err := s.db.
		Where("application_id = ? AND user_id = ? AND delete_at IS NULL", applicationID, ownerID).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load tracking record: %w", err)
	}
	return &app, nil
}

// List returns the owner's live records, optionally narrowed to one
// status and ordered per the filter.
func (s *ScholarshipTrackingStore) List(ownerID int, filter TrackingFilter) ([]models.ScholarshipApplication, error) {
	query := s.db.Where("user_id = ? AND delete_at IS NULL", ownerID)
	if filter.Status != "" {
		status, ok := models.ParseScholarshipStatus(filter.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a scholarship status", ErrInvalidStatus, filter.Status)
		}
		query = query.Where("status = ?", string(status))
	}

	orderClause, err := buildTrackingOrder(scholarshipSortColumns, filter)
	if err != nil {
		return nil, err
	}

	apps := make([]models.ScholarshipApplication, 0)
	if err := query.Order(orderClause).Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list tracking records: %w", err)
	}
	return apps, nil
}

// Update persists a record previously loaded through Get. When
// expectedVersion is set and no longer matches, nothing is written and
// ErrVersionConflict is returned; otherwise the version is bumped and
// the row saved, last write winning. A status differing from
// previousStatus appends a history row.
func (s *ScholarshipTrackingStore) Update(ownerID int, app *models.ScholarshipApplication, previousStatus models.ScholarshipStatus, expectedVersion *int, now time.Time) error {
	if app.UserID != ownerID {
		return ErrNotFound
	}
	if expectedVersion != nil && *expectedVersion != app.Version {
		return fmt.Errorf("%w: expected version %d, record is at %d", ErrVersionConflict, *expectedVersion, app.Version)
	}

	app.Version++
	updated := now
	app.UpdateAt = &updated

	if err := s.db.Save(app).Error; err != nil {
		return fmt.Errorf("failed to update tracking record: %w", err)
	}

	if app.Status != previousStatus {
		old := string(previousStatus)
		appendStatusHistory(s.db, models.DomainScholarship, app.ApplicationID, app.UserID, &old, string(app.Status), now)
	}
	return nil
}

// Delete soft-deletes the record, freeing the (owner, scholarship) pair
// for tracking again.
func (s *ScholarshipTrackingStore) Delete(ownerID, applicationID int, now time.Time) error {
	app, err := s.Get(ownerID, applicationID)
	if err != nil {
		return err
	}

	deleted := now
	app.DeleteAt = &deleted
	app.UpdateAt = &deleted
	if err := s.db.Save(app).Error; err != nil {
		return fmt.Errorf("failed to delete tracking record: %w", err)
	}
	return nil
}
