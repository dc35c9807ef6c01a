package services

import (
	"errors"
	"fmt"
	"time"

	"application-tracking-api/config"
	"application-tracking-api/models"

	"gorm.io/gorm"
)

var collegeSortColumns = map[string]string{
	"deadline":         "deadline",
	"saved_at":         "saved_at",
	"status":           "status",
	"application_type": "application_type",
}

// CollegeTrackingStore mirrors ScholarshipTrackingStore for college
// applications. Same ownership rule: every query is owner-scoped.
type CollegeTrackingStore struct {
	db *gorm.DB
}

func NewCollegeTrackingStore(db *gorm.DB) *CollegeTrackingStore {
	if db == nil {
		db = config.DB
	}
	return &CollegeTrackingStore{db: db}
}

// Create inserts a new tracking record owned by ownerID. The live
// (owner, institution) pair is unique.
func (s *CollegeTrackingStore) Create(ownerID int, app *models.CollegeApplication, now time.Time) error {
	if app.InstitutionID <= 0 {
		return fmt.Errorf("%w: institution_id is required", ErrValidation)
	}

	var count int64
	err := s.db.Model(&models.CollegeApplication{}).
		Where("user_id = ? AND institution_id = ? AND delete_at IS NULL", ownerID, app.InstitutionID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check existing tracking: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: institution %d", ErrDuplicateTracking, app.InstitutionID)
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

	appendStatusHistory(s.db, models.DomainCollege, app.ApplicationID, app.UserID, nil, string(app.Status), now)
	return nil
}

// Get loads one live record owned by ownerID, or ErrNotFound.
func (s *CollegeTrackingStore) Get(ownerID, applicationID int) (*models.CollegeApplication, error) {
	var app models.CollegeApplication
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
func (s *CollegeTrackingStore) List(ownerID int, filter TrackingFilter) ([]models.CollegeApplication, error) {
	query := s.db.Where("user_id = ? AND delete_at IS NULL", ownerID)
	if filter.Status != "" {
		status, ok := models.ParseCollegeStatus(filter.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a college status", ErrInvalidStatus, filter.Status)
		}
		query = query.Where("status = ?", string(status))
	}

	orderClause, err := buildTrackingOrder(collegeSortColumns, filter)
	if err != nil {
		return nil, err
	}

	apps := make([]models.CollegeApplication, 0)
	if err := query.Order(orderClause).Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list tracking records: %w", err)
	}
	return apps, nil
}

// Update persists a record previously loaded through Get, with the same
// version handling as the scholarship store.
func (s *CollegeTrackingStore) Update(ownerID int, app *models.CollegeApplication, previousStatus models.CollegeStatus, expectedVersion *int, now time.Time) error {
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
		appendStatusHistory(s.db, models.DomainCollege, app.ApplicationID, app.UserID, &old, string(app.Status), now)
	}
	return nil
}

// Delete soft-deletes the record, freeing the (owner, institution) pair
// for tracking again.
func (s *CollegeTrackingStore) Delete(ownerID, applicationID int, now time.Time) error {
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
