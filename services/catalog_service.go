package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"application-tracking-api/config"
	"application-tracking-api/models"

	"github.com/fsnotify/fsnotify"
	"gorm.io/gorm"
)

// CatalogService maintains the local mirror of the scholarship and
// institution catalogs. Tracking records are only allowed to point at
// mirror rows, so the mirror doubles as target validation.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	if db == nil {
		db = config.DB
	}
	return &CatalogService{db: db}
}

type CatalogSeedSummary struct {
	Scholarships int `json:"scholarships"`
	Institutions int `json:"institutions"`
}

type catalogSeed struct {
	Scholarships []models.Scholarship `json:"scholarships"`
	Institutions []models.Institution `json:"institutions"`
}

// GetScholarship returns the live mirror row, or ErrNotFound.
func (s *CatalogService) GetScholarship(scholarshipID int) (*models.Scholarship, error) {
	var scholarship models.Scholarship
	err := s.db.
		Where("scholarship_id = ? AND delete_at IS NULL", scholarshipID).
		First(&scholarship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load scholarship: %w", err)
	}
	return &scholarship, nil
}

// GetInstitution returns the live mirror row, or ErrNotFound.
func (s *CatalogService) GetInstitution(institutionID int) (*models.Institution, error) {
	var institution models.Institution
	err := s.db.
		Where("institution_id = ? AND delete_at IS NULL", institutionID).
		First(&institution).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load institution: %w", err)
	}
	return &institution, nil
}

// LoadSeedFile reads a catalog seed JSON file and upserts every entry by
// its natural id. The whole file is validated before any row is written.
func (s *CatalogService) LoadSeedFile(path string) (*CatalogSeedSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed: %w", err)
	}

	var seed catalogSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}

	for i, sch := range seed.Scholarships {
		if sch.ScholarshipID <= 0 {
			return nil, fmt.Errorf("%w: scholarships[%d] has no scholarship_id", ErrValidation, i)
		}
		if sch.Title == "" {
			return nil, fmt.Errorf("%w: scholarship %d has no title", ErrValidation, sch.ScholarshipID)
		}
	}
	for i, inst := range seed.Institutions {
		if inst.InstitutionID <= 0 {
			return nil, fmt.Errorf("%w: institutions[%d] has no institution_id", ErrValidation, i)
		}
		if inst.Name == "" {
			return nil, fmt.Errorf("%w: institution %d has no name", ErrValidation, inst.InstitutionID)
		}
	}

	summary := &CatalogSeedSummary{}
	now := time.Now()

	for _, sch := range seed.Scholarships {
		if err := s.upsertScholarship(sch, now); err != nil {
			return summary, err
		}
		summary.Scholarships++
	}
	for _, inst := range seed.Institutions {
		if err := s.upsertInstitution(inst, now); err != nil {
			return summary, err
		}
		summary.Institutions++
	}

	log.Printf("Catalog seed loaded from %s: %d scholarships, %d institutions",
		path, summary.Scholarships, summary.Institutions)
	return summary, nil
}

func (s *CatalogService) upsertScholarship(sch models.Scholarship, now time.Time) error {
	if sch.Status == "" {
		sch.Status = "active"
	}

	var existing models.Scholarship
	err := s.db.Where("scholarship_id = ?", sch.ScholarshipID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sch.CreateAt = &now
		sch.UpdateAt = &now
		if err := s.db.Create(&sch).Error; err != nil {
			return fmt.Errorf("failed to insert scholarship %d: %w", sch.ScholarshipID, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up scholarship %d: %w", sch.ScholarshipID, err)
	}

	sch.CreateAt = existing.CreateAt
	sch.UpdateAt = &now
	sch.DeleteAt = nil
	if err := s.db.Save(&sch).Error; err != nil {
		return fmt.Errorf("failed to update scholarship %d: %w", sch.ScholarshipID, err)
	}
	return nil
}

func (s *CatalogService) upsertInstitution(inst models.Institution, now time.Time) error {
	if inst.Status == "" {
		inst.Status = "active"
	}

	var existing models.Institution
	err := s.db.Where("institution_id = ?", inst.InstitutionID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		inst.CreateAt = &now
		inst.UpdateAt = &now
		if err := s.db.Create(&inst).Error; err != nil {
			return fmt.Errorf("failed to insert institution %d: %w", inst.InstitutionID, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up institution %d: %w", inst.InstitutionID, err)
	}

	inst.CreateAt = existing.CreateAt
	inst.UpdateAt = &now
	inst.DeleteAt = nil
	if err := s.db.Save(&inst).Error; err != nil {
		return fmt.Errorf("failed to update institution %d: %w", inst.InstitutionID, err)
	}
	return nil
}

// Watch reloads the seed file whenever it changes on disk. The parent
// directory is watched because editors and config mounts typically
// replace the file instead of writing it in place. Events are debounced
// so a burst of writes triggers one reload. Blocks until ctx is done.
func (s *CatalogService) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start catalog watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Printf("Watching catalog seed %s", path)

	target := filepath.Clean(path)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var changedAt time.Time
	dirty := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			dirty = true
			changedAt = time.Now()
		case <-ticker.C:
			if dirty && time.Since(changedAt) > 300*time.Millisecond {
				dirty = false
				if _, err := s.LoadSeedFile(path); err != nil {
					log.Printf("Catalog reload failed: %v", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Catalog watcher error: %v", err)
		}
	}
}
