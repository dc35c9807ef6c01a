package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"application-tracking-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func quietSession(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 db.Logger.LogMode(logger.Silent),
	})
}

func TestScholarshipStoreCreateAssignsOwnershipAndHistory(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM ` + "`scholarship_applications`" + ` WHERE user_id = \? AND scholarship_id = \? AND delete_at IS NULL`),
			args:    []driver.Value{int64(42), int64(5)},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO ` + "`scholarship_applications`"),
			result:  scriptedResult{lastInsertID: 7, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO ` + "`tracking_status_history`"),
			args:    []driver.Value{"scholarship", int64(7), int64(42), nil, "interested", now},
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewScholarshipTrackingStore(quietSession(db))
	app := &models.ScholarshipApplication{
		ScholarshipID: 5,
		Status:        models.ScholarshipStatusInterested,
	}

	if err := store.Create(42, app, now); err != nil {
		t.Fatalf("create: %v", err)
	}

	if app.ApplicationID != 7 {
		t.Fatalf("application_id = %d, want 7 from the insert", app.ApplicationID)
	}
	if app.UserID != 42 {
		t.Fatalf("user_id = %d, want the owner", app.UserID)
	}
	if app.Version != 1 {
		t.Fatalf("version = %d, want 1", app.Version)
	}
	if !app.SavedAt.Equal(now) || app.CreateAt == nil || app.UpdateAt == nil {
		t.Fatalf("timestamps not set: saved=%v create=%v update=%v", app.SavedAt, app.CreateAt, app.UpdateAt)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestScholarshipStoreCreateRejectsSecondLiveRecord(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM ` + "`scholarship_applications`"),
			args:    []driver.Value{int64(42), int64(5)},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewScholarshipTrackingStore(quietSession(db))
	app := &models.ScholarshipApplication{ScholarshipID: 5}

	err := store.Create(42, app, now)
	if !errors.Is(err, ErrDuplicateTracking) {
		t.Fatalf("got %v, want ErrDuplicateTracking", err)
	}

	// No insert may follow the failed uniqueness check.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestScholarshipStoreCreateRequiresTarget(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	store := NewScholarshipTrackingStore(quietSession(db))
	err := store.Create(42, &models.ScholarshipApplication{}, time.Now())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestScholarshipStoreGetScopesToOwner(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM ` + "`scholarship_applications`" + ` WHERE application_id = \? AND user_id = \? AND delete_at IS NULL`),
			args:    []driver.Value{int64(9), int64(77), int64(1)},
			columns: []string{"application_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewScholarshipTrackingStore(quietSession(db))

	// Record 9 exists but belongs to someone else; the scoped query comes
	// back empty and the caller cannot tell the difference.
	_, err := store.Get(77, 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestScholarshipStoreListOrdersByRequestedColumn(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM ` + "`scholarship_applications`" + ` WHERE user_id = \? AND delete_at IS NULL ORDER BY potential_value DESC, application_id ASC`),
			args:    []driver.Value{int64(42)},
			columns: []string{"application_id", "user_id", "scholarship_id", "status", "version"},
			rows: [][]driver.Value{
				{int64(2), int64(42), int64(8), "submitted", int64(3)},
				{int64(1), int64(42), int64(5), "interested", int64(1)},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewScholarshipTrackingStore(quietSession(db))
	apps, err := store.List(42, TrackingFilter{SortBy: "amount", SortOrder: "desc"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(apps) != 2 || apps[0].ApplicationID != 2 || apps[1].Status != models.ScholarshipStatusInterested {
		t.Fatalf("unexpected rows: %+v", apps)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestScholarshipStoreListRejectsBadFilter(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	store := NewScholarshipTrackingStore(quietSession(db))

	if _, err := store.List(42, TrackingFilter{SortBy: "essay_status"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unlisted sort column: got %v, want ErrValidation", err)
	}
	if _, err := store.List(42, TrackingFilter{Status: "maybe"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("unknown status filter: got %v, want ErrInvalidStatus", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestScholarshipStoreUpdateBumpsVersionAndRecordsHistory(t *testing.T) {
	now := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE ` + "`scholarship_applications`" + ` SET`),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO ` + "`tracking_status_history`"),
			args:    []driver.Value{"scholarship", int64(7), int64(42), "interested", "submitted", now},
			result:  scriptedResult{lastInsertID: 2, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewScholarshipTrackingStore(quietSession(db))
	app := &models.ScholarshipApplication{
		ApplicationID: 7,
		UserID:        42,
		ScholarshipID: 5,
		Status:        models.ScholarshipStatusSubmitted,
		Version:       1,
	}

	if err := store.Update(42, app, models.ScholarshipStatusInterested, nil, now); err != nil {
		t.Fatalf("update: %v", err)
	}
	if app.Version != 2 {
		t.Fatalf("version = %d, want 2", app.Version)
	}
	if app.UpdateAt == nil || !app.UpdateAt.Equal(now) {
		t.Fatalf("update_at = %v, want %v", app.UpdateAt, now)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestScholarshipStoreUpdateSkipsHistoryWhenStatusUnchanged(t *testing.T) {
	now := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE ` + "`scholarship_applications`" + ` SET`),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewScholarshipTrackingStore(quietSession(db))
	app := &models.ScholarshipApplication{
		ApplicationID: 7,
		UserID:        42,
		ScholarshipID: 5,
		Status:        models.ScholarshipStatusSubmitted,
		Version:       4,
	}

	if err := store.Update(42, app, models.ScholarshipStatusSubmitted, nil, now); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestScholarshipStoreUpdateDetectsVersionConflict(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	store := NewScholarshipTrackingStore(quietSession(db))
	app := &models.ScholarshipApplication{
		ApplicationID: 7,
		UserID:        42,
		Status:        models.ScholarshipStatusSubmitted,
		Version:       3,
	}

	stale := 2
	err := store.Update(42, app, app.Status, &stale, time.Now())
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("got %v, want ErrVersionConflict", err)
	}
	if app.Version != 3 {
		t.Fatalf("a rejected update must not bump the version, got %d", app.Version)
	}

	// Nothing may reach the database on a conflict.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestScholarshipStoreUpdateRejectsForeignRecord(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	store := NewScholarshipTrackingStore(quietSession(db))
	app := &models.ScholarshipApplication{ApplicationID: 7, UserID: 42, Version: 1}

	if err := store.Update(99, app, app.Status, nil, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestScholarshipStoreDeleteSoftDeletes(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM ` + "`scholarship_applications`" + ` WHERE application_id = \? AND user_id = \? AND delete_at IS NULL`),
			args:    []driver.Value{int64(7), int64(42), int64(1)},
			columns: []string{"application_id", "user_id", "scholarship_id", "status", "version"},
			rows: [][]driver.Value{
				{int64(7), int64(42), int64(5), "interested", int64(1)},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE ` + "`scholarship_applications`" + ` SET`),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewScholarshipTrackingStore(quietSession(db))
	if err := store.Delete(42, 7, now); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestCollegeStoreCreateRejectsSecondLiveRecord(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM ` + "`college_applications`" + ` WHERE user_id = \? AND institution_id = \? AND delete_at IS NULL`),
			args:    []driver.Value{int64(42), int64(3)},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewCollegeTrackingStore(quietSession(db))
	app := &models.CollegeApplication{InstitutionID: 3}

	err := store.Create(42, app, now)
	if !errors.Is(err, ErrDuplicateTracking) {
		t.Fatalf("got %v, want ErrDuplicateTracking", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
