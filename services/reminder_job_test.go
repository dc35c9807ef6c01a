package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"
)

func TestReminderSweepNotifiesOncePerDeadline(t *testing.T) {
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	upcoming := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	missed := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		// Catalog names for the notification text.
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM ` + "`scholarships`"),
			args:    []driver.Value{},
			columns: []string{"scholarship_id", "title", "status"},
			rows:    [][]driver.Value{{int64(11), "STEM Grant", "active"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM ` + "`institutions`"),
			args:    []driver.Value{},
			columns: []string{"institution_id", "name", "status"},
			rows:    [][]driver.Value{},
		},
		// Live scholarship records with deadlines, terminal statuses excluded.
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM ` + "`scholarship_applications`" + ` WHERE delete_at IS NULL AND deadline IS NOT NULL AND status NOT IN \(\?,\?,\?\)`),
			args:    []driver.Value{"accepted", "rejected", "not_pursuing"},
			columns: []string{"application_id", "user_id", "scholarship_id", "status", "deadline"},
			rows: [][]driver.Value{
				{int64(21), int64(42), int64(11), "planning", upcoming},
				{int64(22), int64(42), int64(12), "submitted", missed},
			},
		},
		// First record: nothing sent yet, so a warning is created.
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM ` + "`notifications`" + ` WHERE user_id = \? AND domain = \? AND related_application_id = \? AND title = \?`),
			args:    []driver.Value{int64(42), "scholarship", int64(21), "Scholarship deadline approaching"},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO ` + "`notifications`"),
			args: []driver.Value{
				int64(42),
				"Scholarship deadline approaching",
				`"STEM Grant" is due on 2026-03-20.`,
				"warning",
				"scholarship",
				int64(21),
				false,
				nil,
				now,
				nil,
			},
			result: scriptedResult{lastInsertID: 31, rowsAffected: 1},
		},
		// The owner has no email on file, so no mail goes out.
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM ` + "`users`" + ` WHERE user_id = \?`),
			args:    []driver.Value{int64(42), int64(1)},
			columns: []string{"user_id", "email", "first_name", "last_name"},
			rows:    [][]driver.Value{{int64(42), "", "Sam", "Lee"}},
		},
		// Second record was already reminded on an earlier sweep.
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM ` + "`notifications`"),
			args:    []driver.Value{int64(42), "scholarship", int64(22), "Scholarship deadline passed"},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		// No college records carry deadlines in this fixture.
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM ` + "`college_applications`" + ` WHERE delete_at IS NULL AND deadline IS NOT NULL AND status NOT IN \(\?,\?,\?,\?,\?\)`),
			args:    []driver.Value{"accepted", "waitlisted", "rejected", "declined", "enrolled"},
			columns: []string{"application_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewDeadlineReminderService(quietSession(db))
	summary, err := svc.RunOnce(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if summary.ScholarshipsScanned != 2 || summary.CollegesScanned != 0 {
		t.Fatalf("scan counts wrong: %+v", summary)
	}
	if summary.RemindersCreated != 1 {
		t.Fatalf("reminders_created = %d, want 1", summary.RemindersCreated)
	}
	if summary.AlreadyNotified != 1 {
		t.Fatalf("already_notified = %d, want 1", summary.AlreadyNotified)
	}
	if summary.EmailsSent != 0 {
		t.Fatalf("emails_sent = %d, want 0 without an address", summary.EmailsSent)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestReminderSweepStopsOnCanceledContext(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM ` + "`scholarships`"),
			delay:   50 * time.Millisecond,
			columns: []string{"scholarship_id", "title", "status"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewDeadlineReminderService(quietSession(db))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := svc.RunOnce(ctx, time.Now())
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context cancellation", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
