package services

import (
	"errors"
	"testing"
	"time"

	"application-tracking-api/models"
)

func TestApplyScholarshipStatusStampsStartedOnce(t *testing.T) {
	t1 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	t3 := t1.Add(48 * time.Hour)

	app := models.ScholarshipApplication{Status: models.ScholarshipStatusInterested}

	res, err := ApplyScholarshipStatus(&app, "in_progress", t1)
	if err != nil {
		t.Fatalf("first transition: %v", err)
	}
	if !res.StatusChanged || !res.StartedStamped {
		t.Fatalf("first transition should change status and stamp started_at, got %+v", res)
	}
	if app.StartedAt == nil || !app.StartedAt.Equal(t1) {
		t.Fatalf("started_at = %v, want %v", app.StartedAt, t1)
	}

	// Step away and come back; the stamp must survive.
	if _, err := ApplyScholarshipStatus(&app, "planning", t2); err != nil {
		t.Fatalf("transition back to planning: %v", err)
	}
	res, err = ApplyScholarshipStatus(&app, "in_progress", t3)
	if err != nil {
		t.Fatalf("second in_progress transition: %v", err)
	}
	if res.StartedStamped {
		t.Fatalf("re-entering in_progress must not restamp started_at")
	}
	if !app.StartedAt.Equal(t1) {
		t.Fatalf("started_at moved to %v, want %v", app.StartedAt, t1)
	}
}

func TestApplyScholarshipStatusReplayDoesNotMutate(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	app := models.ScholarshipApplication{Status: models.ScholarshipStatusPlanning}

	if _, err := ApplyScholarshipStatus(&app, "submitted", now); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	res, err := ApplyScholarshipStatus(&app, "submitted", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("replayed submit: %v", err)
	}
	if res.Mutated() {
		t.Fatalf("replaying the same transition must be a no-op, got %+v", res)
	}
	if !app.SubmittedAt.Equal(now) {
		t.Fatalf("submitted_at moved to %v, want %v", app.SubmittedAt, now)
	}
}

func TestApplyScholarshipStatusJumpStampsOnlyDecision(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	app := models.ScholarshipApplication{Status: models.ScholarshipStatusInterested}

	res, err := ApplyScholarshipStatus(&app, "accepted", now)
	if err != nil {
		t.Fatalf("jump to accepted: %v", err)
	}
	if !res.DecisionStamped {
		t.Fatalf("accepted must stamp the decision, got %+v", res)
	}
	if res.StartedStamped || res.SubmittedStamped {
		t.Fatalf("jumped-over statuses must not stamp, got %+v", res)
	}
	if app.StartedAt != nil || app.SubmittedAt != nil {
		t.Fatalf("jumped-over stamps were written: started=%v submitted=%v", app.StartedAt, app.SubmittedAt)
	}
	if app.DecisionDate == nil || !app.DecisionDate.Equal(now) {
		t.Fatalf("decision_date = %v, want %v", app.DecisionDate, now)
	}
}

func TestApplyScholarshipStatusNormalizesAndValidates(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	app := models.ScholarshipApplication{Status: models.ScholarshipStatusPlanning}

	if _, err := ApplyScholarshipStatus(&app, "  Submitted ", now); err != nil {
		t.Fatalf("padded token should parse: %v", err)
	}
	if app.Status != models.ScholarshipStatusSubmitted {
		t.Fatalf("status = %q, want submitted", app.Status)
	}

	_, err := ApplyScholarshipStatus(&app, "awarded", now)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("unknown token: got %v, want ErrInvalidStatus", err)
	}
	if app.Status != models.ScholarshipStatusSubmitted {
		t.Fatalf("failed transition must not touch the record, status = %q", app.Status)
	}
}

func TestApplyCollegeStatusDecisionStamps(t *testing.T) {
	t1 := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(72 * time.Hour)

	app := models.CollegeApplication{Status: models.CollegeStatusSubmitted}

	res, err := ApplyCollegeStatus(&app, "waitlisted", t1)
	if err != nil {
		t.Fatalf("waitlisted: %v", err)
	}
	if !res.DecisionStamped || app.DecidedAt == nil || !app.DecidedAt.Equal(t1) {
		t.Fatalf("waitlisted must stamp decided_at once: res=%+v decided=%v", res, app.DecidedAt)
	}

	// Coming off the waitlist keeps the original decision timestamp.
	res, err = ApplyCollegeStatus(&app, "accepted", t2)
	if err != nil {
		t.Fatalf("accepted after waitlist: %v", err)
	}
	if res.DecisionStamped {
		t.Fatalf("second decision status must not restamp, got %+v", res)
	}
	if !app.DecidedAt.Equal(t1) {
		t.Fatalf("decided_at moved to %v, want %v", app.DecidedAt, t1)
	}
}

func TestApplyCollegeStatusDeclinedNeverStampsDecision(t *testing.T) {
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	app := models.CollegeApplication{Status: models.CollegeStatusSubmitted}

	res, err := ApplyCollegeStatus(&app, "declined", now)
	if err != nil {
		t.Fatalf("declined: %v", err)
	}
	if res.DecisionStamped || app.DecidedAt != nil {
		t.Fatalf("declined follows a decision and must not stamp one: res=%+v decided=%v", res, app.DecidedAt)
	}
	if app.Status != models.CollegeStatusDeclined {
		t.Fatalf("status = %q, want declined", app.Status)
	}
}

func TestCreationStampingMatchesInitialStatus(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	plain := models.ScholarshipApplication{Status: models.ScholarshipStatusInterested}
	if res := StampScholarshipCreation(&plain, now); res.Mutated() {
		t.Fatalf("interested creation should not stamp anything, got %+v", res)
	}

	submitted := models.ScholarshipApplication{Status: models.ScholarshipStatusSubmitted}
	res := StampScholarshipCreation(&submitted, now)
	if !res.SubmittedStamped || submitted.SubmittedAt == nil || !submitted.SubmittedAt.Equal(now) {
		t.Fatalf("submitted creation must carry submitted_at: res=%+v stamp=%v", res, submitted.SubmittedAt)
	}

	college := models.CollegeApplication{Status: models.CollegeStatusAccepted}
	cres := StampCollegeCreation(&college, now)
	if !cres.DecisionStamped || college.DecidedAt == nil {
		t.Fatalf("accepted creation must carry decided_at: res=%+v stamp=%v", cres, college.DecidedAt)
	}
}
