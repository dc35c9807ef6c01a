package services

import (
	"fmt"
	"time"

	"application-tracking-api/models"
)

// TransitionResult reports what a status change actually did to the record.
// Timestamp side effects fire only on first entry into a status, so
// replaying the same transition mutates nothing.
type TransitionResult struct {
	StatusChanged    bool
	StartedStamped   bool
	SubmittedStamped bool
	DecisionStamped  bool
}

// Mutated reports whether the record needs to be persisted.
func (r TransitionResult) Mutated() bool {
	return r.StatusChanged || r.StartedStamped || r.SubmittedStamped || r.DecisionStamped
}

// ApplyScholarshipStatus moves a scholarship record to status and applies the
// first-entry timestamp rules: in_progress stamps started_at, submitted
// stamps submitted_at, any terminal outcome stamps decision_date. Stamps are
// never cleared or overwritten. Any status in the enumeration is accepted
// from any current status; jumped-over statuses do not stamp.
func ApplyScholarshipStatus(app *models.ScholarshipApplication, raw string, now time.Time) (TransitionResult, error) {
	status, ok := models.ParseScholarshipStatus(raw)
	if !ok {
		return TransitionResult{}, fmt.Errorf("%w: %q is not a scholarship status", ErrInvalidStatus, raw)
	}

	var res TransitionResult
	if app.Status != status {
		app.Status = status
		res.StatusChanged = true
	}

	if status == models.ScholarshipStatusInProgress && app.StartedAt == nil {
		t := now
		app.StartedAt = &t
		res.StartedStamped = true
	}
	if status == models.ScholarshipStatusSubmitted && app.SubmittedAt == nil {
		t := now
		app.SubmittedAt = &t
		res.SubmittedStamped = true
	}
	if status.StampsDecision() && app.DecisionDate == nil {
		t := now
		app.DecisionDate = &t
		res.DecisionStamped = true
	}

	return res, nil
}

// ApplyCollegeStatus is the college counterpart of ApplyScholarshipStatus.
// The decision stamp lands in decided_at, and only for accepted, waitlisted
// and rejected; declined/enrolled arrive after a decision already stamped.
func ApplyCollegeStatus(app *models.CollegeApplication, raw string, now time.Time) (TransitionResult, error) {
	status, ok := models.ParseCollegeStatus(raw)
	if !ok {
		return TransitionResult{}, fmt.Errorf("%w: %q is not a college status", ErrInvalidStatus, raw)
	}

	var res TransitionResult
	if app.Status != status {
		app.Status = status
		res.StatusChanged = true
	}

	if status == models.CollegeStatusInProgress && app.StartedAt == nil {
		t := now
		app.StartedAt = &t
		res.StartedStamped = true
	}
	if status == models.CollegeStatusSubmitted && app.SubmittedAt == nil {
		t := now
		app.SubmittedAt = &t
		res.SubmittedStamped = true
	}
	if status.StampsDecision() && app.DecidedAt == nil {
		t := now
		app.DecidedAt = &t
		res.DecisionStamped = true
	}

	return res, nil
}

// StampScholarshipCreation applies the same first-entry rules to a record
// being created, so a record saved directly as submitted carries its
// submitted_at from the start.
func StampScholarshipCreation(app *models.ScholarshipApplication, now time.Time) TransitionResult {
	res, _ := ApplyScholarshipStatus(app, string(app.Status), now)
	return res
}

// StampCollegeCreation is the college counterpart of StampScholarshipCreation.
func StampCollegeCreation(app *models.CollegeApplication, now time.Time) TransitionResult {
	res, _ := ApplyCollegeStatus(app, string(app.Status), now)
	return res
}
