package services

import (
	"time"

	"application-tracking-api/models"
)

// DeadlineHorizon is how far ahead a deadline still counts as upcoming.
// It is deliberately a fixed constant, not a per-call option.
const DeadlineHorizon = 30 * 24 * time.Hour

// DeadlineBucket classifies a record's deadline relative to a point in time.
type DeadlineBucket string

const (
	DeadlineUpcoming DeadlineBucket = "upcoming"
	DeadlineOverdue  DeadlineBucket = "overdue"
	DeadlineNone     DeadlineBucket = "none"
)

// ClassifyDeadline buckets a deadline against now. Records without a
// deadline, and records already in a terminal status, classify as none.
// Deadlines are calendar dates, so now is truncated to its UTC date first;
// a deadline is overdue only once its whole day has passed.
func ClassifyDeadline(deadline *models.DateOnly, terminal bool, now time.Time) DeadlineBucket {
	if deadline == nil || deadline.IsZero() || terminal {
		return DeadlineNone
	}
	today := models.NewDateOnly(now).Time
	due := deadline.Time
	if due.Before(today) {
		return DeadlineOverdue
	}
	if !due.After(today.Add(DeadlineHorizon)) {
		return DeadlineUpcoming
	}
	return DeadlineNone
}

// ClassifyScholarshipDeadline applies ClassifyDeadline to a scholarship record.
func ClassifyScholarshipDeadline(app *models.ScholarshipApplication, now time.Time) DeadlineBucket {
	return ClassifyDeadline(app.Deadline, app.Status.IsTerminal(), now)
}

// ClassifyCollegeDeadline applies ClassifyDeadline to a college record.
func ClassifyCollegeDeadline(app *models.CollegeApplication, now time.Time) DeadlineBucket {
	return ClassifyDeadline(app.Deadline, app.Status.IsTerminal(), now)
}
