package services

import (
	"sort"
	"time"

	"application-tracking-api/models"
)

// ScholarshipSummary is the aggregate block of the scholarship dashboard.
// Value totals: potential counts records still in play (non-terminal),
// awarded counts accepted records only.
type ScholarshipSummary struct {
	TotalApplications   int     `json:"total_applications"`
	Interested          int     `json:"interested"`
	Planning            int     `json:"planning"`
	InProgress          int     `json:"in_progress"`
	Submitted           int     `json:"submitted"`
	Accepted            int     `json:"accepted"`
	Rejected            int     `json:"rejected"`
	NotPursuing         int     `json:"not_pursuing"`
	TotalPotentialValue float64 `json:"total_potential_value"`
	TotalAwardedValue   float64 `json:"total_awarded_value"`
	UpcomingDeadlines   int     `json:"upcoming_deadlines"`
	Overdue             int     `json:"overdue"`
}

// CollegeSummary is the aggregate block of the college dashboard.
// AwaitingDecision counts submitted applications whose decision has not
// been stamped yet.
type CollegeSummary struct {
	TotalApplications int `json:"total_applications"`
	Researching       int `json:"researching"`
	Planning          int `json:"planning"`
	InProgress        int `json:"in_progress"`
	Submitted         int `json:"submitted"`
	Accepted          int `json:"accepted"`
	Waitlisted        int `json:"waitlisted"`
	Rejected          int `json:"rejected"`
	Declined          int `json:"declined"`
	Enrolled          int `json:"enrolled"`
	AwaitingDecision  int `json:"awaiting_decision"`
	UpcomingDeadlines int `json:"upcoming_deadlines"`
	Overdue           int `json:"overdue"`
}

type ScholarshipDashboard struct {
	Summary           ScholarshipSummary              `json:"summary"`
	UpcomingDeadlines []models.ScholarshipApplication `json:"upcoming_deadlines"`
	Overdue           []models.ScholarshipApplication `json:"overdue"`
	Applications      []models.ScholarshipApplication `json:"applications"`
}

type CollegeDashboard struct {
	Summary           CollegeSummary              `json:"summary"`
	UpcomingDeadlines []models.CollegeApplication `json:"upcoming_deadlines"`
	Overdue           []models.CollegeApplication `json:"overdue"`
	Applications      []models.CollegeApplication `json:"applications"`
}

// BuildScholarshipDashboard computes the dashboard over the owner's full
// record set at request time. No cached state is consulted or written, so
// two calls over the same records return identical results. Applications
// keeps the input order; the deadline lists are sorted soonest first.
func BuildScholarshipDashboard(apps []models.ScholarshipApplication, now time.Time) ScholarshipDashboard {
	dashboard := ScholarshipDashboard{
		UpcomingDeadlines: make([]models.ScholarshipApplication, 0),
		Overdue:           make([]models.ScholarshipApplication, 0),
		Applications:      apps,
	}
	if dashboard.Applications == nil {
		dashboard.Applications = make([]models.ScholarshipApplication, 0)
	}

	summary := &dashboard.Summary
	summary.TotalApplications = len(apps)

	for _, app := range apps {
		switch app.Status {
		case models.ScholarshipStatusInterested:
			summary.Interested++
		case models.ScholarshipStatusPlanning:
			summary.Planning++
		case models.ScholarshipStatusInProgress:
			summary.InProgress++
		case models.ScholarshipStatusSubmitted:
			summary.Submitted++
		case models.ScholarshipStatusAccepted:
			summary.Accepted++
		case models.ScholarshipStatusRejected:
			summary.Rejected++
		case models.ScholarshipStatusNotPursuing:
			summary.NotPursuing++
		}

		if !app.Status.IsTerminal() && app.PotentialValue != nil {
			summary.TotalPotentialValue += *app.PotentialValue
		}
		if app.Status == models.ScholarshipStatusAccepted && app.AwardAmount != nil {
			summary.TotalAwardedValue += *app.AwardAmount
		}

		switch ClassifyScholarshipDeadline(&app, now) {
		case DeadlineUpcoming:
			dashboard.UpcomingDeadlines = append(dashboard.UpcomingDeadlines, app)
		case DeadlineOverdue:
			dashboard.Overdue = append(dashboard.Overdue, app)
		}
	}

	sortScholarshipsByDeadline(dashboard.UpcomingDeadlines)
	sortScholarshipsByDeadline(dashboard.Overdue)
	summary.UpcomingDeadlines = len(dashboard.UpcomingDeadlines)
	summary.Overdue = len(dashboard.Overdue)

	return dashboard
}

// BuildCollegeDashboard is the college counterpart of BuildScholarshipDashboard.
func BuildCollegeDashboard(apps []models.CollegeApplication, now time.Time) CollegeDashboard {
	dashboard := CollegeDashboard{
		UpcomingDeadlines: make([]models.CollegeApplication, 0),
		Overdue:           make([]models.CollegeApplication, 0),
		Applications:      apps,
	}
	if dashboard.Applications == nil {
		dashboard.Applications = make([]models.CollegeApplication, 0)
	}

	summary := &dashboard.Summary
	summary.TotalApplications = len(apps)

	for _, app := range apps {
		switch app.Status {
		case models.CollegeStatusResearching:
			summary.Researching++
		case models.CollegeStatusPlanning:
			summary.Planning++
		case models.CollegeStatusInProgress:
			summary.InProgress++
		case models.CollegeStatusSubmitted:
			summary.Submitted++
		case models.CollegeStatusAccepted:
			summary.Accepted++
		case models.CollegeStatusWaitlisted:
			summary.Waitlisted++
		case models.CollegeStatusRejected:
			summary.Rejected++
		case models.CollegeStatusDeclined:
			summary.Declined++
		case models.CollegeStatusEnrolled:
			summary.Enrolled++
		}

		if app.Status == models.CollegeStatusSubmitted && app.DecidedAt == nil {
			summary.AwaitingDecision++
		}

		switch ClassifyCollegeDeadline(&app, now) {
		case DeadlineUpcoming:
			dashboard.UpcomingDeadlines = append(dashboard.UpcomingDeadlines, app)
		case DeadlineOverdue:
			dashboard.Overdue = append(dashboard.Overdue, app)
		}
	}

	sortCollegesByDeadline(dashboard.UpcomingDeadlines)
	sortCollegesByDeadline(dashboard.Overdue)
	summary.UpcomingDeadlines = len(dashboard.UpcomingDeadlines)
	summary.Overdue = len(dashboard.Overdue)

	return dashboard
}

func sortScholarshipsByDeadline(apps []models.ScholarshipApplication) {
	sort.Slice(apps, func(i, j int) bool {
		di, dj := apps[i].Deadline.Time, apps[j].Deadline.Time
		if di.Equal(dj) {
			return apps[i].ApplicationID < apps[j].ApplicationID
		}
		return di.Before(dj)
	})
}

func sortCollegesByDeadline(apps []models.CollegeApplication) {
	sort.Slice(apps, func(i, j int) bool {
		di, dj := apps[i].Deadline.Time, apps[j].Deadline.Time
		if di.Equal(dj) {
			return apps[i].ApplicationID < apps[j].ApplicationID
		}
		return di.Before(dj)
	})
}
