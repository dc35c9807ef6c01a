package models

import "strings"

// ScholarshipStatus is the lifecycle state of a tracked scholarship application.
type ScholarshipStatus string

const (
	ScholarshipStatusInterested  ScholarshipStatus = "interested"
	ScholarshipStatusPlanning    ScholarshipStatus = "planning"
	ScholarshipStatusInProgress  ScholarshipStatus = "in_progress"
	ScholarshipStatusSubmitted   ScholarshipStatus = "submitted"
	ScholarshipStatusAccepted    ScholarshipStatus = "accepted"
	ScholarshipStatusRejected    ScholarshipStatus = "rejected"
	ScholarshipStatusNotPursuing ScholarshipStatus = "not_pursuing"
)

// ScholarshipStatuses lists every valid scholarship status in lifecycle order.
var ScholarshipStatuses = []ScholarshipStatus{
	ScholarshipStatusInterested,
	ScholarshipStatusPlanning,
	ScholarshipStatusInProgress,
	ScholarshipStatusSubmitted,
	ScholarshipStatusAccepted,
	ScholarshipStatusRejected,
	ScholarshipStatusNotPursuing,
}

// ParseScholarshipStatus normalizes a raw status token. The second return is
// false for tokens outside the enumeration.
func ParseScholarshipStatus(raw string) (ScholarshipStatus, bool) {
	s := ScholarshipStatus(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range ScholarshipStatuses {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// IsTerminal reports whether the status is a final outcome. Terminal records
// are excluded from deadline classification and from potential value totals.
func (s ScholarshipStatus) IsTerminal() bool {
	switch s {
	case ScholarshipStatusAccepted, ScholarshipStatusRejected, ScholarshipStatusNotPursuing:
		return true
	}
	return false
}

// StampsDecision reports whether first entry into the status records the
// decision timestamp. For scholarships this is exactly the terminal set.
func (s ScholarshipStatus) StampsDecision() bool {
	return s.IsTerminal()
}

// CollegeStatus is the lifecycle state of a tracked college application.
type CollegeStatus string

const (
	CollegeStatusResearching CollegeStatus = "researching"
	CollegeStatusPlanning    CollegeStatus = "planning"
	CollegeStatusInProgress  CollegeStatus = "in_progress"
	CollegeStatusSubmitted   CollegeStatus = "submitted"
	CollegeStatusAccepted    CollegeStatus = "accepted"
	CollegeStatusWaitlisted  CollegeStatus = "waitlisted"
	CollegeStatusRejected    CollegeStatus = "rejected"
	CollegeStatusDeclined    CollegeStatus = "declined"
	CollegeStatusEnrolled    CollegeStatus = "enrolled"
)

// CollegeStatuses lists every valid college status in lifecycle order.
var CollegeStatuses = []CollegeStatus{
	CollegeStatusResearching,
	CollegeStatusPlanning,
	CollegeStatusInProgress,
	CollegeStatusSubmitted,
	CollegeStatusAccepted,
	CollegeStatusWaitlisted,
	CollegeStatusRejected,
	CollegeStatusDeclined,
	CollegeStatusEnrolled,
}

// ParseCollegeStatus normalizes a raw status token. The second return is
// false for tokens outside the enumeration.
func ParseCollegeStatus(raw string) (CollegeStatus, bool) {
	s := CollegeStatus(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range CollegeStatuses {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// IsTerminal reports whether the status is a final outcome.
func (s CollegeStatus) IsTerminal() bool {
	switch s {
	case CollegeStatusAccepted, CollegeStatusWaitlisted, CollegeStatusRejected,
		CollegeStatusDeclined, CollegeStatusEnrolled:
		return true
	}
	return false
}

// StampsDecision reports whether first entry into the status records
// decided_at. Declined and enrolled follow an earlier decision and never
// stamp it themselves.
func (s CollegeStatus) StampsDecision() bool {
	switch s {
	case CollegeStatusAccepted, CollegeStatusWaitlisted, CollegeStatusRejected:
		return true
	}
	return false
}

// ApplicationType is the admission plan of a college application.
type ApplicationType string

const (
	ApplicationTypeEarlyDecision   ApplicationType = "early_decision"
	ApplicationTypeEarlyAction     ApplicationType = "early_action"
	ApplicationTypeRegularDecision ApplicationType = "regular_decision"
	ApplicationTypeRolling         ApplicationType = "rolling"
)

// ParseApplicationType normalizes a raw application type token.
func ParseApplicationType(raw string) (ApplicationType, bool) {
	t := ApplicationType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case ApplicationTypeEarlyDecision, ApplicationTypeEarlyAction,
		ApplicationTypeRegularDecision, ApplicationTypeRolling:
		return t, true
	}
	return "", false
}
