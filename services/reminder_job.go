package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"application-tracking-api/config"
	"application-tracking-api/models"

	"gorm.io/gorm"
)

// ReminderSummary reports one reminder sweep.
type ReminderSummary struct {
	ScholarshipsScanned int `json:"scholarships_scanned"`
	CollegesScanned     int `json:"colleges_scanned"`
	RemindersCreated    int `json:"reminders_created"`
	AlreadyNotified     int `json:"already_notified"`
	EmailsSent          int `json:"emails_sent"`
}

// DeadlineReminderService sweeps live tracking records and turns
// upcoming or missed deadlines into warning notifications. A record gets
// at most one notification per classification, so repeated sweeps are
// idempotent.
type DeadlineReminderService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewDeadlineReminderService(db *gorm.DB) *DeadlineReminderService {
	if db == nil {
		db = config.DB
	}
	return &DeadlineReminderService{
		db:            db,
		notifications: NewNotificationService(db),
	}
}

var scholarshipTerminalStatuses = []string{
	string(models.ScholarshipStatusAccepted),
	string(models.ScholarshipStatusRejected),
	string(models.ScholarshipStatusNotPursuing),
}

var collegeTerminalStatuses = []string{
	string(models.CollegeStatusAccepted),
	string(models.CollegeStatusWaitlisted),
	string(models.CollegeStatusRejected),
	string(models.CollegeStatusDeclined),
	string(models.CollegeStatusEnrolled),
}

// RunOnce performs a single sweep over both domains at the given time.
func (s *DeadlineReminderService) RunOnce(ctx context.Context, now time.Time) (*ReminderSummary, error) {
	summary := &ReminderSummary{}

	scholarshipTitles, institutionNames, err := s.loadCatalogNames(ctx)
	if err != nil {
		return summary, err
	}
	users := map[int]*models.User{}

	var scholarships []models.ScholarshipApplication
	err = s.db.WithContext(ctx).
		Where("delete_at IS NULL AND deadline IS NOT NULL AND status NOT IN ?", scholarshipTerminalStatuses).
		Find(&scholarships).Error
	if err != nil {
		return summary, fmt.Errorf("failed to scan scholarship deadlines: %w", err)
	}

	for i := range scholarships {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		app := &scholarships[i]
		summary.ScholarshipsScanned++

		bucket := ClassifyScholarshipDeadline(app, now)
		if bucket == DeadlineNone {
			continue
		}

		name := scholarshipTitles[app.ScholarshipID]
		if name == "" {
			name = fmt.Sprintf("scholarship #%d", app.ScholarshipID)
		}
		err := s.remind(ctx, summary, users, reminderInput{
			userID:        app.UserID,
			domain:        models.DomainScholarship,
			applicationID: app.ApplicationID,
			targetName:    name,
			deadline:      app.Deadline,
			bucket:        bucket,
			now:           now,
		})
		if err != nil {
			return summary, err
		}
	}

	var colleges []models.CollegeApplication
	err = s.db.WithContext(ctx).
		Where("delete_at IS NULL AND deadline IS NOT NULL AND status NOT IN ?", collegeTerminalStatuses).
		Find(&colleges).Error
	if err != nil {
		return summary, fmt.Errorf("failed to scan college deadlines: %w", err)
	}

	for i := range colleges {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		app := &colleges[i]
		summary.CollegesScanned++

		bucket := ClassifyCollegeDeadline(app, now)
		if bucket == DeadlineNone {
			continue
		}

		name := institutionNames[app.InstitutionID]
		if name == "" {
			name = fmt.Sprintf("institution #%d", app.InstitutionID)
		}
		err := s.remind(ctx, summary, users, reminderInput{
			userID:        app.UserID,
			domain:        models.DomainCollege,
			applicationID: app.ApplicationID,
			targetName:    name,
			deadline:      app.Deadline,
			bucket:        bucket,
			now:           now,
		})
		if err != nil {
			return summary, err
		}
	}

	return summary, nil
}

type reminderInput struct {
	userID        int
	domain        string
	applicationID int
	targetName    string
	deadline      *models.DateOnly
	bucket        DeadlineBucket
	now           time.Time
}

func (s *DeadlineReminderService) remind(ctx context.Context, summary *ReminderSummary, users map[int]*models.User, input reminderInput) error {
	title, message := reminderText(input)

	var existing int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND domain = ? AND related_application_id = ? AND title = ?",
			input.userID, input.domain, input.applicationID, title).
		Count(&existing).Error
	if err != nil {
		return fmt.Errorf("failed to check existing reminder: %w", err)
	}
	if existing > 0 {
		summary.AlreadyNotified++
		return nil
	}

	domain := input.domain
	appID := input.applicationID
	notification := models.Notification{
		UserID:               input.userID,
		Title:                title,
		Message:              message,
		Type:                 models.NotificationWarning,
		Domain:               &domain,
		RelatedApplicationID: &appID,
		CreateAt:             input.now,
	}
	if err := s.notifications.Create(&notification); err != nil {
		return err
	}
	summary.RemindersCreated++

	user, err := s.lookupUser(ctx, users, input.userID)
	if err != nil {
		return err
	}
	if user != nil && user.Email != "" {
		html := buildNotificationEmailHTML(title, user.DisplayName(), message)
		sendMailSafe([]string{user.Email}, title, html)
		summary.EmailsSent++
	}
	return nil
}

func reminderText(input reminderInput) (string, string) {
	due := ""
	if input.deadline != nil {
		due = input.deadline.String()
	}
	if input.bucket == DeadlineOverdue {
		title := fmt.Sprintf("%s deadline passed", titleCaseDomain(input.domain))
		return title, fmt.Sprintf("The deadline for %q passed on %s.", input.targetName, due)
	}
	title := fmt.Sprintf("%s deadline approaching", titleCaseDomain(input.domain))
	return title, fmt.Sprintf("%q is due on %s.", input.targetName, due)
}

// lookupUser caches identity rows for the duration of one sweep. A user
// absent from the cache table just skips the email.
func (s *DeadlineReminderService) lookupUser(ctx context.Context, users map[int]*models.User, userID int) (*models.User, error) {
	if user, ok := users[userID]; ok {
		return user, nil
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			users[userID] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	users[userID] = &user
	return &user, nil
}

func (s *DeadlineReminderService) loadCatalogNames(ctx context.Context) (map[int]string, map[int]string, error) {
	var scholarships []models.Scholarship
	if err := s.db.WithContext(ctx).Find(&scholarships).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load scholarship catalog: %w", err)
	}
	var institutions []models.Institution
	if err := s.db.WithContext(ctx).Find(&institutions).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load institution catalog: %w", err)
	}

	scholarshipTitles := make(map[int]string, len(scholarships))
	for _, sch := range scholarships {
		scholarshipTitles[sch.ScholarshipID] = sch.Title
	}
	institutionNames := make(map[int]string, len(institutions))
	for _, inst := range institutions {
		institutionNames[inst.InstitutionID] = inst.Name
	}
	return scholarshipTitles, institutionNames, nil
}
