package services

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"application-tracking-api/config"
	"application-tracking-api/models"

	"gorm.io/gorm"
)

// NotificationService persists in-app notifications and mirrors the
// important ones to email. Email delivery is asynchronous and best
// effort: a failed send is logged, never surfaced to the caller.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{db: db}
}

// DecisionInput describes a decision stamp worth telling the owner about.
type DecisionInput struct {
	UserID        int
	Email         string
	RecipientName string
	Domain        string
	ApplicationID int
	TargetName    string
	Status        string
	AwardAmount   *float64
	Now           time.Time
}

// NotifyDecision records an in-app notification for a freshly stamped
// decision and emails the owner when an address is known.
func (s *NotificationService) NotifyDecision(input DecisionInput) error {
	title := fmt.Sprintf("%s decision: %s", titleCaseDomain(input.Domain), input.Status)
	message := fmt.Sprintf("Your %s application for %q is now %s.", input.Domain, input.TargetName, input.Status)
	if input.AwardAmount != nil {
		message += fmt.Sprintf(" Recorded award amount: %.2f.", *input.AwardAmount)
	}

	domain := input.Domain
	appID := input.ApplicationID
	notification := models.Notification{
		UserID:               input.UserID,
		Title:                title,
		Message:              message,
		Type:                 notificationTypeForStatus(input.Status),
		Domain:               &domain,
		RelatedApplicationID: &appID,
		CreateAt:             input.Now,
	}
	if err := s.Create(&notification); err != nil {
		return err
	}

	if input.Email != "" {
		recipient := input.RecipientName
		email := input.Email
		go func() {
			html := buildNotificationEmailHTML(title, recipient, message)
			sendMailSafe([]string{email}, title, html)
		}()
	}
	return nil
}

// Create persists a notification row.
func (s *NotificationService) Create(notification *models.Notification) error {
	if notification.UserID <= 0 {
		return fmt.Errorf("%w: notification needs a user", ErrValidation)
	}
	if notification.Type == "" {
		notification.Type = models.NotificationInfo
	}
	if notification.CreateAt.IsZero() {
		notification.CreateAt = time.Now()
	}
	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// List returns a page of the owner's notifications, newest first, plus
// the total matching count for pagination.
func (s *NotificationService) List(ownerID int, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", ownerID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	items := make([]models.Notification, 0)
	err := query.
		Order("create_at DESC, notification_id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, total, nil
}

// CountUnread returns how many of the owner's notifications are unread.
func (s *NotificationService) CountUnread(ownerID int) (int64, error) {
	var unread int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", ownerID, false).
		Count(&unread).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return unread, nil
}

// MarkRead marks one of the owner's notifications as read. Reading an
// already-read notification is a no-op.
func (s *NotificationService) MarkRead(ownerID int, notificationID uint, now time.Time) (*models.Notification, error) {
	var notification models.Notification
	err := s.db.
		Where("notification_id = ? AND user_id = ?", notificationID, ownerID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}

	if !notification.IsRead {
		notification.IsRead = true
		readAt := now
		notification.ReadAt = &readAt
		notification.UpdateAt = &readAt
		if err := s.db.Save(&notification).Error; err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
	}
	return &notification, nil
}

// MarkAllRead marks every unread notification of the owner as read and
// returns how many rows changed.
func (s *NotificationService) MarkAllRead(ownerID int, now time.Time) (int64, error) {
	res := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", ownerID, false).
		Updates(map[string]interface{}{
			"is_read":   true,
			"read_at":   now,
			"update_at": now,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func notificationTypeForStatus(status string) string {
	switch status {
	case string(models.ScholarshipStatusAccepted), string(models.CollegeStatusEnrolled):
		return models.NotificationSuccess
	case string(models.ScholarshipStatusRejected), string(models.CollegeStatusDeclined):
		return models.NotificationError
	case string(models.ScholarshipStatusNotPursuing), string(models.CollegeStatusWaitlisted):
		return models.NotificationWarning
	default:
		return models.NotificationInfo
	}
}

func titleCaseDomain(domain string) string {
	switch domain {
	case models.DomainScholarship:
		return "Scholarship"
	case models.DomainCollege:
		return "College"
	}
	return domain
}

// buildNotificationEmailHTML renders the plain transactional template
// used for every outgoing notification email.
func buildNotificationEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "applicant"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}

func sendMailSafe(to []string, subject, html string) {
	if err := config.SendMail(to, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}
