package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"application-tracking-api/models"
	"application-tracking-api/services"

	"github.com/gin-gonic/gin"
)

// GetScholarshipDashboard returns the owner's scholarship summary plus
// deadline and application lists, computed fresh on every call.
func GetScholarshipDashboard(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	store := services.NewScholarshipTrackingStore(nil)
	apps, err := store.List(userID, services.TrackingFilter{})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.BuildScholarshipDashboard(apps, time.Now()))
}

// ListScholarshipTracking returns the owner's tracked scholarships.
func ListScholarshipTracking(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	filter := services.TrackingFilter{
		Status:    c.Query("status"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	store := services.NewScholarshipTrackingStore(nil)
	apps, err := store.List(userID, filter)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"total":        len(apps),
	})
}

// CreateScholarshipTracking starts tracking a scholarship from the
// catalog. Deadline and potential value default to the catalog entry
// when the caller leaves them out.
func CreateScholarshipTracking(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		ScholarshipID  int      `json:"scholarship_id" binding:"required"`
		Status         string   `json:"status"`
		Deadline       string   `json:"deadline"`
		PotentialValue *float64 `json:"potential_value"`
		Notes          *string  `json:"notes"`
		EssayStatus    *string  `json:"essay_status"`
		ApplicationURL *string  `json:"application_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.ScholarshipStatusInterested
	if req.Status != "" {
		parsed, valid := models.ParseScholarshipStatus(req.Status)
		if !valid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid scholarship status"})
			return
		}
		status = parsed
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	catalog := services.NewCatalogService(nil)
	scholarship, err := catalog.GetScholarship(req.ScholarshipID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scholarship not found"})
			return
		}
		respondStoreError(c, err)
		return
	}

	// Inherit catalog defaults for fields the caller omitted
	if deadline == nil && scholarship.Deadline != nil {
		inherited := *scholarship.Deadline
		deadline = &inherited
	}
	potentialValue := req.PotentialValue
	if potentialValue == nil && scholarship.AmountMax != nil {
		inherited := *scholarship.AmountMax
		potentialValue = &inherited
	}

	now := time.Now()
	app := models.ScholarshipApplication{
		ScholarshipID:  req.ScholarshipID,
		Status:         status,
		SavedAt:        now,
		Deadline:       deadline,
		PotentialValue: potentialValue,
		Notes:          req.Notes,
		EssayStatus:    req.EssayStatus,
		ApplicationURL: req.ApplicationURL,
	}
	result := services.StampScholarshipCreation(&app, now)

	store := services.NewScholarshipTrackingStore(nil)
	if err := store.Create(userID, &app, now); err != nil {
		respondStoreError(c, err)
		return
	}

	if result.DecisionStamped {
		notifyScholarshipDecision(c, &app, scholarship.Title, now)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application created successfully",
		"application": app,
	})
}

// GetScholarshipTracking returns one tracked scholarship.
func GetScholarshipTracking(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	store := services.NewScholarshipTrackingStore(nil)
	app, err := store.Get(userID, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	setRecordETag(c, app.Version)
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// UpdateScholarshipTracking patches the provided fields. A status field
// runs through the transition engine so timestamps stamp exactly once.
func UpdateScholarshipTracking(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	var req struct {
		Status         *string  `json:"status"`
		Deadline       *string  `json:"deadline"`
		PotentialValue *float64 `json:"potential_value"`
		AwardAmount    *float64 `json:"award_amount"`
		Notes          *string  `json:"notes"`
		EssayStatus    *string  `json:"essay_status"`
		ApplicationURL *string  `json:"application_url"`
		Version        *int     `json:"version"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := services.NewScholarshipTrackingStore(nil)
	app, err := store.Get(userID, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	now := time.Now()

	if req.Deadline != nil {
		if *req.Deadline == "" {
			app.Deadline = nil
		} else {
			deadline, err := parseDeadline(*req.Deadline)
			if err != nil {
				respondStoreError(c, err)
				return
			}
			app.Deadline = deadline
		}
	}
	if req.PotentialValue != nil {
		app.PotentialValue = req.PotentialValue
	}
	if req.AwardAmount != nil {
		app.AwardAmount = req.AwardAmount
	}
	if req.Notes != nil {
		app.Notes = req.Notes
	}
	if req.EssayStatus != nil {
		app.EssayStatus = req.EssayStatus
	}
	if req.ApplicationURL != nil {
		app.ApplicationURL = req.ApplicationURL
	}

	previous := app.Status
	result := services.TransitionResult{}
	if req.Status != nil {
		result, err = services.ApplyScholarshipStatus(app, *req.Status, now)
		if err != nil {
			respondStoreError(c, err)
			return
		}
	}

	if err := store.Update(userID, app, previous, expectedVersion(c, req.Version), now); err != nil {
		respondStoreError(c, err)
		return
	}

	if result.DecisionStamped {
		notifyScholarshipDecision(c, app, "", now)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application updated successfully",
		"application": app,
	})
}

// DeleteScholarshipTracking stops tracking a scholarship.
func DeleteScholarshipTracking(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	store := services.NewScholarshipTrackingStore(nil)
	if err := store.Delete(userID, id, time.Now()); err != nil {
		respondStoreError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkScholarshipSubmitted flips the record to submitted.
func MarkScholarshipSubmitted(c *gin.Context) {
	markScholarshipStatus(c, models.ScholarshipStatusSubmitted, nil)
}

// MarkScholarshipAccepted flips the record to accepted, recording an
// award amount when one is supplied.
func MarkScholarshipAccepted(c *gin.Context) {
	award, ok := readAwardAmount(c)
	if !ok {
		return
	}
	markScholarshipStatus(c, models.ScholarshipStatusAccepted, award)
}

// MarkScholarshipRejected flips the record to rejected.
func MarkScholarshipRejected(c *gin.Context) {
	markScholarshipStatus(c, models.ScholarshipStatusRejected, nil)
}

func markScholarshipStatus(c *gin.Context, status models.ScholarshipStatus, award *float64) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	store := services.NewScholarshipTrackingStore(nil)
	app, err := store.Get(userID, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	now := time.Now()
	if award != nil {
		app.AwardAmount = award
	}

	previous := app.Status
	result, err := services.ApplyScholarshipStatus(app, string(status), now)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if err := store.Update(userID, app, previous, nil, now); err != nil {
		respondStoreError(c, err)
		return
	}

	if result.DecisionStamped {
		notifyScholarshipDecision(c, app, "", now)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application updated successfully",
		"application": app,
	})
}

// readAwardAmount accepts the award either as a query param or as a
// small JSON body, both optional.
func readAwardAmount(c *gin.Context) (*float64, bool) {
	if raw := c.Query("award_amount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "award_amount must be a number"})
			return nil, false
		}
		return &amount, true
	}

	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil, true
	}
	var req struct {
		AwardAmount *float64 `json:"award_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return req.AwardAmount, true
}

// notifyScholarshipDecision records the decision notification. The
// catalog title is looked up when the caller does not already have it.
func notifyScholarshipDecision(c *gin.Context, app *models.ScholarshipApplication, title string, now time.Time) {
	if title == "" {
		catalog := services.NewCatalogService(nil)
		if scholarship, err := catalog.GetScholarship(app.ScholarshipID); err == nil {
			title = scholarship.Title
		} else {
			title = fmt.Sprintf("scholarship #%d", app.ScholarshipID)
		}
	}

	notifier := services.NewNotificationService(nil)
	err := notifier.NotifyDecision(services.DecisionInput{
		UserID:        app.UserID,
		Email:         getCurrentUserEmail(c),
		RecipientName: getCurrentDisplayName(c),
		Domain:        models.DomainScholarship,
		ApplicationID: app.ApplicationID,
		TargetName:    title,
		Status:        string(app.Status),
		AwardAmount:   app.AwardAmount,
		Now:           now,
	})
	if err != nil {
		log.Printf("failed to record scholarship decision notification: %v", err)
	}
}
