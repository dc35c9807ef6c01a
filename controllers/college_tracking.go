package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"application-tracking-api/models"
	"application-tracking-api/services"
	"application-tracking-api/utils"

	"github.com/gin-gonic/gin"
)

// GetCollegeDashboard returns the owner's college summary plus deadline
// and application lists, computed fresh on every call.
func GetCollegeDashboard(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	store := services.NewCollegeTrackingStore(nil)
	apps, err := store.List(userID, services.TrackingFilter{})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	dashboard := services.BuildCollegeDashboard(apps, time.Now())
	syncPortalFlags(dashboard.Applications)
	syncPortalFlags(dashboard.UpcomingDeadlines)
	syncPortalFlags(dashboard.Overdue)

	c.JSON(http.StatusOK, dashboard)
}

// ListCollegeTracking returns the owner's tracked institutions.
func ListCollegeTracking(c *gin.Context) {
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

	store := services.NewCollegeTrackingStore(nil)
	apps, err := store.List(userID, filter)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	syncPortalFlags(apps)

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"total":        len(apps),
	})
}

// CreateCollegeTracking starts tracking an institution from the catalog.
func CreateCollegeTracking(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		InstitutionID     int      `json:"institution_id" binding:"required"`
		Status            string   `json:"status"`
		ApplicationType   string   `json:"application_type"`
		Deadline          string   `json:"deadline"`
		DecisionDate      string   `json:"decision_date"`
		ApplicationFee    *float64 `json:"application_fee"`
		FeeWaiverObtained *bool    `json:"fee_waiver_obtained"`
		ApplicationPortal *string  `json:"application_portal"`
		PortalURL         *string  `json:"portal_url"`
		PortalUsername    *string  `json:"portal_username"`
		PortalPassword    *string  `json:"portal_password"`
		Notes             *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.CollegeStatusResearching
	if req.Status != "" {
		parsed, valid := models.ParseCollegeStatus(req.Status)
		if !valid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid college status"})
			return
		}
		status = parsed
	}

	applicationType := models.ApplicationTypeRegularDecision
	if req.ApplicationType != "" {
		parsed, valid := models.ParseApplicationType(req.ApplicationType)
		if !valid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid application type"})
			return
		}
		applicationType = parsed
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	decisionDate, err := parseDeadline(req.DecisionDate)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	catalog := services.NewCatalogService(nil)
	institution, err := catalog.GetInstitution(req.InstitutionID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Institution not found"})
			return
		}
		respondStoreError(c, err)
		return
	}

	now := time.Now()
	app := models.CollegeApplication{
		InstitutionID:     req.InstitutionID,
		Status:            status,
		ApplicationType:   applicationType,
		SavedAt:           now,
		Deadline:          deadline,
		DecisionDate:      decisionDate,
		ApplicationFee:    req.ApplicationFee,
		ApplicationPortal: req.ApplicationPortal,
		PortalURL:         req.PortalURL,
		PortalUsername:    req.PortalUsername,
		Notes:             req.Notes,
	}
	if req.FeeWaiverObtained != nil {
		app.FeeWaiverObtained = *req.FeeWaiverObtained
	}
	if req.PortalPassword != nil && *req.PortalPassword != "" {
		sealed, err := utils.EncryptPortalPassword(*req.PortalPassword)
		if err != nil {
			log.Printf("failed to encrypt portal password: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		app.PortalPasswordEnc = sealed
	}

	result := services.StampCollegeCreation(&app, now)

	store := services.NewCollegeTrackingStore(nil)
	if err := store.Create(userID, &app, now); err != nil {
		respondStoreError(c, err)
		return
	}

	if result.DecisionStamped {
		notifyCollegeDecision(c, &app, institution.Name, now)
	}

	app.PortalPasswordSet = len(app.PortalPasswordEnc) > 0
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application created successfully",
		"application": app,
	})
}

// GetCollegeTracking returns one tracked institution.
func GetCollegeTracking(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	store := services.NewCollegeTrackingStore(nil)
	app, err := store.Get(userID, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	app.PortalPasswordSet = len(app.PortalPasswordEnc) > 0
	setRecordETag(c, app.Version)
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// UpdateCollegeTracking patches the provided fields. A status field runs
// through the transition engine so timestamps stamp exactly once.
func UpdateCollegeTracking(c *gin.Context) {
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
		Status             *string  `json:"status"`
		ApplicationType    *string  `json:"application_type"`
		Deadline           *string  `json:"deadline"`
		DecisionDate       *string  `json:"decision_date"`
		ActualDecisionDate *string  `json:"actual_decision_date"`
		ApplicationFee     *float64 `json:"application_fee"`
		FeeWaiverObtained  *bool    `json:"fee_waiver_obtained"`
		ApplicationPortal  *string  `json:"application_portal"`
		PortalURL          *string  `json:"portal_url"`
		PortalUsername     *string  `json:"portal_username"`
		PortalPassword     *string  `json:"portal_password"`
		Notes              *string  `json:"notes"`
		Version            *int     `json:"version"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := services.NewCollegeTrackingStore(nil)
	app, err := store.Get(userID, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	now := time.Now()

	if req.ApplicationType != nil {
		parsed, valid := models.ParseApplicationType(*req.ApplicationType)
		if !valid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid application type"})
			return
		}
		app.ApplicationType = parsed
	}
	if !applyDateField(c, req.Deadline, &app.Deadline) {
		return
	}
	if !applyDateField(c, req.DecisionDate, &app.DecisionDate) {
		return
	}
	if !applyDateField(c, req.ActualDecisionDate, &app.ActualDecisionDate) {
		return
	}
	if req.ApplicationFee != nil {
		app.ApplicationFee = req.ApplicationFee
	}
	if req.FeeWaiverObtained != nil {
		app.FeeWaiverObtained = *req.FeeWaiverObtained
	}
	if req.ApplicationPortal != nil {
		app.ApplicationPortal = req.ApplicationPortal
	}
	if req.PortalURL != nil {
		app.PortalURL = req.PortalURL
	}
	if req.PortalUsername != nil {
		app.PortalUsername = req.PortalUsername
	}
	if req.PortalPassword != nil {
		if *req.PortalPassword == "" {
			app.PortalPasswordEnc = nil
		} else {
			sealed, err := utils.EncryptPortalPassword(*req.PortalPassword)
			if err != nil {
				log.Printf("failed to encrypt portal password: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			app.PortalPasswordEnc = sealed
		}
	}
	if req.Notes != nil {
		app.Notes = req.Notes
	}

	previous := app.Status
	result := services.TransitionResult{}
	if req.Status != nil {
		result, err = services.ApplyCollegeStatus(app, *req.Status, now)
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
		notifyCollegeDecision(c, app, "", now)
	}

	app.PortalPasswordSet = len(app.PortalPasswordEnc) > 0
	c.JSON(http.StatusOK, gin.H{
		"message":     "Application updated successfully",
		"application": app,
	})
}

// DeleteCollegeTracking stops tracking an institution.
func DeleteCollegeTracking(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	store := services.NewCollegeTrackingStore(nil)
	if err := store.Delete(userID, id, time.Now()); err != nil {
		respondStoreError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkCollegeSubmitted flips the record to submitted.
func MarkCollegeSubmitted(c *gin.Context) {
	markCollegeStatus(c, models.CollegeStatusSubmitted)
}

// MarkCollegeAccepted flips the record to accepted.
func MarkCollegeAccepted(c *gin.Context) {
	markCollegeStatus(c, models.CollegeStatusAccepted)
}

// MarkCollegeRejected flips the record to rejected.
func MarkCollegeRejected(c *gin.Context) {
	markCollegeStatus(c, models.CollegeStatusRejected)
}

// MarkCollegeWaitlisted flips the record to waitlisted.
func MarkCollegeWaitlisted(c *gin.Context) {
	markCollegeStatus(c, models.CollegeStatusWaitlisted)
}

func markCollegeStatus(c *gin.Context, status models.CollegeStatus) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	store := services.NewCollegeTrackingStore(nil)
	app, err := store.Get(userID, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	now := time.Now()
	previous := app.Status
	result, err := services.ApplyCollegeStatus(app, string(status), now)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if err := store.Update(userID, app, previous, nil, now); err != nil {
		respondStoreError(c, err)
		return
	}

	if result.DecisionStamped {
		notifyCollegeDecision(c, app, "", now)
	}

	app.PortalPasswordSet = len(app.PortalPasswordEnc) > 0
	c.JSON(http.StatusOK, gin.H{
		"message":     "Application updated successfully",
		"application": app,
	})
}

// applyDateField patches one optional date field: absent leaves it
// alone, empty string clears it, a date replaces it. Returns false
// after responding when the value does not parse.
func applyDateField(c *gin.Context, raw *string, field **models.DateOnly) bool {
	if raw == nil {
		return true
	}
	if *raw == "" {
		*field = nil
		return true
	}
	parsed, err := parseDeadline(*raw)
	if err != nil {
		respondStoreError(c, err)
		return false
	}
	*field = parsed
	return true
}

func syncPortalFlags(apps []models.CollegeApplication) {
	for i := range apps {
		apps[i].PortalPasswordSet = len(apps[i].PortalPasswordEnc) > 0
	}
}

// notifyCollegeDecision records the decision notification. The catalog
// name is looked up when the caller does not already have it.
func notifyCollegeDecision(c *gin.Context, app *models.CollegeApplication, name string, now time.Time) {
	if name == "" {
		catalog := services.NewCatalogService(nil)
		if institution, err := catalog.GetInstitution(app.InstitutionID); err == nil {
			name = institution.Name
		} else {
			name = fmt.Sprintf("institution #%d", app.InstitutionID)
		}
	}

	notifier := services.NewNotificationService(nil)
	err := notifier.NotifyDecision(services.DecisionInput{
		UserID:        app.UserID,
		Email:         getCurrentUserEmail(c),
		RecipientName: getCurrentDisplayName(c),
		Domain:        models.DomainCollege,
		ApplicationID: app.ApplicationID,
		TargetName:    name,
		Status:        string(app.Status),
		Now:           now,
	})
	if err != nil {
		log.Printf("failed to record college decision notification: %v", err)
	}
}
