package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"application-tracking-api/models"
	"application-tracking-api/services"

	"github.com/gin-gonic/gin"
)

// getCurrentUserID reads the authenticated user id set by the auth
// middleware.
func getCurrentUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	switch id := value.(type) {
	case int:
		return id, id > 0
	case uint:
		return int(id), id > 0
	case float64:
		return int(id), id > 0
	}
	return 0, false
}

func getCurrentUserEmail(c *gin.Context) string {
	if value, exists := c.Get("email"); exists {
		if email, ok := value.(string); ok {
			return email
		}
	}
	return ""
}

func getCurrentDisplayName(c *gin.Context) string {
	if value, exists := c.Get("displayName"); exists {
		if name, ok := value.(string); ok {
			return name
		}
	}
	return ""
}

// parseRecordID turns the :id path segment into an int. Anything that
// is not a positive integer cannot name a record, so it reads as 404.
func parseRecordID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return 0, false
	}
	return id, true
}

// respondStoreError translates service sentinels into response codes.
// Unrecognized errors are logged and answered with a generic 500.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
	case errors.Is(err, services.ErrDuplicateTracking):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("tracking request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// expectedVersion extracts the optimistic concurrency token: an If-Match
// header from a previous read's ETag, or an explicit version field in
// the body. Absent both, the write is last-write-wins.
func expectedVersion(c *gin.Context, bodyVersion *int) *int {
	if bodyVersion != nil {
		return bodyVersion
	}

	raw := strings.TrimSpace(c.GetHeader("If-Match"))
	if raw == "" {
		return nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	raw = strings.TrimPrefix(raw, "v")
	if version, err := strconv.Atoi(raw); err == nil {
		return &version
	}
	return nil
}

func setRecordETag(c *gin.Context, version int) {
	c.Header("ETag", fmt.Sprintf(`W/"v%d"`, version))
}

// parseDeadline parses an optional YYYY-MM-DD field. An empty string
// means "not provided" and returns nil.
func parseDeadline(raw string) (*models.DateOnly, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := models.ParseDateOnly(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a valid date (want YYYY-MM-DD)", services.ErrValidation, raw)
	}
	return &parsed, nil
}
