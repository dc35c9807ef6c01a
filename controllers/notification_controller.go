package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"application-tracking-api/services"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's notifications, newest first.
// Supports unreadOnly, limit (max 100) and offset query params.
func GetNotifications(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unreadOnly := strings.TrimSpace(c.Query("unreadOnly"))
	limit := 20
	offset := 0
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("limit"))); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("offset"))); err == nil && v >= 0 {
		offset = v
	}

	service := services.NewNotificationService(nil)
	items, total, err := service.List(userID, unreadOnly == "1" || strings.EqualFold(unreadOnly, "true"), limit, offset)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
	})
}

// GetNotificationCounter returns the caller's unread count.
func GetNotificationCounter(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	service := services.NewNotificationService(nil)
	unread, err := service.CountUnread(userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": unread})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	service := services.NewNotificationService(nil)
	notification, err := service.MarkRead(userID, uint(id), time.Now())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "notification": notification})
}

// MarkAllNotificationsRead marks every unread notification of the
// caller as read.
func MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	service := services.NewNotificationService(nil)
	updated, err := service.MarkAllRead(userID, time.Now())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": updated})
}
