package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/config"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

// ListNotificationsHandler returns the current user's notifications, newest
// first, optionally filtered to unread only.
func ListNotificationsHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	query := config.DB.Model(&models.Notification{}).Where("recipient_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("read_at IS NULL")
	}

	var totalRows int64
	query.Count(&totalRows)

	var items []models.Notification
	if err := query.Order("created_at desc").Scopes(Paginate(c)).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, items, totalRows))
}

// UnreadCountHandler returns the number of unread notifications for the
// current user, for badge rendering.
func UnreadCountHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var count int64
	config.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Count(&count)
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationReadHandler marks one of the current user's notifications
// as read. The transition is one-way: re-marking an already-read
// notification does not move its read timestamp.
func MarkNotificationReadHandler(c *gin.Context) {
	userID := c.GetUint("user_id")
	id := c.Param("id")

	var n models.Notification
	if err := config.DB.Where("id = ? AND recipient_id = ?", id, userID).First(&n).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	if !n.IsRead() {
		now := time.Now()
		if err := config.DB.Model(&n).Update("read_at", &now).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update notification"})
			return
		}
	}
	c.JSON(http.StatusOK, n)
}

// MarkAllNotificationsReadHandler marks every unread notification of the
// current user as read.
func MarkAllNotificationsReadHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	now := time.Now()
	result := config.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Update("read_at", &now)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": result.RowsAffected})
}
