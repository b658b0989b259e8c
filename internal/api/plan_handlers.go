package api

import (
	"net/http"
	"strconv"

	"fitvoice/internal/db"
	"fitvoice/internal/feedback"
	"fitvoice/internal/plan"

	"github.com/gin-gonic/gin"
)

// GET /plans?limit=20
func ListPlansHandler(plans *plan.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Not authenticated"}})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		records, err := plans.History(conversationUserID(userID), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load plans"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"plans": records})
	}
}

type FeedbackRequest struct {
	PlanID  *uint  `json:"plan_id,omitempty"`
	Message string `json:"message"`
}

// POST /feedback
func CreateFeedbackHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Not authenticated"}})
			return
		}
		var req FeedbackRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Message required"}})
			return
		}
		fb := feedback.Feedback{
			UserID:  userID,
			PlanID:  req.PlanID,
			Message: req.Message,
			Status:  feedback.StatusNew,
		}
		if err := db.DB.Create(&fb).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to save feedback"}})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"id":           fb.ID,
			"status":       fb.Status,
			"submitted_at": fb.CreatedAt,
		})
	}
}

// GET /feedback  [admin only]
func ListFeedbackHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("userRole")
		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
			return
		}
		var items []feedback.Feedback
		if err := db.DB.Order("created_at DESC").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "List error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"feedback": items})
	}
}
