package api

import (
	"net/http"
	"strconv"

	"fitvoice/internal/conversation"

	"github.com/gin-gonic/gin"
)

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	idVal, exists := c.Get("userId")
	if !exists {
		return 0, false
	}
	switch v := idVal.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// The conversation engine keys state by an opaque user id string.
func conversationUserID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

type ConverseRequest struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}

// POST /assistant/converse
func ConverseHandler(engine *conversation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Not authenticated"}})
			return
		}
		var req ConverseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		topic, err := conversation.ParseTopic(req.Topic)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Unknown topic; use 'diet' or 'fitness'"}})
			return
		}
		reply, err := engine.NextPrompt(c.Request.Context(), conversationUserID(userID), topic, req.Text)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Conversation error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"reply": reply,
			"topic": string(topic),
		})
	}
}

type ResetRequest struct {
	Topic string `json:"topic"`
}

// POST /assistant/reset
func ResetConversationHandler(engine *conversation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Not authenticated"}})
			return
		}
		var req ResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		topic, err := conversation.ParseTopic(req.Topic)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Unknown topic; use 'diet' or 'fitness'"}})
			return
		}
		engine.Reset(conversationUserID(userID), topic)
		c.JSON(http.StatusOK, gin.H{"message": "Conversation reset", "topic": string(topic)})
	}
}

// GET /assistant/answers?topic=diet
func AnswersHandler(engine *conversation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Not authenticated"}})
			return
		}
		topic, err := conversation.ParseTopic(c.DefaultQuery("topic", "diet"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Unknown topic; use 'diet' or 'fitness'"}})
			return
		}
		answers := engine.Answers(conversationUserID(userID), topic)
		c.JSON(http.StatusOK, gin.H{
			"topic":   string(topic),
			"answers": answers,
		})
	}
}
