package api

import (
	"context"
	"net/http"

	"fitvoice/internal/conversation"

	"github.com/gin-gonic/gin"
)

// Ingester adds passages to the knowledge corpus.
type Ingester interface {
	Ingest(ctx context.Context, texts []string) error
}

type KnowledgeQueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// topKAnswerer is implemented by answerers that honor a per-query passage
// count; plain Answerers fall back to their configured default.
type topKAnswerer interface {
	AnswerTopK(ctx context.Context, query string, topK int) (conversation.KnowledgeAnswer, error)
}

// POST /knowledge/query
func KnowledgeQueryHandler(answerer conversation.Answerer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req KnowledgeQueryRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Query required"}})
			return
		}
		var result conversation.KnowledgeAnswer
		var err error
		if tk, ok := answerer.(topKAnswerer); ok && req.TopK > 0 {
			result, err = tk.AnswerTopK(c.Request.Context(), req.Query, req.TopK)
		} else {
			result, err = answerer.Answer(c.Request.Context(), req.Query)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Knowledge lookup failed"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"answer":        result.Answer,
			"source":        result.Source,
			"results_count": len(result.Results),
		})
	}
}

type KnowledgeIngestRequest struct {
	Texts []string `json:"texts"`
}

// POST /knowledge/ingest  [admin only]
func KnowledgeIngestHandler(ingester Ingester) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req KnowledgeIngestRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Texts) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Texts required"}})
			return
		}
		if err := ingester.Ingest(c.Request.Context(), req.Texts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Ingest failed"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ingested": len(req.Texts)})
	}
}
