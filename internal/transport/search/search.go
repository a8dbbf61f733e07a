package search

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okwan/promptvault/internal/port/ai"
	searchsvc "github.com/okwan/promptvault/internal/service/search"
	"github.com/okwan/promptvault/internal/transport"
)

// Register mounts the semantic search endpoint on the given router group.
func Register(rg *gin.RouterGroup, svc *searchsvc.Service) {
	rg.POST("", searchPrompts(svc))
}

type searchReq struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func searchPrompts(svc *searchsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req searchReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		matches, err := svc.Search(c.Request.Context(), transport.Owner(c), req.Query, req.Limit)
		if err != nil {
			switch {
			case errors.Is(err, searchsvc.ErrEmptyQuery):
				c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
			case errors.Is(err, ai.ErrEmbedding):
				c.JSON(http.StatusBadGateway, gin.H{"error": "search is temporarily unavailable"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"prompts": matches})
	}
}
