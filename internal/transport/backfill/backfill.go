package backfill

import (
	"net/http"

	"github.com/gin-gonic/gin"

	backfillsvc "github.com/okwan/promptvault/internal/service/backfill"
	"github.com/okwan/promptvault/internal/transport"
)

// Register mounts the enrichment backfill endpoint on the given router group.
func Register(rg *gin.RouterGroup, coord *backfillsvc.Coordinator) {
	rg.POST("", runBackfill(coord))
}

type backfillResp struct {
	Message string `json:"message"`
	backfillsvc.Summary
}

// runBackfill always answers 200 with a summary when the pass ran — even if
// every record in it failed. Only a pass that could not run at all is a 500.
func runBackfill(coord *backfillsvc.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := coord.Run(c.Request.Context(), transport.Owner(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "backfill failed"})
			return
		}

		message := "Backfill complete"
		if summary.Total == 0 {
			message = "No prompts to backfill"
		}
		c.JSON(http.StatusOK, backfillResp{Message: message, Summary: summary})
	}
}
