package prompt

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	portprompt "github.com/okwan/promptvault/internal/port/prompt"
	promptsvc "github.com/okwan/promptvault/internal/service/prompt"
	"github.com/okwan/promptvault/internal/transport"
)

// Register mounts the prompt CRUD REST endpoints on the given router group.
// [SRP] HTTP handling only — validation and lifecycle live in the service.
func Register(rg *gin.RouterGroup, svc *promptsvc.Service) {
	rg.GET("", listPrompts(svc))
	rg.POST("", createPrompt(svc))
	rg.GET("/:id", getPrompt(svc))
	rg.PUT("/:id", updatePrompt(svc))
	rg.DELETE("/:id", deletePrompt(svc))
}

type promptReq struct {
	Name    string  `json:"name"`
	Content string  `json:"content"`
	Tags    *string `json:"tags"`
}

func listPrompts(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		prompts, err := svc.List(c.Request.Context(), transport.Owner(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch prompts"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"prompts": prompts})
	}
}

func createPrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req promptReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		p, err := svc.Create(c.Request.Context(), transport.Owner(c), req.Name, req.Content, req.Tags)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, promptsvc.ErrInvalid) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"prompt": p})
	}
}

func getPrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prompt id"})
			return
		}

		p, err := svc.Get(c.Request.Context(), id, transport.Owner(c))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, portprompt.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"prompt": p})
	}
}

func updatePrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prompt id"})
			return
		}

		var req promptReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		p, err := svc.Update(c.Request.Context(), id, transport.Owner(c), req.Name, req.Content, req.Tags)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, promptsvc.ErrInvalid):
				status = http.StatusBadRequest
			case errors.Is(err, portprompt.ErrNotFound):
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"prompt": p})
	}
}

func deletePrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prompt id"})
			return
		}

		if err := svc.Delete(c.Request.Context(), id, transport.Owner(c)); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, portprompt.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
