package deadline

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stage-entry-api/internal/entry"
)

type DeadlineController struct {
	Service *DeadlineService
}

// GetDeadlines returns every stage's deadline state.
func (dc *DeadlineController) GetDeadlines(c *gin.Context) {
	overview, err := dc.Service.Overview(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load deadlines"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deadlines": overview})
}

type setDeadlineRequest struct {
	Stage string `json:"stage"`
	Value string `json:"value"`
}

// SetDeadline updates one stage deadline. Empty value clears it.
func (dc *DeadlineController) SetDeadline(c *gin.Context) {
	var req setDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	stage := entry.Stage(strings.TrimSpace(req.Stage))
	known := false
	for _, s := range entry.AllStages {
		if s == stage {
			known = true
			break
		}
	}
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown stage"})
		return
	}
	if v := strings.TrimSpace(req.Value); v != "" {
		if _, ok := parseDeadline(v); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline value"})
			return
		}
	}

	if err := dc.Service.SetDeadline(Key(stage), strings.TrimSpace(req.Value)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save deadline"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
