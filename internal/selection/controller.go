package selection

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stage-entry-api/internal/entry"
	"stage-entry-api/internal/logs"
)

type SelectionController struct {
	Service *SelectionService
	LS      *logs.LogService
}

type createSelectionRequest struct {
	EntryID uint   `json:"entry_id"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
	Status  string `json:"status"`
}

func (sc *SelectionController) CreateSelection(c *gin.Context) {
	var req createSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EntryID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Status != "" && !entry.ValidStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	adminID, _ := c.Get("userID")
	adminIDFloat, ok := adminID.(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return
	}

	sel := &Selection{
		EntryID: req.EntryID,
		AdminID: uint(adminIDFloat),
		Score:   req.Score,
		Comment: req.Comment,
		Status:  req.Status,
	}
	if err := sc.Service.Create(sel); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save selection"})
		return
	}

	uid := uint(adminIDFloat)
	sc.LS.Log("INFO", "selection", "CREATE_SELECTION", "selection recorded", &uid, map[string]interface{}{
		"entry_id": req.EntryID,
		"score":    req.Score,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "selection": sel})
}

func (sc *SelectionController) GetSelections(c *gin.Context) {
	entryID, err := strconv.ParseUint(c.Param("entryId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	latest, err := sc.Service.LatestForEntry(uint(entryID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load selections"})
		return
	}
	history, err := sc.Service.HistoryForEntry(uint(entryID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load selections"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"latest": latest, "history": history})
}
