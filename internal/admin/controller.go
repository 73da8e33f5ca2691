package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stage-entry-api/internal/entry"
	"stage-entry-api/internal/logs"
)

type AdminController struct {
	Service *AdminService
	LS      *logs.LogService
}

// parseFilter reads the conjunctive listing filters off the query string.
func parseFilter(c *gin.Context) EntryFilter {
	f := EntryFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Genre:  strings.TrimSpace(c.Query("genre")),
	}
	for _, s := range strings.Split(c.Query("has"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.HasStages = append(f.HasStages, entry.Stage(s))
		}
	}
	for _, s := range strings.Split(c.Query("no"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.NoStages = append(f.NoStages, entry.Stage(s))
		}
	}
	if v := strings.TrimSpace(c.Query("start_date")); v != "" {
		f.StartDate = &v
	}
	if v := strings.TrimSpace(c.Query("end_date")); v != "" {
		f.EndDate = &v
	}
	return f
}

func parseRefs(c *gin.Context, raw []string) ([]TargetRef, bool) {
	if len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no entries selected"})
		return nil, false
	}
	refs := make([]TargetRef, 0, len(raw))
	for _, s := range raw {
		ref, err := ParseTargetRef(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		refs = append(refs, ref)
	}
	return refs, true
}

func (ac *AdminController) adminID(c *gin.Context) *uint {
	raw, _ := c.Get("userID")
	if f, ok := raw.(float64); ok {
		id := uint(f)
		return &id
	}
	return nil
}

func (ac *AdminController) ListEntries(c *gin.Context) {
	rows, err := ac.Service.ListEntries(parseFilter(c))
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": rows})
}

func (ac *AdminController) BulkUpdateStatus(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	refs, ok := parseRefs(c, req.EntryIDs)
	if !ok {
		return
	}
	if !entry.ValidStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	res, err := ac.Service.BulkUpdateStatus(refs, req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update entries"})
		return
	}

	ac.LS.Log("INFO", "admin", "BULK_STATUS", "bulk status update", ac.adminID(c), gin.H{
		"status":    req.Status,
		"processed": res.Processed,
		"skipped":   res.Skipped,
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "result": res})
}

func (ac *AdminController) BulkDelete(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	refs, ok := parseRefs(c, req.EntryIDs)
	if !ok {
		return
	}

	res, err := ac.Service.BulkDelete(refs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entries"})
		return
	}

	level := "INFO"
	if len(res.Failed) > 0 || len(res.Warnings) > 0 {
		level = "WARN"
	}
	ac.LS.Log(level, "admin", "BULK_DELETE", "bulk delete", ac.adminID(c), gin.H{
		"processed": res.Processed,
		"failed":    len(res.Failed),
		"warnings":  len(res.Warnings),
	})

	// Storage cleanup failures never downgrade the success of the delete.
	c.JSON(http.StatusOK, gin.H{"success": true, "result": res})
}

func (ac *AdminController) BulkEmail(c *gin.Context) {
	var req bulkEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	refs, ok := parseRefs(c, req.EntryIDs)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject and body are required"})
		return
	}

	res, err := ac.Service.BulkEmail(refs, req.Subject, req.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send emails"})
		return
	}

	ac.LS.Log("INFO", "admin", "BULK_EMAIL", "bulk email dispatched", ac.adminID(c), gin.H{
		"sent":   res.Processed,
		"failed": len(res.Failed),
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "result": res})
}

func (ac *AdminController) ExportEntries(c *gin.Context) {
	format := strings.TrimSpace(c.DefaultQuery("format", "csv"))

	contentType, filename, data, err := ac.Service.ExportEntries(parseFilter(c), format)
	if err != nil {
		if strings.Contains(err.Error(), "unsupported format") || strings.Contains(err.Error(), "invalid") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export entries"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
