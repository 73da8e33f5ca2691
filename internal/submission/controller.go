package submission

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stage-entry-api/internal/entry"
	"stage-entry-api/internal/logs"
)

type SubmissionController struct {
	Service *SubmissionService
	LS      *logs.LogService
}

func (sc *SubmissionController) callerID(c *gin.Context) (uint, bool) {
	raw, _ := c.Get("userID")
	f, ok := raw.(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return 0, false
	}
	return uint(f), true
}

// writeSaveError maps the save-flow sentinels onto their HTTP contracts.
func writeSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entry.ErrEntryExists):
		c.JSON(http.StatusConflict, gin.H{"error": "An entry already exists for your account. Please reload the page."})
	case errors.Is(err, ErrStageClosed):
		c.JSON(http.StatusForbidden, gin.H{"error": "The deadline for this stage has passed."})
	case errors.Is(err, ErrNoEntry):
		c.JSON(http.StatusNotFound, gin.H{"error": "No entry found. Save your basic information first."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save"})
	}
}

func (sc *SubmissionController) GetDashboard(c *gin.Context) {
	userID, ok := sc.callerID(c)
	if !ok {
		return
	}
	dash, err := sc.Service.Dashboard(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (sc *SubmissionController) SaveBasicInfo(c *gin.Context) {
	userID, ok := sc.callerID(c)
	if !ok {
		return
	}
	var rec entry.BasicInfo
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	res, err := sc.Service.SaveBasicInfo(userID, &rec)
	if err != nil {
		writeSaveError(c, err)
		return
	}
	sc.LS.Log("INFO", "submission", "SAVE_BASIC_INFO", "basic info saved", &userID, gin.H{"entry_id": res.EntryID})
	c.JSON(http.StatusOK, res)
}

func (sc *SubmissionController) SavePreliminary(c *gin.Context) {
	userID, ok := sc.callerID(c)
	if !ok {
		return
	}
	var rec entry.PreliminaryInfo
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	res, err := sc.Service.SavePreliminary(userID, &rec)
	if err != nil {
		writeSaveError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (sc *SubmissionController) SaveProgram(c *gin.Context) {
	userID, ok := sc.callerID(c)
	if !ok {
		return
	}
	var rec entry.ProgramInfo
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	res, err := sc.Service.SaveProgram(userID, &rec)
	if err != nil {
		writeSaveError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (sc *SubmissionController) SaveSemifinals(c *gin.Context) {
	userID, ok := sc.callerID(c)
	if !ok {
		return
	}
	var rec entry.SemifinalsInfo
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	res, err := sc.Service.SaveSemifinals(userID, &rec)
	if err != nil {
		writeSaveError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (sc *SubmissionController) SaveFinals(c *gin.Context) {
	userID, ok := sc.callerID(c)
	if !ok {
		return
	}
	var rec entry.FinalsInfo
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	res, err := sc.Service.SaveFinals(userID, &rec)
	if err != nil {
		writeSaveError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (sc *SubmissionController) SaveSns(c *gin.Context) {
	userID, ok := sc.callerID(c)
	if !ok {
		return
	}
	var rec entry.SnsInfo
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	res, err := sc.Service.SaveSns(userID, &rec)
	if err != nil {
		writeSaveError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (sc *SubmissionController) SaveApplications(c *gin.Context) {
	userID, ok := sc.callerID(c)
	if !ok {
		return
	}
	var rec entry.ApplicationsInfo
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	res, err := sc.Service.SaveApplications(userID, &rec)
	if err != nil {
		writeSaveError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (sc *SubmissionController) UploadFile(c *gin.Context) {
	userID, ok := sc.callerID(c)
	if !ok {
		return
	}
	var req UploadFileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Data == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	f, err := sc.Service.UploadFile(userID, &req)
	if err != nil {
		if errors.Is(err, ErrNoEntry) {
			writeSaveError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sc.LS.Log("INFO", "submission", "UPLOAD_FILE", "file uploaded", &userID, gin.H{
		"entry_id": f.EntryID,
		"purpose":  f.Purpose,
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "file": f})
}

func (sc *SubmissionController) DeleteFile(c *gin.Context) {
	userID, ok := sc.callerID(c)
	if !ok {
		return
	}
	fileID, err := strconv.ParseUint(c.Param("fileId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}
	if err := sc.Service.DeleteFile(userID, uint(fileID)); err != nil {
		if errors.Is(err, ErrNoEntry) {
			writeSaveError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (sc *SubmissionController) GetFileURL(c *gin.Context) {
	userID, ok := sc.callerID(c)
	if !ok {
		return
	}
	fileID, err := strconv.ParseUint(c.Param("fileId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}
	url, err := sc.Service.FileURL(userID, uint(fileID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
