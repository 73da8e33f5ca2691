package submission

import (
	"stage-entry-api/internal/logs"
	"stage-entry-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, submissionService *SubmissionService, logService *logs.LogService) {
	submissionController := &SubmissionController{Service: submissionService, LS: logService}

	userGroup := r.Group("/api/entry")
	userGroup.Use(middlewares.AuthMiddleware())
	{
		userGroup.GET("/dashboard", submissionController.GetDashboard)
		userGroup.PUT("/basic-info", submissionController.SaveBasicInfo)
		userGroup.PUT("/preliminary", submissionController.SavePreliminary)
		userGroup.PUT("/program", submissionController.SaveProgram)
		userGroup.PUT("/semifinals", submissionController.SaveSemifinals)
		userGroup.PUT("/finals", submissionController.SaveFinals)
		userGroup.PUT("/sns", submissionController.SaveSns)
		userGroup.PUT("/applications", submissionController.SaveApplications)
		userGroup.POST("/files", submissionController.UploadFile)
		userGroup.DELETE("/files/:fileId", submissionController.DeleteFile)
		userGroup.GET("/files/:fileId/url", submissionController.GetFileURL)
	}
}
