package admin

import (
	"stage-entry-api/internal/logs"
	"stage-entry-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, adminService *AdminService, logService *logs.LogService) {
	adminController := &AdminController{Service: adminService, LS: logService}

	adminGroup := r.Group("/api/admin/entries")
	adminGroup.Use(middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		adminGroup.GET("", adminController.ListEntries)
		adminGroup.PUT("/status", adminController.BulkUpdateStatus)
		adminGroup.DELETE("", adminController.BulkDelete)
		adminGroup.POST("/email", adminController.BulkEmail)
		adminGroup.GET("/export", adminController.ExportEntries)
	}
}
