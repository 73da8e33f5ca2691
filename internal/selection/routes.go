package selection

import (
	"stage-entry-api/internal/logs"
	"stage-entry-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, selectionService *SelectionService, logService *logs.LogService) {
	selectionController := &SelectionController{Service: selectionService, LS: logService}

	adminGroup := r.Group("/api/admin/selections")
	adminGroup.Use(middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		adminGroup.POST("", selectionController.CreateSelection)
		adminGroup.GET("/:entryId", selectionController.GetSelections)
	}
}
