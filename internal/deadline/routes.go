package deadline

import (
	"stage-entry-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, deadlineService *DeadlineService) {
	deadlineController := &DeadlineController{Service: deadlineService}

	userGroup := r.Group("/api/deadlines")
	userGroup.Use(middlewares.AuthMiddleware())
	{
		userGroup.GET("", deadlineController.GetDeadlines)
	}

	adminGroup := r.Group("/api/admin/deadlines")
	adminGroup.Use(middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		adminGroup.PUT("", deadlineController.SetDeadline)
	}
}
