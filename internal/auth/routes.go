package auth

import (
	"stage-entry-api/internal/logs"
	"stage-entry-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, authService *AuthService, logService *logs.LogService) {
	authController := &AuthController{AuthService: authService, LS: logService}

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", authController.SignUp)
		authGroup.POST("/login", authController.Login)
		authGroup.POST("/logout", authController.Logout)
	}

	meGroup := r.Group("/api/auth")
	meGroup.Use(middlewares.AuthMiddleware())
	{
		meGroup.GET("/me", authController.Me)
	}

	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		adminGroup.GET("/participants", authController.GetParticipants)
	}
}
