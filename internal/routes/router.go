package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/middleware"
)

// SetupRoutes initializes all application routes.
func SetupRoutes(r *gin.Engine) {
	RegisterAuthRoutes(r)

	// Everything below requires a valid token. Locale resolution runs after
	// auth so the stored user preference can participate in the chain.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware(), middleware.LocaleMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
