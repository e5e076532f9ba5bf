package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/handlers"
)

// RegisterAuthRoutes registers the public authentication routes. These do
// not go through the token-checking middleware.
func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/login", handlers.LoginHandler)
	r.GET("/logout", handlers.LogoutHandler)
}
