package routes

import (
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/handlers"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/middleware"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

// RegisterAPIRoutes registers all authenticated API routes.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	limit, window := rateLimitConfig()

	apiGroup := api.Group("/api")
	{
		consultations := apiGroup.Group("/consultations")
		{
			consultations.POST("", handlers.CreateConsultationHandler)
			consultations.GET("", handlers.ListConsultationsHandler)
			consultations.GET("/:id", handlers.GetConsultationHandler)

			// Assignment and status actions are admin-only and rate limited.
			admin := consultations.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin), middleware.RateLimit(limit, window))
			{
				admin.POST("/:id/lawyers", handlers.AssignLawyersHandler)
				admin.POST("/:id/operators", handlers.AssignOperatorsHandler)
				admin.POST("/:id/status", handlers.UpdateConsultationStatusHandler)
				admin.POST("/:id/priority", handlers.UpdateConsultationPriorityHandler)
			}
		}

		notifications := apiGroup.Group("/notifications")
		{
			notifications.GET("", handlers.ListNotificationsHandler)
			notifications.GET("/unread-count", handlers.UnreadCountHandler)
			notifications.POST("/:id/read", handlers.MarkNotificationReadHandler)
			notifications.POST("/read-all", handlers.MarkAllNotificationsReadHandler)
		}

		users := apiGroup.Group("/users")
		{
			users.GET("/eligible", middleware.RequireRole(models.RoleAdmin), handlers.ListEligibleUsersHandler)
			users.PUT("/locale", handlers.UpdateLocaleHandler)
		}
	}
}

func rateLimitConfig() (int, time.Duration) {
	limit := 30
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT")); err == nil && v > 0 {
		limit = v
	}
	window := time.Minute
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); err == nil && v > 0 {
		window = time.Duration(v) * time.Second
	}
	return limit, window
}
