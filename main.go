package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/config"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/routes"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	config.LoadJWTKey()
	config.ConnectDB()
	config.ConnectRedis()

	// The assignment pivots carry audit columns, so they back the
	// many2many relations as explicit join models.
	if err := config.DB.SetupJoinTable(&models.Consultation{}, "Lawyers", &models.LawyerAssignment{}); err != nil {
		slog.Error("Join table setup failed", "error", err)
		os.Exit(1)
	}
	if err := config.DB.SetupJoinTable(&models.Consultation{}, "Operators", &models.OperatorAssignment{}); err != nil {
		slog.Error("Join table setup failed", "error", err)
		os.Exit(1)
	}

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Consultation{},
		&models.LawyerAssignment{},
		&models.OperatorAssignment{},
		&models.Notification{},
	); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("Starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
