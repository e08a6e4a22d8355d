package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/rizoma-bar/rizoma-app/config"
	"github.com/rizoma-bar/rizoma-app/events"
	"github.com/rizoma-bar/rizoma-app/middlewares"
	"github.com/rizoma-bar/rizoma-app/models"
	"github.com/rizoma-bar/rizoma-app/router"
	"github.com/rizoma-bar/rizoma-app/utils"
)

func main() {
	envErr := godotenv.Load()

	utils.InitLogger()
	if envErr != nil {
		// Sin .env también funciona (docker/CI pasan variables directo)
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := config.Load()
	utils.SetJWTSecret(cfg.JWTSecret)

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	hub := events.NewHub()

	r := router.SetupRouter(db, cfg, hub)

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Reservation{},
		&models.CartaItem{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
