package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"quiqz/config"
	"quiqz/handlers"
	"quiqz/logger"
	"quiqz/middleware"
	"quiqz/models"
	"quiqz/routes"
	"quiqz/services"
	"quiqz/storage"
)

func main() {
	logger.Init()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Quiz{},
		&models.Question{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize object storage
	store, err := storage.NewS3Store(cfg)
	if err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}

	// Initialize services
	questionService := services.NewQuestionService(db)
	quizService := services.NewQuizService(db, questionService)
	imageService := services.NewImageService(db, store)

	// Initialize handlers
	quizHandler := handlers.NewQuizHandler(quizService, imageService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	imageHandler := handlers.NewImageHandler(imageService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// Setup routes
	routes.SetupRoutes(router, quizHandler, questionHandler, imageHandler)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
