package main

import (
	"log"
	"net/http"
	"os"

	"food-marketplace-api/config"
	"food-marketplace-api/handlers"
	"food-marketplace-api/middleware"
	"food-marketplace-api/routes"
	"food-marketplace-api/store"

	"github.com/gin-gonic/gin"
)

func main() {
	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	cfg := config.Load()

	// The route layer only sees the Store interface; DB_PATH selects the
	// durable SQLite store, otherwise everything lives in process memory.
	var st store.Store
	if cfg.DBPath != "" {
		db, err := config.OpenDB(cfg.DBPath)
		if err != nil {
			log.Fatal("Failed to open database:", err)
		}
		st, err = store.NewGormStore(db)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("Using SQLite store at", cfg.DBPath)
	} else {
		st = store.NewMemoryStore()
		log.Println("Using in-memory store (state is lost on restart)")
	}

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()
	r.Use(middleware.CORS())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Food Marketplace API",
			"version": "1.0.0",
		})
	})

	// Register all routes
	routes.SetupRoutes(r, handlers.NewHandler(st, cfg))

	// Start server
	log.Printf("Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
