package main

import (
	"context"
	"log"
	"os"
	"time"

	"application-tracking-api/config"
	"application-tracking-api/middleware"
	"application-tracking-api/monitor"
	"application-tracking-api/routes"
	"application-tracking-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize logging before the database so GORM and request logs
	// share the same writer
	logFile, logWriter := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	gin.DefaultWriter = logWriter

	// Initialize database
	config.InitDB()

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Tag every request with an id
	router.Use(middleware.RequestIDMiddleware())

	// Record request metrics
	metrics := monitor.NewMetrics()
	router.Use(metrics.Middleware())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Add rate limiting
	router.Use(middleware.RateLimitMiddleware())

	// Operational endpoints
	router.GET("/metrics", metrics.Handler())
	monitor.RegisterMonitorPage(router)
	monitor.RegisterLogsRoute(router)

	// Setup routes
	routes.SetupRoutes(router)

	// Seed and watch the catalog mirror
	if seedPath := os.Getenv("CATALOG_SEED_PATH"); seedPath != "" {
		catalog := services.NewCatalogService(nil)
		if _, err := catalog.LoadSeedFile(seedPath); err != nil {
			log.Printf("Warning: catalog seed load failed: %v", err)
		}
		if os.Getenv("CATALOG_WATCH") == "true" {
			go func() {
				if err := catalog.Watch(context.Background(), seedPath); err != nil {
					log.Printf("Catalog watcher stopped: %v", err)
				}
			}()
		}
	}

	// Schedule deadline reminders
	reminderCron := os.Getenv("REMINDER_CRON")
	if reminderCron == "" {
		reminderCron = "0 8 * * *"
	}
	scheduler := cron.New()
	_, err := scheduler.AddFunc(reminderCron, func() {
		reminders := services.NewDeadlineReminderService(nil)
		summary, err := reminders.RunOnce(context.Background(), time.Now())
		if err != nil {
			log.Printf("Deadline reminder run failed: %v", err)
			return
		}
		log.Printf("Deadline reminder run: %d created, %d already notified",
			summary.RemindersCreated, summary.AlreadyNotified)
	})
	if err != nil {
		log.Printf("Warning: invalid REMINDER_CRON %q: %v", reminderCron, err)
	} else {
		scheduler.Start()
	}

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s", port)
	log.Printf("🔒 Security middlewares enabled")
	log.Printf("🌐 CORS configured for allowed origins")

	if ginMode == "release" {
		log.Printf("🏭 Running in production mode")
	} else {
		log.Printf("🔧 Running in development mode")
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}
