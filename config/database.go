package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"application-tracking-api/models"
)

var DB *gorm.DB

func InitDB() {
	var err error

	// Get database credentials from environment variables
	dbDriver := strings.ToLower(os.Getenv("DB_DRIVER"))
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbDatabase := os.Getenv("DB_DATABASE")
	dbUsername := os.Getenv("DB_USERNAME")
	dbPassword := os.Getenv("DB_PASSWORD")

	// Configure GORM
	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	debugSQL := strings.ToLower(os.Getenv("DEBUG_SQL"))

	// In production, suppress SQL logs unless explicitly re-enabled via DEBUG_SQL=true.
	// Switch the level back to logger.Info to print SQL statements again.
	logLevel := logger.Info
	if environment == "production" && debugSQL != "true" {
		logLevel = logger.Warn
	}

	config := &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	}

	// Connect to database
	switch dbDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			dbHost,
			dbPort,
			dbUsername,
			dbPassword,
			dbDatabase,
			postgresSSLMode(),
		)
		DB, err = gorm.Open(postgres.Open(dsn), config)
	case "", "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbUsername,
			dbPassword,
			dbHost,
			dbPort,
			dbDatabase,
		)
		DB, err = gorm.Open(mysql.Open(dsn), config)
	default:
		log.Fatalf("Unsupported DB_DRIVER %q (use mysql or postgres)", dbDriver)
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connected successfully")

	if strings.ToLower(os.Getenv("DB_AUTO_MIGRATE")) == "true" {
		autoMigrate()
	}
}

func postgresSSLMode() string {
	mode := os.Getenv("DB_SSLMODE")
	if mode == "" {
		return "disable"
	}
	return mode
}

// autoMigrate keeps dev and test schemas in sync with the models.
// Production schemas are managed externally; leave DB_AUTO_MIGRATE unset there.
func autoMigrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Scholarship{},
		&models.Institution{},
		&models.ScholarshipApplication{},
		&models.CollegeApplication{},
		&models.StatusHistory{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatal("Failed to run auto-migration:", err)
	}
	log.Println("Database schema migrated")
}
