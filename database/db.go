package database

import (
	"fmt"
	"log"
	"os"

	"planhub-backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "db"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=5432 sslmode=disable TimeZone=UTC",
		host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
}

func AutoMigrate() {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Project{},
		&models.Task{},
		&models.Material{},
		&models.ProjectMember{},
		&models.ProjectInvitation{},
		&models.AuditLogEntry{},
		&models.RateLimitRecord{},
		&models.IdempotencyKey{},
	); err != nil {
		log.Fatalf("automigrate failed: %v", err)
	}
}
