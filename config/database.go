package config

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDatabase opens the analytics event database. When DATABASE_URL is
// set it connects to PostgreSQL; otherwise it falls back to a local SQLite
// file so the platform runs without any external services.
func ConnectDatabase() error {
	databaseURL := os.Getenv("DATABASE_URL")

	var err error
	if databaseURL != "" {
		DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Println("Analytics database connected (postgres)")
		return nil
	}

	dbPath := os.Getenv("ANALYTICS_DB_PATH")
	if dbPath == "" {
		dbPath = "analytics.db"
	}
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to open analytics database %s: %w", dbPath, err)
	}
	log.Printf("Analytics database connected (sqlite at %s)", dbPath)
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
