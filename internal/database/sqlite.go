package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/pokeprice/internal/models"
)

var DB *gorm.DB

func Initialize(dbPath string) error {
	var err error
	DB, err = Open(dbPath)
	if err != nil {
		return err
	}

	log.Println("Database connected successfully")
	return nil
}

// Open connects to the SQLite file at dbPath and migrates the schema.
// Tests use it with an in-memory DSN.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&models.CachedCard{}); err != nil {
		return nil, err
	}

	return db, nil
}

func GetDB() *gorm.DB {
	return DB
}
