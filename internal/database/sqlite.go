package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/tcg-portfolio/internal/config"
	"github.com/codyseavey/tcg-portfolio/internal/models"
)

var DB *gorm.DB

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&models.User{},
		&models.Card{},
		&models.PriceSnapshot{},
		&models.CollectionItem{},
		&models.GradeResult{},
		&models.GradeMeasurement{},
		&models.ROISignal{},
		&models.TradeIntent{},
		&models.Favorite{},
	}
}

// Open connects to the sqlite file and brings the schema up to date.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	// WAL so the price worker can write while handlers read
	dsn := cfg.Path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
		// Intents may reference users known only to the auth layer
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Path, err)
	}

	log.Println("Database connected successfully")

	if err := RenameLegacyColumns(db); err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("data migrations: %w", err)
	}

	log.Println("Database migration completed")
	return db, nil
}

// Initialize opens the database and stores it in the package-level handle.
func Initialize(cfg config.DatabaseConfig) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
