package database

import (
	"fmt"
	"log"

	"homechef/pkg/config"
	"homechef/pkg/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDatabase initializes the database connection
func InitDatabase() error {
	// Development mode - verbose logging, production - only errors
	logLevel := logger.Error
	if config.IsDevelopment() {
		logLevel = logger.Info
	}

	db, err := Open(postgres.New(postgres.Config{
		DSN:                  config.AppConfig.DatabaseURL,
		PreferSimpleProtocol: true, // Disable implicit prepared statements to avoid "prepared statement already exists" errors
	}), logLevel)
	if err != nil {
		return err
	}

	// Get underlying SQL database
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	DB = db
	log.Println("✅ Database connection established")
	return nil
}

// Open connects with the given dialector. Tests pass a sqlite dialector here.
func Open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      logger.Default.LogMode(level),
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// AutoMigrate runs auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return err
	}

	log.Println("✅ Database migrations completed")
	return nil
}

// createIndexes adds the indexes gorm tags cannot express.
func createIndexes(db *gorm.DB) error {
	stmts := []string{
		// Public catalog scans in-stock items newest first.
		`CREATE INDEX IF NOT EXISTS idx_food_items_in_stock ON food_items (created_at DESC) WHERE servings_available > 0`,
		// Chef dashboard and earnings.
		`CREATE INDEX IF NOT EXISTS idx_orders_chef_status ON orders (chef_id, status)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// CloseDatabase closes the database connection
func CloseDatabase() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("✅ Database connection closed")
	}
}
