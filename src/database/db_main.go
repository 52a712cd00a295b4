package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wealthsync/src/database/migrations"
	"wealthsync/src/model"
)

// MainDB is the read/write database connection used by the application.
var MainDB *gorm.DB

// InitMainDB opens the main database and runs migrations. Postgres is used
// when ENABLE_DB is set, a sqlite database otherwise.
// It should be called once at application startup.
func InitMainDB() error {
	config := GetConfig()

	dialector := sqlite.Open(config.SQLitePath)
	if config.EnableDB {
		dialector = postgres.Open(config.DatabaseURLMain)
	}

	db, err := gorm.Open(dialector,
		&gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
		},
	)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	logrus.WithField("driver", db.Dialector.Name()).Info("[database] MainDB connection established")

	if err := Migrate(db); err != nil {
		return err
	}

	// Assign only after a successful migration.
	MainDB = db

	logrus.Info("[database] MainDB migrations completed")
	return nil
}

// Migrate creates the schema and applies pending data migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Platform{},
		&model.Position{},
		&model.BrokerConnection{},
		&model.ImportRun{},
		&migrations.DataMigration{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("failed to run data migrations: %w", err)
	}
	return nil
}
