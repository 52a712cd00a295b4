package migrations

import (
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DataMigration is one row of the applied data migrations ledger.
type DataMigration struct {
	ID        string    `gorm:"primaryKey;size:200;column:id"`
	AppliedAt time.Time `gorm:"not null;column:applied_at"`
}

func (DataMigration) TableName() string { return "data_migrations" }

// Migration is a data fix that runs once per database.
type Migration struct {
	ID string
	Fn func(tx *gorm.DB) error
}

// registry is applied in order. Ids are stable; append only.
var registry = []Migration{
	{ID: "00001_backfill_platform_colors", Fn: backfillPlatformColors},
	{ID: "00002_backfill_position_amount_spent", Fn: backfillAmountSpent},
	{ID: "00003_backfill_platform_origin", Fn: backfillPlatformOrigin},
}

// RunOnce applies fn inside a transaction unless migrationID is already in
// the ledger. The ledger row is written in the same transaction.
func RunOnce(db *gorm.DB, migrationID string, fn func(*gorm.DB) error) error {
	if db == nil {
		return nil
	}
	if migrationID == "" {
		return errors.New("migration id is empty")
	}
	if fn == nil {
		return fmt.Errorf("migration %q has nil fn", migrationID)
	}

	if err := db.AutoMigrate(&DataMigration{}); err != nil {
		return fmt.Errorf("ensure data migrations table: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var applied int64
		if err := tx.Model(&DataMigration{}).Where("id = ?", migrationID).Count(&applied).Error; err != nil {
			return fmt.Errorf("check migration %q: %w", migrationID, err)
		}
		if applied > 0 {
			return nil
		}

		if err := fn(tx); err != nil {
			return fmt.Errorf("run migration %q: %w", migrationID, err)
		}

		if err := tx.Create(&DataMigration{ID: migrationID, AppliedAt: time.Now().UTC()}).Error; err != nil {
			return fmt.Errorf("record migration %q: %w", migrationID, err)
		}

		logger.WithField("migration", migrationID).Info("data migration applied")
		return nil
	})
}

// Run applies every registered data migration that has not run yet.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	for _, m := range registry {
		if err := RunOnce(db, m.ID, m.Fn); err != nil {
			return err
		}
	}
	return nil
}
