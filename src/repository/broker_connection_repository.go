package repository

import (
	"context"
	"errors"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wealthsync/src/database"
	"wealthsync/src/model"
)

type BrokerConnectionRepository struct {
	db *gorm.DB
}

func NewBrokerConnectionRepository() *BrokerConnectionRepository {
	logger.WithField("component", "BrokerConnectionRepository").
		Info("Creating new BrokerConnectionRepository with MainDB")

	return &BrokerConnectionRepository{db: database.MainDB}
}

func (r *BrokerConnectionRepository) WithDB(db *gorm.DB) *BrokerConnectionRepository {
	return &BrokerConnectionRepository{db: db}
}

// Upsert stores the sealed credentials, replacing those of the same
// integration.
func (r *BrokerConnectionRepository) Upsert(ctx context.Context, conn *model.BrokerConnection) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "integration"}},
			DoUpdates: clause.AssignmentColumns([]string{"api_key", "api_secret", "updated_at"}),
		}).
		Create(conn).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":        "BrokerConnectionRepository",
			"op":          "Upsert",
			"integration": conn.Integration,
		}).WithError(err).Error("Failed to upsert broker connection")
		return err
	}
	return nil
}

// Get returns nil when the integration was never connected.
func (r *BrokerConnectionRepository) Get(ctx context.Context, integration string) (*model.BrokerConnection, error) {
	var conn model.BrokerConnection
	err := r.db.WithContext(ctx).
		Where("integration = ?", integration).
		First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *BrokerConnectionRepository) TouchLastImport(ctx context.Context, integration string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.BrokerConnection{}).
		Where("integration = ?", integration).
		Update("last_import_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
