package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"wealthsync/src/database"
	"wealthsync/src/model"
)

const defaultRunLimit = 20

// ImportRunRepository keeps the audit trail of brokerage imports.
type ImportRunRepository struct {
	db *gorm.DB
}

func NewImportRunRepository() *ImportRunRepository {
	logger.WithField("component", "ImportRunRepository").
		Info("Creating new ImportRunRepository with MainDB")

	return &ImportRunRepository{db: database.MainDB}
}

func (r *ImportRunRepository) WithDB(db *gorm.DB) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

func (r *ImportRunRepository) Record(ctx context.Context, run *model.ImportRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":   "ImportRunRepository",
			"op":     "Record",
			"status": run.Status,
		}).WithError(err).Error("Failed to record import run")
		return err
	}
	return nil
}

// Latest returns the most recent runs, newest first. A non-positive limit
// means 20.
func (r *ImportRunRepository) Latest(ctx context.Context, limit int) ([]model.ImportRun, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	var runs []model.ImportRun
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
