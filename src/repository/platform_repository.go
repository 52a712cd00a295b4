package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wealthsync/src/database"
	"wealthsync/src/model"
)

// PlatformRepository persists platforms together with their positions.
type PlatformRepository struct {
	db *gorm.DB
}

func NewPlatformRepository() *PlatformRepository {
	logger.WithField("component", "PlatformRepository").
		Info("Creating new PlatformRepository with MainDB")

	return &PlatformRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *PlatformRepository) WithDB(db *gorm.DB) *PlatformRepository {
	return &PlatformRepository{db: db}
}

// SavePlatform upserts the platform and replaces its positions in a single
// transaction. A stored platform with the same name but another id is
// removed first.
func (r *PlatformRepository) SavePlatform(ctx context.Context, p model.Platform) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return savePlatform(tx, p)
	})
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "PlatformRepository",
			"op":       "SavePlatform",
			"platform": p.Name,
		}).WithError(err).Error("Failed to save platform")
		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":      "PlatformRepository",
		"op":        "SavePlatform",
		"platform":  p.Name,
		"positions": len(p.Investments),
	}).Debug("Platform saved")
	return nil
}

// SaveAll makes the stored collection equal to platforms.
func (r *PlatformRepository) SaveAll(ctx context.Context, platforms []model.Platform) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, 0, len(platforms))
		for _, p := range platforms {
			keep = append(keep, p.ID)
		}

		stale := tx.Model(&model.Platform{})
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		var staleIDs []uuid.UUID
		if err := stale.Pluck("id", &staleIDs).Error; err != nil {
			return fmt.Errorf("find stale platforms: %w", err)
		}
		for _, id := range staleIDs {
			if err := deletePlatform(tx, id); err != nil {
				return err
			}
		}

		for _, p := range platforms {
			if err := savePlatform(tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PlatformRepository) DeletePlatform(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePlatform(tx, id)
	})
}

// List returns all platforms with their positions, ordered by name.
func (r *PlatformRepository) List(ctx context.Context) ([]model.Platform, error) {
	var platforms []model.Platform
	err := r.db.WithContext(ctx).
		Preload("Investments", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Order("name").
		Find(&platforms).Error
	if err != nil {
		return nil, err
	}
	return platforms, nil
}

func savePlatform(tx *gorm.DB, p model.Platform) error {
	var clashing []uuid.UUID
	if err := tx.Model(&model.Platform{}).
		Where("name = ? AND id <> ?", p.Name, p.ID).
		Pluck("id", &clashing).Error; err != nil {
		return fmt.Errorf("find platform %s: %w", p.Name, err)
	}
	for _, id := range clashing {
		if err := deletePlatform(tx, id); err != nil {
			return err
		}
	}

	positions := p.Investments
	p.Investments = nil
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "color_hex", "origin", "cash_balance", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("save platform %s: %w", p.Name, err)
	}

	if err := tx.Where("platform_id = ?", p.ID).Delete(&model.Position{}).Error; err != nil {
		return fmt.Errorf("clear positions of %s: %w", p.Name, err)
	}
	if len(positions) == 0 {
		return nil
	}

	rows := make([]model.Position, len(positions))
	for i, pos := range positions {
		rows[i] = pos.Clone()
		rows[i].PlatformID = p.ID
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert positions of %s: %w", p.Name, err)
	}
	return nil
}

func deletePlatform(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("platform_id = ?", id).Delete(&model.Position{}).Error; err != nil {
		return fmt.Errorf("delete positions of %s: %w", id, err)
	}
	if err := tx.Where("id = ?", id).Delete(&model.Platform{}).Error; err != nil {
		return fmt.Errorf("delete platform %s: %w", id, err)
	}
	return nil
}
