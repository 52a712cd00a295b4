package executors

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"wealthsync/src/model"
)

type HoldingsLoader interface {
	Load(ctx context.Context) ([]model.Platform, error)
}

type SummaryRefresher interface {
	Summary(ctx context.Context) (model.DashboardSummary, error)
}

// Tasks is the work done on each tick. Import is optional.
type Tasks struct {
	Holdings  HoldingsLoader
	Dashboard SummaryRefresher
	Import    func(ctx context.Context) error
}

// StartLoop syncs once right away and then on every tick until ctx is done.
// A failing tick is logged and the loop keeps going.
func StartLoop(ctx context.Context, tasks Tasks) error {
	config := GetConfig()
	if config.LoopPeriod <= 0 {
		return errors.New("sync period must be positive")
	}
	if !config.ImportOnSync {
		tasks.Import = nil
	}

	ticker := time.NewTicker(config.LoopPeriod)
	defer ticker.Stop()

	logger.WithField("period", config.LoopPeriod.String()).Info("sync loop started")

	for {
		if err := RunOnce(ctx, tasks); err != nil {
			logger.WithError(err).Warn("sync tick failed")
		}

		select {
		case <-ctx.Done():
			logger.Info("sync loop stopped")
			return nil
		case <-ticker.C:
			logger.Debug("sync loop tick")
		}
	}
}

// RunOnce reloads holdings, runs the import when set and refreshes the
// dashboard summary. All steps run; their errors are joined.
func RunOnce(ctx context.Context, tasks Tasks) error {
	var errs []error

	if tasks.Holdings != nil {
		platforms, err := tasks.Holdings.Load(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("holdings: %w", err))
		} else {
			logger.WithField("platforms", len(platforms)).Debug("holdings synced")
		}
	}

	if tasks.Import != nil {
		if err := tasks.Import(ctx); err != nil {
			errs = append(errs, fmt.Errorf("import: %w", err))
		}
	}

	if tasks.Dashboard != nil {
		summary, err := tasks.Dashboard.Summary(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("dashboard: %w", err))
		} else {
			logger.WithField("net_worth", summary.CurrentNetWorth).Debug("dashboard synced")
		}
	}

	return errors.Join(errs...)
}
