package executor

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"wealthsync/src/app"
	"wealthsync/src/database"
	"wealthsync/src/executors"
)

// Executor runs the holdings sync loop without the HTTP surface.
type Executor struct {
	Once bool
}

func (t *Executor) Start() error {
	config := GetConfig()
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Error("Failed to connect to main database")
		return err
	}

	a, err := app.Build(ctx, database.MainDB)
	if err != nil {
		logrus.WithError(err).Error("Failed to build application")
		return err
	}

	if t.Once || config.Once {
		logrus.Info("Running a single sync tick")
		return executors.RunOnce(ctx, a.SyncTasks())
	}

	if err := executors.StartLoop(ctx, a.SyncTasks()); err != nil {
		logrus.WithError(err).Error("Failed to start sync loop")
		return err
	}

	return nil
}
