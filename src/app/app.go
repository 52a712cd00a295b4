// Package app wires the components into a running service.
package app

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"wealthsync/src/connectors"
	"wealthsync/src/controller"
	"wealthsync/src/dashboard"
	"wealthsync/src/executors"
	"wealthsync/src/marketdata"
	"wealthsync/src/model"
	"wealthsync/src/realtime"
	"wealthsync/src/reconciler"
	"wealthsync/src/repository"
	"wealthsync/src/security"
	"wealthsync/src/store"
)

type App struct {
	Store      *store.Store
	Aggregator *dashboard.Aggregator
	Hub        *realtime.Hub

	Resolver *marketdata.Resolver
	Prices   *marketdata.PriceService
	FX       *marketdata.FXSource

	Holdings    *controller.HoldingsController
	Goals       *controller.GoalsController
	Dashboard   *controller.DashboardController
	Connections *controller.ConnectionsController
	Reconciler  *reconciler.Reconciler

	Platforms *repository.PlatformRepository
	Runs      *repository.ImportRunRepository
}

// Build creates every component on top of db and restores the platform
// collection saved by a previous run.
func Build(ctx context.Context, db *gorm.DB) (*App, error) {
	connCfg := connectors.GetConfig()
	mdCfg := marketdata.GetConfig()

	sealer, err := security.NewSealerFromConfig()
	if err != nil {
		return nil, fmt.Errorf("credentials key: %w", err)
	}

	yahoo := connectors.NewYahooClient(connCfg.YahooSearchURL, connCfg.YahooQuoteURL, connCfg.YahooUserAgent)
	wealth := connectors.NewWealthClient(connCfg.WealthAPIURL, connCfg.WealthAPIToken)
	trading212 := connectors.NewTrading212Client(connCfg.Trading212BaseURL)

	platforms := (&repository.PlatformRepository{}).WithDB(db)
	runs := (&repository.ImportRunRepository{}).WithDB(db)
	conns := (&repository.BrokerConnectionRepository{}).WithDB(db)

	a := &App{
		Store:      store.New(),
		Aggregator: dashboard.NewAggregator(),
		Hub:        realtime.NewHub(),
		Resolver: marketdata.NewResolver(yahoo,
			marketdata.WithConcurrency(mdCfg.ResolverConcurrency),
			marketdata.WithFetchTimeout(mdCfg.ResolverFetchTimeout),
			marketdata.WithLegacySymbols(mdCfg.LegacySymbols),
		),
		Prices:    marketdata.NewPriceService(yahoo, mdCfg.ResolverConcurrency, mdCfg.ResolverFetchTimeout),
		Platforms: platforms,
		Runs:      runs,
	}
	a.FX = marketdata.NewFXSource(a.Prices, mdCfg.FXLocalCurrency, mdCfg.FXFallbackRate)

	a.Store.Subscribe(a.Aggregator.Update)
	a.Aggregator.Subscribe(a.Hub.PublishBreakdown)

	a.Holdings = controller.NewHoldingsController(wealth, a.Store, platforms, controller.GetConfig().CryptoUserID)
	a.Goals = controller.NewGoalsController(wealth)
	a.Dashboard = controller.NewDashboardController(wealth, a.Aggregator)
	a.Connections = controller.NewConnectionsController(conns, sealer)
	a.Reconciler = reconciler.New(trading212, a.Resolver, a.FX, a.Store, platforms, runs)

	saved, err := platforms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore platforms: %w", err)
	}
	a.Store.ReplaceAll(saved)
	logger.WithField("platforms", a.Store.Len()).Info("platform collection restored")

	return a, nil
}

// ImportStored runs a Trading 212 import with the stored credentials.
func (a *App) ImportStored(ctx context.Context) (*reconciler.Result, error) {
	creds, err := a.Connections.Credentials(ctx, model.IntegrationTrading212)
	if err != nil {
		return nil, err
	}
	result, err := a.Reconciler.Import(ctx, creds)
	if err != nil {
		return nil, err
	}
	a.Connections.MarkImported(ctx, model.IntegrationTrading212)
	return result, nil
}

// SyncTasks is the work of one sync loop tick.
func (a *App) SyncTasks() executors.Tasks {
	return executors.Tasks{
		Holdings:  a.Holdings,
		Dashboard: a.Dashboard,
		Import: func(ctx context.Context) error {
			_, err := a.ImportStored(ctx)
			return err
		},
	}
}
