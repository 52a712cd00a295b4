package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"

	"wealthsync/src/app"
	"wealthsync/src/handler"
	"wealthsync/src/realtime"
)

func NewRouter(a *app.App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("healthcheck write failed")
		}
	})

	r.Get("/platforms", handler.ListPlatformsHandler(a.Store))
	r.Post("/platforms", handler.CreatePlatformHandler(a.Holdings, a.Store))
	r.Post("/platforms/refresh", handler.RefreshHoldingsHandler(a.Holdings))
	r.Route("/platforms/{platformID}", func(r chi.Router) {
		r.Delete("/", handler.DeletePlatformHandler(a.Holdings))
		r.Put("/cash", handler.UpdateCashHandler(a.Holdings, a.Store))
		r.Post("/crypto", handler.ConnectCryptoHandler(a.Holdings))
		r.Post("/investments", handler.AddInvestmentHandler(a.Holdings, a.Store))
		r.Put("/investments/{positionID}", handler.UpdateInvestmentHandler(a.Holdings, a.Store))
		r.Delete("/investments/{positionID}", handler.DeleteInvestmentHandler(a.Holdings))
	})

	r.Get("/valuation", handler.ValuationHandler(a.Store))
	r.Get("/breakdown", handler.BreakdownHandler(a.Aggregator))
	r.Get("/dashboard", handler.DashboardSummaryHandler(a.Dashboard))
	r.Get("/history", handler.HistoryHandler(a.Dashboard))

	r.Post("/connections/trading212", handler.ConnectTrading212Handler(a.Connections))
	r.Post("/imports/trading212", handler.ImportTrading212Handler(a.Reconciler, a.Connections))
	r.Get("/imports", handler.ImportRunsHandler(a.Runs))

	r.Post("/metadata/resolve", handler.ResolveMetadataHandler(a.Resolver))
	r.Get("/metadata/search", handler.SearchHandler(a.Prices))
	r.Get("/metadata/prices", handler.PricesHandler(a.Prices))
	r.Get("/fx", handler.FXHandler(a.FX))

	r.Get("/goals", handler.GoalsHandler(a.Goals, a.Store))
	r.Post("/goals", handler.CreateGoalHandler(a.Goals))
	r.Put("/goals/{goalID}", handler.UpdateGoalHandler(a.Goals))
	r.Post("/goals/{goalID}/complete", handler.CompleteGoalHandler(a.Goals))

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		a.Hub.Serve(w, r, realtime.Message{Type: realtime.MessageBreakdown, Data: a.Aggregator.Breakdown()})
	})

	return r
}

// StartServer serves h until ctx is done, then shuts down gracefully.
func StartServer(ctx context.Context, port string, h http.Handler) error {
	addr := ":" + port
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown error")
		return err
	}
	return nil
}
