// Package reconciler merges a freshly fetched brokerage portfolio into the
// platform collection.
package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"wealthsync/src/connectors"
	"wealthsync/src/marketdata"
	"wealthsync/src/model"
	"wealthsync/src/normalizer"
)

// Fixed identity of the Trading 212 platform.
const (
	TargetPlatformName  = "Trading 212"
	TargetPlatformColor = "#3B82F6"
)

type PortfolioFetcher interface {
	FetchPortfolio(ctx context.Context, creds connectors.Credentials) ([]model.RawBrokerPosition, error)
}

type MetadataResolver interface {
	Resolve(ctx context.Context, symbols []string) marketdata.Resolution
	SearchFallback(ctx context.Context, original string) (model.MarketMetadata, bool)
}

type RateSource interface {
	Rate(ctx context.Context) marketdata.FXRate
}

// InstrumentCatalogue is implemented by fetchers that can list the broker's
// instruments. It names symbols that no market-data source knows.
type InstrumentCatalogue interface {
	FetchInstruments(ctx context.Context, creds connectors.Credentials) ([]model.BrokerInstrument, error)
}

type PlatformStore interface {
	List() []model.Platform
	Put(p model.Platform)
	Exclusive(fn func() error) error
}

// PlatformPersister saves one platform with its positions atomically.
type PlatformPersister interface {
	SavePlatform(ctx context.Context, p model.Platform) error
}

type RunRecorder interface {
	Record(ctx context.Context, run *model.ImportRun) error
}

// Result describes a successful import.
type Result struct {
	Platform       model.Platform    `json:"platform"`
	Created        bool              `json:"created"`
	FX             marketdata.FXRate `json:"fx"`
	UnknownSymbols []string          `json:"unknown_symbols"`
}

type Reconciler struct {
	fetcher   PortfolioFetcher
	resolver  MetadataResolver
	rates     RateSource
	store     PlatformStore
	persister PlatformPersister
	runs      RunRecorder

	// one import at a time
	mu sync.Mutex

	now func() time.Time
}

func New(fetcher PortfolioFetcher, resolver MetadataResolver, rates RateSource, store PlatformStore, persister PlatformPersister, runs RunRecorder) *Reconciler {
	return &Reconciler{
		fetcher:   fetcher,
		resolver:  resolver,
		rates:     rates,
		store:     store,
		persister: persister,
		runs:      runs,
		now:       time.Now,
	}
}

type normalized struct {
	raw    model.RawBrokerPosition
	result normalizer.Result
}

// Reconcile turns raw broker positions into positions with canonical
// symbols, local-currency prices and resolved names. It also returns the
// symbols that stayed unresolved. fxRate is local units per 1 USD.
func (r *Reconciler) Reconcile(ctx context.Context, raw []model.RawBrokerPosition, fxRate float64) ([]model.Position, []string) {
	items := make([]normalized, 0, len(raw))
	symbols := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, p := range raw {
		n := normalizer.Normalize(p.Ticker)
		items = append(items, normalized{raw: p, result: n})
		if _, ok := seen[n.Symbol]; !ok {
			seen[n.Symbol] = struct{}{}
			symbols = append(symbols, n.Symbol)
		}
	}

	resolution := r.resolver.Resolve(ctx, symbols)

	final := make(map[string]model.MarketMetadata, len(symbols))
	var unknown []string
	for _, s := range symbols {
		md, ok := resolution.Lookup(s)
		if !ok || !md.Known() {
			if found, ok := r.resolver.SearchFallback(ctx, s); ok {
				md = found
			} else {
				unknown = append(unknown, s)
				continue
			}
		}
		final[s] = md
	}

	now := r.now()
	positions := make([]model.Position, 0, len(items))
	for _, it := range items {
		symbol := it.result.Symbol
		name, display := symbol, symbol
		if md, ok := final[symbol]; ok {
			if md.Name != nil && *md.Name != "" {
				name = *md.Name
			}
			if md.Symbol != "" {
				display = md.Symbol
			}
		}

		positions = append(positions, model.Position{
			ID:           uuid.New(),
			Name:         name,
			Symbol:       &display,
			Shares:       it.raw.Quantity,
			AveragePrice: it.result.Rule.Apply(it.raw.AveragePrice, fxRate),
			CurrentPrice: it.result.Rule.Apply(it.raw.CurrentPrice, fxRate),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return positions, unknown
}

// Merge finds the target platform by name in platforms and returns it with
// its investments replaced, keeping the cash balance. Without a match a new
// platform with the fixed name and color and zero cash is returned with
// created set. The input is not modified.
func Merge(platforms []model.Platform, investments []model.Position) (model.Platform, bool) {
	var out model.Platform
	created := true
	for _, p := range platforms {
		if p.Name == TargetPlatformName {
			out = p.Clone()
			created = false
			break
		}
	}
	if created {
		out = model.Platform{
			ID:          uuid.New(),
			Name:        TargetPlatformName,
			ColorHex:    TargetPlatformColor,
			CashBalance: 0,
		}
	}

	out.Origin = model.PlatformOriginImport
	out.Investments = make([]model.Position, len(investments))
	for i, inv := range investments {
		inv = inv.Clone()
		inv.PlatformID = out.ID
		out.Investments[i] = inv
	}
	return out, created
}

// Import runs a full reconciliation: fetch, FX, reconcile, merge, persist
// and publish. The store only changes after the platform was persisted, so
// a failure leaves both untouched. Every attempt is recorded.
func (r *Reconciler) Import(ctx context.Context, creds connectors.Credentials) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := &model.ImportRun{
		Integration: model.IntegrationTrading212,
		Platform:    TargetPlatformName,
		StartedAt:   r.now(),
	}

	raw, err := r.fetcher.FetchPortfolio(ctx, creds)
	if err != nil {
		r.finish(ctx, run, err)
		return nil, fmt.Errorf("fetch portfolio: %w", err)
	}

	fx := r.rates.Rate(ctx)
	run.FxRate, run.FxFallback = fx.Rate, fx.Fallback

	positions, unknown := r.Reconcile(ctx, raw, fx.Rate)
	if len(unknown) > 0 {
		positions, unknown = r.nameFromCatalogue(ctx, creds, positions, unknown)
	}
	run.Positions, run.UnknownSymbols = len(positions), len(unknown)

	var merged model.Platform
	var created bool
	err = r.store.Exclusive(func() error {
		merged, created = Merge(r.store.List(), positions)
		if err := r.persister.SavePlatform(ctx, merged); err != nil {
			return err
		}
		r.store.Put(merged)
		return nil
	})
	run.Created = created
	if err != nil {
		r.finish(ctx, run, err)
		return nil, fmt.Errorf("persist platform: %w", err)
	}
	r.finish(ctx, run, nil)

	var brokerValue float64
	for _, p := range raw {
		brokerValue += p.Value()
	}

	logger.WithFields(map[string]interface{}{
		"platform":     merged.Name,
		"positions":    len(positions),
		"unknown":      len(unknown),
		"created":      created,
		"broker_value": brokerValue,
		"fx_rate":      fx.Rate,
		"fx_fallback":  fx.Fallback,
	}).Info("brokerage import finished")

	return &Result{Platform: merged.Clone(), Created: created, FX: fx, UnknownSymbols: unknown}, nil
}

// nameFromCatalogue names positions whose symbols stayed unknown after the
// market-data passes, using the broker's instrument catalogue. A catalogue
// failure leaves the positions as they are.
func (r *Reconciler) nameFromCatalogue(ctx context.Context, creds connectors.Credentials, positions []model.Position, unknown []string) ([]model.Position, []string) {
	catalogue, ok := r.fetcher.(InstrumentCatalogue)
	if !ok {
		return positions, unknown
	}
	instruments, err := catalogue.FetchInstruments(ctx, creds)
	if err != nil {
		logger.WithError(err).Warn("instrument catalogue unavailable")
		return positions, unknown
	}
	return ApplyCatalogue(positions, unknown, instruments)
}

// ApplyCatalogue sets the name of every position whose canonical symbol is
// in unknown and has a catalogue entry. It returns the symbols still unknown.
func ApplyCatalogue(positions []model.Position, unknown []string, instruments []model.BrokerInstrument) ([]model.Position, []string) {
	names := make(map[string]string, len(instruments))
	for _, in := range instruments {
		if in.Name == "" {
			continue
		}
		symbol := normalizer.Normalize(in.Ticker).Symbol
		if _, ok := names[symbol]; !ok {
			names[symbol] = in.Name
		}
	}

	named := make(map[string]struct{})
	for _, s := range unknown {
		if _, ok := names[s]; ok {
			named[s] = struct{}{}
		}
	}
	if len(named) == 0 {
		return positions, unknown
	}

	out := make([]model.Position, len(positions))
	for i, p := range positions {
		p = p.Clone()
		if p.Symbol != nil {
			if _, ok := named[*p.Symbol]; ok {
				p.Name = names[*p.Symbol]
			}
		}
		out[i] = p
	}

	var still []string
	for _, s := range unknown {
		if _, ok := named[s]; !ok {
			still = append(still, s)
		}
	}
	return out, still
}

func (r *Reconciler) finish(ctx context.Context, run *model.ImportRun, err error) {
	run.FinishedAt = r.now()
	run.Status = model.ImportRunStatusSucceeded
	if err != nil {
		run.Status = model.ImportRunStatusFailed
		run.Error = err.Error()
		logger.WithError(err).WithField("integration", run.Integration).Error("brokerage import failed")
	}
	if r.runs == nil {
		return
	}
	if recErr := r.runs.Record(ctx, run); recErr != nil {
		logger.WithError(recErr).Warn("could not record import run")
	}
}
