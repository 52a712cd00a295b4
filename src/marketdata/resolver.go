// Package marketdata resolves display metadata and prices for canonical
// symbols and supplies the FX rate used to convert USD listings.
package marketdata

import (
	"context"
	"sort"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"wealthsync/src/model"
)

const (
	defaultConcurrency  = 8
	defaultFetchTimeout = 8 * time.Second
)

// DefaultLegacySymbols maps retired tickers onto their replacements.
var DefaultLegacySymbols = map[string]string{
	"FB": "META",
}

// Resolution is the outcome of a batch resolution. BySymbol is keyed by the
// post-remap symbol that was looked up; every requested symbol has an entry,
// unresolved ones with source unknown.
type Resolution struct {
	BySymbol map[string]model.MarketMetadata
	remapped map[string]string
}

// Lookup returns the metadata for a symbol as the caller originally asked
// for it, before legacy remapping.
func (r Resolution) Lookup(original string) (model.MarketMetadata, bool) {
	key, ok := r.remapped[original]
	if !ok {
		key = original
	}
	md, ok := r.BySymbol[key]
	return md, ok
}

// Unknown lists the original symbols that resolved to nothing, sorted.
func (r Resolution) Unknown() []string {
	var out []string
	for original, key := range r.remapped {
		if md, ok := r.BySymbol[key]; !ok || !md.Known() {
			out = append(out, original)
		}
	}
	sort.Strings(out)
	return out
}

type Option func(*Resolver)

func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

func WithFetchTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.fetchTimeout = d
		}
	}
}

func WithLegacySymbols(m map[string]string) Option {
	return func(r *Resolver) {
		if m != nil {
			r.legacy = m
		}
	}
}

// Resolver runs an ordered chain of strategies per symbol and fans out
// across symbols. A failing symbol never affects the others.
type Resolver struct {
	strategies   []Strategy
	search       Strategy
	legacy       map[string]string
	concurrency  int
	fetchTimeout time.Duration
}

// NewResolver builds the quote, chart, search chain over one source.
func NewResolver(src Source, opts ...Option) *Resolver {
	search := NewSearchStrategy(src)
	r := NewResolverWithStrategies([]Strategy{NewQuoteStrategy(src), NewChartStrategy(src), search}, opts...)
	r.search = search
	return r
}

func NewResolverWithStrategies(strategies []Strategy, opts ...Option) *Resolver {
	r := &Resolver{
		strategies:   strategies,
		legacy:       DefaultLegacySymbols,
		concurrency:  defaultConcurrency,
		fetchTimeout: defaultFetchTimeout,
	}
	for _, s := range strategies {
		if s.Source() == model.MetadataSourceSearch {
			r.search = s
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Remap applies the legacy symbol table.
func (r *Resolver) Remap(symbol string) string {
	if to, ok := r.legacy[symbol]; ok {
		return to
	}
	return symbol
}

// Resolve resolves every distinct symbol concurrently. It never fails;
// errors and timeouts degrade the affected symbol to unknown.
func (r *Resolver) Resolve(ctx context.Context, symbols []string) Resolution {
	res := Resolution{
		BySymbol: make(map[string]model.MarketMetadata, len(symbols)),
		remapped: make(map[string]string, len(symbols)),
	}

	pending := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		if s == "" {
			continue
		}
		key := r.Remap(s)
		res.remapped[s] = key
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		pending = append(pending, key)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, symbol := range pending {
		symbol := symbol
		g.Go(func() error {
			md := r.resolveOne(gctx, symbol)
			mu.Lock()
			res.BySymbol[symbol] = md
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	logger.WithFields(map[string]interface{}{
		"symbols": len(pending),
		"unknown": len(res.Unknown()),
	}).Debug("metadata resolution finished")

	return res
}

// resolveOne runs the strategy chain for one already remapped symbol.
func (r *Resolver) resolveOne(ctx context.Context, symbol string) model.MarketMetadata {
	for _, s := range r.strategies {
		if md, ok := r.try(ctx, s, symbol); ok {
			return md
		}
	}
	return model.UnknownMetadata(symbol)
}

// SearchFallback runs only the search strategy for an original symbol,
// remapping it first.
func (r *Resolver) SearchFallback(ctx context.Context, original string) (model.MarketMetadata, bool) {
	if r.search == nil {
		return model.MarketMetadata{}, false
	}
	return r.try(ctx, r.search, r.Remap(original))
}

func (r *Resolver) try(ctx context.Context, s Strategy, symbol string) (model.MarketMetadata, bool) {
	fctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()
	return s.Resolve(fctx, symbol)
}
