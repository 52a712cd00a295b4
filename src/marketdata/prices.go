package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"wealthsync/src/model"
)

// PriceService looks up current prices: the quote price when positive,
// otherwise the chart price.
type PriceService struct {
	src          Source
	concurrency  int
	fetchTimeout time.Duration
}

func NewPriceService(src Source, concurrency int, fetchTimeout time.Duration) *PriceService {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &PriceService{src: src, concurrency: concurrency, fetchTimeout: fetchTimeout}
}

func (p *PriceService) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	qctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	md, err := p.src.Quote(qctx, symbol)
	cancel()
	if err == nil && md != nil && md.RegularMarketPrice != nil && *md.RegularMarketPrice > 0 {
		return *md.RegularMarketPrice, nil
	}

	cctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()
	md, err = p.src.Chart(cctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("price for %s: %w", symbol, err)
	}
	if md == nil || md.RegularMarketPrice == nil {
		return 0, fmt.Errorf("price for %s: chart carried no price", symbol)
	}
	return *md.RegularMarketPrice, nil
}

// CurrentPrices fetches prices concurrently. Symbols whose lookup fails are
// left out of the result.
func (p *PriceService) CurrentPrices(ctx context.Context, symbols []string) map[string]float64 {
	out := make(map[string]float64, len(symbols))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, symbol := range dedupe(symbols) {
		symbol := symbol
		g.Go(func() error {
			price, err := p.CurrentPrice(gctx, symbol)
			if err != nil {
				logger.WithField("symbol", symbol).WithError(err).Debug("skipping price")
				return nil
			}
			mu.Lock()
			out[symbol] = price
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Search runs a free-text instrument search for manual entry.
func (p *PriceService) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	sctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()
	return p.src.Search(sctx, query)
}

func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
