package marketdata

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"wealthsync/src/model"
)

// Strategy is one step of the metadata fallback chain. It reports ok=false
// when its source produced nothing usable; errors are absorbed.
type Strategy interface {
	Source() model.MetadataSource
	Resolve(ctx context.Context, symbol string) (model.MarketMetadata, bool)
}

// QuoteStrategy accepts quote details that carry a non-empty name.
type QuoteStrategy struct {
	src QuoteSource
}

func NewQuoteStrategy(src QuoteSource) QuoteStrategy { return QuoteStrategy{src: src} }

func (QuoteStrategy) Source() model.MetadataSource { return model.MetadataSourceQuote }

func (s QuoteStrategy) Resolve(ctx context.Context, symbol string) (model.MarketMetadata, bool) {
	md, err := s.src.Quote(ctx, symbol)
	return accept(symbol, s.Source(), md, err)
}

// ChartStrategy accepts the chart metadata block when it carries a name.
type ChartStrategy struct {
	src ChartSource
}

func NewChartStrategy(src ChartSource) ChartStrategy { return ChartStrategy{src: src} }

func (ChartStrategy) Source() model.MetadataSource { return model.MetadataSourceChart }

func (s ChartStrategy) Resolve(ctx context.Context, symbol string) (model.MarketMetadata, bool) {
	md, err := s.src.Chart(ctx, symbol)
	return accept(symbol, s.Source(), md, err)
}

// SearchStrategy accepts the first free-text search hit. The hit's symbol
// may differ from the query, e.g. after a rebrand. Currency stays unknown.
type SearchStrategy struct {
	src SearchSource
}

func NewSearchStrategy(src SearchSource) SearchStrategy { return SearchStrategy{src: src} }

func (SearchStrategy) Source() model.MetadataSource { return model.MetadataSourceSearch }

func (s SearchStrategy) Resolve(ctx context.Context, symbol string) (model.MarketMetadata, bool) {
	results, err := s.src.Search(ctx, symbol)
	if err != nil {
		logStrategyFailure(symbol, s.Source(), err)
		return model.MarketMetadata{}, false
	}
	if len(results) == 0 {
		return model.MarketMetadata{}, false
	}

	first := results[0]
	name := first.Name
	return model.MarketMetadata{
		Symbol:             first.Symbol,
		Name:               &name,
		RegularMarketPrice: first.CurrentPrice,
		Source:             model.MetadataSourceSearch,
	}, true
}

func accept(symbol string, source model.MetadataSource, md *model.MarketMetadata, err error) (model.MarketMetadata, bool) {
	if err != nil {
		logStrategyFailure(symbol, source, err)
		return model.MarketMetadata{}, false
	}
	if md == nil || !md.Known() {
		return model.MarketMetadata{}, false
	}
	out := *md
	out.Source = source
	if out.Symbol == "" {
		out.Symbol = symbol
	}
	return out, true
}

func logStrategyFailure(symbol string, source model.MetadataSource, err error) {
	logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"source": source,
	}).WithError(err).Debug("metadata lookup failed, falling back")
}
