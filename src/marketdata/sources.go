package marketdata

import (
	"context"

	"wealthsync/src/model"
)

type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (*model.MarketMetadata, error)
}

type ChartSource interface {
	Chart(ctx context.Context, symbol string) (*model.MarketMetadata, error)
}

type SearchSource interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

// Source is the full market-data collaborator, satisfied by
// connectors.YahooClient.
type Source interface {
	QuoteSource
	ChartSource
	SearchSource
}
