package model

// MetadataSource tells which market-data endpoint produced a MarketMetadata.
type MetadataSource string

const (
	MetadataSourceQuote   MetadataSource = "quote"
	MetadataSourceChart   MetadataSource = "chart"
	MetadataSourceSearch  MetadataSource = "search"
	MetadataSourceUnknown MetadataSource = "unknown"
)

// MarketMetadata is the resolved identity of a canonical symbol. It is built
// per resolution request and never persisted.
type MarketMetadata struct {
	Symbol             string         `json:"symbol"`
	Name               *string        `json:"name,omitempty"`
	Currency           *string        `json:"currency,omitempty"`
	RegularMarketPrice *float64       `json:"regular_market_price,omitempty"`
	Source             MetadataSource `json:"source"`
}

// Known reports whether a display name was resolved.
func (m MarketMetadata) Known() bool {
	return m.Name != nil && *m.Name != ""
}

// UnknownMetadata is the terminal result of a failed resolution.
func UnknownMetadata(symbol string) MarketMetadata {
	return MarketMetadata{Symbol: symbol, Source: MetadataSourceUnknown}
}

// RawBrokerPosition is the Trading 212 view of a holding, before ticker
// normalization and price scaling.
type RawBrokerPosition struct {
	Ticker          string   `json:"ticker"`
	Quantity        float64  `json:"quantity"`
	AveragePrice    float64  `json:"averagePrice"`
	CurrentPrice    float64  `json:"currentPrice"`
	PPL             float64  `json:"ppl"`
	FxPPL           *float64 `json:"fxPpl,omitempty"`
	InitialFillDate *string  `json:"initialFillDate,omitempty"`
	MaxBuy          *float64 `json:"maxBuy,omitempty"`
	MaxSell         *float64 `json:"maxSell,omitempty"`
	PieID           *float64 `json:"pieId,omitempty"`
}

// Value is quantity times current price in broker units.
func (r RawBrokerPosition) Value() float64 {
	return r.Quantity * r.CurrentPrice
}

// BrokerInstrument is an entry of the Trading 212 instrument catalogue.
type BrokerInstrument struct {
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	CurrencyCode string  `json:"currencyCode"`
	ShortName    *string `json:"shortName,omitempty"`
}

// SearchResult is a free-text market search hit.
type SearchResult struct {
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice *float64 `json:"current_price,omitempty"`
}
