package connectors

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"wealthsync/src/model"
)

const (
	yahooService          = "yahoo"
	defaultYahooSearchURL = "https://query2.finance.yahoo.com"
	defaultYahooQuoteURL  = "https://query1.finance.yahoo.com"
	defaultYahooUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"

	yahooSearchPath = "/v1/finance/search"
	yahooQuotePath  = "/v7/finance/quote"
	yahooChartPath  = "/v8/finance/chart/{symbol}"
)

type yahooSearchResponse struct {
	Quotes []struct {
		Symbol             string   `json:"symbol"`
		ShortName          *string  `json:"shortname"`
		LongName           *string  `json:"longname"`
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
	} `json:"quotes"`
}

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol             string   `json:"symbol"`
			LongName           *string  `json:"longName"`
			ShortName          *string  `json:"shortName"`
			RegularMarketPrice *float64 `json:"regularMarketPrice"`
			Currency           *string  `json:"currency"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				Currency           *string  `json:"currency"`
				LongName           *string  `json:"longName"`
				ShortName          *string  `json:"shortName"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// YahooClient talks to the public Yahoo Finance search, quote and chart
// endpoints. Search lives on a different host than quote and chart.
type YahooClient struct {
	search *resty.Client
	quote  *resty.Client
}

func NewYahooClient(searchURL, quoteURL, userAgent string) *YahooClient {
	if strings.TrimSpace(searchURL) == "" {
		searchURL = defaultYahooSearchURL
	}
	if strings.TrimSpace(quoteURL) == "" {
		quoteURL = defaultYahooQuoteURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultYahooUserAgent
	}

	newHTTP := func(base string) *resty.Client {
		return resty.New().
			SetBaseURL(strings.TrimRight(base, "/")).
			SetTimeout(defaultTimeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json")
	}

	return &YahooClient{
		search: newHTTP(searchURL),
		quote:  newHTTP(quoteURL),
	}
}

// Search runs a free-text lookup. Result names fall back from the short
// name to the long name to the symbol itself.
func (c *YahooClient) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	resp, err := c.search.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get(yahooSearchPath)
	if err != nil {
		return nil, fmt.Errorf("yahoo search %q: %w", query, err)
	}

	var out yahooSearchResponse
	if err := checkResponse(yahooService, yahooSearchPath, resp, &out); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(out.Quotes))
	for _, q := range out.Quotes {
		q := q
		results = append(results, model.SearchResult{
			Symbol:       q.Symbol,
			Name:         firstNonEmpty(q.ShortName, q.LongName, &q.Symbol),
			CurrentPrice: q.RegularMarketPrice,
		})
	}
	return results, nil
}

// Quote returns the quote details of a symbol. The name prefers the long
// name over the short name and may be nil.
func (c *YahooClient) Quote(ctx context.Context, symbol string) (*model.MarketMetadata, error) {
	resp, err := c.quote.R().
		SetContext(ctx).
		SetQueryParam("symbols", symbol).
		Get(yahooQuotePath)
	if err != nil {
		return nil, fmt.Errorf("yahoo quote %s: %w", symbol, err)
	}

	var out yahooQuoteResponse
	if err := checkResponse(yahooService, yahooQuotePath, resp, &out); err != nil {
		return nil, err
	}
	if len(out.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("yahoo quote %s: %w", symbol, ErrNoData)
	}

	r := out.QuoteResponse.Result[0]
	return &model.MarketMetadata{
		Symbol:             symbol,
		Name:               optionalName(r.LongName, r.ShortName),
		Currency:           r.Currency,
		RegularMarketPrice: r.RegularMarketPrice,
		Source:             model.MetadataSourceQuote,
	}, nil
}

// Chart returns the metadata block of the one-day chart of a symbol. Some
// funds only resolve here.
func (c *YahooClient) Chart(ctx context.Context, symbol string) (*model.MarketMetadata, error) {
	resp, err := c.quote.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{"interval": "1d", "range": "1d"}).
		Get(yahooChartPath)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	var out yahooChartResponse
	if err := checkResponse(yahooService, yahooChartPath, resp, &out); err != nil {
		return nil, err
	}
	if len(out.Chart.Result) == 0 {
		logger.WithField("symbol", symbol).Debug("yahoo chart returned no result")
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, ErrNoData)
	}

	meta := out.Chart.Result[0].Meta
	return &model.MarketMetadata{
		Symbol:             symbol,
		Name:               optionalName(meta.LongName, meta.ShortName),
		Currency:           meta.Currency,
		RegularMarketPrice: meta.RegularMarketPrice,
		Source:             model.MetadataSourceChart,
	}, nil
}

func optionalName(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			v := *c
			return &v
		}
	}
	return nil
}

func firstNonEmpty(candidates ...*string) string {
	if v := optionalName(candidates...); v != nil {
		return *v
	}
	return ""
}
