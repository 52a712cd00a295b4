package connectors

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Trading212BaseURL string `envconfig:"TRADING212_BASE_URL" default:"https://live.trading212.com/api/v0"`

	YahooSearchURL string `envconfig:"YAHOO_SEARCH_URL" default:"https://query2.finance.yahoo.com"`
	YahooQuoteURL  string `envconfig:"YAHOO_QUOTE_URL" default:"https://query1.finance.yahoo.com"`
	YahooUserAgent string `envconfig:"YAHOO_USER_AGENT" default:"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"`

	WealthAPIURL   string `envconfig:"WEALTH_API_URL" default:"http://localhost:8000"`
	WealthAPIToken string `envconfig:"WEALTH_API_TOKEN" default:""`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
