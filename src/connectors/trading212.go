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
	trading212Service        = "trading212"
	defaultTrading212BaseURL = "https://live.trading212.com/api/v0"
	trading212PortfolioPath  = "/equity/portfolio"
	trading212InstrumentPath = "/equity/metadata/instruments"
)

// Credentials is a brokerage API key pair, sent as HTTP Basic auth.
type Credentials struct {
	APIKey    string
	APISecret string
}

// Trading212Client reads holdings from the Trading 212 equity API. The
// portfolio call is never retried; a failed import is reported to the caller.
type Trading212Client struct {
	baseURL string
	http    *resty.Client
}

func NewTrading212Client(baseURL string) *Trading212Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultTrading212BaseURL
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")

	return &Trading212Client{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// FetchPortfolio returns the open positions of the account. A 401 yields
// ErrUnauthorized, any other non-200 an *APIError, a malformed body a
// *DecodeError.
func (c *Trading212Client) FetchPortfolio(ctx context.Context, creds Credentials) ([]model.RawBrokerPosition, error) {
	var out []model.RawBrokerPosition
	if err := c.get(ctx, creds, trading212PortfolioPath, "Portfolio Error", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchInstruments returns the instrument catalogue.
func (c *Trading212Client) FetchInstruments(ctx context.Context, creds Credentials) ([]model.BrokerInstrument, error) {
	var out []model.BrokerInstrument
	if err := c.get(ctx, creds, trading212InstrumentPath, "Metadata Error", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Trading212Client) get(ctx context.Context, creds Credentials, path, label string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(creds.APIKey, creds.APISecret).
		Get(path)
	if err != nil {
		return fmt.Errorf("trading212 request %s: %w", path, err)
	}

	if resp.StatusCode() != 200 && resp.StatusCode() != 401 {
		logger.WithFields(map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode(),
		}).Warn("trading212 request failed")
		return &APIError{
			Service:    trading212Service,
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("%s: %s", label, string(resp.Body())),
		}
	}
	return checkResponse(trading212Service, path, resp, out)
}
