package connectors

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"wealthsync/src/model"
)

const (
	wealthService        = "wealth-api"
	defaultWealthBaseURL = "http://localhost:8000"
)

// WealthClient is the client of the backend wealth-tracking API. Reads are
// retried on 408/429/5xx, writes never are.
type WealthClient struct {
	baseURL string
	http    *resty.Client
}

func NewWealthClient(baseURL, token string) *WealthClient {
	retryCount := defaultRetryAttempts - 1

	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultWealthBaseURL
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(retryCount).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableRead)
	if token != "" {
		httpClient.SetAuthToken(token)
	}

	return &WealthClient{
		baseURL: baseURL,
		http:    httpClient,
	}
}

func (c *WealthClient) do(ctx context.Context, method, path string, prepare func(*resty.Request), out any) error {
	req := c.http.R().SetContext(ctx)
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("wealth api %s %s: %w", method, path, err)
	}
	if err := checkResponse(wealthService, path, resp, out); err != nil {
		logger.WithFields(map[string]interface{}{
			"method": method,
			"path":   path,
			"status": resp.StatusCode(),
		}).WithError(err).Warn("wealth api request failed")
		return err
	}
	return nil
}

func withJSON(body any) func(*resty.Request) {
	return func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
}

func (c *WealthClient) PortfolioSummary(ctx context.Context) (*model.APIPortfolioSummary, error) {
	var out model.APIPortfolioSummary
	if err := c.do(ctx, http.MethodGet, "/holdings/portfolio", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WealthClient) DashboardSummary(ctx context.Context) (*model.APIDashboardSummary, error) {
	var out model.APIDashboardSummary
	if err := c.do(ctx, http.MethodGet, "/net-worth/dashboard-summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GraphData returns the net-worth history for a period such as "1y".
func (c *WealthClient) GraphData(ctx context.Context, period string) ([]model.APIHistoricalDataPoint, error) {
	var out []model.APIHistoricalDataPoint
	err := c.do(ctx, http.MethodGet, "/net-worth/graph-data", func(r *resty.Request) {
		r.SetQueryParam("period", period)
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WealthClient) Goals(ctx context.Context) ([]model.APIGoal, error) {
	var out []model.APIGoal
	if err := c.do(ctx, http.MethodGet, "/goals/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WealthClient) CreateGoal(ctx context.Context, req model.CreateGoalRequest) (*model.APIGoal, error) {
	var out model.APIGoal
	if err := c.do(ctx, http.MethodPost, "/goals/", withJSON(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WealthClient) UpdateGoal(ctx context.Context, id int, req model.UpdateGoalRequest) (*model.APIGoal, error) {
	var out model.APIGoal
	if err := c.do(ctx, http.MethodPatch, "/goals/"+strconv.Itoa(id), withJSON(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WealthClient) UpdatePlatformCash(ctx context.Context, platform string, amount float64) (*model.APIPlatformCash, error) {
	var out model.APIPlatformCash
	err := c.do(ctx, http.MethodPost, "/holdings/cash/{platform}", func(r *resty.Request) {
		r.SetPathParam("platform", platform)
		withJSON(map[string]float64{"cash_balance": amount})(r)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WealthClient) UpdatePlatformColor(ctx context.Context, platform, color string) error {
	return c.do(ctx, http.MethodPost, "/holdings/platform/color", func(r *resty.Request) {
		r.SetQueryParams(map[string]string{"platform": platform, "color": color})
	}, nil)
}

func (c *WealthClient) DeletePlatform(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/holdings/platform/{name}", func(r *resty.Request) {
		r.SetPathParam("name", name)
	}, nil)
}

func (c *WealthClient) CreateInvestment(ctx context.Context, req model.InvestmentCreateRequest) (*model.APIInvestment, error) {
	var out model.APIInvestment
	if err := c.do(ctx, http.MethodPost, "/holdings/", withJSON(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WealthClient) UpdateInvestment(ctx context.Context, id int, req model.InvestmentUpdateRequest) (*model.APIInvestment, error) {
	var out model.APIInvestment
	if err := c.do(ctx, http.MethodPut, "/holdings/"+strconv.Itoa(id), withJSON(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WealthClient) DeleteInvestment(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/holdings/"+strconv.Itoa(id), nil, nil)
}

func (c *WealthClient) ConnectCrypto(ctx context.Context, req model.ConnectCryptoRequest) (*model.ConnectCryptoResponse, error) {
	var out model.ConnectCryptoResponse
	if err := c.do(ctx, http.MethodPost, "/crypto/connect-investment", withJSON(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
