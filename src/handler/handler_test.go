package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealthsync/src/connectors"
	"wealthsync/src/controller"
	"wealthsync/src/goals"
	"wealthsync/src/marketdata"
	"wealthsync/src/model"
	"wealthsync/src/reconciler"
)

type staticStore []model.Platform

func (s staticStore) List() []model.Platform { return s }

func (s staticStore) FindByName(name string) (model.Platform, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return model.Platform{}, false
}

func TestStatusFor(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"unauthorized":  {fmt.Errorf("fetch: %w", connectors.ErrUnauthorized), http.StatusUnauthorized},
		"validation":    {&controller.ValidationError{Field: "shares", Reason: "not a number"}, http.StatusBadRequest},
		"not connected": {controller.ErrNotConnected, http.StatusBadRequest},
		"missing id":    {controller.ErrMissingBackendID, http.StatusConflict},
		"not found":     {fmt.Errorf("goal: %w", controller.ErrNotFound), http.StatusNotFound},
		"api":           {&connectors.APIError{Service: "wealth", StatusCode: 500}, http.StatusBadGateway},
		"decode":        {&connectors.DecodeError{Service: "yahoo", Err: errors.New("eof")}, http.StatusBadGateway},
		"other":         {errors.New("db down"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}

func TestValuationHandler(t *testing.T) {
	store := staticStore{{
		ID:          uuid.New(),
		Name:        "ISA",
		CashBalance: 50,
		Investments: []model.Position{{Name: "Apple", Shares: 2, AveragePrice: 100, CurrentPrice: 150}},
	}}

	rr := httptest.NewRecorder()
	ValuationHandler(store).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/valuation", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Portfolio struct {
			TotalValue      float64 `json:"total_value"`
			TotalProfitLoss float64 `json:"total_profit_loss"`
		} `json:"portfolio"`
		Platforms []struct {
			Positions []struct {
				Name      string `json:"name"`
				Valuation struct {
					ProfitLossPercent float64 `json:"profit_loss_percent"`
				} `json:"valuation"`
			} `json:"positions"`
		} `json:"platforms"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 350.0, resp.Portfolio.TotalValue)
	assert.Equal(t, 150.0, resp.Portfolio.TotalProfitLoss)
	require.Len(t, resp.Platforms, 1)
	assert.Equal(t, "Apple", resp.Platforms[0].Positions[0].Name)
	assert.Equal(t, 50.0, resp.Platforms[0].Positions[0].Valuation.ProfitLossPercent)
}

type fakeImporter struct {
	creds connectors.Credentials
	err   error
}

func (f *fakeImporter) Import(_ context.Context, creds connectors.Credentials) (*reconciler.Result, error) {
	f.creds = creds
	if f.err != nil {
		return nil, f.err
	}
	return &reconciler.Result{Platform: model.Platform{Name: reconciler.TargetPlatformName}, Created: true}, nil
}

type fakeCredentials struct {
	stored   *connectors.Credentials
	imported int
}

func (f *fakeCredentials) Connect(_ context.Context, _ string, creds connectors.Credentials) error {
	if creds.APIKey == "" || creds.APISecret == "" {
		return &controller.ValidationError{Field: "api_key", Reason: "value is required"}
	}
	f.stored = &creds
	return nil
}

func (f *fakeCredentials) Credentials(context.Context, string) (connectors.Credentials, error) {
	if f.stored == nil {
		return connectors.Credentials{}, controller.ErrNotConnected
	}
	return *f.stored, nil
}

func (f *fakeCredentials) MarkImported(context.Context, string) { f.imported++ }

func TestImportTrading212Handler(t *testing.T) {
	t.Run("not connected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		ImportTrading212Handler(&fakeImporter{}, &fakeCredentials{}).
			ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/imports/trading212", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("remember then reuse", func(t *testing.T) {
		imp := &fakeImporter{}
		conns := &fakeCredentials{}
		h := ImportTrading212Handler(imp, conns)

		body := `{"api_key":"k","api_secret":"s","remember":true}`
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/imports/trading212", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, connectors.Credentials{APIKey: "k", APISecret: "s"}, imp.creds)
		require.NotNil(t, conns.stored)

		imp.creds = connectors.Credentials{}
		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/imports/trading212", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "k", imp.creds.APIKey)
		assert.Equal(t, 2, conns.imported)
	})

	t.Run("unauthorized", func(t *testing.T) {
		imp := &fakeImporter{err: fmt.Errorf("fetch portfolio: %w", connectors.ErrUnauthorized)}
		conns := &fakeCredentials{}
		body := `{"api_key":"k","api_secret":"bad"}`
		rr := httptest.NewRecorder()
		ImportTrading212Handler(imp, conns).
			ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/imports/trading212", strings.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, conns.stored)
		assert.Zero(t, conns.imported)
	})

	t.Run("chunked body", func(t *testing.T) {
		imp := &fakeImporter{}
		stored := connectors.Credentials{APIKey: "stored", APISecret: "stored"}
		conns := &fakeCredentials{stored: &stored}

		req := httptest.NewRequest(http.MethodPost, "/imports/trading212", strings.NewReader(`{"api_key":"k","api_secret":"s"}`))
		req.ContentLength = -1
		rr := httptest.NewRecorder()
		ImportTrading212Handler(imp, conns).ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, connectors.Credentials{APIKey: "k", APISecret: "s"}, imp.creds)
	})

	t.Run("empty body uses stored", func(t *testing.T) {
		imp := &fakeImporter{}
		stored := connectors.Credentials{APIKey: "stored", APISecret: "stored"}

		req := httptest.NewRequest(http.MethodPost, "/imports/trading212", strings.NewReader(""))
		req.ContentLength = -1
		rr := httptest.NewRecorder()
		ImportTrading212Handler(imp, &fakeCredentials{stored: &stored}).ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, stored, imp.creds)
	})

	t.Run("missing secret", func(t *testing.T) {
		imp := &fakeImporter{}
		rr := httptest.NewRecorder()
		ImportTrading212Handler(imp, &fakeCredentials{}).
			ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/imports/trading212", strings.NewReader(`{"api_key":"k"}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, imp.creds.APIKey)
	})
}

type fakeResolver struct{ known map[string]string }

func (f fakeResolver) Resolve(_ context.Context, symbols []string) marketdata.Resolution {
	out := marketdata.Resolution{BySymbol: map[string]model.MarketMetadata{}}
	for _, s := range symbols {
		if name, ok := f.known[s]; ok {
			n := name
			out.BySymbol[s] = model.MarketMetadata{Symbol: s, Name: &n, Source: model.MetadataSourceQuote}
		}
	}
	return out
}

func TestResolveMetadataHandler(t *testing.T) {
	h := ResolveMetadataHandler(fakeResolver{known: map[string]string{"AAPL": "Apple Inc."}})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/metadata/resolve", strings.NewReader(`{"symbols":[" aapl ","ZZZ"]}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	var out map[string]model.MarketMetadata
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "Apple Inc.", *out["AAPL"].Name)
	assert.Equal(t, model.MetadataSourceUnknown, out["ZZZ"].Source)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/metadata/resolve", strings.NewReader(`{"symbols":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

type fakeHoldings struct {
	holdingsManager
	err error
}

func (f fakeHoldings) DeleteInvestment(context.Context, uuid.UUID, uuid.UUID) error { return f.err }

func TestDeleteInvestmentHandler(t *testing.T) {
	route := func(err error) *chi.Mux {
		r := chi.NewRouter()
		r.Delete("/platforms/{platformID}/investments/{positionID}", DeleteInvestmentHandler(fakeHoldings{err: err}))
		return r
	}
	path := fmt.Sprintf("/platforms/%s/investments/%s", uuid.New(), uuid.New())

	rr := httptest.NewRecorder()
	route(controller.ErrMissingBackendID).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = httptest.NewRecorder()
	route(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	route(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/platforms/nope/investments/x", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

type addPlatformHoldings struct {
	holdingsManager
	added []string
}

func (f *addPlatformHoldings) AddPlatform(_ context.Context, name, _ string) error {
	f.added = append(f.added, name)
	return nil
}

func TestCreatePlatformHandlerReturnsPlatform(t *testing.T) {
	crypto := model.Platform{ID: uuid.New(), Name: "Crypto", ColorHex: "#F7931A"}
	holdings := &addPlatformHoldings{}
	h := CreatePlatformHandler(holdings, staticStore{crypto})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/platforms", strings.NewReader(`{"name":" Crypto ","color":"#F7931A"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)

	var got model.Platform
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, crypto.ID, got.ID)
	assert.Equal(t, []string{" Crypto "}, holdings.added)
}

type fakeGoals struct {
	goalsManager
	board goals.Board
}

func (f fakeGoals) Load(context.Context) (goals.Board, error) { return f.board, nil }

func TestGoalsHandlerReportsProgress(t *testing.T) {
	active := model.Goal{ID: uuid.New(), Title: "House", TargetAmount: 1000, TargetDate: time.Now().Add(240 * time.Hour)}
	h := GoalsHandler(fakeGoals{board: goals.Board{Active: &active, Upcoming: []model.Goal{}, Completed: []model.Goal{}}},
		staticStore{{Name: "ISA", CashBalance: 250}})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/goals", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var view struct {
		Active struct {
			Title         string  `json:"title"`
			Progress      float64 `json:"progress"`
			DaysRemaining int     `json:"days_remaining"`
		} `json:"active"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "House", view.Active.Title)
	assert.Equal(t, 0.25, view.Active.Progress)
	assert.Equal(t, 9, view.Active.DaysRemaining)
}

type fakeDashboard struct{ gotRange model.TimeRange }

func (f *fakeDashboard) Summary(context.Context) (model.DashboardSummary, error) {
	return model.DashboardSummary{CurrentNetWorth: 10}, nil
}

func (f *fakeDashboard) History(_ context.Context, r model.TimeRange) ([]model.NetWorthPoint, error) {
	f.gotRange = r
	return []model.NetWorthPoint{{Value: 1}}, nil
}

func TestHistoryHandler(t *testing.T) {
	src := &fakeDashboard{}
	h := HistoryHandler(src)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history?range=1y", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.TimeRange1Y, src.gotRange)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history?range=2Y", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.TimeRange1M, src.gotRange)
}

func TestFXHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	FXHandler(staticRate{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fx", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "USDGBP=X")
}

type staticRate struct{}

func (staticRate) Rate(context.Context) marketdata.FXRate {
	return marketdata.FXRate{Pair: "USDGBP=X", Rate: 0.77, Fallback: true}
}
