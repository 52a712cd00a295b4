package controller

import (
	"context"
	"sync"

	"wealthsync/src/model"
)

// fakeWealthAPI records calls and serves a mutable portfolio.
type fakeWealthAPI struct {
	mu        sync.Mutex
	calls     []string
	portfolio model.APIPortfolioSummary
	goals     []model.APIGoal
	dashboard model.APIDashboardSummary
	history   []model.APIHistoricalDataPoint
	err       error

	created []model.InvestmentCreateRequest
	updated map[int]model.InvestmentUpdateRequest
	goalUpd map[int]model.UpdateGoalRequest
	crypto  []model.ConnectCryptoRequest
}

func newFakeWealthAPI() *fakeWealthAPI {
	return &fakeWealthAPI{
		updated: map[int]model.InvestmentUpdateRequest{},
		goalUpd: map[int]model.UpdateGoalRequest{},
	}
}

func (f *fakeWealthAPI) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeWealthAPI) PortfolioSummary(context.Context) (*model.APIPortfolioSummary, error) {
	if err := f.record("portfolio"); err != nil {
		return nil, err
	}
	out := f.portfolio
	return &out, nil
}

func (f *fakeWealthAPI) UpdatePlatformCash(_ context.Context, platform string, amount float64) (*model.APIPlatformCash, error) {
	if err := f.record("cash:" + platform); err != nil {
		return nil, err
	}
	for i := range f.portfolio.Platforms {
		if f.portfolio.Platforms[i].Name == platform {
			f.portfolio.Platforms[i].CashBalance = amount
			return &model.APIPlatformCash{Platform: platform, CashBalance: amount}, nil
		}
	}
	f.portfolio.Platforms = append(f.portfolio.Platforms, model.APIPlatformSummary{Name: platform, CashBalance: amount})
	return &model.APIPlatformCash{Platform: platform, CashBalance: amount}, nil
}

func (f *fakeWealthAPI) UpdatePlatformColor(_ context.Context, platform, color string) error {
	if err := f.record("color:" + platform); err != nil {
		return err
	}
	for i := range f.portfolio.Platforms {
		if f.portfolio.Platforms[i].Name == platform {
			f.portfolio.Platforms[i].Color = color
		}
	}
	return nil
}

func (f *fakeWealthAPI) DeletePlatform(_ context.Context, name string) error {
	if err := f.record("delete-platform:" + name); err != nil {
		return err
	}
	kept := f.portfolio.Platforms[:0]
	for _, p := range f.portfolio.Platforms {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	f.portfolio.Platforms = kept
	return nil
}

func (f *fakeWealthAPI) CreateInvestment(_ context.Context, req model.InvestmentCreateRequest) (*model.APIInvestment, error) {
	if err := f.record("create-investment"); err != nil {
		return nil, err
	}
	f.created = append(f.created, req)
	return &model.APIInvestment{ID: 100 + len(f.created), Platform: req.Platform, Name: req.Name}, nil
}

func (f *fakeWealthAPI) UpdateInvestment(_ context.Context, id int, req model.InvestmentUpdateRequest) (*model.APIInvestment, error) {
	if err := f.record("update-investment"); err != nil {
		return nil, err
	}
	f.updated[id] = req
	return &model.APIInvestment{ID: id}, nil
}

func (f *fakeWealthAPI) DeleteInvestment(_ context.Context, id int) error {
	return f.record("delete-investment")
}

func (f *fakeWealthAPI) ConnectCrypto(_ context.Context, req model.ConnectCryptoRequest) (*model.ConnectCryptoResponse, error) {
	if err := f.record("connect-crypto"); err != nil {
		return nil, err
	}
	f.crypto = append(f.crypto, req)
	return &model.ConnectCryptoResponse{Status: "ok", InvestmentID: 1, WalletID: 2}, nil
}

func (f *fakeWealthAPI) Goals(context.Context) ([]model.APIGoal, error) {
	if err := f.record("goals"); err != nil {
		return nil, err
	}
	return f.goals, nil
}

func (f *fakeWealthAPI) CreateGoal(_ context.Context, req model.CreateGoalRequest) (*model.APIGoal, error) {
	if err := f.record("create-goal"); err != nil {
		return nil, err
	}
	g := model.APIGoal{ID: 50, Title: req.Title, TargetAmount: req.TargetAmount, TargetDate: req.TargetDate, Status: req.Status}
	f.goals = append(f.goals, g)
	return &g, nil
}

func (f *fakeWealthAPI) UpdateGoal(_ context.Context, id int, req model.UpdateGoalRequest) (*model.APIGoal, error) {
	if err := f.record("update-goal"); err != nil {
		return nil, err
	}
	f.goalUpd[id] = req
	return &model.APIGoal{ID: id}, nil
}

func (f *fakeWealthAPI) DashboardSummary(context.Context) (*model.APIDashboardSummary, error) {
	if err := f.record("dashboard"); err != nil {
		return nil, err
	}
	out := f.dashboard
	return &out, nil
}

func (f *fakeWealthAPI) GraphData(_ context.Context, period string) ([]model.APIHistoricalDataPoint, error) {
	if err := f.record("graph:" + period); err != nil {
		return nil, err
	}
	return f.history, nil
}
