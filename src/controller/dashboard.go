package controller

import (
	"context"
	"fmt"
	"time"

	"wealthsync/src/mapper"
	"wealthsync/src/model"
)

type DashboardAPI interface {
	DashboardSummary(ctx context.Context) (*model.APIDashboardSummary, error)
	GraphData(ctx context.Context, period string) ([]model.APIHistoricalDataPoint, error)
}

// PerformanceSink receives fresh per-platform performance figures.
type PerformanceSink interface {
	ApplyPerformance(perf []model.PlatformPerformance)
}

type DashboardController struct {
	api  DashboardAPI
	sink PerformanceSink
	now  func() time.Time
}

func NewDashboardController(api DashboardAPI, sink PerformanceSink) *DashboardController {
	return &DashboardController{api: api, sink: sink, now: time.Now}
}

// Summary fetches the dashboard summary and forwards its performance
// figures to the sink.
func (c *DashboardController) Summary(ctx context.Context) (model.DashboardSummary, error) {
	raw, err := c.api.DashboardSummary(ctx)
	if err != nil {
		return model.DashboardSummary{}, fmt.Errorf("dashboard summary: %w", err)
	}
	summary := mapper.MapDashboardSummary(raw, c.now())
	if c.sink != nil {
		c.sink.ApplyPerformance(summary.PlatformPerformance)
	}
	return summary, nil
}

func (c *DashboardController) History(ctx context.Context, r model.TimeRange) ([]model.NetWorthPoint, error) {
	points, err := c.api.GraphData(ctx, string(r))
	if err != nil {
		return nil, fmt.Errorf("net worth history %s: %w", r, err)
	}
	return mapper.MapHistory(points), nil
}
