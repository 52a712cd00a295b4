package model

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange is a history window understood by the backend graph endpoint.
type TimeRange string

const (
	TimeRange24H TimeRange = "24H"
	TimeRange1W  TimeRange = "1W"
	TimeRange1M  TimeRange = "1M"
	TimeRange3M  TimeRange = "3M"
	TimeRange6M  TimeRange = "6M"
	TimeRange1Y  TimeRange = "1Y"
	TimeRangeMax TimeRange = "MAX"
)

var TimeRanges = []TimeRange{TimeRange24H, TimeRange1W, TimeRange1M, TimeRange3M, TimeRange6M, TimeRange1Y, TimeRangeMax}

// ParseTimeRange accepts any casing of a known range.
func ParseTimeRange(s string) (TimeRange, error) {
	up := TimeRange(strings.ToUpper(strings.TrimSpace(s)))
	for _, r := range TimeRanges {
		if r == up {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown time range %q", s)
}

// NetWorthPoint is one sample of the net-worth history.
type NetWorthPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// PlatformPerformance is the backend's month-over-month delta for a platform.
type PlatformPerformance struct {
	Platform           string   `json:"platform"`
	Value              float64  `json:"value"`
	MonthChangeAmount  *float64 `json:"month_change_amount,omitempty"`
	MonthChangePercent *float64 `json:"month_change_percent,omitempty"`
}

type DashboardSummary struct {
	CurrentNetWorth     float64               `json:"current_net_worth"`
	LastUpdated         time.Time             `json:"last_updated"`
	MonthChange         float64               `json:"month_change"`
	MonthChangePercent  float64               `json:"month_change_percent"`
	YearChange          float64               `json:"year_change"`
	YearChangePercent   float64               `json:"year_change_percent"`
	PlatformPerformance []PlatformPerformance `json:"platform_performance,omitempty"`
}

// BreakdownItem is one platform's share of total net worth.
type BreakdownItem struct {
	Name               string  `json:"name"`
	Color              string  `json:"color"`
	Value              float64 `json:"value"`
	Percentage         float64 `json:"percentage"`
	MonthChange        float64 `json:"month_change"`
	MonthChangePercent float64 `json:"month_change_percent"`
}
