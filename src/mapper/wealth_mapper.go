package mapper

import (
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"wealthsync/src/model"
	"wealthsync/src/utils"
)

// MapPortfolioSummary converts the backend portfolio into platforms. Ids of
// platforms already known by name, and of positions known by backend id, are
// kept so repeated loads address the same entries.
func MapPortfolioSummary(summary *model.APIPortfolioSummary, known []model.Platform) []model.Platform {
	if summary == nil {
		return nil
	}

	platformIDs := make(map[string]uuid.UUID, len(known))
	positionIDs := make(map[int]uuid.UUID)
	for _, p := range known {
		platformIDs[p.Name] = p.ID
		for _, inv := range p.Investments {
			if inv.BackendID != nil {
				positionIDs[*inv.BackendID] = inv.ID
			}
		}
	}

	out := make([]model.Platform, 0, len(summary.Platforms))
	for _, ap := range summary.Platforms {
		id, ok := platformIDs[ap.Name]
		if !ok {
			id = uuid.New()
		}
		p := model.Platform{
			ID:          id,
			Name:        ap.Name,
			ColorHex:    ap.Color,
			Origin:      model.PlatformOriginBackend,
			CashBalance: ap.CashBalance,
			Investments: make([]model.Position, 0, len(ap.Investments)),
		}
		for _, ai := range ap.Investments {
			p.Investments = append(p.Investments, MapInvestment(ai, id, positionIDs))
		}
		out = append(out, p)
	}

	logger.WithFields(map[string]interface{}{
		"mapper":    "MapPortfolioSummary",
		"platforms": len(out),
	}).Debug("portfolio summary mapped")

	return out
}

func MapInvestment(ai model.APIInvestment, platformID uuid.UUID, knownIDs map[int]uuid.UUID) model.Position {
	id, ok := knownIDs[ai.ID]
	if !ok {
		id = uuid.New()
	}
	backendID := ai.ID
	amountSpent := ai.AmountSpent

	var symbol *string
	if ai.Symbol != nil && *ai.Symbol != "" {
		s := *ai.Symbol
		symbol = &s
	}

	pos := model.Position{
		ID:           id,
		PlatformID:   platformID,
		BackendID:    &backendID,
		Name:         ai.Name,
		Symbol:       symbol,
		AmountSpent:  &amountSpent,
		Shares:       ai.Holdings,
		AveragePrice: ai.AverageBuyPrice,
		CurrentPrice: ai.CurrentPrice,
	}
	if ai.LastUpdated != nil {
		if t, err := utils.ParseHistoryDate(*ai.LastUpdated); err == nil {
			pos.UpdatedAt = t
		}
	}
	return pos
}

// MapGoal converts a backend goal. An unparseable target date falls back
// to now.
func MapGoal(g model.APIGoal, now time.Time) model.Goal {
	target, err := utils.ParseDate(g.TargetDate)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"goal":        g.ID,
			"target_date": g.TargetDate,
		}).WithError(err).Warn("invalid goal target date")
		target = now
	}

	backendID := g.ID
	goal := model.Goal{
		ID:           uuid.New(),
		BackendID:    &backendID,
		Title:        g.Title,
		TargetAmount: g.TargetAmount,
		TargetDate:   target,
		IsCompleted:  model.IsCompletedStatus(g.Status),
		CreatedAt:    now,
	}
	if g.CompletedDate != nil {
		if t, err := utils.ParseHistoryDate(*g.CompletedDate); err == nil {
			goal.CompletedDate = &t
		}
	}
	return goal
}

func MapGoals(goals []model.APIGoal, now time.Time) []model.Goal {
	out := make([]model.Goal, 0, len(goals))
	for _, g := range goals {
		out = append(out, MapGoal(g, now))
	}
	return out
}

// MapHistory converts history points, dropping those with an unparseable
// date.
func MapHistory(points []model.APIHistoricalDataPoint) []model.NetWorthPoint {
	out := make([]model.NetWorthPoint, 0, len(points))
	for _, p := range points {
		ts, err := utils.ParseHistoryDate(p.Date)
		if err != nil {
			logger.WithField("date", p.Date).WithError(err).Warn("dropping history point")
			continue
		}
		out = append(out, model.NetWorthPoint{Timestamp: ts, Value: p.Value})
	}
	return out
}

func MapPerformance(items []model.APIDashboardPlatformItem) []model.PlatformPerformance {
	out := make([]model.PlatformPerformance, 0, len(items))
	for _, it := range items {
		out = append(out, model.PlatformPerformance{
			Platform:           it.Platform,
			Value:              it.Value,
			MonthChangeAmount:  it.MonthChangeAmount,
			MonthChangePercent: it.MonthChangePercent,
		})
	}
	return out
}

// MapDashboardSummary fills absent changes with zero. The backend does not
// send a timestamp, so now is used.
func MapDashboardSummary(s *model.APIDashboardSummary, now time.Time) model.DashboardSummary {
	if s == nil {
		return model.DashboardSummary{LastUpdated: now}
	}
	return model.DashboardSummary{
		CurrentNetWorth:     s.TotalNetworth,
		LastUpdated:         now,
		MonthChange:         deref(s.MomChange),
		MonthChangePercent:  deref(s.MomChangePercent),
		YearChange:          deref(s.YtdChange),
		YearChangePercent:   deref(s.YtdChangePercent),
		PlatformPerformance: MapPerformance(s.Platforms),
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
