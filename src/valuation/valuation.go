// Package valuation derives cost basis, value and profit figures for
// positions, platforms and whole portfolios. Every function is total: a
// zero denominator yields a percentage of exactly 0.
package valuation

import "wealthsync/src/model"

// Position holds the derived figures of a single holding.
type Position struct {
	CostBasis         float64 `json:"cost_basis"`
	CurrentValue      float64 `json:"current_value"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
}

// Totals holds the aggregate figures of a platform or a portfolio.
type Totals struct {
	TotalValue             float64 `json:"total_value"`
	TotalInvestedCost      float64 `json:"total_invested_cost"`
	TotalCostBasis         float64 `json:"total_cost_basis"`
	TotalProfitLoss        float64 `json:"total_profit_loss"`
	TotalProfitLossPercent float64 `json:"total_profit_loss_percent"`
	CashBalance            float64 `json:"cash_balance"`
}

// CostBasis prefers a non-zero explicit amount spent over shares times
// average price.
func CostBasis(p model.Position) float64 {
	if p.AmountSpent != nil && *p.AmountSpent != 0 {
		return *p.AmountSpent
	}
	return p.Shares * p.AveragePrice
}

func CurrentValue(p model.Position) float64 {
	return p.Shares * p.CurrentPrice
}

// Percent returns part/whole*100, or 0 when whole is 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

func ForPosition(p model.Position) Position {
	cost := CostBasis(p)
	value := CurrentValue(p)
	pl := value - cost
	return Position{
		CostBasis:         cost,
		CurrentValue:      value,
		ProfitLoss:        pl,
		ProfitLossPercent: Percent(pl, cost),
	}
}

func ForPlatform(p model.Platform) Totals {
	var value, invested float64
	for _, inv := range p.Investments {
		value += CurrentValue(inv)
		invested += CostBasis(inv)
	}
	total := value + p.CashBalance
	pl := total - invested
	return Totals{
		TotalValue:             total,
		TotalInvestedCost:      invested,
		TotalCostBasis:         invested + p.CashBalance,
		TotalProfitLoss:        pl,
		TotalProfitLossPercent: Percent(pl, invested),
		CashBalance:            p.CashBalance,
	}
}

// ForPortfolio sums platform totals and recomputes the percentage over the
// summed invested cost.
func ForPortfolio(platforms []model.Platform) Totals {
	var out Totals
	for _, p := range platforms {
		t := ForPlatform(p)
		out.TotalValue += t.TotalValue
		out.TotalInvestedCost += t.TotalInvestedCost
		out.TotalCostBasis += t.TotalCostBasis
		out.TotalProfitLoss += t.TotalProfitLoss
		out.CashBalance += t.CashBalance
	}
	out.TotalProfitLossPercent = Percent(out.TotalProfitLoss, out.TotalInvestedCost)
	return out
}
