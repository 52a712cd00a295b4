package model

// Wire shapes of the backend wealth API. Field names follow the backend's
// snake_case JSON.

type APIInvestment struct {
	ID              int     `json:"id"`
	Platform        string  `json:"platform"`
	Name            string  `json:"name"`
	Symbol          *string `json:"symbol"`
	Holdings        float64 `json:"holdings"`
	AmountSpent     float64 `json:"amount_spent"`
	AverageBuyPrice float64 `json:"average_buy_price"`
	CurrentPrice    float64 `json:"current_price"`
	LastUpdated     *string `json:"last_updated"`
}

type APIPlatformCash struct {
	Platform    string  `json:"platform"`
	CashBalance float64 `json:"cash_balance"`
	LastUpdated *string `json:"last_updated"`
}

type APIPlatformSummary struct {
	Name           string          `json:"name"`
	TotalValue     float64         `json:"total_value"`
	TotalInvested  float64         `json:"total_invested"`
	TotalPL        float64         `json:"total_pl"`
	TotalPLPercent float64         `json:"total_pl_percent"`
	CashBalance    float64         `json:"cash_balance"`
	Investments    []APIInvestment `json:"investments"`
	Color          string          `json:"color"`
}

type APIPortfolioSummary struct {
	TotalValue     float64              `json:"total_value"`
	TotalInvested  float64              `json:"total_invested"`
	TotalPL        float64              `json:"total_pl"`
	TotalPLPercent float64              `json:"total_pl_percent"`
	Platforms      []APIPlatformSummary `json:"platforms"`
}

type APIDashboardPlatformItem struct {
	Platform           string   `json:"platform"`
	Value              float64  `json:"value"`
	MonthChangeAmount  *float64 `json:"month_change_amount"`
	MonthChangePercent *float64 `json:"month_change_percent"`
}

type APIDashboardSummary struct {
	TotalNetworth     float64                    `json:"total_networth"`
	PlatformBreakdown map[string]float64         `json:"platform_breakdown"`
	MomChange         *float64                   `json:"mom_change"`
	MomChangePercent  *float64                   `json:"mom_change_percent"`
	YtdChange         *float64                   `json:"ytd_change"`
	YtdChangePercent  *float64                   `json:"ytd_change_percent"`
	Platforms         []APIDashboardPlatformItem `json:"platforms"`
}

type APIHistoricalDataPoint struct {
	Date              string             `json:"date"`
	Value             float64            `json:"value"`
	PlatformBreakdown map[string]float64 `json:"platform_breakdown,omitempty"`
}

type APIGoal struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	TargetAmount  float64 `json:"target_amount"`
	TargetDate    string  `json:"target_date"`
	Status        string  `json:"status"`
	IsPrimary     *bool   `json:"is_primary"`
	CompletedDate *string `json:"completed_date"`
}

type CreateGoalRequest struct {
	Title        string  `json:"title"`
	TargetAmount float64 `json:"target_amount"`
	TargetDate   string  `json:"target_date"`
	Status       string  `json:"status"`
	IsPrimary    bool    `json:"is_primary"`
}

type UpdateGoalRequest struct {
	Title        *string  `json:"title,omitempty"`
	Status       *string  `json:"status,omitempty"`
	TargetAmount *float64 `json:"target_amount,omitempty"`
	TargetDate   *string  `json:"target_date,omitempty"`
}

type InvestmentCreateRequest struct {
	Platform        string  `json:"platform"`
	Name            string  `json:"name"`
	Symbol          *string `json:"symbol"`
	Holdings        float64 `json:"holdings"`
	AmountSpent     float64 `json:"amount_spent"`
	AverageBuyPrice float64 `json:"average_buy_price"`
	CurrentPrice    float64 `json:"current_price"`
}

type InvestmentUpdateRequest struct {
	Platform        *string  `json:"platform,omitempty"`
	Name            *string  `json:"name,omitempty"`
	Symbol          *string  `json:"symbol,omitempty"`
	Holdings        *float64 `json:"holdings,omitempty"`
	AmountSpent     *float64 `json:"amount_spent,omitempty"`
	AverageBuyPrice *float64 `json:"average_buy_price,omitempty"`
	CurrentPrice    *float64 `json:"current_price,omitempty"`
}

type ConnectCryptoRequest struct {
	PlatformID string `json:"platform_id"`
	Name       string `json:"name"`
	Xpub       string `json:"xpub"`
	UserID     int    `json:"user_id"`
}

type ConnectCryptoResponse struct {
	Status       string `json:"status"`
	InvestmentID int    `json:"investment_id"`
	WalletID     int    `json:"wallet_id"`
	Message      string `json:"message"`
}
