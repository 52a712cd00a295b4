package controller

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"wealthsync/src/mapper"
	"wealthsync/src/model"
	"wealthsync/src/valuation"
)

// HoldingsAPI is the part of the backend wealth API used for holdings.
type HoldingsAPI interface {
	PortfolioSummary(ctx context.Context) (*model.APIPortfolioSummary, error)
	UpdatePlatformCash(ctx context.Context, platform string, amount float64) (*model.APIPlatformCash, error)
	UpdatePlatformColor(ctx context.Context, platform, color string) error
	DeletePlatform(ctx context.Context, name string) error
	CreateInvestment(ctx context.Context, req model.InvestmentCreateRequest) (*model.APIInvestment, error)
	UpdateInvestment(ctx context.Context, id int, req model.InvestmentUpdateRequest) (*model.APIInvestment, error)
	DeleteInvestment(ctx context.Context, id int) error
	ConnectCrypto(ctx context.Context, req model.ConnectCryptoRequest) (*model.ConnectCryptoResponse, error)
}

type PlatformStore interface {
	List() []model.Platform
	Get(id uuid.UUID) (model.Platform, bool)
	Update(fn func(current []model.Platform) []model.Platform)
	Delete(id uuid.UUID) bool
	Exclusive(fn func() error) error
}

// HoldingsPersister mirrors the platform collection into the database.
type HoldingsPersister interface {
	SaveAll(ctx context.Context, platforms []model.Platform) error
	DeletePlatform(ctx context.Context, id uuid.UUID) error
}

// InvestmentInput is a manual position as entered by the user. Amounts are
// raw text and are validated before anything is sent.
type InvestmentInput struct {
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Shares       string `json:"shares"`
	AmountSpent  string `json:"amount_spent"`
	AveragePrice string `json:"average_price"`
	CurrentPrice string `json:"current_price"`
}

func (in InvestmentInput) parse() (model.Position, error) {
	name, err := requireText("name", in.Name)
	if err != nil {
		return model.Position{}, err
	}
	shares, err := ParseAmount("shares", in.Shares)
	if err != nil {
		return model.Position{}, err
	}
	spent, err := ParseOptionalAmount("amount_spent", in.AmountSpent)
	if err != nil {
		return model.Position{}, err
	}
	avg, err := ParseNonNegativeAmount("average_price", in.AveragePrice)
	if err != nil {
		return model.Position{}, err
	}
	current, err := ParseNonNegativeAmount("current_price", in.CurrentPrice)
	if err != nil {
		return model.Position{}, err
	}

	p := model.Position{
		Name:         name,
		AmountSpent:  spent,
		Shares:       shares,
		AveragePrice: avg,
		CurrentPrice: current,
	}
	if in.Symbol != "" {
		s := in.Symbol
		p.Symbol = &s
	}
	return p, nil
}

// HoldingsController runs the manual holdings operations against the
// backend and keeps the store in step by reloading after each mutation.
type HoldingsController struct {
	api          HoldingsAPI
	store        PlatformStore
	persister    HoldingsPersister
	cryptoUserID int
}

func NewHoldingsController(api HoldingsAPI, store PlatformStore, persister HoldingsPersister, cryptoUserID int) *HoldingsController {
	return &HoldingsController{api: api, store: store, persister: persister, cryptoUserID: cryptoUserID}
}

// Load fetches the backend portfolio and replaces the store contents.
// Platforms that do not mirror the backend, such as a brokerage import, are
// kept as they are in the store at the moment of the swap.
func (c *HoldingsController) Load(ctx context.Context) ([]model.Platform, error) {
	summary, err := c.api.PortfolioSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}

	var platforms []model.Platform
	err = c.store.Exclusive(func() error {
		remote := mapper.MapPortfolioSummary(summary, c.store.List())

		if c.persister != nil {
			if err := c.persister.SaveAll(ctx, withLocal(remote, c.store.List())); err != nil {
				return fmt.Errorf("persist holdings: %w", err)
			}
		}
		c.store.Update(func(current []model.Platform) []model.Platform {
			platforms = withLocal(remote, current)
			return platforms
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"platforms": len(platforms),
		"value":     valuation.ForPortfolio(platforms).TotalValue,
	}).Info("holdings loaded")

	return c.store.List(), nil
}

// RefreshPrices reloads holdings; the backend owns pricing.
func (c *HoldingsController) RefreshPrices(ctx context.Context) ([]model.Platform, error) {
	return c.Load(ctx)
}

// AddPlatform registers a platform by setting its cash to zero, then sets
// its color.
func (c *HoldingsController) AddPlatform(ctx context.Context, name, color string) error {
	name, err := requireText("name", name)
	if err != nil {
		return err
	}
	if _, err := c.api.UpdatePlatformCash(ctx, name, 0); err != nil {
		return fmt.Errorf("add platform %s: %w", name, err)
	}
	if color != "" {
		if err := c.api.UpdatePlatformColor(ctx, name, color); err != nil {
			return fmt.Errorf("set platform color %s: %w", name, err)
		}
	}
	_, err = c.Load(ctx)
	return err
}

func (c *HoldingsController) AddInvestment(ctx context.Context, platformID uuid.UUID, in InvestmentInput) error {
	pos, err := in.parse()
	if err != nil {
		return err
	}
	platform, err := c.platform(platformID)
	if err != nil {
		return err
	}

	_, err = c.api.CreateInvestment(ctx, model.InvestmentCreateRequest{
		Platform:        platform.Name,
		Name:            pos.Name,
		Symbol:          pos.Symbol,
		Holdings:        pos.Shares,
		AmountSpent:     valuation.CostBasis(pos),
		AverageBuyPrice: pos.AveragePrice,
		CurrentPrice:    pos.CurrentPrice,
	})
	if err != nil {
		return fmt.Errorf("add investment: %w", err)
	}
	_, err = c.Load(ctx)
	return err
}

func (c *HoldingsController) UpdateInvestment(ctx context.Context, platformID, positionID uuid.UUID, in InvestmentInput) error {
	pos, err := in.parse()
	if err != nil {
		return err
	}
	platform, existing, err := c.position(platformID, positionID)
	if err != nil {
		return err
	}
	if existing.BackendID == nil {
		return ErrMissingBackendID
	}

	cost := valuation.CostBasis(pos)
	_, err = c.api.UpdateInvestment(ctx, *existing.BackendID, model.InvestmentUpdateRequest{
		Platform:        &platform.Name,
		Name:            &pos.Name,
		Symbol:          pos.Symbol,
		Holdings:        &pos.Shares,
		AmountSpent:     &cost,
		AverageBuyPrice: &pos.AveragePrice,
		CurrentPrice:    &pos.CurrentPrice,
	})
	if err != nil {
		return fmt.Errorf("update investment %d: %w", *existing.BackendID, err)
	}
	_, err = c.Load(ctx)
	return err
}

func (c *HoldingsController) DeleteInvestment(ctx context.Context, platformID, positionID uuid.UUID) error {
	_, existing, err := c.position(platformID, positionID)
	if err != nil {
		return err
	}
	if existing.BackendID == nil {
		return ErrMissingBackendID
	}
	if err := c.api.DeleteInvestment(ctx, *existing.BackendID); err != nil {
		return fmt.Errorf("delete investment %d: %w", *existing.BackendID, err)
	}
	_, err = c.Load(ctx)
	return err
}

// DeletePlatform removes the platform on the backend, where it is addressed
// by name, and locally.
func (c *HoldingsController) DeletePlatform(ctx context.Context, platformID uuid.UUID) error {
	platform, err := c.platform(platformID)
	if err != nil {
		return err
	}
	if platform.Remote() {
		if err := c.api.DeletePlatform(ctx, platform.Name); err != nil {
			return fmt.Errorf("delete platform %s: %w", platform.Name, err)
		}
	}
	err = c.store.Exclusive(func() error {
		if c.persister != nil {
			if err := c.persister.DeletePlatform(ctx, platformID); err != nil {
				return fmt.Errorf("delete platform %s: %w", platform.Name, err)
			}
		}
		c.store.Delete(platformID)
		return nil
	})
	if err != nil || !platform.Remote() {
		return err
	}
	_, err = c.Load(ctx)
	return err
}

func (c *HoldingsController) UpdatePlatformCash(ctx context.Context, platformID uuid.UUID, rawAmount string) error {
	amount, err := ParseAmount("cash_balance", rawAmount)
	if err != nil {
		return err
	}
	platform, err := c.platform(platformID)
	if err != nil {
		return err
	}
	if _, err := c.api.UpdatePlatformCash(ctx, platform.Name, amount); err != nil {
		return fmt.Errorf("update cash %s: %w", platform.Name, err)
	}
	_, err = c.Load(ctx)
	return err
}

// ConnectCrypto links a wallet, identified by its extended public key, as a
// new investment of the platform.
func (c *HoldingsController) ConnectCrypto(ctx context.Context, platformID uuid.UUID, name, xpub string) (*model.ConnectCryptoResponse, error) {
	name, err := requireText("name", name)
	if err != nil {
		return nil, err
	}
	xpub, err = requireText("xpub", xpub)
	if err != nil {
		return nil, err
	}
	platform, err := c.platform(platformID)
	if err != nil {
		return nil, err
	}

	resp, err := c.api.ConnectCrypto(ctx, model.ConnectCryptoRequest{
		PlatformID: platform.Name,
		Name:       name,
		Xpub:       xpub,
		UserID:     c.cryptoUserID,
	})
	if err != nil {
		return nil, fmt.Errorf("connect crypto: %w", err)
	}
	if _, err := c.Load(ctx); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HoldingsController) platform(id uuid.UUID) (model.Platform, error) {
	p, ok := c.store.Get(id)
	if !ok {
		return model.Platform{}, fmt.Errorf("platform %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (c *HoldingsController) position(platformID, positionID uuid.UUID) (model.Platform, model.Position, error) {
	p, err := c.platform(platformID)
	if err != nil {
		return model.Platform{}, model.Position{}, err
	}
	for _, inv := range p.Investments {
		if inv.ID == positionID {
			return p, inv, nil
		}
	}
	return model.Platform{}, model.Position{}, fmt.Errorf("position %s: %w", positionID, ErrNotFound)
}

// withLocal returns remote plus every platform of current that does not
// mirror the backend and whose name the backend does not use.
func withLocal(remote, current []model.Platform) []model.Platform {
	names := make(map[string]struct{}, len(remote))
	out := make([]model.Platform, 0, len(remote)+len(current))
	for _, p := range remote {
		names[p.Name] = struct{}{}
		out = append(out, p)
	}
	for _, p := range current {
		if _, ok := names[p.Name]; !ok && !p.Remote() {
			out = append(out, p)
		}
	}
	return out
}
