package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"wealthsync/src/controller"
	"wealthsync/src/model"
	"wealthsync/src/valuation"
)

type platformLister interface {
	List() []model.Platform
}

type platformFinder interface {
	FindByName(name string) (model.Platform, bool)
}

type breakdownSource interface {
	Breakdown() []model.BreakdownItem
}

type holdingsManager interface {
	Load(ctx context.Context) ([]model.Platform, error)
	RefreshPrices(ctx context.Context) ([]model.Platform, error)
	AddPlatform(ctx context.Context, name, color string) error
	DeletePlatform(ctx context.Context, platformID uuid.UUID) error
	UpdatePlatformCash(ctx context.Context, platformID uuid.UUID, rawAmount string) error
	AddInvestment(ctx context.Context, platformID uuid.UUID, in controller.InvestmentInput) error
	UpdateInvestment(ctx context.Context, platformID, positionID uuid.UUID, in controller.InvestmentInput) error
	DeleteInvestment(ctx context.Context, platformID, positionID uuid.UUID) error
	ConnectCrypto(ctx context.Context, platformID uuid.UUID, name, xpub string) (*model.ConnectCryptoResponse, error)
}

func ListPlatformsHandler(store platformLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.List())
	}
}

type positionValuation struct {
	model.Position
	Valuation valuation.Position `json:"valuation"`
}

type platformValuation struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Totals    valuation.Totals    `json:"totals"`
	Positions []positionValuation `json:"positions"`
}

type valuationResponse struct {
	Portfolio valuation.Totals    `json:"portfolio"`
	Platforms []platformValuation `json:"platforms"`
}

// ValuationHandler values every position and platform of the store.
func ValuationHandler(store platformLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platforms := store.List()
		resp := valuationResponse{
			Portfolio: valuation.ForPortfolio(platforms),
			Platforms: make([]platformValuation, 0, len(platforms)),
		}
		for _, p := range platforms {
			pv := platformValuation{
				ID:        p.ID,
				Name:      p.Name,
				Totals:    valuation.ForPlatform(p),
				Positions: make([]positionValuation, 0, len(p.Investments)),
			}
			for _, inv := range p.Investments {
				pv.Positions = append(pv.Positions, positionValuation{Position: inv, Valuation: valuation.ForPosition(inv)})
			}
			resp.Platforms = append(resp.Platforms, pv)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func BreakdownHandler(src breakdownSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, src.Breakdown())
	}
}

func RefreshHoldingsHandler(h holdingsManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platforms, err := h.RefreshPrices(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, platforms)
	}
}

type createPlatformPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CreatePlatformHandler responds with the platform as loaded back from the
// backend.
func CreatePlatformHandler(h holdingsManager, store platformFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPlatformPayload
		if !decodeBody(w, r, &payload) {
			return
		}
		if err := h.AddPlatform(r.Context(), payload.Name, payload.Color); err != nil {
			writeError(w, r, err)
			return
		}
		p, ok := store.FindByName(strings.TrimSpace(payload.Name))
		if !ok {
			writeError(w, r, fmt.Errorf("platform %s: %w", payload.Name, controller.ErrNotFound))
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func DeletePlatformHandler(h holdingsManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(w, r, "platformID")
		if !ok {
			return
		}
		if err := h.DeletePlatform(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type cashPayload struct {
	Amount string `json:"amount"`
}

func UpdateCashHandler(h holdingsManager, store platformLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(w, r, "platformID")
		if !ok {
			return
		}
		var payload cashPayload
		if !decodeBody(w, r, &payload) {
			return
		}
		if err := h.UpdatePlatformCash(r.Context(), id, payload.Amount); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, store.List())
	}
}

func AddInvestmentHandler(h holdingsManager, store platformLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(w, r, "platformID")
		if !ok {
			return
		}
		var in controller.InvestmentInput
		if !decodeBody(w, r, &in) {
			return
		}
		if err := h.AddInvestment(r.Context(), id, in); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, store.List())
	}
}

func UpdateInvestmentHandler(h holdingsManager, store platformLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platformID, ok := uuidParam(w, r, "platformID")
		if !ok {
			return
		}
		positionID, ok := uuidParam(w, r, "positionID")
		if !ok {
			return
		}
		var in controller.InvestmentInput
		if !decodeBody(w, r, &in) {
			return
		}
		if err := h.UpdateInvestment(r.Context(), platformID, positionID, in); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, store.List())
	}
}

func DeleteInvestmentHandler(h holdingsManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platformID, ok := uuidParam(w, r, "platformID")
		if !ok {
			return
		}
		positionID, ok := uuidParam(w, r, "positionID")
		if !ok {
			return
		}
		if err := h.DeleteInvestment(r.Context(), platformID, positionID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type cryptoPayload struct {
	Name string `json:"name"`
	Xpub string `json:"xpub"`
}

func ConnectCryptoHandler(h holdingsManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(w, r, "platformID")
		if !ok {
			return
		}
		var payload cryptoPayload
		if !decodeBody(w, r, &payload) {
			return
		}
		resp, err := h.ConnectCrypto(r.Context(), id, payload.Name, payload.Xpub)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}
