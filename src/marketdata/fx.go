package marketdata

import (
	"context"
	"strings"

	logger "github.com/sirupsen/logrus"
)

const defaultFXFallbackRate = 0.77

type PriceLookup interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// FXRate is the number of local-currency units per 1 USD.
type FXRate struct {
	Pair     string  `json:"pair"`
	Rate     float64 `json:"rate"`
	Fallback bool    `json:"fallback"`
}

// FXSource prices the USD{LOCAL}=X pseudo-symbol and falls back to a fixed
// rate when the lookup fails.
type FXSource struct {
	prices   PriceLookup
	pair     string
	fallback float64
}

func NewFXSource(prices PriceLookup, localCurrency string, fallback float64) *FXSource {
	localCurrency = strings.ToUpper(strings.TrimSpace(localCurrency))
	if localCurrency == "" {
		localCurrency = "GBP"
	}
	if fallback <= 0 {
		fallback = defaultFXFallbackRate
	}
	return &FXSource{
		prices:   prices,
		pair:     "USD" + localCurrency + "=X",
		fallback: fallback,
	}
}

// Rate never fails; a lookup error or a non-positive price yields the
// fallback rate with Fallback set.
func (f *FXSource) Rate(ctx context.Context) FXRate {
	rate, err := f.prices.CurrentPrice(ctx, f.pair)
	if err != nil || rate <= 0 {
		logger.WithFields(map[string]interface{}{
			"pair":     f.pair,
			"fallback": f.fallback,
			"rate":     rate,
		}).WithError(err).Warn("fx lookup failed, using fallback rate")
		return FXRate{Pair: f.pair, Rate: f.fallback, Fallback: true}
	}
	return FXRate{Pair: f.pair, Rate: rate}
}
