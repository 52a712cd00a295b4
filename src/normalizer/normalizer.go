// Package normalizer turns broker-encoded tickers into canonical market
// symbols plus the price scaling that the broker's units require.
package normalizer

import "strings"

const (
	usEquitySuffix = "_US_EQ"
	equitySuffix   = "_EQ"
	londonSuffix   = ".L"
)

// ScaleRule says how broker prices must be adjusted into local currency.
type ScaleRule int

const (
	ScaleNone ScaleRule = iota
	// ScaleMultiplyByRate converts USD prices with the FX rate.
	ScaleMultiplyByRate
	// ScaleDivideBy100 converts minor units (pence) into major units.
	ScaleDivideBy100
)

func (r ScaleRule) String() string {
	switch r {
	case ScaleMultiplyByRate:
		return "multiply_by_rate"
	case ScaleDivideBy100:
		return "divide_by_100"
	default:
		return "none"
	}
}

// Apply scales a broker price. fxRate is local-currency units per 1 USD.
func (r ScaleRule) Apply(price, fxRate float64) float64 {
	switch r {
	case ScaleMultiplyByRate:
		return price * fxRate
	case ScaleDivideBy100:
		return price / 100.0
	default:
		return price
	}
}

// Result is a canonical symbol and the rule for its prices.
type Result struct {
	Ticker string
	Symbol string
	Rule   ScaleRule
}

// Normalize applies the rules in order: "_US_EQ" strips the suffix and
// converts from USD; "_EQ" strips the suffix, turns a trailing lowercase "l"
// into the London ".L" suffix and divides by 100; anything else is kept.
func Normalize(ticker string) Result {
	switch {
	case strings.HasSuffix(ticker, usEquitySuffix):
		return Result{
			Ticker: ticker,
			Symbol: strings.TrimSuffix(ticker, usEquitySuffix),
			Rule:   ScaleMultiplyByRate,
		}
	case strings.HasSuffix(ticker, equitySuffix):
		base := strings.TrimSuffix(ticker, equitySuffix)
		if strings.HasSuffix(base, "l") {
			base = strings.TrimSuffix(base, "l") + londonSuffix
		}
		return Result{Ticker: ticker, Symbol: base, Rule: ScaleDivideBy100}
	default:
		return Result{Ticker: ticker, Symbol: ticker, Rule: ScaleNone}
	}
}
