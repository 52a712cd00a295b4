package marketdata

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ResolverConcurrency  int               `envconfig:"RESOLVER_CONCURRENCY" default:"8"`
	ResolverFetchTimeout time.Duration     `envconfig:"RESOLVER_FETCH_TIMEOUT" default:"8s"`
	LegacySymbols        map[string]string `envconfig:"LEGACY_SYMBOLS" default:"FB:META"`

	FXLocalCurrency string  `envconfig:"FX_LOCAL_CURRENCY" default:"GBP"`
	FXFallbackRate  float64 `envconfig:"FX_FALLBACK_RATE" default:"0.77"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
