package keys

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"wealthsync/src/model"
)

type Config struct {
	Integration string `envconfig:"KEYS_INTEGRATION" default:"trading212"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	if config.Integration == "" {
		config.Integration = model.IntegrationTrading212
	}
	return config
}
