package executors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LoopPeriod time.Duration `envconfig:"SYNC_PERIOD" default:"5m"`
	// ImportOnSync also runs the brokerage import on every tick when
	// credentials are stored.
	ImportOnSync bool `envconfig:"SYNC_IMPORT" default:"false"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
