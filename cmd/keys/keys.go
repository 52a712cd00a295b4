// Package keys manages brokerage credentials from the command line.
package keys

import (
	"context"
	"fmt"
	"io"

	logger "github.com/sirupsen/logrus"

	"wealthsync/src/connectors"
	"wealthsync/src/controller"
	"wealthsync/src/database"
	"wealthsync/src/repository"
	"wealthsync/src/security"
)

// SetKey seals and stores the API key pair of the configured integration.
func SetKey(ctx context.Context, apiKey, apiSecret string) error {
	config := GetConfig()

	if err := database.InitMainDB(); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sealer, err := security.NewSealerFromConfig()
	if err != nil {
		return err
	}

	repo := (&repository.BrokerConnectionRepository{}).WithDB(database.MainDB)
	connections := controller.NewConnectionsController(repo, sealer)

	creds := connectors.Credentials{APIKey: apiKey, APISecret: apiSecret}
	if err := connections.Connect(ctx, config.Integration, creds); err != nil {
		return err
	}

	logger.WithField("integration", config.Integration).Info("credentials stored")
	return nil
}

// NewKey writes a fresh CREDENTIALS_KEY value to w.
func NewKey(w io.Writer) error {
	key, err := security.GenerateKey()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, key)
	return err
}
