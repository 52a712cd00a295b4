package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"wealthsync/src/connectors"
	"wealthsync/src/model"
)

// ErrNotConnected is returned when no credentials were stored for an
// integration.
var ErrNotConnected = errors.New("brokerage not connected")

type ConnectionRepository interface {
	Upsert(ctx context.Context, conn *model.BrokerConnection) error
	Get(ctx context.Context, integration string) (*model.BrokerConnection, error)
	TouchLastImport(ctx context.Context, integration string, at time.Time) error
}

type Sealer interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

// ConnectionsController stores brokerage credentials sealed and hands them
// back for imports.
type ConnectionsController struct {
	repo   ConnectionRepository
	sealer Sealer
	now    func() time.Time
}

func NewConnectionsController(repo ConnectionRepository, sealer Sealer) *ConnectionsController {
	return &ConnectionsController{repo: repo, sealer: sealer, now: time.Now}
}

func (c *ConnectionsController) Connect(ctx context.Context, integration string, creds connectors.Credentials) error {
	key, err := requireText("api_key", creds.APIKey)
	if err != nil {
		return err
	}
	secret, err := requireText("api_secret", creds.APISecret)
	if err != nil {
		return err
	}

	sealedKey, err := c.sealer.Seal(key)
	if err != nil {
		return fmt.Errorf("seal api key: %w", err)
	}
	sealedSecret, err := c.sealer.Seal(secret)
	if err != nil {
		return fmt.Errorf("seal api secret: %w", err)
	}

	if err := c.repo.Upsert(ctx, &model.BrokerConnection{
		Integration:     integration,
		APIKeySealed:    sealedKey,
		APISecretSealed: sealedSecret,
	}); err != nil {
		return fmt.Errorf("store %s credentials: %w", integration, err)
	}

	logger.WithField("integration", integration).Info("brokerage connected")
	return nil
}

func (c *ConnectionsController) Credentials(ctx context.Context, integration string) (connectors.Credentials, error) {
	conn, err := c.repo.Get(ctx, integration)
	if err != nil {
		return connectors.Credentials{}, fmt.Errorf("load %s credentials: %w", integration, err)
	}
	if conn == nil {
		return connectors.Credentials{}, ErrNotConnected
	}

	key, err := c.sealer.Open(conn.APIKeySealed)
	if err != nil {
		return connectors.Credentials{}, fmt.Errorf("open api key: %w", err)
	}
	secret, err := c.sealer.Open(conn.APISecretSealed)
	if err != nil {
		return connectors.Credentials{}, fmt.Errorf("open api secret: %w", err)
	}
	return connectors.Credentials{APIKey: key, APISecret: secret}, nil
}

// MarkImported records a successful import time. Failures are only logged.
func (c *ConnectionsController) MarkImported(ctx context.Context, integration string) {
	if err := c.repo.TouchLastImport(ctx, integration, c.now()); err != nil {
		logger.WithError(err).WithField("integration", integration).Warn("could not record last import")
	}
}
