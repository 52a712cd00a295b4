package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"wealthsync/src/model"
)

func TestBrokerConnectionUpsert(t *testing.T) {
	repo := (&BrokerConnectionRepository{}).WithDB(newSQLiteDB(t))
	ctx := context.Background()

	missing, err := repo.Get(ctx, model.IntegrationTrading212)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Upsert(ctx, &model.BrokerConnection{
		Integration: model.IntegrationTrading212, APIKeySealed: "k1", APISecretSealed: "s1",
	}))
	require.NoError(t, repo.Upsert(ctx, &model.BrokerConnection{
		Integration: model.IntegrationTrading212, APIKeySealed: "k2", APISecretSealed: "s2",
	}))

	conn, err := repo.Get(ctx, model.IntegrationTrading212)
	require.NoError(t, err)
	require.NotNil(t, conn)
	assert.Equal(t, "k2", conn.APIKeySealed)
	assert.Equal(t, "s2", conn.APISecretSealed)
	assert.Nil(t, conn.LastImportAt)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastImport(ctx, model.IntegrationTrading212, at))
	conn, err = repo.Get(ctx, model.IntegrationTrading212)
	require.NoError(t, err)
	require.NotNil(t, conn.LastImportAt)
	assert.True(t, at.Equal(*conn.LastImportAt))

	err = repo.TouchLastImport(ctx, "other", at)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
