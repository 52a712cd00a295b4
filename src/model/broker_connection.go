package model

import "time"

// Supported brokerage integrations.
const (
	IntegrationTrading212 = "trading212"
)

// BrokerConnection stores the sealed credentials of a brokerage integration.
// The plain key and secret never leave the security package unsealed.
type BrokerConnection struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Integration     string     `gorm:"size:60;not null;uniqueIndex" json:"integration"`
	APIKeySealed    string     `gorm:"column:api_key;type:text" json:"-"`
	APISecretSealed string     `gorm:"column:api_secret;type:text" json:"-"`
	LastImportAt    *time.Time `gorm:"column:last_import_at" json:"last_import_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (BrokerConnection) TableName() string { return "broker_connections" }
