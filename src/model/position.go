package model

import (
	"time"

	"github.com/google/uuid"
)

// Where a platform's contents come from. Backend platforms are replaced on
// every reload; anything else lives only in this service.
const (
	PlatformOriginBackend = "backend"
	PlatformOriginImport  = "import"
)

// Platform groups holdings, e.g. a brokerage account or an asset class.
// Name is unique and is the merge key used by brokerage imports.
type Platform struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:200;not null;uniqueIndex" json:"name"`
	ColorHex    string     `gorm:"size:20;column:color_hex" json:"color_hex"`
	Origin      string     `gorm:"size:30;column:origin" json:"origin"`
	Investments []Position `gorm:"foreignKey:PlatformID;constraint:OnDelete:CASCADE" json:"investments"`
	CashBalance float64    `gorm:"column:cash_balance" json:"cash_balance"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Platform) TableName() string { return "platforms" }

// Clone returns a deep copy, so callers can mutate the result without
// touching shared state.
func (p Platform) Clone() Platform {
	out := p
	if p.Investments != nil {
		out.Investments = make([]Position, len(p.Investments))
		for i := range p.Investments {
			out.Investments[i] = p.Investments[i].Clone()
		}
	}
	return out
}

// Remote reports whether the platform mirrors a backend platform.
func (p Platform) Remote() bool {
	return p.Origin == PlatformOriginBackend
}

// Position is one holding within a platform.
type Position struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlatformID uuid.UUID `gorm:"type:uuid;index;not null" json:"platform_id"`
	// BackendID correlates the position with the wealth backend. Updates and
	// deletes are only possible when it is set.
	BackendID    *int      `gorm:"column:backend_id" json:"backend_id,omitempty"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Symbol       *string   `gorm:"size:50" json:"symbol,omitempty"`
	AmountSpent  *float64  `gorm:"column:amount_spent" json:"amount_spent,omitempty"`
	Shares       float64   `json:"shares"`
	AveragePrice float64   `gorm:"column:average_price" json:"average_price"`
	CurrentPrice float64   `gorm:"column:current_price" json:"current_price"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Position) TableName() string { return "positions" }

func (p Position) Clone() Position {
	out := p
	if p.BackendID != nil {
		v := *p.BackendID
		out.BackendID = &v
	}
	if p.Symbol != nil {
		v := *p.Symbol
		out.Symbol = &v
	}
	if p.AmountSpent != nil {
		v := *p.AmountSpent
		out.AmountSpent = &v
	}
	return out
}
