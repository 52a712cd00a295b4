package model

import "time"

const (
	ImportRunStatusSucceeded = "succeeded"
	ImportRunStatusFailed    = "failed"
)

// ImportRun records one brokerage reconciliation attempt for auditing.
type ImportRun struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Integration string `gorm:"size:60;index" json:"integration"`
	Platform    string `gorm:"size:200" json:"platform"`
	Status      string `gorm:"size:20;index;not null" json:"status"`

	Positions      int     `json:"positions"`
	UnknownSymbols int     `json:"unknown_symbols"`
	FxRate         float64 `json:"fx_rate"`
	FxFallback     bool    `json:"fx_fallback"`
	Created        bool    `json:"created"` // platform was created rather than updated

	Error string `gorm:"type:text" json:"error,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (ImportRun) TableName() string { return "import_runs" }
