package model

import (
	"time"

	"github.com/google/uuid"
)

// Backend goal statuses.
const (
	GoalStatusActive    = "ACTIVE"
	GoalStatusAchieved  = "ACHIEVED"
	GoalStatusCompleted = "COMPLETED"
)

// Goal is a target amount to reach by a date.
type Goal struct {
	ID            uuid.UUID  `json:"id"`
	BackendID     *int       `json:"backend_id,omitempty"`
	Title         string     `json:"title"`
	TargetAmount  float64    `json:"target_amount"`
	TargetDate    time.Time  `json:"target_date"`
	IsCompleted   bool       `json:"is_completed"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsCompletedStatus maps a backend status onto the completion flag.
func IsCompletedStatus(status string) bool {
	return status == GoalStatusCompleted || status == GoalStatusAchieved
}
