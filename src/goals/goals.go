// Package goals computes goal progress and orders goals for display.
package goals

import (
	"sort"
	"time"

	"wealthsync/src/model"
)

// Progress is current/target clamped to [0, 1], or 0 for a non-positive
// target.
func Progress(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	p := current / target
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// DaysRemaining counts whole days from now until target, never negative.
func DaysRemaining(target, now time.Time) int {
	days := int(target.Sub(now) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// StatusFor maps the completion flag onto the status sent on updates.
func StatusFor(completed bool) string {
	if completed {
		return model.GoalStatusAchieved
	}
	return model.GoalStatusActive
}

// Board groups goals for display. Active is the incomplete goal with the
// nearest target date.
type Board struct {
	Active    *model.Goal  `json:"active,omitempty"`
	Upcoming  []model.Goal `json:"upcoming"`
	Completed []model.Goal `json:"completed"`
}

// Partition orders incomplete goals by target date ascending and completed
// goals by completion date, or target date when unset, descending.
func Partition(goals []model.Goal) Board {
	var open, done []model.Goal
	for _, g := range goals {
		if g.IsCompleted {
			done = append(done, g)
		} else {
			open = append(open, g)
		}
	}

	sort.SliceStable(open, func(i, j int) bool { return open[i].TargetDate.Before(open[j].TargetDate) })
	sort.SliceStable(done, func(i, j int) bool { return completedAt(done[i]).After(completedAt(done[j])) })

	board := Board{Upcoming: []model.Goal{}, Completed: done}
	if board.Completed == nil {
		board.Completed = []model.Goal{}
	}
	if len(open) > 0 {
		active := open[0]
		board.Active = &active
		board.Upcoming = open[1:]
	}
	return board
}

func completedAt(g model.Goal) time.Time {
	if g.CompletedDate != nil {
		return *g.CompletedDate
	}
	return g.TargetDate
}
