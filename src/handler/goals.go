package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"wealthsync/src/controller"
	"wealthsync/src/goals"
	"wealthsync/src/model"
	"wealthsync/src/valuation"
)

type goalsManager interface {
	Load(ctx context.Context) (goals.Board, error)
	Create(ctx context.Context, in controller.GoalInput) (model.Goal, error)
	Update(ctx context.Context, id uuid.UUID, in controller.GoalInput) (model.Goal, error)
	Complete(ctx context.Context, id uuid.UUID, completed bool) (model.Goal, error)
}

type goalView struct {
	model.Goal
	Progress      float64 `json:"progress"`
	DaysRemaining int     `json:"days_remaining"`
}

type boardView struct {
	Active    *goalView  `json:"active,omitempty"`
	Upcoming  []goalView `json:"upcoming"`
	Completed []goalView `json:"completed"`
}

func viewGoal(g model.Goal, netWorth float64, now time.Time) goalView {
	return goalView{
		Goal:          g,
		Progress:      goals.Progress(netWorth, g.TargetAmount),
		DaysRemaining: goals.DaysRemaining(g.TargetDate, now),
	}
}

func viewGoals(in []model.Goal, netWorth float64, now time.Time) []goalView {
	out := make([]goalView, 0, len(in))
	for _, g := range in {
		out = append(out, viewGoal(g, netWorth, now))
	}
	return out
}

// GoalsHandler reloads goals and reports progress against the current
// portfolio value.
func GoalsHandler(mgr goalsManager, store platformLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := mgr.Load(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		netWorth := valuation.ForPortfolio(store.List()).TotalValue
		now := time.Now()
		view := boardView{
			Upcoming:  viewGoals(board.Upcoming, netWorth, now),
			Completed: viewGoals(board.Completed, netWorth, now),
		}
		if board.Active != nil {
			active := viewGoal(*board.Active, netWorth, now)
			view.Active = &active
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func CreateGoalHandler(mgr goalsManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in controller.GoalInput
		if !decodeBody(w, r, &in) {
			return
		}
		goal, err := mgr.Create(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, goal)
	}
}

func UpdateGoalHandler(mgr goalsManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(w, r, "goalID")
		if !ok {
			return
		}
		var in controller.GoalInput
		if !decodeBody(w, r, &in) {
			return
		}
		goal, err := mgr.Update(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, goal)
	}
}

type completePayload struct {
	Completed bool `json:"completed"`
}

func CompleteGoalHandler(mgr goalsManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(w, r, "goalID")
		if !ok {
			return
		}
		var payload completePayload
		if !decodeBody(w, r, &payload) {
			return
		}
		goal, err := mgr.Complete(r.Context(), id, payload.Completed)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, goal)
	}
}
