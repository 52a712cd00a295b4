package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"wealthsync/src/goals"
	"wealthsync/src/mapper"
	"wealthsync/src/model"
	"wealthsync/src/utils"
)

type GoalsAPI interface {
	Goals(ctx context.Context) ([]model.APIGoal, error)
	CreateGoal(ctx context.Context, req model.CreateGoalRequest) (*model.APIGoal, error)
	UpdateGoal(ctx context.Context, id int, req model.UpdateGoalRequest) (*model.APIGoal, error)
}

// GoalInput is a goal as entered by the user. The target date is
// formatted as 2006-01-02.
type GoalInput struct {
	Title        string `json:"title"`
	TargetAmount string `json:"target_amount"`
	TargetDate   string `json:"target_date"`
}

func (in GoalInput) parse() (string, float64, time.Time, error) {
	title, err := requireText("title", in.Title)
	if err != nil {
		return "", 0, time.Time{}, err
	}
	amount, err := ParseNonNegativeAmount("target_amount", in.TargetAmount)
	if err != nil {
		return "", 0, time.Time{}, err
	}
	date, err := utils.ParseDate(in.TargetDate)
	if err != nil {
		return "", 0, time.Time{}, &ValidationError{Field: "target_date", Value: in.TargetDate, Reason: "expected YYYY-MM-DD"}
	}
	return title, amount, date, nil
}

// GoalsController keeps the last loaded goals and applies changes locally
// once the backend accepted them.
type GoalsController struct {
	api GoalsAPI

	mu    sync.RWMutex
	goals []model.Goal

	now func() time.Time
}

func NewGoalsController(api GoalsAPI) *GoalsController {
	return &GoalsController{api: api, now: time.Now}
}

func (c *GoalsController) Load(ctx context.Context) (goals.Board, error) {
	apiGoals, err := c.api.Goals(ctx)
	if err != nil {
		return goals.Board{}, fmt.Errorf("load goals: %w", err)
	}
	loaded := mapper.MapGoals(apiGoals, c.now())

	c.mu.Lock()
	c.goals = loaded
	c.mu.Unlock()
	return goals.Partition(loaded), nil
}

func (c *GoalsController) Board() goals.Board {
	return goals.Partition(c.List())
}

func (c *GoalsController) List() []model.Goal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Goal(nil), c.goals...)
}

func (c *GoalsController) Create(ctx context.Context, in GoalInput) (model.Goal, error) {
	title, amount, date, err := in.parse()
	if err != nil {
		return model.Goal{}, err
	}

	created, err := c.api.CreateGoal(ctx, model.CreateGoalRequest{
		Title:        title,
		TargetAmount: amount,
		TargetDate:   utils.FormatDate(date),
		Status:       model.GoalStatusActive,
		IsPrimary:    false,
	})
	if err != nil {
		return model.Goal{}, fmt.Errorf("create goal: %w", err)
	}

	goal := mapper.MapGoal(*created, c.now())
	goal.IsCompleted = false
	c.mu.Lock()
	c.goals = append(c.goals, goal)
	c.mu.Unlock()
	return goal, nil
}

// Complete marks a goal achieved, or active again.
func (c *GoalsController) Complete(ctx context.Context, id uuid.UUID, completed bool) (model.Goal, error) {
	goal, err := c.find(id)
	if err != nil {
		return model.Goal{}, err
	}
	if goal.BackendID == nil {
		return model.Goal{}, ErrMissingBackendID
	}

	status := goals.StatusFor(completed)
	if _, err := c.api.UpdateGoal(ctx, *goal.BackendID, model.UpdateGoalRequest{Status: &status}); err != nil {
		return model.Goal{}, fmt.Errorf("update goal %d: %w", *goal.BackendID, err)
	}

	goal.IsCompleted = completed
	goal.CompletedDate = nil
	if completed {
		now := c.now()
		goal.CompletedDate = &now
	}
	c.replace(goal)
	return goal, nil
}

func (c *GoalsController) Update(ctx context.Context, id uuid.UUID, in GoalInput) (model.Goal, error) {
	title, amount, date, err := in.parse()
	if err != nil {
		return model.Goal{}, err
	}
	goal, err := c.find(id)
	if err != nil {
		return model.Goal{}, err
	}
	if goal.BackendID == nil {
		return model.Goal{}, ErrMissingBackendID
	}

	dateStr := utils.FormatDate(date)
	_, err = c.api.UpdateGoal(ctx, *goal.BackendID, model.UpdateGoalRequest{
		Title:        &title,
		TargetAmount: &amount,
		TargetDate:   &dateStr,
	})
	if err != nil {
		return model.Goal{}, fmt.Errorf("update goal %d: %w", *goal.BackendID, err)
	}

	goal.Title, goal.TargetAmount, goal.TargetDate = title, amount, date
	c.replace(goal)
	return goal, nil
}

func (c *GoalsController) find(id uuid.UUID) (model.Goal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, g := range c.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return model.Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
}

func (c *GoalsController) replace(goal model.Goal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.goals {
		if c.goals[i].ID == goal.ID {
			c.goals[i] = goal
			return
		}
	}
}
