package goal

import (
	"context"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	goalDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/goal"
	"github.com/frahmantamala/finance-tracker/internal/finance"
	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusPaused    = "paused"
	StatusCancelled = "cancelled"
)

var Statuses = []string{StatusActive, StatusCompleted, StatusPaused, StatusCancelled}

var ErrGoalNotFound = internal.NewNotFoundError("Цель не найдена", internal.ErrCodeGoalNotFound)

type Goal struct {
	ID            int64                `json:"id"`
	UserID        int64                `json:"id_user"`
	Title         string               `json:"title"`
	TargetAmount  decimal.Decimal      `json:"target_amount"`
	CurrentAmount decimal.Decimal      `json:"current_amount"`
	Deadline      *time.Time           `json:"deadline"`
	Status        string               `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Progress      finance.GoalProgress `json:"progress"`
}

// Changes lists the columns a partial update touches. A nil field is left alone;
// ClearDeadline sets the deadline to NULL.
type Changes struct {
	Title         *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      *time.Time
	ClearDeadline bool
	Status        *string
}

func (c Changes) Empty() bool {
	return c.Title == nil && c.TargetAmount == nil && c.CurrentAmount == nil &&
		c.Deadline == nil && !c.ClearDeadline && c.Status == nil
}

type Repository interface {
	Create(ctx context.Context, g *Goal) error
	ListByUser(ctx context.Context, userID int64) ([]*Goal, error)
	Update(ctx context.Context, id, userID int64, changes Changes) (*Goal, error)
	Delete(ctx context.Context, id, userID int64) error
}

func (g *Goal) withProgress() *Goal {
	g.Progress = finance.ComputeGoalProgress(g.TargetAmount, g.CurrentAmount)
	return g
}

func ToDataModel(g *Goal) *goalDatamodel.Goal {
	return &goalDatamodel.Goal{
		ID:            g.ID,
		UserID:        g.UserID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      g.Deadline,
		Status:        g.Status,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func FromDataModel(g *goalDatamodel.Goal) *Goal {
	return &Goal{
		ID:            g.ID,
		UserID:        g.UserID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      g.Deadline,
		Status:        g.Status,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}
