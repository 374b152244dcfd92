package postgres

import (
	"context"
	"errors"
	"time"

	goalDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/goal"
	"github.com/frahmantamala/finance-tracker/internal/goal"
	"gorm.io/gorm"
)

type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) goal.Repository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, g *goal.Goal) error {
	row := goal.ToDataModel(g)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*g = *goal.FromDataModel(row)
	return nil
}

// ListByUser returns the newest goals first.
func (r *GoalRepository) ListByUser(ctx context.Context, userID int64) ([]*goal.Goal, error) {
	var rows []*goalDatamodel.Goal
	err := r.db.WithContext(ctx).
		Where("id_user = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	goals := make([]*goal.Goal, len(rows))
	for i, row := range rows {
		goals[i] = goal.FromDataModel(row)
	}
	return goals, nil
}

func (r *GoalRepository) Update(ctx context.Context, id, userID int64, changes goal.Changes) (*goal.Goal, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if changes.TargetAmount != nil {
		updates["target_amount"] = *changes.TargetAmount
	}
	if changes.CurrentAmount != nil {
		updates["current_amount"] = *changes.CurrentAmount
	}
	if changes.Deadline != nil {
		updates["deadline"] = *changes.Deadline
	} else if changes.ClearDeadline {
		updates["deadline"] = nil
	}
	if changes.Status != nil {
		updates["status"] = *changes.Status
	}

	var row goalDatamodel.Goal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&goalDatamodel.Goal{}).
			Where("id = ? AND id_user = ?", id, userID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return goal.ErrGoalNotFound
		}
		return tx.Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goal.ErrGoalNotFound
		}
		return nil, err
	}
	return goal.FromDataModel(&row), nil
}

func (r *GoalRepository) Delete(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND id_user = ?", id, userID).
		Delete(&goalDatamodel.Goal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return goal.ErrGoalNotFound
	}
	return nil
}
