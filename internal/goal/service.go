package goal

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, userID int64, dto CreateGoalDTO) (*Goal, error) {
	if err := dto.Validate(s.now()); err != nil {
		s.logger.Warn("goal validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	g := &Goal{
		UserID:        userID,
		Title:         strings.TrimSpace(dto.Title),
		TargetAmount:  *dto.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      dto.Deadline.Value,
		Status:        StatusActive,
	}
	if dto.CurrentAmount != nil {
		g.CurrentAmount = *dto.CurrentAmount
	}
	if dto.Status != nil {
		g.Status = *dto.Status
	}

	if err := s.repo.Create(ctx, g); err != nil {
		s.logger.Error("failed to create goal", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("goal created", "goal_id", g.ID, "user_id", userID)
	return g.withProgress(), nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Goal, error) {
	goals, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list goals", "error", err, "user_id", userID)
		return nil, err
	}
	for _, g := range goals {
		g.withProgress()
	}
	return goals, nil
}

func (s *Service) Update(ctx context.Context, id, userID int64, dto UpdateGoalDTO) (*Goal, error) {
	changes, err := dto.Changes(s.now())
	if err != nil {
		return nil, err
	}

	g, err := s.repo.Update(ctx, id, userID, changes)
	if err != nil {
		if !errors.Is(err, ErrGoalNotFound) {
			s.logger.Error("failed to update goal", "error", err, "goal_id", id, "user_id", userID)
		}
		return nil, err
	}

	s.logger.Info("goal updated", "goal_id", id, "user_id", userID)
	return g.withProgress(), nil
}

func (s *Service) Delete(ctx context.Context, id, userID int64) (*DeleteGoalResponse, error) {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if !errors.Is(err, ErrGoalNotFound) {
			s.logger.Error("failed to delete goal", "error", err, "goal_id", id, "user_id", userID)
		}
		return nil, err
	}

	s.logger.Info("goal deleted", "goal_id", id, "user_id", userID)
	return &DeleteGoalResponse{Message: msgGoalDeleted, ID: id}, nil
}
