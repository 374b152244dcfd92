package report

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal/core/events"
)

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

func (s *Service) Create(ctx context.Context, userID int64, dto CreateReportDTO) (*CreateReportResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("report validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	r := &Report{
		Title:        strings.TrimSpace(dto.Title),
		Description:  dto.description(),
		ReportStatus: StatusNew,
		UserID:       userID,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("failed to create report", "error", err, "user_id", userID)
		return nil, err
	}

	s.publish(ctx, events.NewReportCreated(userID, r.ID))
	s.logger.Info("report created", "report_id", r.ID, "user_id", userID)

	return &CreateReportResponse{Message: msgReportSent, Report: r}, nil
}

// ListMine returns the caller's reports, newest first.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]*Report, error) {
	reports, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list reports", "error", err, "user_id", userID)
		return nil, err
	}
	return reports, nil
}

func (s *Service) List(ctx context.Context) ([]*Report, error) {
	reports, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list all reports", "error", err)
		return nil, err
	}
	return reports, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Report, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, dto UpdateStatusDTO) (*Report, error) {
	if !IsValidStatus(dto.Status) {
		return nil, ErrInvalidStatus
	}

	r, err := s.repo.UpdateStatus(ctx, id, dto.Status)
	if err != nil {
		if !errors.Is(err, ErrReportNotFound) {
			s.logger.Error("failed to update report status", "error", err, "report_id", id)
		}
		return nil, err
	}

	s.publish(ctx, events.NewReportStatusChanged(id, dto.Status))
	s.logger.Info("report status changed", "report_id", id, "status", dto.Status)
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (*DeleteReportResponse, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrReportNotFound) {
			s.logger.Error("failed to delete report", "error", err, "report_id", id)
		}
		return nil, err
	}

	s.logger.Info("report deleted", "report_id", id)
	return &DeleteReportResponse{Message: msgReportDeleted, ID: id}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
