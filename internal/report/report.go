package report

import (
	"context"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	reportDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/report"
)

const (
	StatusNew        = "Новое"
	StatusInProgress = "В обработке"
	StatusResolved   = "Решено"
	StatusRejected   = "Отклонено"
)

var Statuses = []string{StatusNew, StatusInProgress, StatusResolved, StatusRejected}

var (
	ErrReportNotFound = internal.NewNotFoundError("Репорт не найден", internal.ErrCodeReportNotFound)
	ErrInvalidStatus  = internal.NewValidationError("Недопустимый статус", internal.ErrCodeInvalidStatus)
)

// Report is a user-submitted issue. UserName and UserEmail are filled only
// on the moderation views.
type Report struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ReportStatus string    `json:"report_status"`
	UserID       int64     `json:"id_user"`
	CreatedAt    time.Time `json:"created_at"`
	UserName     *string   `json:"user_name,omitempty"`
	UserEmail    *string   `json:"user_email,omitempty"`
}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type Repository interface {
	Create(ctx context.Context, r *Report) error
	ListByUser(ctx context.Context, userID int64) ([]*Report, error)
	List(ctx context.Context) ([]*Report, error)
	GetByID(ctx context.Context, id int64) (*Report, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Report, error)
	Delete(ctx context.Context, id int64) error
}

func ToDataModel(r *Report) *reportDatamodel.Report {
	return &reportDatamodel.Report{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		ReportStatus: r.ReportStatus,
		UserID:       r.UserID,
		CreatedAt:    r.CreatedAt,
	}
}

func FromDataModel(r *reportDatamodel.Report) *Report {
	return &Report{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		ReportStatus: r.ReportStatus,
		UserID:       r.UserID,
		CreatedAt:    r.CreatedAt,
	}
}
