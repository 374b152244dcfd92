package postgres

import (
	"context"
	"errors"

	reportDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/report"
	"github.com/frahmantamala/finance-tracker/internal/report"
	"gorm.io/gorm"
)

// reportWithAuthor is a reports row joined with its author.
type reportWithAuthor struct {
	reportDatamodel.Report
	UserName  *string `gorm:"column:user_name"`
	UserEmail *string `gorm:"column:user_email"`
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.Repository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	row := report.ToDataModel(rep)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*rep = *report.FromDataModel(row)
	return nil
}

func (r *ReportRepository) ListByUser(ctx context.Context, userID int64) ([]*report.Report, error) {
	var rows []*reportDatamodel.Report
	err := r.db.WithContext(ctx).
		Where("id_user = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	reports := make([]*report.Report, len(rows))
	for i, row := range rows {
		reports[i] = report.FromDataModel(row)
	}
	return reports, nil
}

func (r *ReportRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reports AS r").
		Select("r.id, r.title, r.description, r.report_status, r.id_user, r.created_at, u.name AS user_name, u.email AS user_email").
		Joins("LEFT JOIN users u ON r.id_user = u.id")
}

func (r *ReportRepository) List(ctx context.Context) ([]*report.Report, error) {
	var rows []*reportWithAuthor
	if err := r.withAuthor(ctx).Order("r.created_at DESC").Order("r.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	reports := make([]*report.Report, len(rows))
	for i, row := range rows {
		reports[i] = fromJoined(row)
	}
	return reports, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*report.Report, error) {
	var rows []*reportWithAuthor
	if err := r.withAuthor(ctx).Where("r.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, report.ErrReportNotFound
	}
	return fromJoined(rows[0]), nil
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, id int64, status string) (*report.Report, error) {
	var row reportDatamodel.Report
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&reportDatamodel.Report{}).Where("id = ?", id).Update("report_status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return report.ErrReportNotFound
		}
		return tx.Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrReportNotFound
		}
		return nil, err
	}
	return report.FromDataModel(&row), nil
}

func (r *ReportRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&reportDatamodel.Report{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

func fromJoined(row *reportWithAuthor) *report.Report {
	rep := report.FromDataModel(&row.Report)
	rep.UserName = row.UserName
	rep.UserEmail = row.UserEmail
	return rep
}
