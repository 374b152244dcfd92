package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/admin"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) admin.StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) count(ctx context.Context, name, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("%s query: %w", name, err)
	}
	return n, nil
}

func (r *StatsRepository) UserStats(ctx context.Context, userID int64) (admin.UserStats, error) {
	var row struct {
		TotalIncome   decimal.Decimal `db:"total_income"`
		TotalExpenses decimal.Decimal `db:"total_expenses"`
		Transactions  int64           `db:"transactions"`
		Reports       int64           `db:"reports"`
	}
	query := `
SELECT
  (SELECT COALESCE(SUM(amount), 0) FROM income WHERE id_user = ?) AS total_income,
  (SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE id_user = ?) AS total_expenses,
  (SELECT COUNT(*) FROM income WHERE id_user = ?) + (SELECT COUNT(*) FROM expenses WHERE id_user = ?) AS transactions,
  (SELECT COUNT(*) FROM reports WHERE id_user = ?) AS reports
`
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), userID, userID, userID, userID, userID); err != nil {
		return admin.UserStats{}, fmt.Errorf("userstats query: %w", err)
	}

	return admin.UserStats{
		TotalIncome:       row.TotalIncome,
		TotalExpenses:     row.TotalExpenses,
		TransactionsCount: row.Transactions,
		ReportsCount:      row.Reports,
	}, nil
}

func (r *StatsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, "countusers", "SELECT COUNT(*) FROM users")
}

func (r *StatsRepository) CountActiveBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.count(ctx, "countactive",
		"SELECT COUNT(*) FROM users WHERE last_login_at >= ? AND last_login_at < ?", from, to)
}

func (r *StatsRepository) CountBlocked(ctx context.Context) (int64, error) {
	return r.count(ctx, "countblocked", "SELECT COUNT(*) FROM users WHERE is_active = ?", false)
}

func (r *StatsRepository) CountReportsWithStatus(ctx context.Context, status string) (int64, error) {
	return r.count(ctx, "countreports", "SELECT COUNT(*) FROM reports WHERE report_status = ?", status)
}
