package admin

import (
	"context"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/shopspring/decimal"
)

const (
	DefaultStatsPeriod = 30
	MaxStatsPeriod     = 365
	MaxLogEntries      = 100

	LevelInfo    = "info"
	LevelWarning = "warning"
)

var (
	ErrInvalidActiveFlag = internal.NewValidationFieldError("is_active", "is_active должен быть boolean", internal.ErrCodeValidationFailed)
	ErrInvalidRole       = internal.NewValidationError("Недопустимая роль", internal.ErrCodeInvalidRole)
)

type UserStats struct {
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	TransactionsCount int64           `json:"transactionsCount"`
	ReportsCount      int64           `json:"reportsCount"`
}

// UserDetails is a user row with its activity totals.
type UserDetails struct {
	*user.User
	Stats UserStats `json:"stats"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Stats struct {
	TotalUsers        int64          `json:"totalUsers"`
	ActiveToday       int64          `json:"activeToday"`
	BlockedUsers      int64          `json:"blockedUsers"`
	NewReports        int64          `json:"newReports"`
	Registrations     []DailyCount   `json:"registrations"`
	ActivityByDay     [7]int         `json:"activityByDay"`
	RolesDistribution map[string]int `json:"rolesDistribution"`
}

type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// StatsRepository runs the counting queries behind the admin dashboard.
type StatsRepository interface {
	UserStats(ctx context.Context, userID int64) (UserStats, error)
	CountUsers(ctx context.Context) (int64, error)
	CountActiveBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountBlocked(ctx context.Context) (int64, error)
	CountReportsWithStatus(ctx context.Context, status string) (int64, error)
}
