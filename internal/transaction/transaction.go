package transaction

import (
	"context"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/finance"
	"github.com/shopspring/decimal"
)

const (
	msgInvalidAmount   = "Некорректная сумма"
	msgMissingCategory = "Категория обязательна для заполнения"
	msgInvalidCategory = "Некорректный ID категории"
	msgInvalidDate     = "Некорректная дата операции"
	msgReset           = "Статистика сброшена"
)

var (
	ErrInvalidKind = internal.NewValidationError("Неизвестный тип операции", internal.ErrCodeValidationFailed)
)

// Repository stores income and expense rows. kind selects the table.
type Repository interface {
	Create(ctx context.Context, kind category.Kind, tx *finance.Transaction) error
	ListByUser(ctx context.Context, kind category.Kind, userID int64) ([]finance.Transaction, error)
	SumByUser(ctx context.Context, kind category.Kind, userID int64) (decimal.Decimal, error)
	SumExpensesByCategory(ctx context.Context, userID int64) ([]CategorySum, error)
	// DeleteAllByUser removes both kinds in one database transaction.
	DeleteAllByUser(ctx context.Context, userID int64) (DeletedCount, error)
}

// CategorySum is one row of the per-category expense rollup.
type CategorySum struct {
	CategoryID int             `json:"category_id"`
	Total      decimal.Decimal `json:"total"`
	Name       string          `json:"name,omitempty"`
	Icon       string          `json:"icon,omitempty"`
}

type Stats struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Total    decimal.Decimal `json:"total"`
}

type ResetResult struct {
	Message string       `json:"message"`
	Deleted DeletedCount `json:"deleted"`
}

type DeletedCount struct {
	Income   int64 `json:"income"`
	Expenses int64 `json:"expenses"`
}
