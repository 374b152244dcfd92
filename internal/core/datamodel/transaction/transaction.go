package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	IncomeTable  = "income"
	ExpenseTable = "expenses"
)

// Transaction maps a row of either the income or the expenses table; both
// share one layout and callers pick the table with db.Table.
type Transaction struct {
	ID                int64           `gorm:"primaryKey"`
	UserID            int64           `gorm:"column:id_user;not null;index"`
	Amount            decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CategoryID        int             `gorm:"column:category_id;not null"`
	Description       string          `gorm:"column:description"`
	TransactionDate   time.Time       `gorm:"column:transaction_date;not null"`
	IsRecurring       bool            `gorm:"column:is_recurring;not null"`
	RecurringInterval *string         `gorm:"column:recurring_interval"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
}
