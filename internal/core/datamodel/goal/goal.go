package goal

import (
	"time"

	"github.com/shopspring/decimal"
)

type Goal struct {
	ID            int64           `gorm:"primaryKey"`
	UserID        int64           `gorm:"column:id_user;not null;index"`
	Title         string          `gorm:"column:title;not null"`
	TargetAmount  decimal.Decimal `gorm:"column:target_amount;type:numeric(12,2);not null"`
	CurrentAmount decimal.Decimal `gorm:"column:current_amount;type:numeric(12,2);not null"`
	Deadline      *time.Time      `gorm:"column:deadline"`
	Status        string          `gorm:"column:status;size:20;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Goal) TableName() string {
	return "goals"
}
