package report

import "time"

type Report struct {
	ID           int64     `gorm:"primaryKey"`
	Title        string    `gorm:"column:title;size:255;not null"`
	Description  string    `gorm:"column:description"`
	ReportStatus string    `gorm:"column:report_status;size:50;not null"`
	UserID       int64     `gorm:"column:id_user;not null;index"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Report) TableName() string {
	return "reports"
}
