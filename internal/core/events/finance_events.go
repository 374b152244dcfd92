package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	UserRegisteredEvent      = "user.registered"
	UserLoggedInEvent        = "user.logged_in"
	TransactionCreatedEvent  = "transaction.created"
	TransactionsResetEvent   = "transactions.reset"
	ReportCreatedEvent       = "report.created"
	ReportStatusChangedEvent = "report.status_changed"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewUserRegistered(userID int64) BaseEvent {
	return newBase(UserRegisteredEvent, map[string]interface{}{"user_id": userID})
}

func NewUserLoggedIn(userID int64, role string) BaseEvent {
	return newBase(UserLoggedInEvent, map[string]interface{}{"user_id": userID, "role": role})
}

func NewTransactionCreated(userID int64, kind string, categoryID int, amount decimal.Decimal) BaseEvent {
	return newBase(TransactionCreatedEvent, map[string]interface{}{
		"user_id":     userID,
		"kind":        kind,
		"category_id": categoryID,
		"amount":      amount,
	})
}

func NewTransactionsReset(userID, income, expenses int64) BaseEvent {
	return newBase(TransactionsResetEvent, map[string]interface{}{
		"user_id":  userID,
		"income":   income,
		"expenses": expenses,
	})
}

func NewReportCreated(userID, reportID int64) BaseEvent {
	return newBase(ReportCreatedEvent, map[string]interface{}{"user_id": userID, "report_id": reportID})
}

func NewReportStatusChanged(reportID int64, status string) BaseEvent {
	return newBase(ReportStatusChangedEvent, map[string]interface{}{"report_id": reportID, "status": status})
}
