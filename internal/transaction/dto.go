package transaction

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	"github.com/frahmantamala/finance-tracker/internal/finance"
	"github.com/shopspring/decimal"
)

// CreateTransactionDTO accepts amount and category_id as numbers or numeric
// strings, the way browser forms tend to send them.
type CreateTransactionDTO struct {
	Amount            json.RawMessage `json:"amount"`
	CategoryID        json.RawMessage `json:"category_id"`
	Description       string          `json:"description"`
	TransactionDate   string          `json:"transaction_date"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurringInterval *string         `json:"recurring_interval"`
}

// Normalize validates the body and builds the record to store. A missing
// transaction_date means now.
func (dto CreateTransactionDTO) Normalize(kind category.Kind, userID int64, now time.Time) (*finance.Transaction, error) {
	amount := parseDecimal(dto.Amount)
	categoryID := parseCategory(dto.CategoryID)

	date := now
	dateOK := true
	if strings.TrimSpace(dto.TransactionDate) != "" {
		date, dateOK = finance.ParseDate(dto.TransactionDate)
	}

	v := validation.NewValidator()
	v.Field("amount", amount).
		Required(msgInvalidAmount).
		Positive(msgInvalidAmount, internal.ErrCodeInvalidAmount)
	v.Field("category_id", categoryID).
		Required(msgMissingCategory).
		Positive(msgInvalidCategory, internal.ErrCodeInvalidCategory).
		Custom(knownCategory(kind))
	v.Field("transaction_date", dto.TransactionDate).
		Custom(func(interface{}) *internal.AppError {
			if !dateOK {
				return internal.NewValidationFieldError("transaction_date", msgInvalidDate, internal.ErrCodeInvalidDate)
			}
			return nil
		})
	if err := v.Validate(); err != nil {
		return nil, err
	}

	tx := &finance.Transaction{
		UserID:      userID,
		Kind:        kind,
		Amount:      *amount,
		CategoryID:  *categoryID,
		Description: dto.Description,
		Date:        date,
		IsRecurring: dto.IsRecurring,
	}
	if dto.RecurringInterval != nil && *dto.RecurringInterval != "" {
		interval := *dto.RecurringInterval
		tx.RecurringInterval = &interval
	}
	return tx, nil
}

func knownCategory(kind category.Kind) validation.ValidatorFunc {
	return func(value interface{}) *internal.AppError {
		id, ok := value.(*int)
		if !ok || id == nil {
			return nil
		}
		if _, found := category.Lookup(kind, *id); !found {
			return internal.NewValidationFieldError("category_id", msgInvalidCategory, internal.ErrCodeInvalidCategory)
		}
		return nil
	}
}

// scalar returns the text of a JSON number or string. present is false for
// an absent field or null.
func scalar(raw json.RawMessage) (text string, present bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", true
		}
		return strings.TrimSpace(s), true
	}
	return string(raw), true
}

// parseDecimal returns nil when the value is absent, not a number or
// outside what the amount columns can hold.
func parseDecimal(raw json.RawMessage) *decimal.Decimal {
	text, present := scalar(raw)
	if !present {
		return nil
	}
	d, ok := finance.ParseBoundedDecimal(text)
	if !ok {
		return nil
	}
	return &d
}

// parseCategory returns nil for an absent id and 0 for one that is present
// but not a positive integer, so the two get different messages.
func parseCategory(raw json.RawMessage) *int {
	text, present := scalar(raw)
	if !present {
		return nil
	}
	id, ok := finance.ParseID(text)
	if !ok || id <= 0 {
		id = 0
	}
	return &id
}

type DashboardRequest struct {
	Type         string                `json:"type"`
	Period       string                `json:"period"`
	Transactions []finance.Transaction `json:"transactions"`
}
