package finance

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
}

// Transaction is one income or expense record as the engine sees it.
// A zero Date means the record had no usable date.
type Transaction struct {
	ID                int64
	UserID            int64
	Kind              category.Kind
	Amount            decimal.Decimal
	CategoryID        int
	Description       string
	Date              time.Time
	IsRecurring       bool
	RecurringInterval *string
}

func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

type transactionJSON struct {
	ID                int64           `json:"id"`
	UserID            int64           `json:"id_user,omitempty"`
	Kind              category.Kind   `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	CategoryID        int             `json:"category_id"`
	Description       string          `json:"description"`
	Date              *string         `json:"transaction_date"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurringInterval *string         `json:"recurring_interval"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	out := transactionJSON{
		ID:                t.ID,
		UserID:            t.UserID,
		Kind:              t.Kind,
		Amount:            t.Amount,
		CategoryID:        t.CategoryID,
		Description:       t.Description,
		IsRecurring:       t.IsRecurring,
		RecurringInterval: t.RecurringInterval,
	}
	if t.HasDate() {
		d := t.Date.Format(dateLayout)
		out.Date = &d
	}
	return json.Marshal(out)
}

// UnmarshalJSON is lenient: bad amounts become zero, bad dates become
// "no date" and bad category ids become 0, so one broken record cannot
// fail a whole batch.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                int64           `json:"id"`
		UserID            int64           `json:"id_user"`
		Kind              string          `json:"type"`
		Amount            json.RawMessage `json:"amount"`
		CategoryID        json.RawMessage `json:"category_id"`
		Description       *string         `json:"description"`
		Date              json.RawMessage `json:"transaction_date"`
		IsRecurring       bool            `json:"is_recurring"`
		RecurringInterval *string         `json:"recurring_interval"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = Transaction{
		ID:                raw.ID,
		UserID:            raw.UserID,
		Kind:              category.Kind(raw.Kind),
		Amount:            ParseAmount(rawString(raw.Amount)),
		CategoryID:        parseCategoryID(rawString(raw.CategoryID)),
		IsRecurring:       raw.IsRecurring,
		RecurringInterval: raw.RecurringInterval,
	}
	if raw.Description != nil {
		t.Description = *raw.Description
	}
	if d, ok := ParseDate(rawString(raw.Date)); ok {
		t.Date = d
	}
	return nil
}

// rawString unwraps a JSON scalar to its textual form; null becomes "".
func rawString(msg json.RawMessage) string {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return ""
	}
	if msg[0] == '"' {
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			return s
		}
		return ""
	}
	return string(msg)
}

// ParseAmount coerces anything that is not a finite number in the money
// range to zero.
func ParseAmount(s string) decimal.Decimal {
	d, _ := ParseBoundedDecimal(s)
	return d
}

func parseCategoryID(s string) int {
	id, _ := ParseID(s)
	return id
}

// ParseDate accepts plain dates and RFC 3339 timestamps.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
