package goal

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	"github.com/frahmantamala/finance-tracker/internal/finance"
	"github.com/shopspring/decimal"
)

const (
	msgTitleRequired   = "Название цели обязательно"
	msgTargetPositive  = "Целевая сумма должна быть больше нуля"
	msgCurrentNegative = "Текущая сумма не может быть отрицательной"
	msgAmountRange     = "Некорректная сумма"
	msgDeadlinePast    = "Дедлайн не может быть в прошлом"
	msgDeadlineInvalid = "Некорректная дата дедлайна"
	msgGoalDeleted     = "Цель удалена"
	maxTitleLength     = 255
)

// OptionalDate tells an absent field apart from an explicit null.
type OptionalDate struct {
	Set     bool
	Value   *time.Time
	Invalid bool
}

func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		d.Invalid = true
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, ok := finance.ParseDate(s)
	if !ok {
		d.Invalid = true
		return nil
	}
	d.Value = &t
	return nil
}

type CreateGoalDTO struct {
	Title         string           `json:"title"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	Deadline      OptionalDate     `json:"deadline"`
	Status        *string          `json:"status"`
}

func (dto CreateGoalDTO) Validate(now time.Time) error {
	v := validation.NewValidator()
	v.Field("title", dto.Title).
		Required(msgTitleRequired).
		MaxLength(maxTitleLength)
	v.Field("target_amount", dto.TargetAmount).
		Required(msgTargetPositive).
		Custom(amountInRange("target_amount", dto.TargetAmount)).
		Positive(msgTargetPositive, internal.ErrCodeInvalidAmount)
	v.Field("current_amount", dto.CurrentAmount).
		Custom(amountInRange("current_amount", dto.CurrentAmount)).
		NonNegative(msgCurrentNegative, internal.ErrCodeInvalidAmount)
	deadlineRules(v, dto.Deadline, now)
	if dto.Status != nil {
		v.Field("status", *dto.Status).OneOf(Statuses...)
	}
	return asError(v.Validate())
}

// UpdateGoalDTO is a partial update; only fields present in the body change.
type UpdateGoalDTO struct {
	Title         *string          `json:"title"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	Deadline      OptionalDate     `json:"deadline"`
	Status        *string          `json:"status"`
}

func (dto UpdateGoalDTO) Changes(now time.Time) (Changes, error) {
	v := validation.NewValidator()
	if dto.Title != nil {
		v.Field("title", *dto.Title).
			Required(msgTitleRequired).
			MaxLength(maxTitleLength)
	}
	v.Field("target_amount", dto.TargetAmount).
		Custom(amountInRange("target_amount", dto.TargetAmount)).
		Positive(msgTargetPositive, internal.ErrCodeInvalidAmount)
	v.Field("current_amount", dto.CurrentAmount).
		Custom(amountInRange("current_amount", dto.CurrentAmount)).
		NonNegative(msgCurrentNegative, internal.ErrCodeInvalidAmount)
	deadlineRules(v, dto.Deadline, now)
	if dto.Status != nil {
		v.Field("status", *dto.Status).OneOf(Statuses...)
	}
	if err := asError(v.Validate()); err != nil {
		return Changes{}, err
	}

	changes := Changes{
		TargetAmount:  dto.TargetAmount,
		CurrentAmount: dto.CurrentAmount,
		Status:        dto.Status,
	}
	if dto.Title != nil {
		title := strings.TrimSpace(*dto.Title)
		changes.Title = &title
	}
	if dto.Deadline.Set {
		changes.Deadline = dto.Deadline.Value
		changes.ClearDeadline = dto.Deadline.Value == nil
	}
	if changes.Empty() {
		return Changes{}, internal.ErrNoDataToUpdate
	}
	return changes, nil
}

// amountInRange rejects amounts the numeric columns cannot hold.
func amountInRange(field string, d *decimal.Decimal) validation.ValidatorFunc {
	return func(interface{}) *internal.AppError {
		if d != nil && !finance.AmountInRange(*d) {
			return internal.NewValidationFieldError(field, msgAmountRange, internal.ErrCodeInvalidAmount)
		}
		return nil
	}
}

func deadlineRules(v *validation.ValidationBuilder, d OptionalDate, now time.Time) {
	v.Field("deadline", d.Value).
		Custom(func(interface{}) *internal.AppError {
			if d.Invalid {
				return internal.NewValidationFieldError("deadline", msgDeadlineInvalid, internal.ErrCodeInvalidDeadline)
			}
			return nil
		}).
		NotPast(now, msgDeadlinePast)
}

// asError keeps a nil *AppError from turning into a non-nil error.
func asError(err *internal.AppError) error {
	if err == nil {
		return nil
	}
	return err
}

type DeleteGoalResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
