package report

import (
	"strings"
	"unicode/utf8"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

const (
	maxTitleLength = 255

	msgTitleRequired = "Название репорта обязательно"
	msgTitleTooLong  = "Название репорта слишком длинное (максимум 255 символов)"
	msgReportSent    = "Репорт успешно отправлен"
	msgReportDeleted = "Репорт удален"
)

type CreateReportDTO struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// Validate checks the raw title; the length limit applies before trimming.
func (dto CreateReportDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", dto.Title).
		Required(msgTitleRequired).
		Custom(func(interface{}) *internal.AppError {
			if utf8.RuneCountInString(dto.Title) > maxTitleLength {
				return internal.NewValidationFieldError("title", msgTitleTooLong, internal.ErrCodeValidationFailed)
			}
			return nil
		})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (dto CreateReportDTO) description() string {
	if dto.Description == nil {
		return ""
	}
	return strings.TrimSpace(*dto.Description)
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

type CreateReportResponse struct {
	Message string  `json:"message"`
	Report  *Report `json:"report"`
}

type DeleteReportResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
