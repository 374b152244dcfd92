package user

import (
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

const (
	MinPasswordLength = 6

	msgEmailRequired   = "Email обязателен"
	msgPasswordsNeeded = "Укажите текущий и новый пароль"
	msgPasswordShort   = "Новый пароль должен содержать минимум 6 символов"
	msgPasswordSame    = "Новый пароль должен отличаться от текущего"
	msgPasswordUpdated = "Пароль успешно обновлён"
)

var ErrWrongPassword = internal.NewUnauthorizedError("Текущий пароль неверен", internal.ErrCodeWrongPassword)

type UpdateEmailDTO struct {
	Email string `json:"email" validate:"omitempty,email,max=255"`
}

func (d *UpdateEmailDTO) Validate() error {
	d.Email = strings.TrimSpace(d.Email)
	if d.Email == "" {
		return internal.NewValidationFieldError("email", msgEmailRequired, internal.ErrCodeValidationFailed)
	}
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (d ChangePasswordDTO) Validate() error {
	if d.CurrentPassword == "" || d.NewPassword == "" {
		return internal.NewValidationError(msgPasswordsNeeded, internal.ErrCodeValidationFailed)
	}

	v := validation.NewValidator()
	v.Field("newPassword", d.NewPassword).
		Custom(func(interface{}) *internal.AppError {
			if len([]rune(d.NewPassword)) < MinPasswordLength {
				return internal.NewValidationFieldError("newPassword", msgPasswordShort, internal.ErrCodeValidationFailed)
			}
			if d.NewPassword == d.CurrentPassword {
				return internal.NewValidationFieldError("newPassword", msgPasswordSame, internal.ErrCodeValidationFailed)
			}
			return nil
		})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type EmailResponse struct {
	User *User `json:"user"`
}

type PasswordResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}
