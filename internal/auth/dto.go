package auth

import (
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	"github.com/frahmantamala/finance-tracker/internal/user"
)

const (
	msgRegistered       = "User created"
	msgPasswordTooShort = "Пароль должен содержать минимум 6 символов"
	msgVerificationSent = "Письмо с подтверждением отправлено на ваш email"
	msgEmailConfirmed   = "Email успешно подтвержден"
)

type RegisterDTO struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password"`
}

func (d *RegisterDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)

	v := validation.NewValidator()
	v.Field("password", d.Password).
		Required(msgPasswordTooShort).
		Custom(func(interface{}) *internal.AppError {
			if len([]rune(d.Password)) < user.MinPasswordLength {
				return internal.NewValidationFieldError("password", msgPasswordTooShort, internal.ErrCodeValidationFailed)
			}
			return nil
		})
	if err := v.Validate(); err != nil {
		return err
	}
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string     `json:"message"`
	User    *user.User `json:"user"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type VerificationResponse struct {
	Message          string `json:"message"`
	VerificationLink string `json:"verificationLink"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
