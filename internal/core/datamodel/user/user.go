package user

import "time"

type User struct {
	ID                       int64      `gorm:"primaryKey"`
	Name                     string     `gorm:"column:name;not null"`
	Email                    string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash             string     `gorm:"column:password_hash;not null"`
	CreatedAt                time.Time  `gorm:"column:created_at;autoCreateTime"`
	LastLoginAt              *time.Time `gorm:"column:last_login_at"`
	EmailVerified            bool       `gorm:"column:email_verified;not null"`
	IsActive                 bool       `gorm:"column:is_active;not null"`
	Role                     string     `gorm:"column:role;size:20;not null"`
	AvatarURL                *string    `gorm:"column:avatar_url"`
	EmailVerificationToken   *string    `gorm:"column:email_verification_token;index"`
	EmailVerificationExpires *time.Time `gorm:"column:email_verification_expires"`
}

func (User) TableName() string {
	return "users"
}
