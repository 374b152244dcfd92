package user

import (
	"context"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

var Roles = []string{RoleUser, RoleModerator, RoleAdmin}

var (
	ErrUserNotFound   = internal.NewNotFoundError("Пользователь не найден", internal.ErrCodeUserNotFound)
	ErrEmailTaken     = internal.NewConflictError("Такой пользователь уже существует", internal.ErrCodeEmailTaken)
	ErrAccountBlocked = internal.NewForbiddenError("Аккаунт заблокирован", internal.ErrCodeUserInactive)
)

type User struct {
	ID                       int64      `json:"id"`
	Name                     string     `json:"name"`
	Email                    string     `json:"email"`
	PasswordHash             string     `json:"-"`
	CreatedAt                time.Time  `json:"created_at"`
	LastLoginAt              *time.Time `json:"last_login_at"`
	EmailVerified            bool       `json:"email_verified"`
	IsActive                 bool       `json:"is_active"`
	Role                     string     `json:"role"`
	AvatarURL                *string    `json:"avatar_url"`
	EmailVerificationToken   *string    `json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// EffectiveRole treats a blank role as a plain user.
func (u *User) EffectiveRole() string {
	if u.Role == "" {
		return RoleUser
	}
	return u.Role
}

// Profile is the /auth/me view; username mirrors name for older clients.
type Profile struct {
	*User
	Username string `json:"username"`
}

func (u *User) Profile() Profile {
	cp := *u
	cp.Role = u.EffectiveRole()
	return Profile{User: &cp, Username: u.Name}
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateEmail(ctx context.Context, id int64, email string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	SetVerificationToken(ctx context.Context, id int64, token string, expires time.Time) error
	GetByVerificationToken(ctx context.Context, token string, now time.Time) (*User, error)
	MarkEmailVerified(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, active bool) (*User, error)
	UpdateRole(ctx context.Context, id int64, role string) (*User, error)
	Delete(ctx context.Context, id int64) error
}

// PasswordHasher keeps bcrypt out of this package.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:                       u.ID,
		Name:                     u.Name,
		Email:                    u.Email,
		PasswordHash:             u.PasswordHash,
		CreatedAt:                u.CreatedAt,
		LastLoginAt:              u.LastLoginAt,
		EmailVerified:            u.EmailVerified,
		IsActive:                 u.IsActive,
		Role:                     u.Role,
		AvatarURL:                u.AvatarURL,
		EmailVerificationToken:   u.EmailVerificationToken,
		EmailVerificationExpires: u.EmailVerificationExpires,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:                       u.ID,
		Name:                     u.Name,
		Email:                    u.Email,
		PasswordHash:             u.PasswordHash,
		CreatedAt:                u.CreatedAt,
		LastLoginAt:              u.LastLoginAt,
		EmailVerified:            u.EmailVerified,
		IsActive:                 u.IsActive,
		Role:                     u.Role,
		AvatarURL:                u.AvatarURL,
		EmailVerificationToken:   u.EmailVerificationToken,
		EmailVerificationExpires: u.EmailVerificationExpires,
	}
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}
