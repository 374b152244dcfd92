package postgres

import (
	"context"
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	row := user.ToDataModel(u)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrEmailTaken
		}
		return err
	}
	*u = *user.FromDataModel(row)
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (*user.User, error) {
	return r.first(ctx, "email_verification_token = ? AND email_verification_expires > ?", token, now)
}

// List returns every user, newest registrations first.
func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	var rows []*userDatamodel.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(rows), nil
}

// update applies values to one user and returns the fresh row.
func (r *UserRepository) update(ctx context.Context, id int64, values map[string]interface{}) (*user.User, error) {
	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, user.ErrEmailTaken
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, user.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdateEmail(ctx context.Context, id int64, email string) (*user.User, error) {
	return r.update(ctx, id, map[string]interface{}{"email": email})
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	_, err := r.update(ctx, id, map[string]interface{}{"password_hash": hash})
	return err
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.update(ctx, id, map[string]interface{}{"last_login_at": at})
	return err
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id int64, token string, expires time.Time) error {
	_, err := r.update(ctx, id, map[string]interface{}{
		"email_verification_token":   token,
		"email_verification_expires": expires,
	})
	return err
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, id int64) error {
	_, err := r.update(ctx, id, map[string]interface{}{
		"email_verified":             true,
		"email_verification_token":   nil,
		"email_verification_expires": nil,
	})
	return err
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, active bool) (*user.User, error) {
	return r.update(ctx, id, map[string]interface{}{"is_active": active})
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role string) (*user.User, error) {
	return r.update(ctx, id, map[string]interface{}{"role": role})
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userDatamodel.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
