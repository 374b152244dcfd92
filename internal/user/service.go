package user

import (
	"context"
	"errors"
	"log/slog"
)

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

// Me returns the caller's profile. Blocked accounts get 403 even with a valid token.
func (s *Service) Me(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountBlocked
	}
	p := u.Profile()
	return &p, nil
}

func (s *Service) UpdateEmail(ctx context.Context, userID int64, dto UpdateEmailDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, dto.Email)
	switch {
	case err == nil && existing.ID != userID:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, ErrUserNotFound):
		s.logger.Error("failed to check email", "error", err, "user_id", userID)
		return nil, err
	}

	u, err := s.repo.UpdateEmail(ctx, userID, dto.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrEmailTaken) {
			s.logger.Error("failed to update email", "error", err, "user_id", userID)
		}
		return nil, err
	}

	s.logger.Info("email updated", "user_id", userID)
	return u, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) (*PasswordResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(u.PasswordHash, dto.CurrentPassword); err != nil {
		s.logger.Warn("password change rejected: wrong current password", "user_id", userID)
		return nil, ErrWrongPassword
	}

	hash, err := s.hasher.Hash(dto.NewPassword)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err, "user_id", userID)
		return nil, err
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		s.logger.Error("failed to store password", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("password changed", "user_id", userID)
	return &PasswordResponse{Message: msgPasswordUpdated, User: u}, nil
}
