package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/user"
)

type Config struct {
	PublicURL       string
	VerificationTTL time.Duration
}

// Service covers registration, login, token resolution and email verification.
type Service struct {
	users     user.Repository
	tokens    TokenGenerator
	hasher    user.PasswordHasher
	publisher events.Publisher
	logger    *slog.Logger
	cfg       Config
	now       func() time.Time
}

func NewService(users user.Repository, tokens TokenGenerator, hasher user.PasswordHasher, publisher events.Publisher, cfg Config, logger *slog.Logger) *Service {
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}
	return &Service{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*RegisterResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, dto.Email)
	switch {
	case err == nil:
		return nil, user.ErrEmailTaken
	case !errors.Is(err, user.ErrUserNotFound):
		s.logger.Error("failed to look up email", "error", err)
		return nil, err
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		IsActive:     true,
		Role:         user.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if !errors.Is(err, user.ErrEmailTaken) {
			s.logger.Error("failed to create user", "error", err)
		}
		return nil, err
	}

	s.publish(ctx, events.NewUserRegistered(u.ID))
	s.logger.Info("user registered", "user_id", u.ID)

	return &RegisterResponse{Message: msgRegistered, User: u}, nil
}

// Login checks credentials, stamps last_login_at and issues a token.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	email := strings.TrimSpace(dto.Email)
	if email == "" || dto.Password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to load user for login", "error", err)
		return nil, err
	}

	if err := s.hasher.Compare(u.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login rejected: bad password", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		s.logger.Warn("login rejected: account blocked", "user_id", u.ID)
		return nil, ErrLoginBlocked
	}

	if err := s.users.TouchLastLogin(ctx, u.ID, s.now()); err != nil {
		s.logger.Error("failed to update last login", "error", err, "user_id", u.ID)
		return nil, err
	}
	fresh, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	fresh.Role = fresh.EffectiveRole()

	token, err := s.tokens.Generate(fresh.ID)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err, "user_id", fresh.ID)
		return nil, err
	}

	s.publish(ctx, events.NewUserLoggedIn(fresh.ID, fresh.Role))
	s.logger.Info("user logged in", "user_id", fresh.ID)

	return &LoginResponse{Token: token, User: fresh}, nil
}

// Authenticate resolves a bearer token to the caller. Blocked users are
// refused here so a token issued before the block stops working.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*internal.AuthUser, error) {
	if tokenString == "" {
		return nil, internal.ErrMissingToken
	}

	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, user.ErrAccountBlocked
	}

	return &internal.AuthUser{ID: u.ID, Email: u.Email, Role: u.EffectiveRole()}, nil
}

func (s *Service) SendVerification(ctx context.Context, userID int64) (*VerificationResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.EmailVerified {
		return nil, ErrEmailVerified
	}

	token, err := GenerateRandomToken()
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(s.cfg.VerificationTTL)
	if err := s.users.SetVerificationToken(ctx, userID, token, expires); err != nil {
		s.logger.Error("failed to store verification token", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("verification token issued", "user_id", userID, "expires_at", expires)
	return &VerificationResponse{
		Message:          msgVerificationSent,
		VerificationLink: s.verificationLink(token),
	}, nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) (*MessageResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingVerifyToken
	}

	u, err := s.users.GetByVerificationToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrBadVerifyToken
		}
		return nil, err
	}

	if err := s.users.MarkEmailVerified(ctx, u.ID); err != nil {
		return nil, err
	}

	s.logger.Info("email verified", "user_id", u.ID)
	return &MessageResponse{Message: msgEmailConfirmed}, nil
}

func (s *Service) verificationLink(token string) string {
	base := strings.TrimRight(s.cfg.PublicURL, "/")
	return fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", base, url.QueryEscape(token))
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
