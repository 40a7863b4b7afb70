package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/utils"
)

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users  UserStore
	cfg    AuthConfig
	logger *slog.Logger
}

func NewAuthService(users UserStore, cfg AuthConfig, logger *slog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, cfg: cfg, logger: logger.With("component", "auth_service")}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error("failed to look up user", "error", err)
		return nil, ErrPersistenceFailure.withMessage("Database error").wrap(err)
	}
	if !user.IsActive || !utils.CheckPasswordHash(password, user.Password) {
		s.logger.Warn("failed login attempt", "email", email)
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.cfg.Secret, user.ID.String(), user.Email, s.cfg.TokenTTL)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to generate token").wrap(err)
	}

	now := time.Now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLogin = &now
	}

	s.logger.Info("admin signed in", "user_id", user.ID)
	return &LoginResult{Token: token, User: user}, nil
}

// Me resolves the signed-in principal to its user record.
func (s *AuthService) Me(ctx context.Context, p *Principal) (*models.User, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindUserByEmail(ctx, p.Email)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// EnsureAdmin seeds the first back-office account. An existing account is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		s.logger.Warn("admin credentials not configured, skipping seed")
		return nil
	}
	_, err := s.users.FindUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	if name == "" {
		name = "Admin"
	}
	user := &models.User{Email: email, Password: password, Name: name, IsActive: true}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return err
	}
	s.logger.Info("admin account created", "email", email)
	return nil
}
