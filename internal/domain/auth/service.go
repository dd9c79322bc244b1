package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/core/tx"
	"inventra/pkg/logger"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
	minPasswordLen   = 8
)

// Service provides authentication business logic.
type Service struct {
	users     UserRepository
	jwt       *JWTService
	txManager tx.Manager
}

// NewService creates the auth service.
func NewService(users UserRepository, jwtService *JWTService, txManager tx.Manager) *Service {
	return &Service{users: users, jwt: jwtService, txManager: txManager}
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperror.NewValidation("email is required")
	}
	if len(req.Password) < minPasswordLen {
		return nil, apperror.NewValidation("password is too short").
			WithDetail("min_length", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var user *User
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.users.Exists(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicate("user", "email", email)
		}

		user = NewUser(email, string(hash))
		user.FullName = req.FullName
		return s.users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	var token *Token
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewUnauthorized("invalid credentials")
			}
			return err
		}

		if err := user.CanLogin(); err != nil {
			return err
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
			user.RecordFailedLogin(maxLoginAttempts, lockoutDuration)
			if err := s.users.Update(ctx, user); err != nil {
				logger.Warn(ctx, "failed to record login attempt", "user_id", user.ID, "error", err)
			}
			return apperror.NewUnauthorized("invalid credentials")
		}

		user.RecordSuccessfulLogin()
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}

		access, expiresAt, err := s.jwt.GenerateAccessToken(user)
		if err != nil {
			return apperror.NewInternal(err)
		}

		token = &Token{
			AccessToken: access,
			ExpiresAt:   expiresAt,
			TokenType:   "Bearer",
		}

		logger.Info(ctx, "user logged in", "user_id", user.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// GetByID returns the user with the given id.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.users.GetByID(ctx, userID)
}
