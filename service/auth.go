package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"libms/auth"
	"libms/domain"
	"libms/log"
	"libms/repository"
)

type authService struct {
	users     repository.UserRepository
	throttle  LoginThrottle
	jwtSecret []byte
	tokenTTL  time.Duration
}

// Login verifies the password against the stored bcrypt hash and issues a
// signed token. Unknown user and bad password produce the same error.
func (s *authService) Login(ctx context.Context, username, rawPassword string) (domain.LoginResponse, error) {
	logger := log.GetLogger(ctx)

	if !s.throttle.Allow(ctx, username) {
		logger.Warnf("login throttled for %q", username)
		return domain.LoginResponse{}, ErrUnauthorized
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, ErrUnauthorized
		}
		return domain.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(rawPassword)); err != nil {
		return domain.LoginResponse{}, ErrUnauthorized
	}

	token, err := auth.GenerateToken(s.jwtSecret, s.tokenTTL, user.ID, user.Username)
	if err != nil {
		logger.WithError(err).Errorf("sign token for %q failed", username)
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		AccessToken: token,
		User:        domain.UserResponse{ID: user.ID, Username: user.Username},
	}, nil
}

type AuthService interface {
	Login(ctx context.Context, username, rawPassword string) (domain.LoginResponse, error)
}

func NewAuthService(
	users repository.UserRepository,
	throttle LoginThrottle,
	jwtSecret []byte,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		users:     users,
		throttle:  throttle,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}
