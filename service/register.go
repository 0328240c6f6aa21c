package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"libms/domain"
	"libms/log"
	"libms/repository"
)

type registerService struct {
	users      repository.UserRepository
	bcryptCost int
}

func (s *registerService) Register(ctx context.Context, username, rawPassword string) (domain.UserResponse, error) {
	logger := log.GetLogger(ctx)

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return domain.UserResponse{}, fmt.Errorf("username %q: %w", username, ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(rawPassword), s.bcryptCost)
	if err != nil {
		return domain.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, username, string(hashed))
	if err != nil {
		logger.WithError(err).Errorf("create user %q failed", username)
		return domain.UserResponse{}, err
	}
	logger.Infof("registered user %q (id=%d)", username, user.ID)
	return domain.UserResponse{ID: user.ID, Username: user.Username}, nil
}

type RegisterService interface {
	Register(ctx context.Context, username, rawPassword string) (domain.UserResponse, error)
}

func NewRegisterService(users repository.UserRepository, bcryptCost int) RegisterService {
	return &registerService{users: users, bcryptCost: bcryptCost}
}
