package repository

import (
	"context"

	"gorm.io/gorm"
)

type userRepository struct {
	database *gorm.DB
}

func (u *userRepository) Create(ctx context.Context, username, hashedPassword string) (User, error) {
	var user = User{
		Username: username,
		Password: hashedPassword,
	}
	err := u.database.WithContext(ctx).Model(User{}).Create(&user).Error
	return user, err
}

func (u *userRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	var (
		user = User{}
	)
	err := u.database.WithContext(ctx).Model(User{}).Where("username = ?", username).First(&user).Error
	return user, err
}

type UserRepository interface {
	Create(ctx context.Context, username, hashedPassword string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepository{database: db}
}
