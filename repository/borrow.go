package repository

import (
	"context"

	"gorm.io/gorm"
)

type borrowRepository struct {
	database *gorm.DB
}

// OutstandingForUser lists the user's unreturned loans, newest first.
func (r *borrowRepository) OutstandingForUser(ctx context.Context, userID uint) ([]BorrowRecord, error) {
	var records []BorrowRecord
	err := r.database.WithContext(ctx).Model(BorrowRecord{}).
		Where("user_id = ? AND returned_at IS NULL", userID).
		Order("borrowed_at DESC").
		Find(&records).Error
	return records, err
}

func (r *borrowRepository) OutstandingForUserAndBook(ctx context.Context, userID, bookID uint) (BorrowRecord, error) {
	var (
		record = BorrowRecord{}
	)
	err := r.database.WithContext(ctx).Model(BorrowRecord{}).
		Where("user_id = ? AND book_id = ? AND returned_at IS NULL", userID, bookID).
		First(&record).Error
	return record, err
}

type BorrowRepository interface {
	OutstandingForUser(ctx context.Context, userID uint) ([]BorrowRecord, error)
	OutstandingForUserAndBook(ctx context.Context, userID, bookID uint) (BorrowRecord, error)
}

func NewBorrowRepo(db *gorm.DB) BorrowRepository {
	return &borrowRepository{database: db}
}
