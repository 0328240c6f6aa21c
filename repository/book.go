package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Signals from the conditional borrow/return updates. Absent rows surface
// as gorm.ErrRecordNotFound.
var (
	ErrInsufficientStock = errors.New("insufficient available quantity")
	ErrAlreadyReturned   = errors.New("borrow record already returned")
)

type bookRepository struct {
	database *gorm.DB
}

func (b *bookRepository) Create(ctx context.Context, book *Book) error {
	return b.database.WithContext(ctx).Model(Book{}).Create(book).Error
}

func (b *bookRepository) GetByID(ctx context.Context, id uint) (Book, error) {
	var (
		book = Book{}
	)
	err := b.database.WithContext(ctx).Model(Book{}).Where("id = ?", id).First(&book).Error
	return book, err
}

func (b *bookRepository) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	var (
		book = Book{}
	)
	err := b.database.WithContext(ctx).Model(Book{}).Where("isbn = ?", isbn).First(&book).Error
	return book, err
}

func (b *bookRepository) Search(ctx context.Context, text string) ([]Book, error) {
	var books []Book
	pattern := "%" + text + "%"
	err := b.database.WithContext(ctx).Model(Book{}).
		Where("title LIKE ? OR author LIKE ? OR isbn LIKE ?", pattern, pattern, pattern).
		Find(&books).Error
	return books, err
}

func (b *bookRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (Book, error) {
	var book Book
	err := b.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&book).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&book).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&book).Error
	})
	return book, err
}

// Borrow deducts quantity and creates the loan record in one transaction.
// The WHERE guard keeps two concurrent borrows from oversubscribing the book.
func (b *bookRepository) Borrow(ctx context.Context, userID, bookID, quantity uint) (BorrowRecord, error) {
	var record BorrowRecord
	err := b.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(Book{}).
			Where("id = ? AND available_quantity >= ?", bookID, quantity).
			UpdateColumn("available_quantity", gorm.Expr("available_quantity - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var book Book
			if err := tx.Where("id = ?", bookID).First(&book).Error; err != nil {
				return err
			}
			return ErrInsufficientStock
		}
		record = BorrowRecord{
			UserID:     userID,
			BookID:     bookID,
			Quantity:   quantity,
			BorrowedAt: time.Now(),
		}
		return tx.Create(&record).Error
	})
	return record, err
}

// Return stamps ReturnedAt and restores the book's quantity in one
// transaction. The returned_at IS NULL guard makes a second return fail
// instead of double-incrementing.
func (b *bookRepository) Return(ctx context.Context, recordID uint) (BorrowRecord, error) {
	var record BorrowRecord
	err := b.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(BorrowRecord{}).
			Where("id = ? AND returned_at IS NULL", recordID).
			UpdateColumn("returned_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Where("id = ?", recordID).First(&BorrowRecord{}).Error; err != nil {
				return err
			}
			return ErrAlreadyReturned
		}
		if err := tx.Where("id = ?", recordID).First(&record).Error; err != nil {
			return err
		}
		return tx.Model(Book{}).
			Where("id = ?", record.BookID).
			UpdateColumn("available_quantity", gorm.Expr("available_quantity + ?", record.Quantity)).
			Error
	})
	return record, err
}

type BookRepository interface {
	Create(ctx context.Context, book *Book) error
	GetByID(ctx context.Context, id uint) (Book, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	Search(ctx context.Context, text string) ([]Book, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (Book, error)
	Borrow(ctx context.Context, userID, bookID, quantity uint) (BorrowRecord, error)
	Return(ctx context.Context, recordID uint) (BorrowRecord, error)
}

func NewBookRepo(db *gorm.DB) BookRepository {
	return &bookRepository{database: db}
}
