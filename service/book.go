package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"libms/domain"
	"libms/log"
	"libms/repository"
)

type bookService struct {
	books     repository.BookRepository
	borrows   repository.BorrowRepository
	baseURL   string
	uploadDir string
}

// Create rejects duplicate ISBNs and forces AvailableQuantity to
// TotalQuantity whatever the caller supplied.
func (s *bookService) Create(ctx context.Context, in domain.CreateBookRequest) (domain.BookResponse, error) {
	existing, err := s.books.GetByISBN(ctx, in.ISBN)
	if err == nil && existing.ID != 0 {
		return domain.BookResponse{}, fmt.Errorf("isbn %q: %w", in.ISBN, ErrConflict)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.BookResponse{}, err
	}

	book := repository.Book{
		ISBN:              in.ISBN,
		Title:             in.Title,
		Author:            in.Author,
		Published:         in.Published,
		CoverImage:        in.CoverImage,
		TotalQuantity:     in.TotalQuantity,
		AvailableQuantity: in.TotalQuantity,
	}
	if err := s.books.Create(ctx, &book); err != nil {
		return domain.BookResponse{}, err
	}
	log.GetLogger(ctx).Infof("created book %q (id=%d, copies=%d)", book.ISBN, book.ID, book.TotalQuantity)
	return s.toResponse(book, nil), nil
}

// FindAll matches title, author, or isbn against search and annotates each
// book with whether the caller currently has it on loan.
func (s *bookService) FindAll(ctx context.Context, userID uint, search string) ([]domain.BookResponse, error) {
	books, err := s.books.Search(ctx, search)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.borrows.OutstandingForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byBook := make(map[uint]repository.BorrowRecord, len(outstanding))
	for _, rec := range outstanding {
		if _, ok := byBook[rec.BookID]; !ok {
			byBook[rec.BookID] = rec
		}
	}

	return lo.Map(books, func(book repository.Book, _ int) domain.BookResponse {
		if rec, ok := byBook[book.ID]; ok {
			return s.toResponse(book, &rec)
		}
		return s.toResponse(book, nil)
	}), nil
}

func (s *bookService) FindOne(ctx context.Context, userID, id uint) (domain.BookResponse, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BookResponse{}, fmt.Errorf("book %d: %w", id, ErrNotFound)
		}
		return domain.BookResponse{}, err
	}
	rec, err := s.borrows.OutstandingForUserAndBook(ctx, userID, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BookResponse{}, err
		}
		return s.toResponse(book, nil), nil
	}
	return s.toResponse(book, &rec), nil
}

// Update applies a partial edit, rejecting an ISBN that belongs to a
// different book.
func (s *bookService) Update(ctx context.Context, id uint, in domain.UpdateBookRequest) (domain.BookResponse, error) {
	if in.ISBN != nil {
		existing, err := s.books.GetByISBN(ctx, *in.ISBN)
		if err == nil && existing.ID != id {
			return domain.BookResponse{}, fmt.Errorf("isbn %q: %w", *in.ISBN, ErrConflict)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BookResponse{}, err
		}
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Author != nil {
		fields["author"] = *in.Author
	}
	if in.ISBN != nil {
		fields["isbn"] = *in.ISBN
	}
	if in.Published != nil {
		fields["published"] = *in.Published
	}
	if in.CoverImage != nil {
		fields["cover_image"] = *in.CoverImage
	}
	if in.TotalQuantity != nil {
		fields["total_quantity"] = *in.TotalQuantity
	}

	book, err := s.books.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BookResponse{}, fmt.Errorf("book %d: %w", id, ErrNotFound)
		}
		return domain.BookResponse{}, err
	}
	return s.toResponse(book, nil), nil
}

func (s *bookService) Borrow(ctx context.Context, userID, bookID, quantity uint) (domain.BorrowRecordResponse, error) {
	record, err := s.books.Borrow(ctx, userID, bookID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return domain.BorrowRecordResponse{}, fmt.Errorf("book %d: %w", bookID, ErrNotFound)
		case errors.Is(err, repository.ErrInsufficientStock):
			return domain.BorrowRecordResponse{}, fmt.Errorf("book %d: %w", bookID, ErrInsufficientStock)
		default:
			return domain.BorrowRecordResponse{}, err
		}
	}
	log.GetLogger(ctx).Infof("user %d borrowed %d of book %d (record=%d)", userID, quantity, bookID, record.ID)
	return toRecordResponse(record), nil
}

func (s *bookService) Return(ctx context.Context, recordID uint) (domain.BorrowRecordResponse, error) {
	record, err := s.books.Return(ctx, recordID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return domain.BorrowRecordResponse{}, fmt.Errorf("borrow record %d: %w", recordID, ErrNotFound)
		case errors.Is(err, repository.ErrAlreadyReturned):
			return domain.BorrowRecordResponse{}, fmt.Errorf("borrow record %d: %w", recordID, ErrAlreadyReturned)
		default:
			return domain.BorrowRecordResponse{}, err
		}
	}
	log.GetLogger(ctx).Infof("record %d returned %d copies to book %d", record.ID, record.Quantity, record.BookID)
	return toRecordResponse(record), nil
}

func (s *bookService) toResponse(book repository.Book, rec *repository.BorrowRecord) domain.BookResponse {
	out := domain.BookResponse{
		ID:                book.ID,
		Title:             book.Title,
		Author:            book.Author,
		ISBN:              book.ISBN,
		Published:         book.Published,
		CoverImage:        fmt.Sprintf("%s/%s/%s", s.baseURL, s.uploadDir, book.CoverImage),
		TotalQuantity:     book.TotalQuantity,
		AvailableQuantity: book.AvailableQuantity,
	}
	if rec != nil {
		out.IsBorrowed = true
		id := rec.ID
		out.BorrowID = &id
	}
	return out
}

func toRecordResponse(record repository.BorrowRecord) domain.BorrowRecordResponse {
	return domain.BorrowRecordResponse{
		ID:         record.ID,
		UserID:     record.UserID,
		BookID:     record.BookID,
		Quantity:   record.Quantity,
		BorrowedAt: record.BorrowedAt,
		ReturnedAt: record.ReturnedAt,
	}
}

type BookService interface {
	Create(ctx context.Context, in domain.CreateBookRequest) (domain.BookResponse, error)
	FindAll(ctx context.Context, userID uint, search string) ([]domain.BookResponse, error)
	FindOne(ctx context.Context, userID, id uint) (domain.BookResponse, error)
	Update(ctx context.Context, id uint, in domain.UpdateBookRequest) (domain.BookResponse, error)
	Borrow(ctx context.Context, userID, bookID, quantity uint) (domain.BorrowRecordResponse, error)
	Return(ctx context.Context, recordID uint) (domain.BorrowRecordResponse, error)
}

func NewBookService(
	books repository.BookRepository,
	borrows repository.BorrowRepository,
	baseURL, uploadDir string,
) BookService {
	return &bookService{
		books:     books,
		borrows:   borrows,
		baseURL:   baseURL,
		uploadDir: uploadDir,
	}
}
