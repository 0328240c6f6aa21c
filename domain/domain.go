package domain

import "time"

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6,strongpwd"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateBookRequest struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author" binding:"required"`
	ISBN          string `json:"isbn" binding:"required"`
	Published     string `json:"published" binding:"required"`
	CoverImage    string `json:"coverImage" binding:"required"`
	TotalQuantity uint   `json:"totalQuantity" binding:"required,min=1"`
}

// UpdateBookRequest carries a partial edit; nil fields stay untouched.
type UpdateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	ISBN          *string `json:"isbn"`
	Published     *string `json:"published"`
	CoverImage    *string `json:"coverImage"`
	TotalQuantity *uint   `json:"totalQuantity" binding:"omitempty,min=1"`
}

type BorrowRequest struct {
	BookID   uint `json:"bookId" binding:"required"`
	UserID   uint `json:"userId" binding:"required"`
	Quantity uint `json:"quantity" binding:"required,min=1"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

type BookResponse struct {
	ID                uint   `json:"id"`
	Title             string `json:"title"`
	Author            string `json:"author"`
	ISBN              string `json:"isbn"`
	Published         string `json:"published"`
	CoverImage        string `json:"coverImage"`
	TotalQuantity     uint   `json:"totalQuantity"`
	AvailableQuantity uint   `json:"availableQuantity"`
	IsBorrowed        bool   `json:"isBorrowed"`
	BorrowID          *uint  `json:"borrowId,omitempty"`
}

type BorrowRecordResponse struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"userId"`
	BookID     uint       `json:"bookId"`
	Quantity   uint       `json:"quantity"`
	BorrowedAt time.Time  `json:"borrowedAt"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
}

type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
