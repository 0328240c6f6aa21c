package repository

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"type:varchar(255);column:username;uniqueIndex;not null"`
	Password string `gorm:"type:varchar(255);column:password;not null"`
}

type Book struct {
	gorm.Model
	ISBN              string `gorm:"type:varchar(64);column:isbn;uniqueIndex;not null"`
	Title             string `gorm:"type:varchar(255);column:title;not null"`
	Author            string `gorm:"type:varchar(255);column:author;not null"`
	Published         string `gorm:"type:varchar(64);column:published"`
	CoverImage        string `gorm:"type:varchar(255);column:cover_image"`
	TotalQuantity     uint   `gorm:"type:int unsigned;column:total_quantity;not null"`
	AvailableQuantity uint   `gorm:"type:int unsigned;column:available_quantity;not null"`
}

// BorrowRecord with ReturnedAt unset is an outstanding loan; once stamped
// the record is terminal.
type BorrowRecord struct {
	gorm.Model
	UserID     uint       `gorm:"column:user_id;index;not null"`
	BookID     uint       `gorm:"column:book_id;index;not null"`
	Quantity   uint       `gorm:"type:int unsigned;column:quantity;not null"`
	BorrowedAt time.Time  `gorm:"column:borrowed_at;not null"`
	ReturnedAt *time.Time `gorm:"column:returned_at"`
}
