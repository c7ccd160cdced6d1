package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookModel struct {
	BookID              uuid.UUID `gorm:"column:book_id;type:uuid;primaryKey" json:"book_id"`
	BookTitle           string    `gorm:"column:book_title;size:255;not null;index:idx_books_title" json:"book_title"`
	BookAuthor          string    `gorm:"column:book_author;size:255;not null" json:"book_author"`
	BookISBN            *string   `gorm:"column:book_isbn;size:20;uniqueIndex:uq_books_isbn" json:"book_isbn,omitempty"`
	BookPublisher       *string   `gorm:"column:book_publisher;size:255" json:"book_publisher,omitempty"`
	BookPublicationYear *int      `gorm:"column:book_publication_year" json:"book_publication_year,omitempty"`
	BookDescription     *string   `gorm:"column:book_description" json:"book_description,omitempty"`
	BookCategory        *string   `gorm:"column:book_category;size:100;index:idx_books_category" json:"book_category,omitempty"`
	BookPages           *int      `gorm:"column:book_pages" json:"book_pages,omitempty"`
	BookCoverURL        *string   `gorm:"column:book_cover_url" json:"book_cover_url,omitempty"`

	BookCreatedAt time.Time      `gorm:"column:book_created_at;autoCreateTime" json:"book_created_at"`
	BookUpdatedAt time.Time      `gorm:"column:book_updated_at;autoUpdateTime" json:"book_updated_at"`
	BookDeletedAt gorm.DeletedAt `gorm:"column:book_deleted_at;index" json:"-"`
}

func (BookModel) TableName() string { return "books" }

func (m *BookModel) BeforeCreate(tx *gorm.DB) error {
	if m.BookID == uuid.Nil {
		m.BookID = uuid.New()
	}
	return nil
}
