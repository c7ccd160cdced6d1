package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status eksemplar fisik
const (
	CopyStatusAvailable   = "available"
	CopyStatusBorrowed    = "borrowed"
	CopyStatusReserved    = "reserved"
	CopyStatusMaintenance = "maintenance"
)

type BookCopyModel struct {
	BookCopyID       uuid.UUID `gorm:"column:book_copy_id;type:uuid;primaryKey" json:"book_copy_id"`
	BookCopyBookID   uuid.UUID `gorm:"column:book_copy_book_id;type:uuid;not null;index:idx_book_copies_book_status,priority:1" json:"book_copy_book_id"`
	BookCopyBranchID uuid.UUID `gorm:"column:book_copy_branch_id;type:uuid;not null;index:idx_book_copies_branch" json:"book_copy_branch_id"`
	BookCopyStatus   string    `gorm:"column:book_copy_status;type:varchar(20);not null;default:'available';index:idx_book_copies_book_status,priority:2" json:"book_copy_status"`

	BookCopyCreatedAt time.Time `gorm:"column:book_copy_created_at;autoCreateTime" json:"book_copy_created_at"`
	BookCopyUpdatedAt time.Time `gorm:"column:book_copy_updated_at;autoUpdateTime" json:"book_copy_updated_at"`
}

func (BookCopyModel) TableName() string { return "book_copies" }

func (m *BookCopyModel) BeforeCreate(tx *gorm.DB) error {
	if m.BookCopyID == uuid.Nil {
		m.BookCopyID = uuid.New()
	}
	if m.BookCopyStatus == "" {
		m.BookCopyStatus = CopyStatusAvailable
	}
	return nil
}
