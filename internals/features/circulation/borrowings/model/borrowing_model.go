package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusBorrowed = "borrowed"
	StatusReturned = "returned"
	// overdue tidak disimpan: borrowed + due_date lewat
	StatusOverdue = "overdue"

	LoanPeriod = 14 * 24 * time.Hour
)

type BorrowingModel struct {
	BorrowingID         uuid.UUID `gorm:"column:borrowing_id;type:uuid;primaryKey" json:"borrowing_id"`
	BorrowingUserID     uuid.UUID `gorm:"column:borrowing_user_id;type:uuid;not null;index:idx_borrowings_user_status,priority:1;uniqueIndex:uq_borrowings_open_user_book,priority:1,where:borrowing_status = 'borrowed'" json:"borrowing_user_id"`
	BorrowingBookCopyID uuid.UUID `gorm:"column:borrowing_book_copy_id;type:uuid;not null;uniqueIndex:uq_borrowings_open_copy,where:borrowing_status = 'borrowed'" json:"borrowing_book_copy_id"`
	// denormalisasi dari book_copies, supaya duplikat per buku bisa dijaga index
	BorrowingBookID uuid.UUID `gorm:"column:borrowing_book_id;type:uuid;not null;uniqueIndex:uq_borrowings_open_user_book,priority:2,where:borrowing_status = 'borrowed'" json:"borrowing_book_id"`

	BorrowingBorrowDate time.Time  `gorm:"column:borrowing_borrow_date;not null" json:"borrowing_borrow_date"`
	BorrowingDueDate    time.Time  `gorm:"column:borrowing_due_date;not null" json:"borrowing_due_date"`
	BorrowingReturnDate *time.Time `gorm:"column:borrowing_return_date" json:"borrowing_return_date,omitempty"`
	BorrowingStatus     string     `gorm:"column:borrowing_status;type:varchar(16);not null;default:'borrowed';index:idx_borrowings_user_status,priority:2" json:"borrowing_status"`

	BorrowingCreatedAt time.Time `gorm:"column:borrowing_created_at;autoCreateTime" json:"borrowing_created_at"`
	BorrowingUpdatedAt time.Time `gorm:"column:borrowing_updated_at;autoUpdateTime" json:"borrowing_updated_at"`
}

func (BorrowingModel) TableName() string { return "borrowings" }

func (m *BorrowingModel) BeforeCreate(tx *gorm.DB) error {
	if m.BorrowingID == uuid.Nil {
		m.BorrowingID = uuid.New()
	}
	if m.BorrowingStatus == "" {
		m.BorrowingStatus = StatusBorrowed
	}
	return nil
}

// IsOverdue: status tersimpan tetap borrowed, overdue diturunkan dari due date.
func (m *BorrowingModel) IsOverdue(now time.Time) bool {
	return m.BorrowingStatus == StatusBorrowed && now.After(m.BorrowingDueDate)
}
