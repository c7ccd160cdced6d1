package dto

import (
	"strings"
	"time"

	"medialibrary_backend/internals/features/circulation/borrowings/model"
	"medialibrary_backend/internals/features/circulation/borrowings/service"

	"github.com/google/uuid"
)

type BorrowRequest struct {
	BookID   string  `json:"book_id" validate:"required,uuid"`
	BranchID *string `json:"branch_id,omitempty" validate:"omitempty,uuid"`
}

func (r *BorrowRequest) Normalize() {
	r.BookID = strings.TrimSpace(r.BookID)
	if r.BranchID != nil {
		v := strings.TrimSpace(*r.BranchID)
		if v == "" {
			r.BranchID = nil
		} else {
			r.BranchID = &v
		}
	}
}

// IDs: dipanggil setelah Validate, jadi parse tidak gagal.
func (r *BorrowRequest) IDs() (bookID uuid.UUID, branchID *uuid.UUID) {
	bookID = uuid.MustParse(r.BookID)
	if r.BranchID != nil {
		id := uuid.MustParse(*r.BranchID)
		branchID = &id
	}
	return bookID, branchID
}

type ReturnRequest struct {
	BorrowingID string `json:"borrowing_id" validate:"required,uuid"`
}

/* ===================== RESPONSE ===================== */

type BorrowingResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	BookCopyID uuid.UUID  `json:"book_copy_id"`
	BookID     uuid.UUID  `json:"book_id"`
	BranchID   *uuid.UUID `json:"branch_id,omitempty"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status"`
	IsOverdue  bool       `json:"is_overdue"`

	BookTitle    string  `json:"title,omitempty"`
	BookAuthor   string  `json:"author,omitempty"`
	BookCoverURL *string `json:"cover_url,omitempty"`
}

func fromModel(m *model.BorrowingModel, now time.Time) BorrowingResponse {
	return BorrowingResponse{
		ID:         m.BorrowingID,
		UserID:     m.BorrowingUserID,
		BookCopyID: m.BorrowingBookCopyID,
		BookID:     m.BorrowingBookID,
		BorrowDate: m.BorrowingBorrowDate,
		DueDate:    m.BorrowingDueDate,
		ReturnDate: m.BorrowingReturnDate,
		Status:     m.BorrowingStatus,
		IsOverdue:  m.IsOverdue(now),
	}
}

func FromResult(r *service.BorrowResult, now time.Time) BorrowingResponse {
	out := fromModel(&r.Borrowing, now)
	branch := r.BranchID
	out.BranchID = &branch
	return out
}

func FromRows(rows []service.BorrowingWithBook, now time.Time) []BorrowingResponse {
	out := make([]BorrowingResponse, 0, len(rows))
	for i := range rows {
		item := fromModel(&rows[i].BorrowingModel, now)
		item.BookTitle = rows[i].BookTitle
		item.BookAuthor = rows[i].BookAuthor
		item.BookCoverURL = rows[i].BookCoverURL
		out = append(out, item)
	}
	return out
}
