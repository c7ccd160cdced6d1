package dto

import (
	"strings"
	"time"

	"medialibrary_backend/internals/features/catalog/books/model"

	"github.com/google/uuid"
)

/* =======================================================
   REQUEST DTOs (admin import)
   ======================================================= */

type InitialCopies struct {
	BranchID uuid.UUID `json:"branch_id" validate:"required"`
	Count    int       `json:"count" validate:"required,min=1,max=100"`
}

type CreateBookRequest struct {
	Title           string          `json:"title" validate:"required,max=255"`
	Author          string          `json:"author" validate:"required,max=255"`
	ISBN            *string         `json:"isbn,omitempty" validate:"omitempty,min=10,max=20"`
	Publisher       *string         `json:"publisher,omitempty" validate:"omitempty,max=255"`
	PublicationYear *int            `json:"publication_year,omitempty" validate:"omitempty,min=0,max=3000"`
	Description     *string         `json:"description,omitempty"`
	Category        *string         `json:"category,omitempty" validate:"omitempty,max=100"`
	Pages           *int            `json:"pages,omitempty" validate:"omitempty,min=1"`
	CoverURL        *string         `json:"cover_url,omitempty" validate:"omitempty,max=2048"`
	Copies          []InitialCopies `json:"copies,omitempty" validate:"omitempty,dive"`
}

// Normalize: trim, string kosong -> nil
func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.ISBN = trimPtr(r.ISBN)
	r.Publisher = trimPtr(r.Publisher)
	r.Description = trimPtr(r.Description)
	r.Category = trimPtr(r.Category)
	r.CoverURL = trimPtr(r.CoverURL)
}

func (r *CreateBookRequest) ToModel() *model.BookModel {
	return &model.BookModel{
		BookTitle:           r.Title,
		BookAuthor:          r.Author,
		BookISBN:            r.ISBN,
		BookPublisher:       r.Publisher,
		BookPublicationYear: r.PublicationYear,
		BookDescription:     r.Description,
		BookCategory:        r.Category,
		BookPages:           r.Pages,
		BookCoverURL:        r.CoverURL,
	}
}

type AddCopiesRequest struct {
	BranchID uuid.UUID `json:"branch_id" validate:"required"`
	Count    int       `json:"count" validate:"required,min=1,max=100"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type BookResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            *string   `json:"isbn,omitempty"`
	Publisher       *string   `json:"publisher,omitempty"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Category        *string   `json:"category,omitempty"`
	Pages           *int      `json:"pages,omitempty"`
	CoverURL        *string   `json:"cover_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	// diisi di detail
	Copies map[string]int64 `json:"copies,omitempty"`
}

func FromModel(m *model.BookModel) BookResponse {
	return BookResponse{
		ID:              m.BookID,
		Title:           m.BookTitle,
		Author:          m.BookAuthor,
		ISBN:            m.BookISBN,
		Publisher:       m.BookPublisher,
		PublicationYear: m.BookPublicationYear,
		Description:     m.BookDescription,
		Category:        m.BookCategory,
		Pages:           m.BookPages,
		CoverURL:        m.BookCoverURL,
		CreatedAt:       m.BookCreatedAt,
	}
}

func FromModels(rows []model.BookModel) []BookResponse {
	out := make([]BookResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type CopyResponse struct {
	ID       uuid.UUID `json:"id"`
	BookID   uuid.UUID `json:"book_id"`
	BranchID uuid.UUID `json:"branch_id"`
	Status   string    `json:"status"`
}

func FromCopies(rows []model.BookCopyModel) []CopyResponse {
	out := make([]CopyResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, CopyResponse{
			ID:       c.BookCopyID,
			BookID:   c.BookCopyBookID,
			BranchID: c.BookCopyBranchID,
			Status:   c.BookCopyStatus,
		})
	}
	return out
}
