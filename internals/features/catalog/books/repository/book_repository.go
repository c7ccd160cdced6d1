package repository

import (
	"context"
	"errors"
	"strings"

	"medialibrary_backend/internals/features/catalog/books/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter: Limit 0 = tanpa batas; Offset hanya dipakai kalau Limit > 0.
type ListFilter struct {
	Search        string
	Category      string
	AvailableOnly bool
	Limit         int
	Offset        int
}

/* ====================== READ ====================== */

// List katalog urut judul. total = jumlah baris sebelum limit/offset.
func List(ctx context.Context, db *gorm.DB, f ListFilter) ([]model.BookModel, int64, error) {
	q := db.WithContext(ctx).Model(&model.BookModel{})

	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + escapeLike(s) + "%"
		q = q.Where("(LOWER(book_title) LIKE ? ESCAPE '\\' OR LOWER(book_author) LIKE ? ESCAPE '\\')", like, like)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("book_category = ?", c)
	}
	if f.AvailableOnly {
		q = q.Where("book_id IN (?)",
			db.Model(&model.BookCopyModel{}).
				Select("book_copy_book_id").
				Where("book_copy_status = ?", model.CopyStatusAvailable),
		)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("book_title ASC").Order("book_id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
		if f.Offset > 0 {
			q = q.Offset(f.Offset)
		}
	}

	var books []model.BookModel
	if err := q.Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// GetByID -> gorm.ErrRecordNotFound kalau tidak ada.
func GetByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.BookModel, error) {
	var b model.BookModel
	if err := db.WithContext(ctx).Where("book_id = ?", id).Take(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func Exists(db *gorm.DB, id uuid.UUID) (bool, error) {
	_, err := GetByID(db.Statement.Context, db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func FindByISBN(db *gorm.DB, isbn string) (*model.BookModel, error) {
	var b model.BookModel
	if err := db.Where("book_isbn = ?", isbn).Take(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// CopyCounts: jumlah eksemplar per status untuk satu buku.
func CopyCounts(ctx context.Context, db *gorm.DB, bookID uuid.UUID) (map[string]int64, error) {
	var rows []struct {
		Status string `gorm:"column:book_copy_status"`
		N      int64  `gorm:"column:n"`
	}
	if err := db.WithContext(ctx).Model(&model.BookCopyModel{}).
		Select("book_copy_status, COUNT(*) AS n").
		Where("book_copy_book_id = ?", bookID).
		Group("book_copy_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := map[string]int64{}
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

/* ====================== WRITE (admin / seed) ====================== */

func CreateBook(db *gorm.DB, b *model.BookModel) error {
	return db.Create(b).Error
}

// AddCopies membuat n eksemplar available di cabang tertentu.
func AddCopies(db *gorm.DB, bookID, branchID uuid.UUID, n int) ([]model.BookCopyModel, error) {
	if n <= 0 {
		return nil, nil
	}
	copies := make([]model.BookCopyModel, n)
	for i := range copies {
		copies[i] = model.BookCopyModel{
			BookCopyBookID:   bookID,
			BookCopyBranchID: branchID,
			BookCopyStatus:   model.CopyStatusAvailable,
		}
	}
	if err := db.Create(&copies).Error; err != nil {
		return nil, err
	}
	return copies, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
