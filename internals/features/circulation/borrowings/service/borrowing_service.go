package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"medialibrary_backend/internals/configs"
	bookModel "medialibrary_backend/internals/features/catalog/books/model"
	bookRepo "medialibrary_backend/internals/features/catalog/books/repository"
	"medialibrary_backend/internals/features/circulation/borrowings/model"
	ledger "medialibrary_backend/internals/features/subscriptions/ledger/service"
	userModel "medialibrary_backend/internals/features/users/user/model"
	helper "medialibrary_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errNoCopy = helper.ErrNotFound("Tidak ada eksemplar yang tersedia")

type Service struct {
	DB   *gorm.DB
	Gate *ledger.Gate
	// AutoProvision: buat eksemplar baru kalau semua cabang habis (hanya untuk buku yang sudah ada)
	AutoProvision bool
	Now           func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{
		DB:            db,
		Gate:          ledger.NewGate(ledger.PolicyFromEnv()),
		AutoProvision: configs.GetEnvBool("BORROW_AUTO_PROVISION_COPY", false),
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC().Truncate(time.Microsecond)
	}
	return time.Now().UTC().Truncate(time.Microsecond)
}

// BorrowResult: baris borrowing + cabang eksemplar yang dipakai.
type BorrowResult struct {
	Borrowing model.BorrowingModel
	BranchID  uuid.UUID
}

/* =========================================================
   BORROW
   ========================================================= */

// Borrow: satu transaksi. Urutan: lock user -> gate -> duplikat -> buku -> eksemplar -> CAS -> insert.
func (s *Service) Borrow(ctx context.Context, userID, bookID uuid.UUID, branchID *uuid.UUID) (*BorrowResult, error) {
	if userID == uuid.Nil {
		return nil, helper.ErrUnauthenticated("User belum login")
	}
	if bookID == uuid.Nil {
		return nil, helper.ErrValidation("book_id wajib diisi")
	}

	var out *BorrowResult
	err := helper.RunInTx(ctx, s.DB, func(tx *gorm.DB) error {
		out = nil
		now := s.now()

		if err := lockUser(tx, userID); err != nil {
			return err
		}

		d, err := s.Gate.CanBorrow(tx, userID, CountOpen)
		if err != nil {
			return err
		}
		if !d.Allowed {
			return helper.ErrSubscriptionRequired(d.Message())
		}

		dup, err := hasOpenForBook(tx, userID, bookID)
		if err != nil {
			return err
		}
		if dup {
			return helper.ErrConflict("Buku ini masih kamu pinjam")
		}

		ok, err := bookRepo.Exists(tx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			return helper.ErrNotFound("Buku tidak ditemukan")
		}

		cp, err := s.pickCopy(tx, bookID, branchID)
		if err != nil {
			return err
		}

		// CAS: eksemplar bisa saja diambil transaksi lain sejak dibaca
		res := tx.Model(&bookModel.BookCopyModel{}).
			Where("book_copy_id = ? AND book_copy_status = ?", cp.BookCopyID, bookModel.CopyStatusAvailable).
			Updates(map[string]any{
				"book_copy_status":     bookModel.CopyStatusBorrowed,
				"book_copy_updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("copy %s sudah tidak available: %w", cp.BookCopyID, helper.ErrRetryTx)
		}

		b := model.BorrowingModel{
			BorrowingUserID:     userID,
			BorrowingBookCopyID: cp.BookCopyID,
			BorrowingBookID:     bookID,
			BorrowingBorrowDate: now,
			BorrowingDueDate:    now.Add(model.LoanPeriod),
			BorrowingStatus:     model.StatusBorrowed,
		}
		if err := tx.Create(&b).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.ErrConflict("Buku ini masih kamu pinjam")
			}
			return err
		}

		out = &BorrowResult{Borrowing: b, BranchID: cp.BookCopyBranchID}
		return nil
	}, helper.WithLabel("borrow"))
	if err != nil {
		return nil, normalizeErr(err)
	}

	log.Printf("[BORROW] ✅ user=%s book=%s copy=%s due=%s",
		userID, bookID, out.Borrowing.BorrowingBookCopyID, out.Borrowing.BorrowingDueDate.Format(time.RFC3339))
	return out, nil
}

// lockUser serialisasi peminjaman per user supaya limit & cek duplikat tidak balapan.
// User yang belum punya baris (identitas dari luar) tetap lanjut.
func lockUser(tx *gorm.DB, userID uuid.UUID) error {
	var ids []uuid.UUID
	return tx.Model(&userModel.UserModel{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID).
		Pluck("id", &ids).Error
}

// CountOpen: jumlah borrowing status borrowed (termasuk yang overdue).
func CountOpen(tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.BorrowingModel{}).
		Where("borrowing_user_id = ? AND borrowing_status = ?", userID, model.StatusBorrowed).
		Count(&n).Error
	return n, err
}

func hasOpenForBook(tx *gorm.DB, userID, bookID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&model.BorrowingModel{}).
		Where("borrowing_user_id = ? AND borrowing_book_id = ? AND borrowing_status = ?",
			userID, bookID, model.StatusBorrowed).
		Count(&n).Error
	return n > 0, err
}

// pickCopy: cabang diminta -> cabang mana saja -> (opsional) eksemplar baru.
func (s *Service) pickCopy(tx *gorm.DB, bookID uuid.UUID, branchID *uuid.UUID) (*bookModel.BookCopyModel, error) {
	if branchID != nil && *branchID != uuid.Nil {
		cp, err := findAvailableCopy(tx, bookID, branchID)
		if err != nil || cp != nil {
			return cp, err
		}
	}

	cp, err := findAvailableCopy(tx, bookID, nil)
	if err != nil || cp != nil {
		return cp, err
	}

	if !s.AutoProvision || branchID == nil || *branchID == uuid.Nil {
		return nil, errNoCopy
	}

	created, err := bookRepo.AddCopies(tx, bookID, *branchID, 1)
	if err != nil {
		if helper.IsForeignKeyViolation(err) {
			return nil, helper.ErrValidation("branch_id tidak dikenal")
		}
		return nil, err
	}
	log.Printf("[BORROW] ⚠️ auto-provision copy %s book=%s branch=%s", created[0].BookCopyID, bookID, *branchID)
	return &created[0], nil
}

func findAvailableCopy(tx *gorm.DB, bookID uuid.UUID, branchID *uuid.UUID) (*bookModel.BookCopyModel, error) {
	q := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("book_copy_book_id = ? AND book_copy_status = ?", bookID, bookModel.CopyStatusAvailable)
	if branchID != nil {
		q = q.Where("book_copy_branch_id = ?", *branchID)
	}

	var rows []bookModel.BookCopyModel
	if err := q.Order("book_copy_created_at ASC").Order("book_copy_id ASC").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

/* =========================================================
   RETURN
   ========================================================= */

// Return menutup borrowing milik userID dan mengembalikan eksemplar ke available.
func (s *Service) Return(ctx context.Context, userID, borrowingID uuid.UUID) (uuid.UUID, error) {
	if userID == uuid.Nil {
		return uuid.Nil, helper.ErrUnauthenticated("User belum login")
	}
	if borrowingID == uuid.Nil {
		return uuid.Nil, helper.ErrValidation("borrowing_id wajib diisi")
	}

	var bookID uuid.UUID
	err := helper.RunInTx(ctx, s.DB, func(tx *gorm.DB) error {
		now := s.now()

		var b model.BorrowingModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("borrowing_id = ? AND borrowing_user_id = ? AND borrowing_status = ?",
				borrowingID, userID, model.StatusBorrowed).
			Take(&b).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.ErrNotFound("Peminjaman tidak ditemukan atau sudah dikembalikan")
		}
		if err != nil {
			return err
		}

		res := tx.Model(&model.BorrowingModel{}).
			Where("borrowing_id = ? AND borrowing_status = ?", b.BorrowingID, model.StatusBorrowed).
			Updates(map[string]any{
				"borrowing_status":      model.StatusReturned,
				"borrowing_return_date": now,
				"borrowing_updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("borrowing %s berubah: %w", b.BorrowingID, helper.ErrRetryTx)
		}

		if err := tx.Model(&bookModel.BookCopyModel{}).
			Where("book_copy_id = ?", b.BorrowingBookCopyID).
			Updates(map[string]any{
				"book_copy_status":     bookModel.CopyStatusAvailable,
				"book_copy_updated_at": now,
			}).Error; err != nil {
			return err
		}

		bookID = b.BorrowingBookID
		return nil
	}, helper.WithLabel("return"))
	if err != nil {
		return uuid.Nil, normalizeErr(err)
	}

	log.Printf("[RETURN] ✅ user=%s borrowing=%s book=%s", userID, borrowingID, bookID)
	return bookID, nil
}

/* =========================================================
   READ
   ========================================================= */

// BorrowingWithBook: baris borrowing + ringkasan buku untuk dashboard.
type BorrowingWithBook struct {
	model.BorrowingModel
	BookTitle    string  `gorm:"column:book_title"`
	BookAuthor   string  `gorm:"column:book_author"`
	BookCoverURL *string `gorm:"column:book_cover_url"`
}

// ListMine: status "" | borrowed | returned | overdue. Urut borrow date terbaru.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, status string) ([]BorrowingWithBook, error) {
	if userID == uuid.Nil {
		return nil, helper.ErrUnauthenticated("User belum login")
	}
	now := s.now()

	q := s.DB.WithContext(ctx).
		Table("borrowings AS b").
		Select("b.*, bk.book_title, bk.book_author, bk.book_cover_url").
		Joins("JOIN books bk ON bk.book_id = b.borrowing_book_id").
		Where("b.borrowing_user_id = ?", userID)

	switch strings.ToLower(strings.TrimSpace(status)) {
	case "":
	case model.StatusBorrowed:
		q = q.Where("b.borrowing_status = ?", model.StatusBorrowed)
	case model.StatusReturned:
		q = q.Where("b.borrowing_status = ?", model.StatusReturned)
	case model.StatusOverdue:
		q = q.Where("b.borrowing_status = ? AND b.borrowing_due_date < ?", model.StatusBorrowed, now)
	default:
		return nil, helper.ErrValidation("status harus borrowed, returned, atau overdue")
	}

	var rows []BorrowingWithBook
	if err := q.Order("b.borrowing_borrow_date DESC").Scan(&rows).Error; err != nil {
		return nil, helper.ErrStorage(err)
	}
	return rows, nil
}

// BookStatusForUser: "borrowed" kalau user masih memegang eksemplar buku ini.
func (s *Service) BookStatusForUser(ctx context.Context, userID, bookID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", helper.ErrUnauthenticated("User belum login")
	}
	open, err := hasOpenForBook(s.DB.WithContext(ctx), userID, bookID)
	if err != nil {
		return "", helper.ErrStorage(err)
	}
	if open {
		return model.StatusBorrowed, nil
	}
	return bookModel.CopyStatusAvailable, nil
}

// normalizeErr: AppError diteruskan; retry habis -> Conflict; sisanya dipetakan dari driver.
func normalizeErr(err error) error {
	var ae *helper.AppError
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, helper.ErrRetryTx) {
		return helper.ErrConflict("Eksemplar sedang diproses, coba lagi")
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return helper.ErrStorage(err)
	}
	return helper.MapDBError(err)
}
