package helper

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// SQLState mengambil kode SQLSTATE dari pgx atau lib/pq.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if SQLState(err) == pgUniqueViolation || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite (mattn) tidak punya SQLSTATE
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if SQLState(err) == pgForeignKeyViolation || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsSerializationFailure: konflik yang aman diulang dalam transaksi baru.
func IsSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	switch SQLState(err) {
	case pgSerializationFailure, pgDeadlockDetected:
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}

// MapDBError memetakan error driver ke taxonomy domain.
func MapDBError(err error) *AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &AppError{Kind: KindNotFound, Message: "Data tidak ditemukan", Err: err}
	case IsUniqueViolation(err):
		return &AppError{Kind: KindConflict, Message: "Data duplikat (unique violation).", Err: err}
	case IsForeignKeyViolation(err):
		return &AppError{Kind: KindValidation, Message: "Referensi tidak ditemukan (FK violation).", Err: err}
	default:
		return ErrStorage(err)
	}
}
