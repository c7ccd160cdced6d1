package helper

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Error taxonomy (domain -> HTTP)
=================================*/

type ErrorKind string

const (
	KindUnauthenticated      ErrorKind = "UNAUTHORIZED"
	KindValidation           ErrorKind = "VALIDATION_ERROR"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindSubscriptionRequired ErrorKind = "SUBSCRIPTION_REQUIRED"
	KindConflict             ErrorKind = "CONFLICT"
	KindStorage              ErrorKind = "STORAGE_ERROR"
)

// AppError dibawa dari service ke controller; Err opsional (penyebab asli).
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindValidation:
		return fiber.StatusUnprocessableEntity
	case KindNotFound:
		return fiber.StatusNotFound
	case KindSubscriptionRequired:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func NewAppError(kind ErrorKind, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg}
}

func ErrUnauthenticated(msg string) *AppError { return NewAppError(KindUnauthenticated, msg) }
func ErrValidation(msg string) *AppError      { return NewAppError(KindValidation, msg) }
func ErrNotFound(msg string) *AppError        { return NewAppError(KindNotFound, msg) }
func ErrConflict(msg string) *AppError        { return NewAppError(KindConflict, msg) }
func ErrSubscriptionRequired(msg string) *AppError {
	return NewAppError(KindSubscriptionRequired, msg)
}

// ErrStorage membungkus error driver; pesan ke client tetap generik.
func ErrStorage(err error) *AppError {
	return &AppError{Kind: KindStorage, Message: "storage error", Err: err}
}

// KindOf mengembalikan kind dari err; error asing dianggap storage.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindStorage
}

// AsAppError menormalkan error apa pun jadi *AppError (driver error dipetakan dulu).
func AsAppError(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return MapDBError(err)
}

// JsonAppError render error domain dengan envelope standar.
func JsonAppError(c *fiber.Ctx, err error) error {
	ae := AsAppError(err)
	status := ae.HTTPStatus()
	if status >= 500 {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
		return JsonErrorCode(c, status, string(KindStorage), "Terjadi kesalahan pada server")
	}
	return JsonErrorCode(c, status, string(ae.Kind), ae.Message)
}
