package helper

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

// field error pakai nama json (book_id), bukan nama field Go (BookID)
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate menjalankan validator struct tag; hasilnya *AppError dengan detail per field.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return &ValidationErrors{Fields: FieldErrors(err)}
	}
	return nil
}

// ValidationErrors membawa detail per field sampai ke controller.
type ValidationErrors struct {
	Fields map[string][]string
}

func (e *ValidationErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msgs := range e.Fields {
		parts = append(parts, f+": "+strings.Join(msgs, ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldErrors mengubah validator.ValidationErrors jadi map field -> pesan.
func FieldErrors(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		field := toSnake(fe.Field())
		out[field] = append(out[field], messageFor(fe))
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "email":
		return "format email tidak valid"
	case "min":
		return "minimal " + fe.Param()
	case "max":
		return "maksimal " + fe.Param()
	case "len":
		return "panjang harus " + fe.Param()
	case "oneof":
		return "harus salah satu dari: " + fe.Param()
	case "uuid", "uuid4":
		return "harus UUID"
	case "numeric":
		return "harus angka"
	case "required_if":
		return "wajib diisi"
	case "nefield":
		return "tidak boleh sama dengan " + toSnake(fe.Param())
	default:
		return "tidak valid (" + fe.Tag() + ")"
	}
}

// toSnake: BookID -> book_id, CardNumber -> card_number. Nama yang sudah snake_case tidak berubah.
func toSnake(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(rs[i-1]) || unicode.IsDigit(rs[i-1]))
			nextLower := i > 0 && i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RespondError: satu pintu render error dari service (validasi, domain, driver).
func RespondError(c *fiber.Ctx, err error) error {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return JsonValidationError(c, ve.Fields)
	}
	return JsonAppError(c, err)
}
