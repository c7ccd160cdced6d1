package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Options struct {
	DefaultLimit int
	MaxLimit     int
}

// ===== Preset =====
var (
	// CatalogOpts: tanpa limit di query -> semua baris (sama seperti perilaku lama katalog)
	CatalogOpts = Options{DefaultLimit: 0, MaxLimit: 200}
	DefaultOpts = Options{DefaultLimit: 25, MaxLimit: 200}
)

// Paging hasil parse; Limit 0 = tanpa batas. Offset hanya berlaku kalau ada limit.
type Paging struct {
	Limit  int
	Offset int
}

// ParseFiber: parse limit/offset langsung dari Fiber ctx.
// Nilai rusak atau negatif -> ValidationError.
func ParseFiber(c *fiber.Ctx, opt Options) (Paging, error) {
	p := Paging{Limit: opt.DefaultLimit}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Paging{}, ErrValidation("limit harus bilangan bulat >= 0")
		}
		p.Limit = n
	}
	if opt.MaxLimit > 0 && p.Limit > opt.MaxLimit {
		p.Limit = opt.MaxLimit
	}

	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Paging{}, ErrValidation("offset harus bilangan bulat >= 0")
		}
		p.Offset = n
	}
	if p.Limit == 0 {
		p.Offset = 0
	}
	return p, nil
}

// BuildPaginationFromOffset menyusun meta pagination untuk JsonList.
func BuildPaginationFromOffset(total int64, p Paging, count int) *Pagination {
	limit := p.Limit
	if limit == 0 {
		limit = int(total)
	}
	return &Pagination{
		Limit:   limit,
		Offset:  p.Offset,
		Total:   total,
		Count:   count,
		HasPrev: p.Offset > 0,
		HasNext: int64(p.Offset+count) < total,
	}
}
