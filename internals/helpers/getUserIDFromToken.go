package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Ambil user_id dari c.Locals("user_id").
// Unauthenticated kalau belum login atau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals("user_id")
	if v == nil {
		return uuid.Nil, ErrUnauthenticated("User belum login")
	}

	var raw string
	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, ErrUnauthenticated("User belum login")
		}
		return t, nil
	case string:
		raw = t
	case []byte:
		raw = string(t)
	default:
		return uuid.Nil, ErrUnauthenticated("User ID pada token tidak valid")
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return uuid.Nil, ErrUnauthenticated("User belum login")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated("User ID pada token tidak valid")
	}
	return id, nil
}

// GetRoleFromToken: role dari Locals (diset AuthJWT), kosong kalau tidak ada.
func GetRoleFromToken(c *fiber.Ctx) string {
	if r, ok := c.Locals("user_role").(string); ok {
		return strings.ToLower(strings.TrimSpace(r))
	}
	return ""
}
