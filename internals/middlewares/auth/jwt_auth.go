package auth

import (
	"strings"

	helper "medialibrary_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Keys Locals yang diisi AuthJWT
const (
	LocUserID    = "user_id"
	LocUserRole  = "user_role"
	LocUserEmail = "user_email"
	LocClaims    = "jwt_claims"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // pakai cookie access_token jika tidak ada Bearer
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := helper.GetRawAccessToken(c, o.AllowCookieFallback)
		if raw == "" {
			return helper.JsonAppError(c, helper.ErrUnauthenticated("Unauthorized"))
		}

		// 2) Parse + verifikasi algoritma
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return helper.JsonAppError(c, helper.ErrUnauthenticated("Token tidak valid atau kedaluwarsa"))
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return helper.JsonAppError(c, helper.ErrUnauthenticated("Invalid token claims"))
		}

		// refresh token tidak boleh dipakai sebagai access token
		if typ := strClaim(claims, "typ"); typ != "" && typ != "access" {
			return helper.JsonAppError(c, helper.ErrUnauthenticated("Token tidak valid"))
		}

		// user_id: id lalu sub
		uid := strClaim(claims, "id")
		if uid == "" {
			uid = strClaim(claims, "sub")
		}
		if _, err := uuid.Parse(uid); err != nil {
			return helper.JsonAppError(c, helper.ErrUnauthenticated("User ID pada token tidak valid"))
		}

		role := strings.ToLower(strClaim(claims, "role"))
		if role == "" {
			role = "user"
		}

		c.Locals(LocClaims, claims)
		c.Locals(LocUserID, uid)
		c.Locals(LocUserRole, role)
		c.Locals(LocUserEmail, strClaim(claims, "email"))
		helper.SetRawAccessToken(c, raw)

		return c.Next()
	}
}

// util kecil untuk ambil string claim
func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
