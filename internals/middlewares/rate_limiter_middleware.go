package middlewares

import (
	"time"

	"medialibrary_backend/internals/configs"
	helper "medialibrary_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func newLimiter(max int, exp time.Duration, msg string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: exp,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, msg)
		},
	})
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(
		configs.GetEnvInt("RATE_LIMIT_GLOBAL_MAX", 100),
		1*time.Minute,
		"❌ Terlalu banyak permintaan. Silakan coba lagi nanti.",
	)
}

// Rate limiter untuk login route (lebih ketat)
func LoginRateLimiter() fiber.Handler {
	return newLimiter(
		configs.GetEnvInt("RATE_LIMIT_LOGIN_MAX", 5),
		1*time.Minute,
		"❌ Terlalu banyak percobaan login. Coba beberapa saat lagi.",
	)
}

// Rate limiter untuk signup
func RegisterRateLimiter() fiber.Handler {
	return newLimiter(
		configs.GetEnvInt("RATE_LIMIT_REGISTER_MAX", 3),
		5*time.Minute,
		"❌ Terlalu banyak percobaan pendaftaran. Tunggu beberapa menit ya.",
	)
}
