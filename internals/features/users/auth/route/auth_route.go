package route

import (
	controller "medialibrary_backend/internals/features/users/auth/controller"
	rateLimiter "medialibrary_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Base: /api/auth. auth = AuthJWT, dipasang per route yang butuh login.
func AuthRoutes(r fiber.Router, db *gorm.DB, auth fiber.Handler, limit bool) {
	authController := controller.NewAuthController(db)

	baseAuth := r.Group("/auth")

	if limit {
		baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
		baseAuth.Post("/signup", rateLimiter.RegisterRateLimiter(), authController.Signup)
	} else {
		baseAuth.Post("/login", authController.Login)
		baseAuth.Post("/signup", authController.Signup)
	}
	baseAuth.Post("/refresh", authController.Refresh)
	baseAuth.Post("/logout", authController.Logout)

	baseAuth.Get("/me", auth, authController.Me)
	baseAuth.Post("/change-password", auth, authController.ChangePassword)
}
