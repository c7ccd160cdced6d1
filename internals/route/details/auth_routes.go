package details

import (
	authRoute "medialibrary_backend/internals/features/users/auth/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthRoutes(api fiber.Router, db *gorm.DB, auth fiber.Handler, limit bool) {
	authRoute.AuthRoutes(api, db, auth, limit)
}
