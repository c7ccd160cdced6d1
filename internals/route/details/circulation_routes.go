package details

import (
	borrowingRoute "medialibrary_backend/internals/features/circulation/borrowings/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// api: /api (publik), user: /api/user (AuthJWT)
func CirculationRoutes(api, user fiber.Router, db *gorm.DB, auth fiber.Handler) {
	borrowingRoute.BorrowingBookRoutes(api, db, auth)
	borrowingRoute.BorrowingUserRoutes(user, db)
}
