package details

import (
	bookRoute "medialibrary_backend/internals/features/catalog/books/route"
	branchRoute "medialibrary_backend/internals/features/catalog/branches/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CatalogPublicRoutes(r fiber.Router, db *gorm.DB) {
	bookRoute.BookPublicRoutes(r, db)
	branchRoute.BranchPublicRoutes(r, db)
}

func CatalogAdminRoutes(r fiber.Router, db *gorm.DB) {
	bookRoute.BookAdminRoutes(r, db)
}
