package route

import (
	bookController "medialibrary_backend/internals/features/catalog/books/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Katalog publik: /api/books
func BookPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := bookController.NewBookController(db)

	books := r.Group("/books")
	books.Get("/", ctl.List)
	books.Get("/:id", ctl.Get)
}

// Import katalog (librarian/admin): /api/admin/catalog
func BookAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := bookController.NewBookController(db)

	catalog := r.Group("/catalog")
	catalog.Post("/books", ctl.Create)
	catalog.Post("/books/:id/copies", ctl.AddCopies)
}
