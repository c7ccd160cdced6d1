package route

import (
	borrowingController "medialibrary_backend/internals/features/circulation/borrowings/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// /api/books/* yang butuh login. auth dipasang per route karena /api/books juga publik.
func BorrowingBookRoutes(r fiber.Router, db *gorm.DB, auth fiber.Handler) {
	ctl := borrowingController.NewBorrowingController(db)

	books := r.Group("/books")
	books.Post("/borrow", auth, ctl.Borrow)
	books.Post("/return", auth, ctl.Return)
	books.Get("/:id/status", auth, ctl.BookStatus)
}

// /api/user/borrowings (group sudah ber-AuthJWT)
func BorrowingUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := borrowingController.NewBorrowingController(db)
	r.Get("/borrowings", ctl.ListMine)
}
