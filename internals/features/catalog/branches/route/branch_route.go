package route

import (
	branchController "medialibrary_backend/internals/features/catalog/branches/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func BranchPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := branchController.NewBranchController(db)
	r.Get("/branches", ctl.List)
}
