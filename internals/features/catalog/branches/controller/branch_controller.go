package controller

import (
	"medialibrary_backend/internals/features/catalog/branches/repository"
	helper "medialibrary_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BranchController struct {
	DB *gorm.DB
}

func NewBranchController(db *gorm.DB) *BranchController {
	return &BranchController{DB: db}
}

// GET /api/branches
func (ctl *BranchController) List(c *fiber.Ctx) error {
	rows, err := repository.ListBranches(c.UserContext(), ctl.DB)
	if err != nil {
		return helper.RespondError(c, helper.ErrStorage(err))
	}
	return helper.JsonList(c, "ok", rows, nil)
}
