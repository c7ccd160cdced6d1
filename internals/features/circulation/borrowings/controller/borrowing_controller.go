package controller

import (
	"time"

	"medialibrary_backend/internals/features/circulation/borrowings/dto"
	"medialibrary_backend/internals/features/circulation/borrowings/service"
	helper "medialibrary_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BorrowingController struct {
	DB      *gorm.DB
	Service *service.Service
}

func NewBorrowingController(db *gorm.DB) *BorrowingController {
	return &BorrowingController{DB: db, Service: service.New(db)}
}

// POST /api/books/borrow
func (ctl *BorrowingController) Borrow(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	var req dto.BorrowRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}
	bookID, branchID := req.IDs()

	res, err := ctl.Service.Borrow(c.UserContext(), userID, bookID, branchID)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Buku berhasil dipinjam", dto.FromResult(res, time.Now()))
}

// POST /api/books/return
func (ctl *BorrowingController) Return(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	var req dto.ReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}

	bookID, err := ctl.Service.Return(c.UserContext(), userID, uuid.MustParse(req.BorrowingID))
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Buku berhasil dikembalikan", fiber.Map{"book_id": bookID})
}

// GET /api/books/:id/status
func (ctl *BorrowingController) BookStatus(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	bookID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}

	status, err := ctl.Service.BookStatusForUser(c.UserContext(), userID, bookID)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"status": status})
}

// GET /api/user/borrowings?status=
func (ctl *BorrowingController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	rows, err := ctl.Service.ListMine(c.UserContext(), userID, c.Query("status"))
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromRows(rows, time.Now()))
}
