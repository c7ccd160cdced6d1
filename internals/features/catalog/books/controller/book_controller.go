package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"medialibrary_backend/internals/features/catalog/books/dto"
	"medialibrary_backend/internals/features/catalog/books/model"
	"medialibrary_backend/internals/features/catalog/books/repository"
	branchRepo "medialibrary_backend/internals/features/catalog/branches/repository"
	helper "medialibrary_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookController struct {
	DB *gorm.DB
}

func NewBookController(db *gorm.DB) *BookController {
	return &BookController{DB: db}
}

/* =========================================================
   PUBLIC
   ========================================================= */

// GET /api/books?search=&category=&available=&limit=&offset=
func (ctl *BookController) List(c *fiber.Ctx) error {
	p, err := helper.ParseFiber(c, helper.CatalogOpts)
	if err != nil {
		return helper.RespondError(c, err)
	}

	available := false
	if raw := strings.TrimSpace(c.Query("available")); raw != "" {
		b, perr := strconv.ParseBool(raw)
		if perr != nil {
			return helper.RespondError(c, helper.ErrValidation("available harus true/false"))
		}
		available = b
	}

	rows, total, err := repository.List(c.UserContext(), ctl.DB, repository.ListFilter{
		Search:        c.Query("search"),
		Category:      c.Query("category"),
		AvailableOnly: available,
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if err != nil {
		return helper.RespondError(c, helper.ErrStorage(err))
	}

	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPaginationFromOffset(total, p, len(rows)))
}

// GET /api/books/:id
func (ctl *BookController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}

	b, err := repository.GetByID(c.UserContext(), ctl.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.RespondError(c, helper.ErrNotFound("Buku tidak ditemukan"))
		}
		return helper.RespondError(c, helper.ErrStorage(err))
	}

	resp := dto.FromModel(b)
	if counts, cerr := repository.CopyCounts(c.UserContext(), ctl.DB, id); cerr == nil {
		resp.Copies = counts
	} else {
		log.Printf("[BOOK] copy counts %s: %v", id, cerr)
	}
	return helper.JsonOK(c, "ok", resp)
}

/* =========================================================
   ADMIN (librarian / admin)
   ========================================================= */

// POST /api/admin/catalog/books
func (ctl *BookController) Create(c *fiber.Ctx) error {
	var req dto.CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var (
		book   *model.BookModel
		copies []model.BookCopyModel
	)
	err := helper.RunInTx(c.UserContext(), ctl.DB, func(tx *gorm.DB) error {
		book = req.ToModel()
		copies = nil
		if err := repository.CreateBook(tx, book); err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.ErrConflict("ISBN sudah terdaftar")
			}
			return err
		}
		for _, ic := range req.Copies {
			if err := ensureBranch(tx, ic.BranchID); err != nil {
				return err
			}
			created, err := repository.AddCopies(tx, book.BookID, ic.BranchID, ic.Count)
			if err != nil {
				return err
			}
			copies = append(copies, created...)
		}
		return nil
	}, helper.WithLabel("catalog.create_book"))
	if err != nil {
		return helper.RespondError(c, err)
	}

	log.Printf("[BOOK] ✅ created %s (%d copies)", book.BookID, len(copies))
	resp := dto.FromModel(book)
	return helper.JsonCreated(c, "Buku berhasil ditambahkan", fiber.Map{
		"book":   resp,
		"copies": dto.FromCopies(copies),
	})
}

// POST /api/admin/catalog/books/:id/copies
func (ctl *BookController) AddCopies(c *fiber.Ctx) error {
	bookID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}

	var req dto.AddCopiesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var copies []model.BookCopyModel
	err = helper.RunInTx(c.UserContext(), ctl.DB, func(tx *gorm.DB) error {
		ok, err := repository.Exists(tx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			return helper.ErrNotFound("Buku tidak ditemukan")
		}
		if err := ensureBranch(tx, req.BranchID); err != nil {
			return err
		}
		copies, err = repository.AddCopies(tx, bookID, req.BranchID, req.Count)
		return err
	}, helper.WithLabel("catalog.add_copies"))
	if err != nil {
		return helper.RespondError(c, err)
	}

	return helper.JsonCreated(c, "Eksemplar berhasil ditambahkan", dto.FromCopies(copies))
}

func ensureBranch(tx *gorm.DB, id uuid.UUID) error {
	if _, err := branchRepo.GetByID(tx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.ErrValidation("branch_id tidak dikenal")
		}
		return err
	}
	return nil
}
