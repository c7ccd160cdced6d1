package controller

import (
	"medialibrary_backend/internals/features/subscriptions/ledger/dto"
	"medialibrary_backend/internals/features/subscriptions/ledger/service"
	helper "medialibrary_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SubscriptionController struct {
	DB     *gorm.DB
	Ledger *service.Ledger
}

func NewSubscriptionController(db *gorm.DB) *SubscriptionController {
	return &SubscriptionController{DB: db, Ledger: service.New(db)}
}

// GET /api/user/subscription
func (ctl *SubscriptionController) GetCurrent(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	sub, err := ctl.Ledger.GetCurrent(c.UserContext(), userID)
	if err != nil {
		return helper.RespondError(c, err)
	}
	if sub == nil {
		return helper.JsonOK(c, "Belum berlangganan", nil)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(sub))
}

// GET /api/user/subscription/history
func (ctl *SubscriptionController) History(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	rows, err := ctl.Ledger.History(c.UserContext(), userID)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), nil)
}

// GET /api/plans
func (ctl *SubscriptionController) ListPlans(c *fiber.Ctx) error {
	return helper.JsonList(c, "ok", service.AllPlans(), nil)
}

// PUT /api/user/subscription
func (ctl *SubscriptionController) SetPlan(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	var req dto.SetPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}

	sub, err := ctl.Ledger.SetPlan(c.UserContext(), userID, req.Plan, "")
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Plan diperbarui", dto.FromModel(sub))
}

// DELETE /api/user/subscription
func (ctl *SubscriptionController) Cancel(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	sub, err := ctl.Ledger.Cancel(c.UserContext(), userID)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Subscription dibatalkan", dto.FromModel(sub))
}

// POST /api/user/subscription/schedule
func (ctl *SubscriptionController) ScheduleChange(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	var req dto.ScheduleChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}

	sub, err := ctl.Ledger.ScheduleChange(c.UserContext(), userID, req.Plan, req.EffectiveDate)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Perubahan plan dijadwalkan", dto.FromModel(sub))
}
