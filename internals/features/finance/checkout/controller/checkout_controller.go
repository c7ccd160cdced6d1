package controller

import (
	"log"

	"medialibrary_backend/internals/features/finance/checkout/dto"
	"medialibrary_backend/internals/features/finance/checkout/service"
	ledgerDTO "medialibrary_backend/internals/features/subscriptions/ledger/dto"
	helper "medialibrary_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CheckoutController struct {
	DB      *gorm.DB
	Service *service.Service
}

func NewCheckoutController(db *gorm.DB) *CheckoutController {
	return &CheckoutController{DB: db, Service: service.New(db)}
}

// POST /api/checkout/process
func (h *CheckoutController) Process(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.RespondError(c, err)
	}

	res, err := h.Service.Checkout(c.UserContext(), userID, req)
	if err != nil {
		return helper.RespondError(c, err)
	}

	msg := "Pembayaran diproses"
	if res.Subscription != nil {
		msg = "Pembayaran berhasil, subscription aktif"
	}
	return helper.JsonCreated(c, msg, dto.CheckoutResponse{
		Payment:      dto.FromPayment(res.Payment),
		Subscription: ledgerDTO.FromModel(res.Subscription),
	})
}

// POST /api/payments/midtrans/notification
func (h *CheckoutController) MidtransNotification(c *fiber.Ctx) error {
	var n dto.MidtransNotification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}

	raw := append([]byte(nil), c.Body()...)
	p, err := h.Service.HandleNotification(c.UserContext(), n, raw)
	if err != nil {
		// order tidak dikenal: balas 200 agar Midtrans tidak retry terus
		if helper.KindOf(err) == helper.KindNotFound {
			log.Printf("[PAYMENT] ⚠️ notifikasi untuk order_id=%s tidak dikenal", n.OrderID)
			return helper.JsonOK(c, "ignored", fiber.Map{"reason": "payment not found"})
		}
		return helper.RespondError(c, err)
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"payment_id":         p.PaymentID,
		"payment_status":     p.PaymentStatus,
		"transaction_status": n.TransactionStatus,
		"fraud_status":       n.FraudStatus,
	})
}
