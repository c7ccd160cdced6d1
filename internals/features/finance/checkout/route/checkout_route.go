package route

import (
	checkoutController "medialibrary_backend/internals/features/finance/checkout/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// /api/checkout (group sudah ber-AuthJWT)
func CheckoutUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := checkoutController.NewCheckoutController(db)
	r.Post("/process", ctl.Process)
}

// /api/payments (publik, diverifikasi lewat signature)
func PaymentPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := checkoutController.NewCheckoutController(db)
	r.Post("/midtrans/notification", ctl.MidtransNotification)
}
