package details

import (
	checkoutRoute "medialibrary_backend/internals/features/finance/checkout/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func FinanceUserRoutes(r fiber.Router, db *gorm.DB) {
	checkoutRoute.CheckoutUserRoutes(r, db)
}

func FinancePublicRoutes(r fiber.Router, db *gorm.DB) {
	checkoutRoute.PaymentPublicRoutes(r, db)
}
