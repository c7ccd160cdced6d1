package details

import (
	subscriptionRoute "medialibrary_backend/internals/features/subscriptions/ledger/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SubscriptionPublicRoutes(r fiber.Router, db *gorm.DB) {
	subscriptionRoute.SubscriptionPublicRoutes(r, db)
}

func SubscriptionUserRoutes(r fiber.Router, db *gorm.DB) {
	subscriptionRoute.SubscriptionUserRoutes(r, db)
}
