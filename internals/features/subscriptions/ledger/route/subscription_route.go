package route

import (
	subscriptionController "medialibrary_backend/internals/features/subscriptions/ledger/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Mount: SubscriptionUserRoutes(app.Group("/api/user", AuthJWT(...)), db)
func SubscriptionUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := subscriptionController.NewSubscriptionController(db)

	sub := r.Group("/subscription")
	sub.Get("/", ctl.GetCurrent)
	sub.Put("/", ctl.SetPlan)
	sub.Delete("/", ctl.Cancel)
	sub.Get("/history", ctl.History)
	sub.Post("/schedule", ctl.ScheduleChange)
}

func SubscriptionPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := subscriptionController.NewSubscriptionController(db)
	r.Get("/plans", ctl.ListPlans)
}
