package routes

import (
	"log"
	"time"

	"medialibrary_backend/internals/configs"
	"medialibrary_backend/internals/constants"
	authMiddleware "medialibrary_backend/internals/middlewares/auth"
	routeDetails "medialibrary_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	secret := configs.JWTSecret
	if secret == "" {
		secret = configs.GetEnv("JWT_SECRET")
	}
	authJWT := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              secret,
		AllowCookieFallback: true,
	})

	// ===================== GROUPS =====================

	// PUBLIC: auth dipasang per route kalau perlu
	log.Println("[INFO] Setting up PUBLIC group...")
	api := app.Group("/api")

	log.Println("[INFO] Setting up USER group...")
	user := app.Group("/api/user", authJWT)
	checkout := app.Group("/api/checkout", authJWT)

	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/admin",
		authJWT,
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("katalog"), constants.StaffAndAbove...),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Auth routes...")
	routeDetails.AuthRoutes(api, db, authJWT, configs.GetEnvBool("RATE_LIMIT_ENABLED", true))

	log.Println("[INFO] Mounting Catalog routes...")
	routeDetails.CatalogPublicRoutes(api, db)
	routeDetails.CatalogAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Circulation routes...")
	routeDetails.CirculationRoutes(api, user, db, authJWT)

	log.Println("[INFO] Mounting Subscription routes...")
	routeDetails.SubscriptionPublicRoutes(api, db)
	routeDetails.SubscriptionUserRoutes(user, db)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinanceUserRoutes(checkout, db)
	routeDetails.FinancePublicRoutes(api.Group("/payments"), db)
}
