package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medialibrary_backend/internals/configs"
	database "medialibrary_backend/internals/databases"
	ledgerScheduler "medialibrary_backend/internals/features/subscriptions/ledger/scheduler"
	authScheduler "medialibrary_backend/internals/features/users/auth/scheduler"
	helper "medialibrary_backend/internals/helpers"
	middlewares "medialibrary_backend/internals/middlewares"
	routes "medialibrary_backend/internals/route"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Jalankan HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagPort, "port", "", "port HTTP (default: env PORT)")
}

// NewApp: fiber app lengkap dengan middleware + routes, dipakai serve dan test.
func NewApp(db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.FiberErrorHandler,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	middlewares.SetupMiddlewares(app)
	routes.SetupRoutes(app, db)
	return app
}

func runServe() error {
	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	if configs.GetEnvBool("DB_AUTO_MIGRATE", false) {
		if err := database.Migrate(database.DB); err != nil {
			return err
		}
	}
	database.WarmUpQueries()

	// ⏱ scheduler setelah DB siap
	authScheduler.StartRefreshTokenCleanupScheduler(database.DB)
	sweeper, err := ledgerScheduler.StartScheduledChangeCron(database.DB)
	if err != nil {
		return err
	}

	app := NewApp(database.DB)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	<-sweeper.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
