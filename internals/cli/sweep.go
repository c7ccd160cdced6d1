package cli

import (
	"context"
	"log"
	"time"

	database "medialibrary_backend/internals/databases"
	ledgerScheduler "medialibrary_backend/internals/features/subscriptions/ledger/scheduler"
	authScheduler "medialibrary_backend/internals/features/users/auth/scheduler"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Terapkan perubahan plan terjadwal yang jatuh tempo + bersihkan refresh token, sekali jalan",
	RunE: func(cmd *cobra.Command, args []string) error {
		database.ConnectDB()
		defer closeDB()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		applied, err := ledgerScheduler.RunSweepOnce(ctx, database.DB)
		if err != nil {
			return err
		}
		removed, err := authScheduler.CleanupRefreshTokensOnce(database.DB.WithContext(ctx), time.Now(), authScheduler.RetentionFromEnv())
		if err != nil {
			return err
		}
		log.Printf("[SWEEP] applied=%d refresh_tokens_removed=%d", applied, removed)
		return nil
	},
}
