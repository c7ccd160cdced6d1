package cli

import (
	"context"
	"time"

	database "medialibrary_backend/internals/databases"
	"medialibrary_backend/internals/seeds"

	"github.com/spf13/cobra"
)

var (
	flagSeedCatalog string
	flagSeedUsers   string
	flagSeedMigrate bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Isi data contoh (cabang, buku, eksemplar, user)",
	RunE: func(cmd *cobra.Command, args []string) error {
		database.ConnectDB()
		defer closeDB()

		if flagSeedMigrate {
			if err := database.Migrate(database.DB); err != nil {
				return err
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		return seeds.RunAllSeeds(ctx, database.DB, seeds.Files{
			Catalog: flagSeedCatalog,
			Users:   flagSeedUsers,
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&flagSeedCatalog, "catalog", "", "file JSON katalog (default: data bawaan)")
	seedCmd.Flags().StringVar(&flagSeedUsers, "users", "", "file JSON user (default: data bawaan)")
	seedCmd.Flags().BoolVar(&flagSeedMigrate, "migrate", true, "jalankan migrasi sebelum seed")
}
