package cli

import (
	"log"

	database "medialibrary_backend/internals/databases"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "AutoMigrate semua tabel + index",
	RunE: func(cmd *cobra.Command, args []string) error {
		database.ConnectDB()
		defer closeDB()

		if err := database.Migrate(database.DB); err != nil {
			return err
		}
		log.Println("✅ Migrasi selesai")
		return nil
	},
}

func closeDB() {
	if database.DB == nil {
		return
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
