package seeds

import (
	"context"
	_ "embed"
	"log"
	"os"

	"medialibrary_backend/internals/seeds/catalog"
	"medialibrary_backend/internals/seeds/users"

	"gorm.io/gorm"
)

//go:embed catalog/data_catalog.json
var defaultCatalog []byte

//go:embed users/data_users.json
var defaultUsers []byte

// Files: path kosong = pakai data bawaan yang di-embed.
type Files struct {
	Catalog string
	Users   string
}

func RunAllSeeds(ctx context.Context, db *gorm.DB, f Files) error {
	//* Catalog
	raw, err := readOr(f.Catalog, defaultCatalog)
	if err != nil {
		return err
	}
	if _, err := catalog.SeedCatalog(ctx, db, raw); err != nil {
		log.Printf("❌ [SEED] katalog gagal: %v", err)
		return err
	}

	//* User
	raw, err = readOr(f.Users, defaultUsers)
	if err != nil {
		return err
	}
	if _, err := users.SeedUsers(ctx, db, raw); err != nil {
		log.Printf("❌ [SEED] user gagal: %v", err)
		return err
	}
	return nil
}

func readOr(path string, def []byte) ([]byte, error) {
	if path == "" {
		return def, nil
	}
	log.Println("📥 Membaca file seed:", path)
	return os.ReadFile(path)
}
