package seeds

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"medialibrary_backend/internals/databases/dbtest"
	bookModel "medialibrary_backend/internals/features/catalog/books/model"
	branchModel "medialibrary_backend/internals/features/catalog/branches/model"
	ledgerModel "medialibrary_backend/internals/features/subscriptions/ledger/model"
	userModel "medialibrary_backend/internals/features/users/user/model"
	"medialibrary_backend/internals/seeds/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func count(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestRunAllSeedsIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, RunAllSeeds(ctx, db, Files{}))
	require.NoError(t, RunAllSeeds(ctx, db, Files{}))

	assert.Equal(t, int64(2), count(t, db, &branchModel.BranchModel{}))
	assert.Equal(t, int64(5), count(t, db, &bookModel.BookModel{}))
	assert.Equal(t, int64(7), count(t, db, &bookModel.BookCopyModel{}))
	assert.Equal(t, int64(3), count(t, db, &userModel.UserModel{}))
	assert.Equal(t, int64(3), count(t, db, &ledgerModel.SubscriptionModel{}))
}

func TestRunAllSeedsFromFile(t *testing.T) {
	db := dbtest.New(t)
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"branches": [{"name": "Kecil", "address": "x", "city": "y", "postal_code": "1", "phone": "2", "email": "k@example.com"}],
		"books": [{"title": "Satu", "author": "A", "isbn": "111", "copies": {"Kecil": 2, "Tidak Ada": 1}}]
	}`), 0o600))

	require.NoError(t, RunAllSeeds(context.Background(), db, Files{Catalog: path}))
	assert.Equal(t, int64(1), count(t, db, &bookModel.BookModel{}))
	assert.Equal(t, int64(2), count(t, db, &bookModel.BookCopyModel{}))

	err := RunAllSeeds(context.Background(), db, Files{Catalog: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestSeedCatalogRejectsBadJSON(t *testing.T) {
	_, err := catalog.SeedCatalog(context.Background(), dbtest.New(t), []byte(`{`))
	assert.Error(t, err)
}
