package database

import (
	"log"

	bookModel "medialibrary_backend/internals/features/catalog/books/model"
	branchModel "medialibrary_backend/internals/features/catalog/branches/model"
	borrowingModel "medialibrary_backend/internals/features/circulation/borrowings/model"
	checkoutModel "medialibrary_backend/internals/features/finance/checkout/model"
	ledgerModel "medialibrary_backend/internals/features/subscriptions/ledger/model"
	authModel "medialibrary_backend/internals/features/users/auth/model"
	userModel "medialibrary_backend/internals/features/users/user/model"

	"gorm.io/gorm"
)

// Models: urutan migrasi (parent dulu)
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.RefreshTokenModel{},
		&branchModel.BranchModel{},
		&bookModel.BookModel{},
		&bookModel.BookCopyModel{},
		&ledgerModel.SubscriptionModel{},
		&borrowingModel.BorrowingModel{},
		&checkoutModel.SubscriptionPaymentModel{},
	}
}

// Migrate membuat/menyesuaikan semua tabel secara eksplisit.
func Migrate(db *gorm.DB) error {
	log.Println("🛠️ Menjalankan migrasi schema...")
	if err := db.AutoMigrate(Models()...); err != nil {
		log.Printf("❌ Migrasi gagal: %v", err)
		return err
	}
	log.Println("✅ Migrasi selesai.")
	return nil
}
