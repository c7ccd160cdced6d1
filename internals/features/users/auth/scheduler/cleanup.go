package scheduler

import (
	"log"
	"time"

	"medialibrary_backend/internals/configs"
	authRepo "medialibrary_backend/internals/features/users/auth/repository"

	"gorm.io/gorm"
)

const cleanupBatch = 500

// CleanupRefreshTokensOnce menghapus refresh token expired + yang direvoke lebih dari retention lalu.
func CleanupRefreshTokensOnce(db *gorm.DB, now time.Time, retention time.Duration) (int64, error) {
	var total int64
	for {
		n, err := authRepo.CleanupRefreshTokens(db, now, now.Add(-retention), cleanupBatch)
		if err != nil {
			return total, err
		}
		total += n
		if n < cleanupBatch {
			return total, nil
		}
	}
}

func RetentionFromEnv() time.Duration {
	return time.Duration(configs.GetEnvInt("REFRESH_TOKEN_RETENTION_DAYS", 7)) * 24 * time.Hour
}

func StartRefreshTokenCleanupScheduler(db *gorm.DB) {
	retention := RetentionFromEnv()
	interval := configs.GetEnvDuration("REFRESH_TOKEN_CLEANUP_INTERVAL", 24*time.Hour)

	go func() {
		for {
			log.Println("[CLEANUP] Menjalankan pembersihan refresh_tokens...")

			n, err := CleanupRefreshTokensOnce(db, time.Now().UTC(), retention)
			switch {
			case err != nil:
				log.Printf("[CLEANUP ERROR] Gagal hapus refresh token: %v", err)
			case n > 0:
				log.Printf("[CLEANUP] %d refresh token dihapus", n)
			default:
				log.Println("[CLEANUP] Tidak ada token yang memenuhi syarat dihapus")
			}

			time.Sleep(interval)
		}
	}()
}
