package scheduler

import (
	"context"
	"log"
	"time"

	"medialibrary_backend/internals/configs"
	"medialibrary_backend/internals/features/subscriptions/ledger/service"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const DefaultSweepSchedule = "*/5 * * * *"

// RunSweepOnce dipakai cron dan command `sweep`.
func RunSweepOnce(ctx context.Context, db *gorm.DB) (int, error) {
	start := time.Now()
	applied, err := service.ApplyDueScheduledChanges(ctx, db, time.Now())
	if err != nil {
		log.Printf("[SWEEP] selesai dengan error applied=%d dur=%s err=%v", applied, time.Since(start), err)
		return applied, err
	}
	if applied > 0 {
		log.Printf("[SWEEP] ✅ %d perubahan plan diterapkan dur=%s", applied, time.Since(start))
	}
	return applied, nil
}

// StartScheduledChangeCron menerapkan perubahan plan terjadwal secara periodik.
// Return *cron.Cron supaya pemanggil bisa Stop() saat shutdown.
func StartScheduledChangeCron(db *gorm.DB) (*cron.Cron, error) {
	schedule := configs.GetEnv("SUBSCRIPTION_SWEEP_CRON", DefaultSweepSchedule)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, _ = RunSweepOnce(ctx, db)
	}); err != nil {
		log.Printf("[SWEEP] add cron gagal: %v", err)
		return nil, err
	}
	log.Printf("[SWEEP] started schedule=%q", schedule)
	c.Start()
	return c, nil
}
