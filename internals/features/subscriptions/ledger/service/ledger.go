package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"medialibrary_backend/internals/features/subscriptions/ledger/model"
	helper "medialibrary_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const EffectiveEndOfTerm = "end-of-term"

type Ledger struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{DB: db, Now: time.Now}
}

func (l *Ledger) now() time.Time {
	if l.Now == nil {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
	return l.Now().UTC().Truncate(time.Microsecond)
}

/* =========================
   Read
========================= */

// GetCurrent: baris current user, nil kalau belum pernah berlangganan.
func (l *Ledger) GetCurrent(ctx context.Context, userID uuid.UUID) (*model.SubscriptionModel, error) {
	sub, err := GetCurrentTx(l.DB.WithContext(ctx), userID)
	if err != nil {
		return nil, helper.ErrStorage(err)
	}
	return sub, nil
}

// GetCurrentTx: baris is_current; tanpa flag, fallback ke yang paling baru dibuat.
func GetCurrentTx(tx *gorm.DB, userID uuid.UUID) (*model.SubscriptionModel, error) {
	return findCurrent(tx, userID, false)
}

func lockCurrent(tx *gorm.DB, userID uuid.UUID) (*model.SubscriptionModel, error) {
	return findCurrent(tx, userID, true)
}

func findCurrent(tx *gorm.DB, userID uuid.UUID, forUpdate bool) (*model.SubscriptionModel, error) {
	q := tx.Model(&model.SubscriptionModel{}).
		Where("subscription_user_id = ?", userID).
		Order("subscription_is_current DESC").
		Order("subscription_created_at DESC").
		Limit(1)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []model.SubscriptionModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// History: semua baris user, terbaru dulu.
func (l *Ledger) History(ctx context.Context, userID uuid.UUID) ([]model.SubscriptionModel, error) {
	var rows []model.SubscriptionModel
	if err := l.DB.WithContext(ctx).
		Where("subscription_user_id = ?", userID).
		Order("subscription_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, helper.ErrStorage(err)
	}
	return rows, nil
}

/* =========================
   SetPlan (append-only)
========================= */

func (l *Ledger) SetPlan(ctx context.Context, userID uuid.UUID, plan, status string) (*model.SubscriptionModel, error) {
	var out *model.SubscriptionModel
	err := helper.RunInTx(ctx, l.DB, func(tx *gorm.DB) error {
		sub, err := SetPlanTx(tx, userID, plan, status, l.now())
		out = sub
		return err
	}, helper.WithLabel("ledger.set_plan"))
	if err != nil {
		return nil, helper.AsAppError(err)
	}
	return out, nil
}

// SetPlanTx menutup baris current lama dan menambah baris current baru.
// Status kosong -> active. Schedule yang tertunda ikut gugur.
func SetPlanTx(tx *gorm.DB, userID uuid.UUID, plan, status string, now time.Time) (*model.SubscriptionModel, error) {
	plan = NormalizePlan(plan)
	if plan == "" {
		return nil, helper.ErrValidation("plan wajib diisi")
	}
	if !IsValidPlan(plan) {
		return nil, helper.ErrValidation(fmt.Sprintf("plan tidak dikenal: %s", plan))
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		status = model.StatusActive
	}
	if !isValidStatus(status) {
		return nil, helper.ErrValidation(fmt.Sprintf("status tidak dikenal: %s", status))
	}

	cur, err := lockCurrent(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := retireCurrent(tx, cur, now); err != nil {
		return nil, err
	}

	next := &model.SubscriptionModel{
		SubscriptionUserID:    userID,
		SubscriptionPlan:      plan,
		SubscriptionStatus:    status,
		SubscriptionStart:     now,
		SubscriptionIsCurrent: true,
		SubscriptionCreatedAt: now,
		SubscriptionUpdatedAt: now,
	}
	if err := insertCurrent(tx, next); err != nil {
		return nil, err
	}
	return next, nil
}

/* =========================
   Cancel
========================= */

func (l *Ledger) Cancel(ctx context.Context, userID uuid.UUID) (*model.SubscriptionModel, error) {
	var out *model.SubscriptionModel
	err := helper.RunInTx(ctx, l.DB, func(tx *gorm.DB) error {
		sub, err := CancelTx(tx, userID, l.now())
		out = sub
		return err
	}, helper.WithLabel("ledger.cancel"))
	if err != nil {
		return nil, helper.AsAppError(err)
	}
	return out, nil
}

// CancelTx menambah baris cancelled dengan plan yang sama; NotFound kalau belum berlangganan.
func CancelTx(tx *gorm.DB, userID uuid.UUID, now time.Time) (*model.SubscriptionModel, error) {
	cur, err := lockCurrent(tx, userID)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, helper.ErrNotFound("Subscription tidak ditemukan")
	}
	if cur.SubscriptionStatus == model.StatusCancelled && !cur.HasSchedule() {
		return cur, nil
	}
	if err := retireCurrent(tx, cur, now); err != nil {
		return nil, err
	}

	next := &model.SubscriptionModel{
		SubscriptionUserID:    userID,
		SubscriptionPlan:      cur.SubscriptionPlan,
		SubscriptionStatus:    model.StatusCancelled,
		SubscriptionStart:     cur.SubscriptionStart,
		SubscriptionEnd:       cur.SubscriptionEnd,
		SubscriptionIsCurrent: true,
		SubscriptionCreatedAt: now,
		SubscriptionUpdatedAt: now,
	}
	if err := insertCurrent(tx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func retireCurrent(tx *gorm.DB, cur *model.SubscriptionModel, now time.Time) error {
	if cur == nil || !cur.SubscriptionIsCurrent {
		return nil
	}
	return tx.Model(&model.SubscriptionModel{}).
		Where("subscription_id = ?", cur.SubscriptionID).
		Updates(map[string]any{
			"subscription_is_current": false,
			"subscription_updated_at": now,
		}).Error
}

// insertCurrent: bentrok di uq_subscriptions_current berarti ada writer lain, ulang transaksinya.
func insertCurrent(tx *gorm.DB, sub *model.SubscriptionModel) error {
	if err := tx.Create(sub).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", helper.ErrRetryTx, err)
		}
		return err
	}
	return nil
}

func isValidStatus(s string) bool {
	switch s {
	case model.StatusActive, model.StatusCancelled, model.StatusExpired, model.StatusPending:
		return true
	}
	return false
}

/* =========================
   ScheduleChange
========================= */

func (l *Ledger) ScheduleChange(ctx context.Context, userID uuid.UUID, plan, effectiveDate string) (*model.SubscriptionModel, error) {
	plan = NormalizePlan(plan)
	if plan == "" {
		return nil, helper.ErrValidation("plan wajib diisi")
	}
	if !IsValidPlan(plan) {
		return nil, helper.ErrValidation(fmt.Sprintf("plan tidak dikenal: %s", plan))
	}
	if strings.TrimSpace(effectiveDate) == "" {
		return nil, helper.ErrValidation("effective_date wajib diisi")
	}

	var out *model.SubscriptionModel
	err := helper.RunInTx(ctx, l.DB, func(tx *gorm.DB) error {
		now := l.now()
		cur, err := lockCurrent(tx, userID)
		if err != nil {
			return err
		}
		if cur == nil {
			return helper.ErrNotFound("Subscription tidak ditemukan")
		}

		at, label, err := ResolveEffectiveDate(effectiveDate, cur, now)
		if err != nil {
			return err
		}

		if err := tx.Model(&model.SubscriptionModel{}).
			Where("subscription_id = ?", cur.SubscriptionID).
			Updates(map[string]any{
				"subscription_scheduled_plan":         plan,
				"subscription_scheduled_label":        label,
				"subscription_scheduled_effective_at": at,
				"subscription_updated_at":             now,
			}).Error; err != nil {
			return err
		}
		cur.SubscriptionScheduledPlan = &plan
		cur.SubscriptionScheduledLabel = &label
		cur.SubscriptionScheduledEffectiveAt = &at
		cur.SubscriptionUpdatedAt = now
		out = cur
		return nil
	}, helper.WithLabel("ledger.schedule"))
	if err != nil {
		return nil, helper.AsAppError(err)
	}
	return out, nil
}

// ResolveEffectiveDate menerima "end-of-term", RFC3339, atau YYYY-MM-DD (UTC).
// Tanggal yang tidak di masa depan ditolak.
func ResolveEffectiveDate(raw string, cur *model.SubscriptionModel, now time.Time) (time.Time, string, error) {
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, EffectiveEndOfTerm) {
		if cur.SubscriptionEnd != nil && cur.SubscriptionEnd.After(now) {
			return cur.SubscriptionEnd.UTC(), EffectiveEndOfTerm, nil
		}
		term := 1
		if p, ok := LookupPlan(cur.SubscriptionPlan); ok {
			term = p.TermMonths
		}
		return NextTermBoundary(cur.SubscriptionStart.UTC(), term, now), EffectiveEndOfTerm, nil
	}

	var at time.Time
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		at = t.UTC()
	} else if t, err := time.Parse("2006-01-02", s); err == nil {
		at = t.UTC()
	} else {
		return time.Time{}, "", helper.ErrValidation("effective_date harus 'end-of-term', RFC3339, atau YYYY-MM-DD")
	}
	if !at.After(now) {
		return time.Time{}, "", helper.ErrValidation("effective_date harus di masa depan")
	}
	return at.Truncate(time.Microsecond), s, nil
}

/* =========================
   Sweeper: terapkan schedule yang jatuh tempo
========================= */

// ApplyDueScheduledChanges menerapkan setiap schedule dengan effective_at <= now,
// masing-masing dalam transaksinya sendiri.
func ApplyDueScheduledChanges(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	now = now.UTC().Truncate(time.Microsecond)

	var due []model.SubscriptionModel
	if err := db.WithContext(ctx).
		Select("subscription_id", "subscription_user_id").
		Where("subscription_is_current = ?", true).
		Where("subscription_scheduled_plan IS NOT NULL").
		Where("subscription_scheduled_effective_at <= ?", now).
		Order("subscription_scheduled_effective_at ASC").
		Find(&due).Error; err != nil {
		return 0, helper.ErrStorage(err)
	}

	applied := 0
	var errs []error
	for _, d := range due {
		var done bool
		err := helper.RunInTx(ctx, db, func(tx *gorm.DB) error {
			done = false
			cur, err := lockCurrent(tx, d.SubscriptionUserID)
			if err != nil {
				return err
			}
			// sudah berubah sejak dibaca
			if cur == nil || cur.SubscriptionID != d.SubscriptionID || !cur.HasSchedule() ||
				cur.SubscriptionScheduledEffectiveAt.After(now) {
				return nil
			}
			if _, err := SetPlanTx(tx, cur.SubscriptionUserID, *cur.SubscriptionScheduledPlan, model.StatusActive, now); err != nil {
				return err
			}
			done = true
			return nil
		}, helper.WithLabel("ledger.sweep"))
		if err != nil {
			log.Printf("[SWEEP] ❌ user=%s gagal: %v", d.SubscriptionUserID, err)
			errs = append(errs, err)
			continue
		}
		if done {
			applied++
		}
	}
	return applied, errors.Join(errs...)
}
