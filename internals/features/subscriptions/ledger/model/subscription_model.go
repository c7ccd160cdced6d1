package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
	StatusPending   = "pending"
)

// SubscriptionModel: satu baris per perubahan (append-only).
// Hanya satu baris per user yang is_current = true (dijaga partial unique index).
type SubscriptionModel struct {
	SubscriptionID     uuid.UUID  `gorm:"column:subscription_id;type:uuid;primaryKey" json:"subscription_id"`
	SubscriptionUserID uuid.UUID  `gorm:"column:subscription_user_id;type:uuid;not null;index:idx_subscriptions_user_created,priority:1;uniqueIndex:uq_subscriptions_current,where:subscription_is_current = true" json:"subscription_user_id"`
	SubscriptionPlan   string     `gorm:"column:subscription_plan;type:varchar(32);not null" json:"subscription_plan"`
	SubscriptionStatus string     `gorm:"column:subscription_status;type:varchar(16);not null;default:'active'" json:"subscription_status"`
	SubscriptionStart  time.Time  `gorm:"column:subscription_start_date;not null" json:"subscription_start_date"`
	SubscriptionEnd    *time.Time `gorm:"column:subscription_end_date" json:"subscription_end_date,omitempty"`

	// perubahan terjadwal (diterapkan oleh sweeper)
	SubscriptionScheduledPlan        *string    `gorm:"column:subscription_scheduled_plan;type:varchar(32)" json:"subscription_scheduled_plan,omitempty"`
	SubscriptionScheduledLabel       *string    `gorm:"column:subscription_scheduled_label;size:64" json:"subscription_scheduled_label,omitempty"`
	SubscriptionScheduledEffectiveAt *time.Time `gorm:"column:subscription_scheduled_effective_at;index:idx_subscriptions_scheduled" json:"subscription_scheduled_effective_at,omitempty"`

	SubscriptionIsCurrent bool      `gorm:"column:subscription_is_current;not null;default:false" json:"-"`
	SubscriptionCreatedAt time.Time `gorm:"column:subscription_created_at;index:idx_subscriptions_user_created,priority:2" json:"subscription_created_at"`
	SubscriptionUpdatedAt time.Time `gorm:"column:subscription_updated_at" json:"subscription_updated_at"`
}

func (SubscriptionModel) TableName() string { return "subscriptions" }

func (m *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubscriptionID == uuid.Nil {
		m.SubscriptionID = uuid.New()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	if m.SubscriptionCreatedAt.IsZero() {
		m.SubscriptionCreatedAt = now
	}
	if m.SubscriptionUpdatedAt.IsZero() {
		m.SubscriptionUpdatedAt = m.SubscriptionCreatedAt
	}
	if m.SubscriptionStart.IsZero() {
		m.SubscriptionStart = m.SubscriptionCreatedAt
	}
	return nil
}

// HasSchedule: ada perubahan plan yang menunggu diterapkan
func (m *SubscriptionModel) HasSchedule() bool {
	return m.SubscriptionScheduledPlan != nil && m.SubscriptionScheduledEffectiveAt != nil
}
