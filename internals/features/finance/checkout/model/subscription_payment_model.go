package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusCanceled PaymentStatus = "canceled"
	PaymentStatusExpired  PaymentStatus = "expired"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

const (
	GatewayMidtrans = "midtrans"
	GatewayManual   = "manual"
)

// IsFinal: status yang tidak boleh berubah lagi oleh notifikasi berikutnya
func (s PaymentStatus) IsFinal() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusCanceled, PaymentStatusExpired, PaymentStatusRefunded:
		return true
	}
	return false
}

type SubscriptionPaymentModel struct {
	PaymentID         uuid.UUID     `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentUserID     uuid.UUID     `gorm:"column:payment_user_id;type:uuid;not null;index:idx_payments_user" json:"payment_user_id"`
	PaymentOrderID    string        `gorm:"column:payment_order_id;size:64;not null;uniqueIndex:uq_payments_order" json:"payment_order_id"`
	PaymentPlan       string        `gorm:"column:payment_plan;type:varchar(32);not null" json:"payment_plan"`
	PaymentAmountIDR  int64         `gorm:"column:payment_amount_idr;not null" json:"payment_amount_idr"`
	PaymentMethod     string        `gorm:"column:payment_method;type:varchar(32);not null" json:"payment_method"`
	PaymentIsProrated bool          `gorm:"column:payment_is_prorated;not null;default:false" json:"payment_is_prorated"`
	PaymentStatus     PaymentStatus `gorm:"column:payment_status;type:varchar(16);not null;default:'pending'" json:"payment_status"`
	PaymentGateway    string        `gorm:"column:payment_gateway;type:varchar(16);not null" json:"payment_gateway"`

	PaymentSnapToken   *string    `gorm:"column:payment_snap_token" json:"payment_snap_token,omitempty"`
	PaymentRedirectURL *string    `gorm:"column:payment_redirect_url" json:"payment_redirect_url,omitempty"`
	PaymentPaidAt      *time.Time `gorm:"column:payment_paid_at" json:"payment_paid_at,omitempty"`

	// notifikasi terakhir dari gateway (raw)
	PaymentGatewayPayload datatypes.JSON `gorm:"column:payment_gateway_payload" json:"payment_gateway_payload,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
}

func (SubscriptionPaymentModel) TableName() string { return "subscription_payments" }

func (m *SubscriptionPaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	if m.PaymentStatus == "" {
		m.PaymentStatus = PaymentStatusPending
	}
	return nil
}
