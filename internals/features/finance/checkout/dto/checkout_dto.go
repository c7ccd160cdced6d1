package dto

import (
	"regexp"
	"strings"
	"time"

	"medialibrary_backend/internals/features/finance/checkout/model"
	ledgerDTO "medialibrary_backend/internals/features/subscriptions/ledger/dto"
	helper "medialibrary_backend/internals/helpers"

	"github.com/google/uuid"
)

const PaymentMethodCard = "card"

type CardDetails struct {
	Number string `json:"number" validate:"required,len=16,numeric"`
	Name   string `json:"name" validate:"required,max=100"`
	Expiry string `json:"expiry" validate:"required"`
	CVV    string `json:"cvv" validate:"required,min=3,max=4,numeric"`
}

type CheckoutRequest struct {
	Plan          string       `json:"plan" validate:"required,oneof=basic-monthly basic-yearly premium-monthly premium-yearly"`
	PaymentMethod string       `json:"payment_method" validate:"required,oneof=card bank_transfer ewallet qris"`
	Email         string       `json:"email" validate:"required,email"`
	IsProrated    bool         `json:"is_prorated"`
	CardDetails   *CardDetails `json:"card_details,omitempty"`
}

func (r *CheckoutRequest) Normalize() {
	r.Plan = strings.ToLower(strings.TrimSpace(r.Plan))
	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.CardDetails != nil {
		r.CardDetails.Number = strings.ReplaceAll(strings.TrimSpace(r.CardDetails.Number), " ", "")
		r.CardDetails.Name = strings.TrimSpace(r.CardDetails.Name)
		r.CardDetails.Expiry = strings.TrimSpace(r.CardDetails.Expiry)
		r.CardDetails.CVV = strings.TrimSpace(r.CardDetails.CVV)
	}
}

var expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// Validate: tag dulu, lalu detail kartu kalau metode card.
func (r *CheckoutRequest) Validate() error {
	if err := helper.Validate(r); err != nil {
		return err
	}
	if r.PaymentMethod != PaymentMethodCard {
		return nil
	}
	if r.CardDetails == nil {
		return &helper.ValidationErrors{Fields: map[string][]string{"card_details": {"wajib diisi"}}}
	}
	if err := helper.Validate(r.CardDetails); err != nil {
		return err
	}
	if !expiryRe.MatchString(r.CardDetails.Expiry) {
		return &helper.ValidationErrors{Fields: map[string][]string{"expiry": {"format harus MM/YY"}}}
	}
	return nil
}

/* ===================== RESPONSE ===================== */

type PaymentResponse struct {
	ID          uuid.UUID  `json:"id"`
	OrderID     string     `json:"order_id"`
	Plan        string     `json:"plan"`
	AmountIDR   int64      `json:"amount_idr"`
	Method      string     `json:"payment_method"`
	IsProrated  bool       `json:"is_prorated"`
	Status      string     `json:"status"`
	Gateway     string     `json:"gateway"`
	SnapToken   *string    `json:"snap_token,omitempty"`
	RedirectURL *string    `json:"redirect_url,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func FromPayment(p *model.SubscriptionPaymentModel) PaymentResponse {
	return PaymentResponse{
		ID:          p.PaymentID,
		OrderID:     p.PaymentOrderID,
		Plan:        p.PaymentPlan,
		AmountIDR:   p.PaymentAmountIDR,
		Method:      p.PaymentMethod,
		IsProrated:  p.PaymentIsProrated,
		Status:      string(p.PaymentStatus),
		Gateway:     p.PaymentGateway,
		SnapToken:   p.PaymentSnapToken,
		RedirectURL: p.PaymentRedirectURL,
		PaidAt:      p.PaymentPaidAt,
		CreatedAt:   p.PaymentCreatedAt,
	}
}

type CheckoutResponse struct {
	Payment      PaymentResponse                 `json:"payment"`
	Subscription *ledgerDTO.SubscriptionResponse `json:"subscription,omitempty"`
}

// MidtransNotification: payload HTTP notification midtrans (field lain diabaikan)
type MidtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, refund, partial_refund, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"` // string dari Midtrans
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	TransactionID     string `json:"transaction_id"`
}
