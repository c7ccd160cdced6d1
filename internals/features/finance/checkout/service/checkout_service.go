package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"medialibrary_backend/internals/configs"
	"medialibrary_backend/internals/features/finance/checkout/dto"
	"medialibrary_backend/internals/features/finance/checkout/model"
	ledgerModel "medialibrary_backend/internals/features/subscriptions/ledger/model"
	ledger "medialibrary_backend/internals/features/subscriptions/ledger/service"
	helper "medialibrary_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB *gorm.DB
	// Snap nil -> gateway manual (langsung paid)
	Snap      SnapCreator
	ServerKey string
	Now       func() time.Time
}

// New: gateway midtrans kalau MIDTRANS_SERVER_KEY ada.
func New(db *gorm.DB) *Service {
	key := strings.TrimSpace(configs.MidtransServerKey)
	if key == "" {
		key = configs.GetEnv("MIDTRANS_SERVER_KEY")
	}
	s := &Service{DB: db, ServerKey: key}
	if key != "" {
		s.Snap = NewMidtransSnap(key, configs.MidtransUseProd || configs.GetEnvBool("MIDTRANS_USE_PROD", false))
	}
	return s
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC().Truncate(time.Microsecond)
	}
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NewOrderID: SUB-<yyyymmddhhmmss>-<8 hex>
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("SUB-%s-%s", now.UTC().Format("20060102150405"), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

type CheckoutResult struct {
	Payment      *model.SubscriptionPaymentModel
	Subscription *ledgerModel.SubscriptionModel // hanya gateway manual
}

/* =========================================================
   CHECKOUT
========================================================= */

func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*CheckoutResult, error) {
	if userID == uuid.Nil {
		return nil, helper.ErrUnauthenticated("User belum login")
	}
	plan, ok := ledger.LookupPlan(req.Plan)
	if !ok {
		return nil, helper.ErrValidation("Plan tidak dikenal")
	}

	now := s.now()
	p := &model.SubscriptionPaymentModel{
		PaymentUserID:     userID,
		PaymentOrderID:    NewOrderID(now),
		PaymentPlan:       plan.Code,
		PaymentAmountIDR:  plan.PriceIDR,
		PaymentMethod:     req.PaymentMethod,
		PaymentIsProrated: req.IsProrated,
	}

	if s.Snap == nil {
		return s.checkoutManual(ctx, p, now)
	}
	return s.checkoutMidtrans(ctx, p, req.Email)
}

// manual: payment langsung paid + plan aktif dalam satu transaksi
func (s *Service) checkoutManual(ctx context.Context, p *model.SubscriptionPaymentModel, now time.Time) (*CheckoutResult, error) {
	p.PaymentGateway = model.GatewayManual
	p.PaymentStatus = model.PaymentStatusPaid
	p.PaymentPaidAt = &now

	var sub *ledgerModel.SubscriptionModel
	err := helper.RunInTx(ctx, s.DB, func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		var err error
		sub, err = ledger.SetPlanTx(tx, p.PaymentUserID, p.PaymentPlan, ledgerModel.StatusActive, now)
		return err
	}, helper.WithLabel("checkout.manual"))
	if err != nil {
		return nil, helper.AsAppError(err)
	}

	log.Printf("[CHECKOUT] ✅ manual order=%s user=%s plan=%s", p.PaymentOrderID, p.PaymentUserID, p.PaymentPlan)
	return &CheckoutResult{Payment: p, Subscription: sub}, nil
}

// midtrans: payment pending disimpan dulu, baru minta Snap token
func (s *Service) checkoutMidtrans(ctx context.Context, p *model.SubscriptionPaymentModel, email string) (*CheckoutResult, error) {
	p.PaymentGateway = model.GatewayMidtrans
	p.PaymentStatus = model.PaymentStatusPending

	db := s.DB.WithContext(ctx)
	if err := db.Create(p).Error; err != nil {
		return nil, helper.AsAppError(err)
	}

	token, redirect, err := s.Snap.CreateSnap(SnapItem{
		OrderID:   p.PaymentOrderID,
		AmountIDR: p.PaymentAmountIDR,
		Name:      "Subscription " + p.PaymentPlan,
		Category:  "subscription",
	}, CustomerInput{FirstName: strings.Split(email, "@")[0], Email: email})
	if err != nil {
		log.Printf("[CHECKOUT] ❌ snap order=%s: %v", p.PaymentOrderID, err)
		_ = db.Model(p).Updates(map[string]any{"payment_status": model.PaymentStatusFailed}).Error
		return nil, helper.ErrStorage(fmt.Errorf("midtrans snap: %w", err))
	}

	p.PaymentSnapToken = &token
	p.PaymentRedirectURL = &redirect
	if err := db.Model(p).Updates(map[string]any{
		"payment_snap_token":   token,
		"payment_redirect_url": redirect,
	}).Error; err != nil {
		return nil, helper.AsAppError(err)
	}
	return &CheckoutResult{Payment: p}, nil
}

/* =========================================================
   NOTIFICATION (webhook)
========================================================= */

// MapMidtransStatus: transaction_status + fraud_status -> status internal. Tidak dikenal -> cur.
func MapMidtransStatus(transactionStatus, fraudStatus string, cur model.PaymentStatus) model.PaymentStatus {
	ts := strings.ToLower(strings.TrimSpace(transactionStatus))
	fraud := strings.ToLower(strings.TrimSpace(fraudStatus))
	switch ts {
	case "capture":
		// untuk cc: capture + fraud=accept -> paid, fraud=challenge -> tunggu review
		switch fraud {
		case "", "accept":
			return model.PaymentStatusPaid
		case "challenge":
			return model.PaymentStatusPending
		default:
			return model.PaymentStatusFailed
		}
	case "settlement":
		return model.PaymentStatusPaid
	case "pending":
		return model.PaymentStatusPending
	case "deny", "failure":
		return model.PaymentStatusFailed
	case "cancel":
		return model.PaymentStatusCanceled
	case "expire":
		return model.PaymentStatusExpired
	case "refund", "partial_refund":
		return model.PaymentStatusRefunded
	}
	return cur
}

func sha512sum(s string) string {
	h := sha512.Sum512([]byte(s))
	return hex.EncodeToString(h[:])
}

// VerifySignature: SHA512(order_id + status_code + gross_amount + ServerKey)
func VerifySignature(n dto.MidtransNotification, serverKey string) bool {
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if want == "" {
		return false
	}
	got := sha512sum(n.OrderID + n.StatusCode + n.GrossAmount + serverKey)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// allowTransition: status final tidak berubah lagi, kecuali paid -> refunded.
func allowTransition(cur, next model.PaymentStatus) bool {
	if cur == next {
		return false
	}
	if cur.IsFinal() {
		return cur == model.PaymentStatusPaid && next == model.PaymentStatusRefunded
	}
	return true
}

// HandleNotification idempoten: notifikasi berulang tidak mengaktifkan plan dua kali.
func (s *Service) HandleNotification(ctx context.Context, n dto.MidtransNotification, raw []byte) (*model.SubscriptionPaymentModel, error) {
	if strings.TrimSpace(n.OrderID) == "" {
		return nil, helper.ErrValidation("order_id wajib diisi")
	}
	if s.ServerKey != "" && !VerifySignature(n, s.ServerKey) {
		return nil, helper.ErrUnauthenticated("invalid signature")
	}

	var out model.SubscriptionPaymentModel
	err := helper.RunInTx(ctx, s.DB, func(tx *gorm.DB) error {
		now := s.now()

		var p model.SubscriptionPaymentModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("payment_order_id = ?", n.OrderID).
			Take(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.ErrNotFound("Payment tidak ditemukan")
		}
		if err != nil {
			return err
		}

		next := MapMidtransStatus(n.TransactionStatus, n.FraudStatus, p.PaymentStatus)
		if next == model.PaymentStatusPaid && !amountMatches(n.GrossAmount, p.PaymentAmountIDR) {
			return helper.ErrValidation("gross_amount tidak cocok")
		}

		updates := map[string]any{"payment_gateway_payload": datatypes.JSON(raw)}
		transition := allowTransition(p.PaymentStatus, next)
		if transition {
			updates["payment_status"] = next
			if next == model.PaymentStatusPaid {
				updates["payment_paid_at"] = now
			}
		}
		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return err
		}
		p.PaymentGatewayPayload = datatypes.JSON(raw)
		if transition {
			p.PaymentStatus = next
			if next == model.PaymentStatusPaid {
				p.PaymentPaidAt = &now
			}
		}

		if transition && next == model.PaymentStatusPaid {
			if _, err := ledger.SetPlanTx(tx, p.PaymentUserID, p.PaymentPlan, ledgerModel.StatusActive, now); err != nil {
				return err
			}
			log.Printf("[PAYMENT] ✅ order=%s paid, plan %s aktif untuk user=%s", p.PaymentOrderID, p.PaymentPlan, p.PaymentUserID)
		}
		out = p
		return nil
	}, helper.WithLabel("payment.notification"))
	if err != nil {
		return nil, helper.AsAppError(err)
	}
	return &out, nil
}

// gross_amount midtrans berupa string desimal ("49000.00")
func amountMatches(gross string, want int64) bool {
	if strings.TrimSpace(gross) == "" {
		return true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(gross), 64)
	if err != nil {
		return false
	}
	return int64(f+0.5) == want
}
