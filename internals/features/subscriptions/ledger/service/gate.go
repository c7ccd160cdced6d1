package service

import (
	"fmt"
	"log"

	"medialibrary_backend/internals/configs"
	"medialibrary_backend/internals/features/subscriptions/ledger/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Entitlement gate
========================= */

// Policy mengatur perilaku gate saat data ledger tidak ada / gagal dibaca.
type Policy struct {
	AllowWithoutSubscription bool
	AllowOnLedgerError       bool
}

// DefaultPolicy: fail-open di kedua kasus.
func DefaultPolicy() Policy {
	return Policy{AllowWithoutSubscription: true, AllowOnLedgerError: true}
}

func PolicyFromEnv() Policy {
	d := DefaultPolicy()
	return Policy{
		AllowWithoutSubscription: configs.GetEnvBool("ENTITLEMENT_ALLOW_WITHOUT_SUBSCRIPTION", d.AllowWithoutSubscription),
		AllowOnLedgerError:       configs.GetEnvBool("ENTITLEMENT_ALLOW_ON_LEDGER_ERROR", d.AllowOnLedgerError),
	}
}

const (
	ReasonOK             = "ok"
	ReasonNoSubscription = "no_subscription"
	ReasonLedgerError    = "ledger_error"
	ReasonInactive       = "subscription_inactive"
	ReasonLimitReached   = "borrowing_limit_reached"
)

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Limit   int    `json:"limit"`
	Open    int64  `json:"open"`
}

// Message untuk response SubscriptionRequired.
func (d Decision) Message() string {
	switch d.Reason {
	case ReasonInactive:
		return "Subscription tidak aktif"
	case ReasonLimitReached:
		return fmt.Sprintf("Batas peminjaman tercapai (%d/%d)", d.Open, d.Limit)
	case ReasonNoSubscription:
		return "Subscription dibutuhkan untuk meminjam"
	case ReasonLedgerError:
		return "Status subscription tidak dapat diperiksa"
	default:
		return "Subscription dibutuhkan"
	}
}

// Decide: fungsi murni. openCount hanya dipakai kalau sub ada.
func Decide(sub *model.SubscriptionModel, lookupErr error, openCount int64, p Policy) Decision {
	if lookupErr != nil {
		return Decision{Allowed: p.AllowOnLedgerError, Reason: ReasonLedgerError}
	}
	if sub == nil {
		return Decision{Allowed: p.AllowWithoutSubscription, Reason: ReasonNoSubscription}
	}

	limit := BorrowingLimit(sub.SubscriptionPlan)
	d := Decision{Limit: limit, Open: openCount}
	switch sub.SubscriptionStatus {
	case model.StatusActive, model.StatusPending:
	default:
		d.Reason = ReasonInactive
		return d
	}
	if openCount >= int64(limit) {
		d.Reason = ReasonLimitReached
		return d
	}
	d.Allowed = true
	d.Reason = ReasonOK
	return d
}

// OpenBorrowCounter menghitung peminjaman yang masih terbuka milik user.
type OpenBorrowCounter func(tx *gorm.DB, userID uuid.UUID) (int64, error)

type Gate struct {
	Policy Policy
}

func NewGate(p Policy) *Gate { return &Gate{Policy: p} }

// CanBorrow membaca ledger di dalam savepoint supaya lookup yang gagal
// tidak membatalkan transaksi peminjaman di luarnya.
func (g *Gate) CanBorrow(tx *gorm.DB, userID uuid.UUID, count OpenBorrowCounter) (Decision, error) {
	var sub *model.SubscriptionModel
	lookupErr := tx.Transaction(func(sp *gorm.DB) error {
		s, err := GetCurrentTx(sp, userID)
		sub = s
		return err
	})
	if lookupErr != nil {
		log.Printf("[GATE] ⚠️ ledger lookup user=%s gagal: %v", userID, lookupErr)
		return Decide(nil, lookupErr, 0, g.Policy), nil
	}
	if sub == nil {
		return Decide(nil, nil, 0, g.Policy), nil
	}

	open, err := count(tx, userID)
	if err != nil {
		return Decision{}, err
	}
	return Decide(sub, nil, open, g.Policy), nil
}
