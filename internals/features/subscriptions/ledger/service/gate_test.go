package service

import (
	"errors"
	"testing"
	"time"

	"medialibrary_backend/internals/databases/dbtest"
	"medialibrary_backend/internals/features/subscriptions/ledger/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDecide(t *testing.T) {
	sub := func(plan, status string) *model.SubscriptionModel {
		return &model.SubscriptionModel{SubscriptionPlan: plan, SubscriptionStatus: status}
	}
	open := DefaultPolicy()
	closed := Policy{}

	cases := []struct {
		name      string
		sub       *model.SubscriptionModel
		lookupErr error
		openCount int64
		policy    Policy
		allowed   bool
		reason    string
	}{
		{"basic under limit", sub(PlanBasicMonthly, model.StatusActive), nil, 0, open, true, ReasonOK},
		{"basic at limit", sub(PlanBasicMonthly, model.StatusActive), nil, 1, open, false, ReasonLimitReached},
		{"premium third book", sub(PlanPremiumYearly, model.StatusActive), nil, 2, open, true, ReasonOK},
		{"premium at limit", sub(PlanPremiumYearly, model.StatusActive), nil, 3, open, false, ReasonLimitReached},
		{"pending counts as entitled", sub(PlanBasicYearly, model.StatusPending), nil, 0, open, true, ReasonOK},
		{"cancelled", sub(PlanPremiumMonthly, model.StatusCancelled), nil, 0, open, false, ReasonInactive},
		{"expired", sub(PlanPremiumMonthly, model.StatusExpired), nil, 0, open, false, ReasonInactive},
		{"unknown plan has zero limit", sub("legacy", model.StatusActive), nil, 0, open, false, ReasonLimitReached},
		{"no subscription fail-open", nil, nil, 0, open, true, ReasonNoSubscription},
		{"no subscription fail-closed", nil, nil, 0, closed, false, ReasonNoSubscription},
		{"ledger error fail-open", nil, errors.New("down"), 0, open, true, ReasonLedgerError},
		{"ledger error fail-closed", nil, errors.New("down"), 0, closed, false, ReasonLedgerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.sub, tc.lookupErr, tc.openCount, tc.policy)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.reason, d.Reason)
		})
	}
}

func TestDecisionMessage(t *testing.T) {
	d := Decision{Reason: ReasonLimitReached, Limit: 1, Open: 1}
	assert.Equal(t, "Batas peminjaman tercapai (1/1)", d.Message())
	assert.Equal(t, "Subscription tidak aktif", Decision{Reason: ReasonInactive}.Message())
}

func TestGateCanBorrow(t *testing.T) {
	db := dbtest.New(t)
	userID := uuid.New()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	counter := func(n int64) OpenBorrowCounter {
		return func(tx *gorm.DB, id uuid.UUID) (int64, error) {
			assert.Equal(t, userID, id)
			return n, nil
		}
	}
	g := NewGate(Policy{})

	// tanpa subscription, counter tidak dipanggil
	d, err := g.CanBorrow(db, userID, func(*gorm.DB, uuid.UUID) (int64, error) {
		t.Fatal("counter should not be called")
		return 0, nil
	})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoSubscription, d.Reason)

	_, err = SetPlanTx(db, userID, PlanPremiumMonthly, "", now)
	require.NoError(t, err)

	d, err = g.CanBorrow(db, userID, counter(2))
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 3, d.Limit)

	d, err = g.CanBorrow(db, userID, counter(3))
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonLimitReached, d.Reason)
}

func TestGateCounterErrorPropagates(t *testing.T) {
	db := dbtest.New(t)
	userID := uuid.New()
	_, err := SetPlanTx(db, userID, PlanBasicMonthly, "", time.Now())
	require.NoError(t, err)

	boom := errors.New("count failed")
	_, err = NewGate(DefaultPolicy()).CanBorrow(db, userID, func(*gorm.DB, uuid.UUID) (int64, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}
