package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBorrowingLimit(t *testing.T) {
	cases := map[string]int{
		PlanBasicMonthly:   1,
		PlanBasicYearly:    1,
		PlanPremiumMonthly: 3,
		PlanPremiumYearly:  3,
		" Premium-Yearly ": 3,
		"enterprise":       0,
		"":                 0,
	}
	for plan, want := range cases {
		assert.Equal(t, want, BorrowingLimit(plan), plan)
	}
}

func TestAllPlansSortedByPrice(t *testing.T) {
	ps := AllPlans()
	assert.Len(t, ps, 4)
	for i := 1; i < len(ps); i++ {
		assert.LessOrEqual(t, ps[i-1].PriceIDR, ps[i].PriceIDR)
	}
	assert.Equal(t, PlanBasicMonthly, ps[0].Code)
}

func TestNextTermBoundary(t *testing.T) {
	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)
	// Go normalisasi 31 April -> 1 Mei
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), NextTermBoundary(start, 3, now))
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), NextTermBoundary(start, 0, now))
}
