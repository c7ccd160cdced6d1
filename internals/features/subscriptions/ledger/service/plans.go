package service

import (
	"sort"
	"strings"
	"time"
)

const (
	PlanBasicMonthly   = "basic-monthly"
	PlanBasicYearly    = "basic-yearly"
	PlanPremiumMonthly = "premium-monthly"
	PlanPremiumYearly  = "premium-yearly"

	DefaultPlan = PlanBasicMonthly
)

type Plan struct {
	Code           string `json:"code"`
	Tier           string `json:"tier"`
	TermMonths     int    `json:"term_months"`
	PriceIDR       int64  `json:"price_idr"`
	BorrowingLimit int    `json:"borrowing_limit"`
}

var plans = map[string]Plan{
	PlanBasicMonthly:   {Code: PlanBasicMonthly, Tier: "basic", TermMonths: 1, PriceIDR: 49_000, BorrowingLimit: 1},
	PlanBasicYearly:    {Code: PlanBasicYearly, Tier: "basic", TermMonths: 12, PriceIDR: 490_000, BorrowingLimit: 1},
	PlanPremiumMonthly: {Code: PlanPremiumMonthly, Tier: "premium", TermMonths: 1, PriceIDR: 99_000, BorrowingLimit: 3},
	PlanPremiumYearly:  {Code: PlanPremiumYearly, Tier: "premium", TermMonths: 12, PriceIDR: 990_000, BorrowingLimit: 3},
}

func NormalizePlan(plan string) string {
	return strings.ToLower(strings.TrimSpace(plan))
}

func LookupPlan(plan string) (Plan, bool) {
	p, ok := plans[NormalizePlan(plan)]
	return p, ok
}

func IsValidPlan(plan string) bool {
	_, ok := LookupPlan(plan)
	return ok
}

// BorrowingLimit: basic-* -> 1, premium-* -> 3, lainnya 0.
func BorrowingLimit(plan string) int {
	if p, ok := LookupPlan(plan); ok {
		return p.BorrowingLimit
	}
	return 0
}

// AllPlans untuk halaman pricing, urut harga.
func AllPlans() []Plan {
	out := make([]Plan, 0, len(plans))
	for _, p := range plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceIDR < out[j].PriceIDR })
	return out
}

// NextTermBoundary: batas term pertama (start + k*term) yang sudah lewat dari now.
func NextTermBoundary(start time.Time, termMonths int, now time.Time) time.Time {
	if termMonths <= 0 {
		termMonths = 1
	}
	for k := 1; ; k++ {
		t := start.AddDate(0, k*termMonths, 0)
		if t.After(now) {
			return t
		}
	}
}
