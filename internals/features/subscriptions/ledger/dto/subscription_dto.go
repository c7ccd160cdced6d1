package dto

import (
	"strings"
	"time"

	"medialibrary_backend/internals/features/subscriptions/ledger/model"
	"medialibrary_backend/internals/features/subscriptions/ledger/service"

	"github.com/google/uuid"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type SetPlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=basic-monthly basic-yearly premium-monthly premium-yearly"`
}

func (r *SetPlanRequest) Normalize() {
	r.Plan = service.NormalizePlan(r.Plan)
}

type ScheduleChangeRequest struct {
	Plan          string `json:"plan" validate:"required,oneof=basic-monthly basic-yearly premium-monthly premium-yearly"`
	EffectiveDate string `json:"effective_date" validate:"required"`
}

func (r *ScheduleChangeRequest) Normalize() {
	r.Plan = service.NormalizePlan(r.Plan)
	r.EffectiveDate = strings.TrimSpace(r.EffectiveDate)
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type ScheduledChange struct {
	Plan        string    `json:"plan"`
	Label       string    `json:"label,omitempty"`
	EffectiveAt time.Time `json:"effective_at"`
}

type SubscriptionResponse struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	Plan           string           `json:"plan"`
	Status         string           `json:"status"`
	StartDate      time.Time        `json:"start_date"`
	EndDate        *time.Time       `json:"end_date,omitempty"`
	BorrowingLimit int              `json:"borrowing_limit"`
	Scheduled      *ScheduledChange `json:"scheduled_change,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

func FromModel(m *model.SubscriptionModel) *SubscriptionResponse {
	if m == nil {
		return nil
	}
	out := &SubscriptionResponse{
		ID:             m.SubscriptionID,
		UserID:         m.SubscriptionUserID,
		Plan:           m.SubscriptionPlan,
		Status:         m.SubscriptionStatus,
		StartDate:      m.SubscriptionStart,
		EndDate:        m.SubscriptionEnd,
		BorrowingLimit: service.BorrowingLimit(m.SubscriptionPlan),
		CreatedAt:      m.SubscriptionCreatedAt,
	}
	if m.HasSchedule() {
		sc := &ScheduledChange{
			Plan:        *m.SubscriptionScheduledPlan,
			EffectiveAt: *m.SubscriptionScheduledEffectiveAt,
		}
		if m.SubscriptionScheduledLabel != nil {
			sc.Label = *m.SubscriptionScheduledLabel
		}
		out.Scheduled = sc
	}
	return out
}

func FromModels(rows []model.SubscriptionModel) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
