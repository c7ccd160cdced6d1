package dto

import (
	"strings"
	"time"

	ledgerDTO "medialibrary_backend/internals/features/subscriptions/ledger/dto"
	ledgerModel "medialibrary_backend/internals/features/subscriptions/ledger/model"
	userModel "medialibrary_backend/internals/features/users/user/model"

	"github.com/google/uuid"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Plan     string `json:"plan,omitempty" validate:"omitempty,oneof=basic-monthly basic-yearly premium-monthly premium-yearly"`
}

func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Plan = strings.ToLower(strings.TrimSpace(r.Plan))
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72,nefield=CurrentPassword"`
}

// RefreshRequest: fallback kalau client tidak pakai cookie
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

/* ===================== RESPONSE ===================== */

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func FromUser(u *userModel.UserModel) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.UserName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type MeResponse struct {
	Authenticated bool                            `json:"authenticated"`
	User          UserResponse                    `json:"user"`
	Subscription  *ledgerDTO.SubscriptionResponse `json:"subscription"`
}

func NewMeResponse(u *userModel.UserModel, sub *ledgerModel.SubscriptionModel) MeResponse {
	return MeResponse{
		Authenticated: true,
		User:          FromUser(u),
		Subscription:  ledgerDTO.FromModel(sub),
	}
}
