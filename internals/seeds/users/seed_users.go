package users

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"medialibrary_backend/internals/constants"
	ledgerModel "medialibrary_backend/internals/features/subscriptions/ledger/model"
	ledger "medialibrary_backend/internals/features/subscriptions/ledger/service"
	authRepo "medialibrary_backend/internals/features/users/auth/repository"
	authService "medialibrary_backend/internals/features/users/auth/service"
	userModel "medialibrary_backend/internals/features/users/user/model"
	helper "medialibrary_backend/internals/helpers"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

type UserSeed struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Plan     string `json:"plan"`
}

// SeedUsers idempoten by email. User baru langsung dapat subscription active.
func SeedUsers(ctx context.Context, db *gorm.DB, raw []byte) (int, error) {
	var inputs []UserSeed
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return 0, err
	}

	created := 0
	for _, data := range inputs {
		email := strings.ToLower(strings.TrimSpace(data.Email))
		if _, err := authRepo.FindUserByEmail(db.WithContext(ctx), email); err == nil {
			log.Printf("ℹ️ [SEED] user '%s' sudah ada, dilewati.", email)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}

		role := data.Role
		if !constants.IsValidRole(role) {
			role = constants.RoleUser
		}
		plan := ledger.NormalizePlan(data.Plan)
		if !ledger.IsValidPlan(plan) {
			plan = ledger.DefaultPlan
		}

		hashed, err := authService.HashPassword(data.Password)
		if err != nil {
			log.Printf("❌ [SEED] gagal hash password '%s': %v", email, err)
			continue
		}

		err = helper.RunInTx(ctx, db, func(tx *gorm.DB) error {
			u := userModel.UserModel{
				UserName: data.UserName,
				Email:    email,
				Password: hashed,
				Role:     role,
				IsActive: true,
			}
			if err := authRepo.CreateUser(tx, &u); err != nil {
				return err
			}
			_, err := ledger.SetPlanTx(tx, u.ID, plan, ledgerModel.StatusActive, time.Now())
			return err
		}, helper.WithLabel("seed.users"))
		if err != nil {
			return created, err
		}
		created++
		log.Printf("✅ [SEED] user '%s' (%s, %s)", email, role, plan)
	}
	return created, nil
}
