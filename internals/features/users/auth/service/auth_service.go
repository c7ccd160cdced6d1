package service

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
	userModel "medialibrary_backend/internals/features/users/user/model"
	helper "medialibrary_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC().Truncate(time.Microsecond)
	}
	return time.Now().UTC().Truncate(time.Microsecond)
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Plan     string
}

// Session: hasil login / refresh.
type Session struct {
	User   *userModel.UserModel
	Tokens TokenPair
}

var errBadCredentials = helper.ErrUnauthenticated("Email atau password salah")

/* ========================== SIGNUP ========================== */

// Signup membuat user + subscription aktif dalam satu transaksi.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*userModel.UserModel, *ledgerModel.SubscriptionModel, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	plan := ledger.NormalizePlan(in.Plan)
	if plan == "" {
		plan = ledger.DefaultPlan
	}
	if !ledger.IsValidPlan(plan) {
		return nil, nil, helper.ErrValidation("Plan tidak dikenal")
	}

	// bcrypt di luar transaksi, lambat
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, nil, helper.ErrStorage(err)
	}

	var (
		user *userModel.UserModel
		sub  *ledgerModel.SubscriptionModel
	)
	err = helper.RunInTx(ctx, s.DB, func(tx *gorm.DB) error {
		if _, err := authRepo.FindUserByEmail(tx, email); err == nil {
			return helper.ErrConflict("Email sudah terdaftar")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user = &userModel.UserModel{
			UserName: strings.TrimSpace(in.Name),
			Email:    email,
			Password: hash,
			Role:     constants.RoleUser,
			IsActive: true,
		}
		if err := authRepo.CreateUser(tx, user); err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.ErrConflict("Email sudah terdaftar")
			}
			return err
		}

		sub, err = ledger.SetPlanTx(tx, user.ID, plan, ledgerModel.StatusActive, s.now())
		return err
	}, helper.WithLabel("auth.signup"))
	if err != nil {
		return nil, nil, helper.AsAppError(err)
	}

	log.Printf("[AUTH] ✅ signup user=%s plan=%s", user.ID, plan)
	return user, sub, nil
}

/* ========================== LOGIN ========================== */

func (s *Service) Login(ctx context.Context, email, password string, meta ClientMeta) (*Session, error) {
	user, err := authRepo.FindUserByEmail(s.DB.WithContext(ctx), email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, helper.ErrStorage(err)
	}
	if err := CheckPasswordHash(user.Password, password); err != nil {
		return nil, errBadCredentials
	}
	if !user.IsActive {
		return nil, helper.ErrUnauthenticated("Akun dinonaktifkan")
	}

	pair, err := issueTokens(s.DB.WithContext(ctx), *user, meta, s.now())
	if err != nil {
		return nil, helper.ErrStorage(err)
	}
	return &Session{User: user, Tokens: pair}, nil
}

/* ========================== REFRESH (rotate) ========================== */

func (s *Service) Refresh(ctx context.Context, raw string, meta ClientMeta) (*Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, helper.ErrUnauthenticated("Refresh token tidak ada")
	}
	secret, err := getRefreshSecret()
	if err != nil {
		return nil, helper.ErrStorage(err)
	}
	userID, err := parseRefresh(raw, secret)
	if err != nil {
		return nil, helper.ErrUnauthenticated("Refresh token invalid")
	}

	var out *Session
	err = helper.RunInTx(ctx, s.DB, func(tx *gorm.DB) error {
		now := s.now()
		rt, err := authRepo.FindActiveRefreshToken(tx, computeRefreshHash(raw, secret), now)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.ErrUnauthenticated("Refresh token tidak dikenal")
		}
		if err != nil {
			return err
		}
		if rt.UserID != userID {
			return helper.ErrUnauthenticated("Refresh token invalid")
		}

		// ROTATE: token lama direvoke; kalau sudah direvoke request lain, tolak
		n, err := authRepo.RevokeRefreshToken(tx, rt.ID, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return helper.ErrUnauthenticated("Refresh token sudah dipakai")
		}

		user, err := authRepo.FindUserByID(tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.ErrUnauthenticated("User tidak ditemukan")
		}
		if err != nil {
			return err
		}
		if !user.IsActive {
			return helper.ErrUnauthenticated("Akun dinonaktifkan")
		}

		pair, err := issueTokens(tx, *user, meta, now)
		if err != nil {
			return err
		}
		out = &Session{User: user, Tokens: pair}
		return nil
	}, helper.WithLabel("auth.refresh"))
	if err != nil {
		return nil, helper.AsAppError(err)
	}
	return out, nil
}

/* ========================== LOGOUT ========================== */

// Logout me-revoke refresh token (kalau ada). Token rusak tetap dianggap sukses.
func (s *Service) Logout(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	secret, err := getRefreshSecret()
	if err != nil {
		return helper.ErrStorage(err)
	}
	if err := authRepo.RevokeRefreshTokenByHash(s.DB.WithContext(ctx), computeRefreshHash(raw, secret), s.now()); err != nil {
		return helper.ErrStorage(err)
	}
	return nil
}

/* ========================== ME ========================== */

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, *ledgerModel.SubscriptionModel, error) {
	db := s.DB.WithContext(ctx)
	user, err := authRepo.FindUserByID(db, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, helper.ErrNotFound("User tidak ditemukan")
	}
	if err != nil {
		return nil, nil, helper.ErrStorage(err)
	}
	sub, err := ledger.GetCurrentTx(db, userID)
	if err != nil {
		return nil, nil, helper.ErrStorage(err)
	}
	return user, sub, nil
}

/* ========================== CHANGE PASSWORD ========================== */

// ChangePassword juga me-revoke semua refresh token milik user.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := authRepo.FindUserByID(s.DB.WithContext(ctx), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.ErrNotFound("User tidak ditemukan")
	}
	if err != nil {
		return helper.ErrStorage(err)
	}
	if err := CheckPasswordHash(user.Password, current); err != nil {
		return helper.ErrUnauthenticated("Password lama salah")
	}

	hash, err := HashPassword(next)
	if err != nil {
		return helper.ErrStorage(err)
	}
	err = helper.RunInTx(ctx, s.DB, func(tx *gorm.DB) error {
		if err := authRepo.UpdateUserPassword(tx, userID, hash); err != nil {
			return err
		}
		return authRepo.RevokeAllForUser(tx, userID, s.now())
	}, helper.WithLabel("auth.change_password"))
	if err != nil {
		return helper.AsAppError(err)
	}
	return nil
}
