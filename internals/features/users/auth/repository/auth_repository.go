package repository

import (
	"strings"
	"time"

	authModel "medialibrary_backend/internals/features/users/auth/model"
	userModel "medialibrary_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ====================== USER ====================== */

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("id = ?", userID).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail: email dibandingkan lowercase (disimpan lowercase saat signup)
func FindUserByEmail(db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(db *gorm.DB, user *userModel.UserModel) error {
	return db.Create(user).Error
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, newHash string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", newHash).Error
}

/* ====================== REFRESH TOKEN ====================== */

func CreateRefreshToken(db *gorm.DB, token *authModel.RefreshTokenModel) error {
	return db.Create(token).Error
}

// FindActiveRefreshToken: belum di-revoke dan belum expired. ErrRecordNotFound kalau tidak ada.
func FindActiveRefreshToken(db *gorm.DB, hash []byte, now time.Time) (*authModel.RefreshTokenModel, error) {
	var rt authModel.RefreshTokenModel
	if err := db.
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hash, now).
		Take(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// RevokeRefreshToken: guarded update, RowsAffected 0 = sudah direvoke duluan.
func RevokeRefreshToken(db *gorm.DB, id uuid.UUID, now time.Time) (int64, error) {
	res := db.Model(&authModel.RefreshTokenModel{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", now)
	return res.RowsAffected, res.Error
}

func RevokeRefreshTokenByHash(db *gorm.DB, hash []byte, now time.Time) error {
	return db.Model(&authModel.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", now).Error
}

// CleanupRefreshTokens menghapus token yang expired atau sudah direvoke sebelum revokedBefore.
func CleanupRefreshTokens(db *gorm.DB, now, revokedBefore time.Time, limit int) (int64, error) {
	sub := db.Model(&authModel.RefreshTokenModel{}).
		Select("id").
		Where("expires_at <= ? OR (revoked_at IS NOT NULL AND revoked_at <= ?)", now, revokedBefore).
		Limit(limit)
	res := db.Where("id IN (?)", sub).Delete(&authModel.RefreshTokenModel{})
	return res.RowsAffected, res.Error
}

func RevokeAllForUser(db *gorm.DB, userID uuid.UUID, now time.Time) error {
	return db.Model(&authModel.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}
