package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"medialibrary_backend/internals/configs"
	authModel "medialibrary_backend/internals/features/users/auth/model"
	authRepo "medialibrary_backend/internals/features/users/auth/repository"
	userModel "medialibrary_backend/internals/features/users/user/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	accessTTLDefault  = 1 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour

	typAccess  = "access"
	typRefresh = "refresh"
)

var errInvalidRefresh = errors.New("refresh token invalid")

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"-"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"-"`
}

// ClientMeta dicatat bersama refresh token.
type ClientMeta struct {
	UserAgent string
	IP        string
}

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		secret = configs.GetEnv("JWT_SECRET")
	}
	if secret == "" {
		return "", errors.New("JWT_SECRET belum diset")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		secret = configs.GetEnv("JWT_REFRESH_SECRET")
	}
	if secret == "" {
		return "", errors.New("JWT_REFRESH_SECRET belum diset")
	}
	return secret, nil
}

func AccessTTL() time.Duration {
	return configs.GetEnvDuration("JWT_ACCESS_TTL", accessTTLDefault)
}

func RefreshTTL() time.Duration {
	return configs.GetEnvDuration("JWT_REFRESH_TTL", refreshTTLDefault)
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func computeRefreshHash(token, secret string) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil)
}

func buildAccessClaims(user userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":   typAccess,
		"sub":   user.ID.String(),
		"id":    user.ID.String(),
		"email": user.Email,
		"name":  user.UserName,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(AccessTTL()).Unix(),
	}
}

// jti bikin setiap refresh token unik walau diterbitkan di detik yang sama
func buildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ": typRefresh,
		"sub": userID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(RefreshTTL()).Unix(),
	}
}

// issueTokens menandatangani access + refresh dan menyimpan hash refresh lewat db (boleh tx).
func issueTokens(db *gorm.DB, user userModel.UserModel, meta ClientMeta, now time.Time) (TokenPair, error) {
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return TokenPair{}, err
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return TokenPair{}, err
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(user, now)).SignedString([]byte(jwtSecret))
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access: %w", err)
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(user.ID, now)).SignedString([]byte(refreshSecret))
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh: %w", err)
	}

	pair := TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  now.Add(AccessTTL()),
		RefreshExpiresAt: now.Add(RefreshTTL()),
	}
	if err := authRepo.CreateRefreshToken(db, &authModel.RefreshTokenModel{
		UserID:    user.ID,
		TokenHash: computeRefreshHash(refresh, refreshSecret),
		ExpiresAt: pair.RefreshExpiresAt,
		UserAgent: strptr(meta.UserAgent),
		IP:        strptr(meta.IP),
	}); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// parseRefresh memverifikasi tanda tangan + typ dan mengembalikan user id (sub).
func parseRefresh(raw, secret string) (uuid.UUID, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidRefresh
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, errInvalidRefresh
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errInvalidRefresh
	}
	if typ, _ := claims["typ"].(string); typ != typRefresh {
		return uuid.Nil, errInvalidRefresh
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errInvalidRefresh
	}
	return id, nil
}
