package controller

import (
	"time"

	"medialibrary_backend/internals/configs"
	ledgerDTO "medialibrary_backend/internals/features/subscriptions/ledger/dto"
	"medialibrary_backend/internals/features/users/auth/dto"
	"medialibrary_backend/internals/features/users/auth/service"
	helper "medialibrary_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	DB      *gorm.DB
	Service *service.Service
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Service: service.New(db)}
}

func clientMeta(c *fiber.Ctx) service.ClientMeta {
	return service.ClientMeta{UserAgent: c.Get(fiber.HeaderUserAgent), IP: c.IP()}
}

// POST /api/auth/signup
func (ac *AuthController) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}

	user, sub, err := ac.Service.Signup(c.UserContext(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Plan:     req.Plan,
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Registrasi berhasil", fiber.Map{
		"user":         dto.FromUser(user),
		"subscription": ledgerDTO.FromModel(sub),
	})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}

	sess, err := ac.Service.Login(c.UserContext(), req.Email, req.Password, clientMeta(c))
	if err != nil {
		return helper.RespondError(c, err)
	}
	setAuthCookies(c, sess.Tokens)
	return helper.JsonOK(c, "Login berhasil", fiber.Map{
		"user":              dto.FromUser(sess.User),
		"access_token":      sess.Tokens.AccessToken,
		"access_expires_at": sess.Tokens.AccessExpiresAt,
	})
}

// POST /api/auth/refresh (cookie refresh_token, atau body)
func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	raw := helper.GetRefreshTokenFromCookie(c)
	if raw == "" {
		var req dto.RefreshRequest
		_ = c.BodyParser(&req)
		raw = req.RefreshToken
	}

	sess, err := ac.Service.Refresh(c.UserContext(), raw, clientMeta(c))
	if err != nil {
		clearAuthCookies(c)
		return helper.RespondError(c, err)
	}
	setAuthCookies(c, sess.Tokens)
	return helper.JsonOK(c, "Token diperbarui", fiber.Map{
		"access_token":      sess.Tokens.AccessToken,
		"access_expires_at": sess.Tokens.AccessExpiresAt,
	})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw := helper.GetRefreshTokenFromCookie(c)
	if raw == "" {
		var req dto.RefreshRequest
		_ = c.BodyParser(&req)
		raw = req.RefreshToken
	}
	if err := ac.Service.Logout(c.UserContext(), raw); err != nil {
		return helper.RespondError(c, err)
	}
	clearAuthCookies(c)
	return helper.JsonOK(c, "Logout berhasil", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	user, sub, err := ac.Service.Me(c.UserContext(), userID)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewMeResponse(user, sub))
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}
	if err := ac.Service.ChangePassword(c.UserContext(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return helper.RespondError(c, err)
	}
	clearAuthCookies(c)
	return helper.JsonUpdated(c, "Password berhasil diubah, silakan login ulang", nil)
}

/* ========================== COOKIES ========================== */

func cookieSecure() bool { return configs.GetEnvBool("COOKIE_SECURE", true) }

func setAuthCookies(c *fiber.Ctx, t service.TokenPair) {
	secure := cookieSecure()
	sameSite := "None"
	if !secure {
		sameSite = "Lax"
	}
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    t.AccessToken,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Path:     "/",
		Expires:  t.AccessExpiresAt,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    t.RefreshToken,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Path:     "/api/auth",
		Expires:  t.RefreshExpiresAt,
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	past := time.Unix(0, 0)
	c.Cookie(&fiber.Cookie{Name: "access_token", Value: "", Path: "/", Expires: past, HTTPOnly: true})
	c.Cookie(&fiber.Cookie{Name: "refresh_token", Value: "", Path: "/api/auth", Expires: past, HTTPOnly: true})
}
