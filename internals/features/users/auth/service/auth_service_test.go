package service

import (
	"context"
	"testing"

	"medialibrary_backend/internals/databases/dbtest"
	ledgerModel "medialibrary_backend/internals/features/subscriptions/ledger/model"
	ledger "medialibrary_backend/internals/features/subscriptions/ledger/service"
	authModel "medialibrary_backend/internals/features/users/auth/model"
	helper "medialibrary_backend/internals/helpers"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh-secret")
	return New(dbtest.New(t))
}

func signup(t *testing.T, s *Service, email, password string) {
	t.Helper()
	_, _, err := s.Signup(context.Background(), SignupInput{Name: "Reader", Email: email, Password: password})
	require.NoError(t, err)
}

func TestSignupCreatesUserAndSubscription(t *testing.T) {
	s := newService(t)

	user, sub, err := s.Signup(context.Background(), SignupInput{
		Name: " Reader ", Email: " Reader@Example.COM ", Password: "secret123", Plan: "Premium-Monthly",
	})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.Equal(t, "Reader", user.UserName)
	assert.NotEqual(t, "secret123", user.Password)
	assert.Equal(t, ledger.PlanPremiumMonthly, sub.SubscriptionPlan)
	assert.Equal(t, ledgerModel.StatusActive, sub.SubscriptionStatus)
	assert.Equal(t, user.ID, sub.SubscriptionUserID)

	_, _, err = s.Signup(context.Background(), SignupInput{Name: "x", Email: "reader@example.com", Password: "another1"})
	assert.Equal(t, helper.KindConflict, helper.KindOf(err))
}

func TestSignupDefaultsAndRejectsPlan(t *testing.T) {
	s := newService(t)

	_, sub, err := s.Signup(context.Background(), SignupInput{Name: "a", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultPlan, sub.SubscriptionPlan)

	_, _, err = s.Signup(context.Background(), SignupInput{Name: "b", Email: "b@example.com", Password: "secret123", Plan: "gold"})
	assert.Equal(t, helper.KindValidation, helper.KindOf(err))
}

func TestLogin(t *testing.T) {
	s := newService(t)
	signup(t, s, "reader@example.com", "secret123")

	sess, err := s.Login(context.Background(), "READER@example.com", "secret123", ClientMeta{UserAgent: "test", IP: "127.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Tokens.AccessToken)
	assert.NotEmpty(t, sess.Tokens.RefreshToken)

	tok, err := jwt.Parse(sess.Tokens.AccessToken, func(*jwt.Token) (any, error) { return []byte("test-access-secret"), nil })
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "access", claims["typ"])
	assert.Equal(t, sess.User.ID.String(), claims["id"])
	assert.Equal(t, "user", claims["role"])

	_, err = s.Login(context.Background(), "reader@example.com", "wrong-pass", ClientMeta{})
	assert.Equal(t, helper.KindUnauthenticated, helper.KindOf(err))
	_, err = s.Login(context.Background(), "nobody@example.com", "secret123", ClientMeta{})
	assert.Equal(t, helper.KindUnauthenticated, helper.KindOf(err))
}

func TestRefreshRotatesAndDetectsReuse(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	signup(t, s, "reader@example.com", "secret123")

	sess, err := s.Login(ctx, "reader@example.com", "secret123", ClientMeta{})
	require.NoError(t, err)
	first := sess.Tokens.RefreshToken

	rotated, err := s.Refresh(ctx, first, ClientMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, first, rotated.Tokens.RefreshToken)

	_, err = s.Refresh(ctx, first, ClientMeta{})
	assert.Equal(t, helper.KindUnauthenticated, helper.KindOf(err))

	_, err = s.Refresh(ctx, rotated.Tokens.AccessToken, ClientMeta{})
	assert.Equal(t, helper.KindUnauthenticated, helper.KindOf(err))

	_, err = s.Refresh(ctx, "", ClientMeta{})
	assert.Equal(t, helper.KindUnauthenticated, helper.KindOf(err))
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	signup(t, s, "reader@example.com", "secret123")

	sess, err := s.Login(ctx, "reader@example.com", "secret123", ClientMeta{})
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, sess.Tokens.RefreshToken))
	require.NoError(t, s.Logout(ctx, "garbage"))
	require.NoError(t, s.Logout(ctx, ""))

	_, err = s.Refresh(ctx, sess.Tokens.RefreshToken, ClientMeta{})
	assert.Equal(t, helper.KindUnauthenticated, helper.KindOf(err))
}

func TestMe(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	user, _, err := s.Signup(ctx, SignupInput{Name: "Reader", Email: "me@example.com", Password: "secret123"})
	require.NoError(t, err)

	got, sub, err := s.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	require.NotNil(t, sub)
	assert.Equal(t, ledger.DefaultPlan, sub.SubscriptionPlan)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	signup(t, s, "reader@example.com", "secret123")

	sess, err := s.Login(ctx, "reader@example.com", "secret123", ClientMeta{})
	require.NoError(t, err)

	err = s.ChangePassword(ctx, sess.User.ID, "wrong", "newsecret1")
	assert.Equal(t, helper.KindUnauthenticated, helper.KindOf(err))

	require.NoError(t, s.ChangePassword(ctx, sess.User.ID, "secret123", "newsecret1"))

	_, err = s.Refresh(ctx, sess.Tokens.RefreshToken, ClientMeta{})
	assert.Equal(t, helper.KindUnauthenticated, helper.KindOf(err))

	_, err = s.Login(ctx, "reader@example.com", "secret123", ClientMeta{})
	assert.Equal(t, helper.KindUnauthenticated, helper.KindOf(err))
	_, err = s.Login(ctx, "reader@example.com", "newsecret1", ClientMeta{})
	assert.NoError(t, err)

	var active int64
	require.NoError(t, s.DB.Model(&authModel.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", sess.User.ID).Count(&active).Error)
	assert.Equal(t, int64(1), active)
}
