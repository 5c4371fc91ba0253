package services

import (
	"context"
	"testing"
	"time"

	"hediye.link/pkg/requests"
	"hediye.link/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) IAuthService {
	t.Helper()
	db := newTestDB(t)
	return NewAuthServiceWith(repositories.NewUserRepositoryTx(db), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(context.Background(), requests.RegisterRequest{
		Name:            "Ayşe Yılmaz",
		Email:           "ayse@example.com",
		Password:        "sifre12345",
		PasswordConfirm: "sifre12345",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "sifre12345", user.PasswordHash, "şifre düz metin saklanmamalı")

	loggedIn, token, err := svc.Login(context.Background(), requests.LoginRequest{
		Email:    "ayse@example.com",
		Password: "sifre12345",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	req := requests.RegisterRequest{
		Name:            "Ayşe",
		Email:           "ayse@example.com",
		Password:        "sifre12345",
		PasswordConfirm: "sifre12345",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), requests.RegisterRequest{
		Name:            "Ayşe",
		Email:           "ayse@example.com",
		Password:        "sifre12345",
		PasswordConfirm: "baska-sifre",
	})
	assert.ErrorIs(t, err, ErrPasswordsDontMatch)
}

func TestLoginDistinguishesUnknownUserFromWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), requests.RegisterRequest{
		Name:            "Ayşe",
		Email:           "ayse@example.com",
		Password:        "sifre12345",
		PasswordConfirm: "sifre12345",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), requests.LoginRequest{
		Email:    "yok@example.com",
		Password: "sifre12345",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, _, err = svc.Login(context.Background(), requests.LoginRequest{
		Email:    "ayse@example.com",
		Password: "yanlis-sifre",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewUserRepositoryTx(db)
	svc := NewAuthServiceWith(repo, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), requests.RegisterRequest{
		Name:            "Ayşe",
		Email:           "ayse@example.com",
		Password:        "sifre12345",
		PasswordConfirm: "sifre12345",
	})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateFields(context.Background(), user.ID, map[string]any{"is_active": false}))

	_, _, err = svc.Login(context.Background(), requests.LoginRequest{
		Email:    "ayse@example.com",
		Password: "sifre12345",
	})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestTokenRoundtrip(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(context.Background(), requests.RegisterRequest{
		Name:            "Ayşe",
		Email:           "ayse@example.com",
		Password:        "sifre12345",
		PasswordConfirm: "sifre12345",
	})
	require.NoError(t, err)

	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "Ayşe", claims.Name)
	assert.False(t, claims.IsAdmin)
}

func TestVerifyTokenRejectsTampered(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.VerifyToken("bozuk.token.degeri")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// Farklı secret ile imzalanmış token reddedilir.
	other := NewAuthServiceWith(repositories.NewUserRepositoryTx(newTestDB(t)), "baska-secret", time.Hour)
	user, err := svc.Register(context.Background(), requests.RegisterRequest{
		Name:            "Ayşe",
		Email:           "ayse@example.com",
		Password:        "sifre12345",
		PasswordConfirm: "sifre12345",
	})
	require.NoError(t, err)

	foreignToken, err := other.IssueToken(user)
	require.NoError(t, err)
	_, err = svc.VerifyToken(foreignToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthServiceWith(repositories.NewUserRepositoryTx(db), "test-secret", -time.Minute)

	user := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(context.Background(), requests.RegisterRequest{
		Name:            "Ayşe",
		Email:           "ayse@example.com",
		Password:        "sifre12345",
		PasswordConfirm: "sifre12345",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), user.ID, requests.ChangePasswordRequest{
		CurrentPassword:    "yanlis-sifre",
		NewPassword:        "yeni-sifre-99",
		NewPasswordConfirm: "yeni-sifre-99",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(context.Background(), user.ID, requests.ChangePasswordRequest{
		CurrentPassword:    "sifre12345",
		NewPassword:        "yeni-sifre-99",
		NewPasswordConfirm: "yeni-sifre-99",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), requests.LoginRequest{Email: "ayse@example.com", Password: "sifre12345"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), requests.LoginRequest{Email: "ayse@example.com", Password: "yeni-sifre-99"})
	assert.NoError(t, err)
}
