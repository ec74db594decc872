package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/services"
	"github.com/SscSPs/iptv_reseller_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)

	svc := services.NewAuthService(services.AuthConfig{
		Username:     "admin",
		PasswordHash: hash,
		JWTSecret:    "test-secret",
		JWTExpiry:    time.Hour,
		JWTIssuer:    "test",
	})
	ctx := context.Background()

	token, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)
	claims, err := utils.ParseAndValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "test", claims.Issuer)

	_, err = svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Login(ctx, "root", "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_LoginWithoutConfiguredHash(t *testing.T) {
	svc := services.NewAuthService(services.AuthConfig{Username: "admin", JWTSecret: "x", JWTExpiry: time.Hour})

	_, err := svc.Login(context.Background(), "admin", "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
