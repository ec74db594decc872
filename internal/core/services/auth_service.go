package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/utils"
)

// AuthConfig is the administrator account and the token settings.
type AuthConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	JWTExpiry    time.Duration
	JWTIssuer    string
}

type authService struct {
	BaseService
	cfg AuthConfig
}

// NewAuthService creates the login service for the single administrator account.
func NewAuthService(cfg AuthConfig, options ...ServiceOption) portssvc.AuthSvc {
	return &authService{
		BaseService: newBaseService(options...),
		cfg:         cfg,
	}
}

var _ portssvc.AuthSvc = (*authService)(nil)

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	// bcrypt runs even for an unknown username so both failures take the same time.
	passOK := utils.CheckPasswordHash(password, s.cfg.PasswordHash)
	if !userOK || !passOK {
		err := fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
		s.LogWarn(ctx, err, "Login failed", slog.String("username", username))
		return "", err
	}

	token, err := utils.GenerateJWT(s.cfg.Username, s.cfg.JWTSecret, s.cfg.JWTExpiry, s.cfg.JWTIssuer, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign token")
		return "", apperrors.NewAppError(500, "failed to sign token", err)
	}

	s.LogInfo(ctx, "Login succeeded", slog.String("username", username))
	return token, nil
}
