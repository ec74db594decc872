package services

import (
	"context"
)

// AuthSvc authenticates the administrator and issues API tokens.
type AuthSvc interface {
	// Login checks the credentials and returns a signed JWT. Bad credentials yield apperrors.ErrUnauthorized.
	Login(ctx context.Context, username, password string) (string, error)
}
