package services

import (
	"context"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
)

// PlatformReaderSvc defines read operations for platform data
type PlatformReaderSvc interface {
	GetPlatformByID(ctx context.Context, platformID string) (*domain.Platform, error)
	ListPlatforms(ctx context.Context, params dto.ListPlatformsParams) ([]domain.Platform, int, error)
}

// PlatformWriterSvc defines write operations for platform data
type PlatformWriterSvc interface {
	CreatePlatform(ctx context.Context, req dto.CreatePlatformRequest, userID string) (*domain.Platform, error)
	UpdatePlatform(ctx context.Context, platformID string, req dto.UpdatePlatformRequest, userID string) (*domain.Platform, error)
	// DeletePlatform fails with apperrors.ErrConflict while products or recharges reference the platform.
	DeletePlatform(ctx context.Context, platformID string) error
}

// PlatformSvcFacade combines all platform-related service interfaces
type PlatformSvcFacade interface {
	PlatformReaderSvc
	PlatformWriterSvc
}
