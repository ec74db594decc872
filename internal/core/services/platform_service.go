package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/google/uuid"
)

type platformService struct {
	BaseService
	txm   portsrepo.TransactionManager
	repos portsrepo.RepositoryProvider
}

// NewPlatformService creates the platform service.
func NewPlatformService(txm portsrepo.TransactionManager, repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.PlatformSvcFacade {
	return &platformService{
		BaseService: newBaseService(options...),
		txm:         txm,
		repos:       repos,
	}
}

var _ portssvc.PlatformSvcFacade = (*platformService)(nil)

func (s *platformService) CreatePlatform(ctx context.Context, req dto.CreatePlatformRequest, userID string) (*domain.Platform, error) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return nil, validationErrorf("nom is required")
	case !req.BalanceType.IsValid():
		return nil, validationErrorf("balance_type must be currency or points")
	case req.InitialBalance.IsNegative():
		return nil, validationErrorf("initial_balance must not be negative")
	case req.PointConversionRate != nil && !req.PointConversionRate.IsPositive():
		return nil, validationErrorf("point_conversion_rate must be greater than 0")
	}
	if err := checkMoneyScale([]string{"initial_balance"}, &req.InitialBalance); err != nil {
		return nil, err
	}
	if err := checkScale("point_conversion_rate", req.PointConversionRate, 4); err != nil {
		return nil, err
	}

	unit := strings.TrimSpace(req.BalanceUnit)
	if unit == "" {
		unit = domain.DefaultBalanceUnit(req.BalanceType)
	}

	platform := domain.Platform{
		PlatformID:          uuid.NewString(),
		Name:                name,
		Description:         req.Description,
		InitialBalance:      req.InitialBalance,
		Balance:             req.InitialBalance,
		BalanceType:         req.BalanceType,
		BalanceUnit:         unit,
		PointConversionRate: req.PointConversionRate,
		IsActive:            true,
		AuditFields:         domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.repos.PlatformRepo.SavePlatform(ctx, platform); err != nil {
		s.LogFailure(ctx, err, "Failed to create platform", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Platform created",
		slog.String("platform_id", platform.PlatformID),
		slog.String("balance_type", string(platform.BalanceType)))
	return &platform, nil
}

func (s *platformService) GetPlatformByID(ctx context.Context, platformID string) (*domain.Platform, error) {
	platform, err := s.repos.PlatformRepo.FindPlatformByID(ctx, platformID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find platform", slog.String("platform_id", platformID))
		}
		return nil, err
	}
	return platform, nil
}

func (s *platformService) ListPlatforms(ctx context.Context, params dto.ListPlatformsParams) ([]domain.Platform, int, error) {
	platforms, total, err := s.repos.PlatformRepo.ListPlatforms(ctx, toPage(params.PageParams))
	if err != nil {
		s.LogError(ctx, err, "Failed to list platforms")
		return nil, 0, fmt.Errorf("failed to list platforms: %w", err)
	}
	return platforms, total, nil
}

func (s *platformService) UpdatePlatform(ctx context.Context, platformID string, req dto.UpdatePlatformRequest, userID string) (*domain.Platform, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, validationErrorf("nom must not be empty")
	}
	if req.PointConversionRate != nil && !req.PointConversionRate.IsPositive() {
		return nil, validationErrorf("point_conversion_rate must be greater than 0")
	}
	if err := checkScale("point_conversion_rate", req.PointConversionRate, 4); err != nil {
		return nil, err
	}

	var updated *domain.Platform
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		platform, err := repos.PlatformRepo.FindPlatformByIDForUpdate(ctx, platformID)
		if err != nil {
			return err
		}
		if req.Name != nil {
			platform.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			platform.Description = *req.Description
		}
		if req.BalanceUnit != nil {
			platform.BalanceUnit = strings.TrimSpace(*req.BalanceUnit)
			if platform.BalanceUnit == "" {
				platform.BalanceUnit = domain.DefaultBalanceUnit(platform.BalanceType)
			}
		}
		if req.PointConversionRate != nil {
			platform.PointConversionRate = req.PointConversionRate
		}
		if req.IsActive != nil {
			platform.IsActive = *req.IsActive
		}
		platform.Touch(userID, s.Now())

		if err := repos.PlatformRepo.UpdatePlatform(ctx, *platform); err != nil {
			return err
		}
		updated = platform
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update platform", slog.String("platform_id", platformID))
		return nil, err
	}

	s.LogInfo(ctx, "Platform updated", slog.String("platform_id", platformID))
	return updated, nil
}

func (s *platformService) DeletePlatform(ctx context.Context, platformID string) error {
	err := s.txm.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.PlatformRepo.FindPlatformByIDForUpdate(ctx, platformID); err != nil {
			return err
		}
		products, recharges, err := repos.PlatformRepo.CountPlatformDependents(ctx, platformID)
		if err != nil {
			return err
		}
		if products > 0 || recharges > 0 {
			return fmt.Errorf("%w: platform is referenced by %d products and %d recharges", apperrors.ErrConflict, products, recharges)
		}
		return repos.PlatformRepo.DeletePlatform(ctx, platformID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete platform", slog.String("platform_id", platformID))
		return err
	}

	s.LogInfo(ctx, "Platform deleted", slog.String("platform_id", platformID))
	return nil
}
