package services

import (
	"context"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
)

// RechargeReaderSvc defines read operations for recharge data
type RechargeReaderSvc interface {
	GetRechargeByID(ctx context.Context, rechargeID string) (*domain.Recharge, error)
	ListRecharges(ctx context.Context, params dto.ListRechargesParams) ([]domain.Recharge, int, error)
}

// RechargeWriterSvc defines write operations for recharge data.
// Every write keeps the platform balance equal to the sum of its paid recharges.
type RechargeWriterSvc interface {
	CreateRecharge(ctx context.Context, req dto.CreateRechargeRequest, userID string) (*domain.Recharge, error)
	UpdateRecharge(ctx context.Context, rechargeID string, req dto.UpdateRechargeRequest, userID string) (*domain.Recharge, error)
	DeleteRecharge(ctx context.Context, rechargeID string, userID string) error
}

// RechargeSvcFacade combines all recharge-related service interfaces
type RechargeSvcFacade interface {
	RechargeReaderSvc
	RechargeWriterSvc
}
