package services

import (
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/platform/config"
	"github.com/SscSPs/iptv_reseller_app/internal/platform/metrics"
)

// NewServiceContainer wires every service against one transaction manager and repository set.
func NewServiceContainer(cfg *config.Config, txm portsrepo.TransactionManager, repos portsrepo.RepositoryProvider, m *metrics.Metrics) *portssvc.ServiceContainer {
	opts := []ServiceOption{WithMetrics(m)}

	ledger := NewLedgerService(txm, repos, cfg.LedgerStrictPoints, opts...)

	return &portssvc.ServiceContainer{
		Auth: NewAuthService(AuthConfig{
			Username:     cfg.AdminUsername,
			PasswordHash: cfg.AdminPasswordHash,
			JWTSecret:    cfg.JWTSecret,
			JWTExpiry:    cfg.JWTExpiryDuration,
			JWTIssuer:    cfg.JWTIssuer,
		}, opts...),
		Ledger:   ledger,
		Platform: NewPlatformService(txm, repos, opts...),
		Product:  NewProductService(txm, repos, opts...),
		Client:   NewClientService(txm, repos, opts...),
		Recharge: NewRechargeService(txm, repos, ledger, opts...),
		Sale:     NewSaleService(txm, repos, ledger, cfg.SaleReverseOnDelete, opts...),
	}
}
