package pgsql

import (
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider returns repositories running directly on the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return newProvider(dbPool)
}

func newProvider(db DBTX) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PlatformRepo: newPgxPlatformRepository(db),
		ProductRepo:  newPgxProductRepository(db),
		ClientRepo:   newPgxClientRepository(db),
		RechargeRepo: newPgxRechargeRepository(db),
		SaleRepo:     newPgxSaleRepository(db),
		LedgerRepo:   newPgxLedgerRepository(db),
	}
}
