// Package memory implements the repository ports on in-process maps.
// Transactions are serialized by a single mutex and roll back by restoring a snapshot.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
)

type state struct {
	platforms map[string]domain.Platform
	products  map[string]domain.Product
	clients   map[string]domain.Client
	recharges map[string]domain.Recharge
	sales     map[string]domain.Sale
	ledger    []domain.LedgerEntry
}

func newState() state {
	return state{
		platforms: map[string]domain.Platform{},
		products:  map[string]domain.Product{},
		clients:   map[string]domain.Client{},
		recharges: map[string]domain.Recharge{},
		sales:     map[string]domain.Sale{},
	}
}

func (s state) clone() state {
	return state{
		platforms: maps.Clone(s.platforms),
		products:  maps.Clone(s.products),
		clients:   maps.Clone(s.clients),
		recharges: maps.Clone(s.recharges),
		sales:     maps.Clone(s.sales),
		ledger:    slices.Clone(s.ledger),
	}
}

// Store holds every table.
type Store struct {
	mu sync.Mutex
	st state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// view is the handle repositories operate through. Inside a transaction the
// store mutex is already held, so operations must not lock again.
type view struct {
	store *Store
	inTx  bool
}

func (v view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.store.mu.Lock()
	return v.store.mu.Unlock
}

func (v view) st() *state {
	return &v.store.st
}

func providerFor(v view) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PlatformRepo: &platformRepo{v},
		ProductRepo:  &productRepo{v},
		ClientRepo:   &clientRepo{v},
		RechargeRepo: &rechargeRepo{v},
		SaleRepo:     &saleRepo{v},
		LedgerRepo:   &ledgerRepo{v},
	}
}

// Repositories returns repositories that lock the store per call.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return providerFor(view{store: s})
}

// RunInTx runs fn with exclusive access to the store. If fn fails or panics, every write it made is discarded.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositoryProvider) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	committed := false
	defer func() {
		if !committed {
			s.st = snapshot
		}
	}()

	if err = fn(ctx, providerFor(view{store: s, inTx: true})); err != nil {
		return err
	}
	committed = true
	return nil
}

func paginate[T any](items []T, page portsrepo.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}
