package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type platformRepo struct {
	v view
}

var _ portsrepo.PlatformRepositoryFacade = (*platformRepo)(nil)

func (r *platformRepo) get(platformID string) (domain.Platform, error) {
	p, ok := r.v.st().platforms[platformID]
	if !ok {
		return domain.Platform{}, fmt.Errorf("%w: platform %s", apperrors.ErrNotFound, platformID)
	}
	return p, nil
}

func (r *platformRepo) FindPlatformByID(_ context.Context, platformID string) (*domain.Platform, error) {
	defer r.v.lock()()
	p, err := r.get(platformID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *platformRepo) FindPlatformByIDForUpdate(ctx context.Context, platformID string) (*domain.Platform, error) {
	return r.FindPlatformByID(ctx, platformID)
}

func (r *platformRepo) ListPlatforms(_ context.Context, page portsrepo.Page) ([]domain.Platform, int, error) {
	defer r.v.lock()()
	all := slices.Collect(maps.Values(r.v.st().platforms))
	slices.SortFunc(all, func(a, b domain.Platform) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.PlatformID, b.PlatformID))
	})
	return paginate(all, page), len(all), nil
}

func (r *platformRepo) SavePlatform(_ context.Context, p domain.Platform) error {
	defer r.v.lock()()
	if _, exists := r.v.st().platforms[p.PlatformID]; exists {
		return fmt.Errorf("%w: platform %s", apperrors.ErrDuplicate, p.PlatformID)
	}
	r.v.st().platforms[p.PlatformID] = p
	return nil
}

func (r *platformRepo) UpdatePlatform(_ context.Context, p domain.Platform) error {
	defer r.v.lock()()
	cur, err := r.get(p.PlatformID)
	if err != nil {
		return err
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.BalanceUnit = p.BalanceUnit
	cur.PointConversionRate = p.PointConversionRate
	cur.IsActive = p.IsActive
	cur.LastUpdatedAt = p.LastUpdatedAt
	cur.LastUpdatedBy = p.LastUpdatedBy
	r.v.st().platforms[p.PlatformID] = cur
	return nil
}

func (r *platformRepo) DeletePlatform(_ context.Context, platformID string) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, err := r.get(platformID); err != nil {
		return err
	}
	for _, p := range st.products {
		if p.PlatformID == platformID {
			return fmt.Errorf("%w: platform %s is still referenced", apperrors.ErrConflict, platformID)
		}
	}
	for _, rc := range st.recharges {
		if rc.PlatformID == platformID {
			return fmt.Errorf("%w: platform %s is still referenced", apperrors.ErrConflict, platformID)
		}
	}
	for _, s := range st.sales {
		if s.PlatformID == platformID {
			return fmt.Errorf("%w: platform %s is still referenced", apperrors.ErrConflict, platformID)
		}
	}
	delete(st.platforms, platformID)
	st.ledger = slices.DeleteFunc(st.ledger, func(e domain.LedgerEntry) bool { return e.PlatformID == platformID })
	return nil
}

func (r *platformRepo) CountPlatformDependents(_ context.Context, platformID string) (int, int, error) {
	defer r.v.lock()()
	var products, recharges int
	for _, p := range r.v.st().products {
		if p.PlatformID == platformID {
			products++
		}
	}
	for _, rc := range r.v.st().recharges {
		if rc.PlatformID == platformID {
			recharges++
		}
	}
	return products, recharges, nil
}

func (r *platformRepo) AdjustBalance(_ context.Context, platformID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	defer r.v.lock()()
	p, err := r.get(platformID)
	if err != nil {
		return decimal.Zero, err
	}
	p.Balance = p.Balance.Add(delta)
	p.Touch(userID, now)
	r.v.st().platforms[platformID] = p
	return p.Balance, nil
}

func (r *platformRepo) DebitBalanceIfSufficient(_ context.Context, platformID string, amount decimal.Decimal, userID string, now time.Time) (decimal.Decimal, bool, error) {
	defer r.v.lock()()
	p, ok := r.v.st().platforms[platformID]
	if !ok || p.Balance.LessThan(amount) {
		return decimal.Zero, false, nil
	}
	p.Balance = p.Balance.Sub(amount)
	p.Touch(userID, now)
	r.v.st().platforms[platformID] = p
	return p.Balance, true, nil
}

func (r *platformRepo) SetBalance(_ context.Context, platformID string, balance decimal.Decimal, userID string, now time.Time) error {
	defer r.v.lock()()
	p, err := r.get(platformID)
	if err != nil {
		return err
	}
	p.Balance = balance
	p.Touch(userID, now)
	r.v.st().platforms[platformID] = p
	return nil
}

func (r *platformRepo) HistoryTotals(_ context.Context, platformID string) (domain.HistoryTotals, error) {
	defer r.v.lock()()
	st := r.v.st()
	totals := domain.HistoryTotals{PaidRecharges: decimal.Zero, SaleCosts: decimal.Zero, LedgerDeltas: decimal.Zero}
	for _, rc := range st.recharges {
		if rc.PlatformID == platformID && rc.Status == domain.RechargePaid {
			totals.PaidRecharges = totals.PaidRecharges.Add(rc.Amount)
		}
	}
	for _, e := range st.ledger {
		if e.PlatformID != platformID {
			continue
		}
		totals.LedgerDeltas = totals.LedgerDeltas.Add(e.Delta)
		if e.SourceType == domain.SourceSale || e.SourceType == domain.SourceSaleReversal {
			totals.SaleCosts = totals.SaleCosts.Sub(e.Delta)
		}
	}
	return totals, nil
}
