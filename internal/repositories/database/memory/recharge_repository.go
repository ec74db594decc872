package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
)

type rechargeRepo struct {
	v view
}

var _ portsrepo.RechargeRepositoryFacade = (*rechargeRepo)(nil)

func (r *rechargeRepo) withName(rc domain.Recharge) domain.Recharge {
	rc.PlatformName = r.v.st().platforms[rc.PlatformID].Name
	return rc
}

func (r *rechargeRepo) FindRechargeByID(_ context.Context, rechargeID string) (*domain.Recharge, error) {
	defer r.v.lock()()
	rc, ok := r.v.st().recharges[rechargeID]
	if !ok {
		return nil, fmt.Errorf("%w: recharge %s", apperrors.ErrNotFound, rechargeID)
	}
	rc = r.withName(rc)
	return &rc, nil
}

func (r *rechargeRepo) FindRechargeByIDForUpdate(ctx context.Context, rechargeID string) (*domain.Recharge, error) {
	return r.FindRechargeByID(ctx, rechargeID)
}

func (r *rechargeRepo) ListRecharges(_ context.Context, filter portsrepo.RechargeFilter) ([]domain.Recharge, int, error) {
	defer r.v.lock()()
	var out []domain.Recharge
	for rc := range maps.Values(r.v.st().recharges) {
		if filter.PlatformID != "" && rc.PlatformID != filter.PlatformID {
			continue
		}
		if filter.Status != "" && rc.Status != filter.Status {
			continue
		}
		out = append(out, r.withName(rc))
	}
	slices.SortFunc(out, func(a, b domain.Recharge) int {
		return cmp.Or(b.Date.Compare(a.Date), b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.RechargeID, b.RechargeID))
	})
	return paginate(out, filter.Page), len(out), nil
}

func (r *rechargeRepo) SaveRecharge(_ context.Context, rc domain.Recharge) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, exists := st.recharges[rc.RechargeID]; exists {
		return fmt.Errorf("%w: recharge %s", apperrors.ErrDuplicate, rc.RechargeID)
	}
	if _, ok := st.platforms[rc.PlatformID]; !ok {
		return fmt.Errorf("%w: recharge %s references a missing platform", apperrors.ErrConflict, rc.RechargeID)
	}
	rc.PlatformName = ""
	st.recharges[rc.RechargeID] = rc
	return nil
}

func (r *rechargeRepo) UpdateRecharge(_ context.Context, rc domain.Recharge) error {
	defer r.v.lock()()
	st := r.v.st()
	cur, ok := st.recharges[rc.RechargeID]
	if !ok {
		return fmt.Errorf("%w: recharge %s", apperrors.ErrNotFound, rc.RechargeID)
	}
	cur.Amount = rc.Amount
	cur.Status = rc.Status
	cur.Date = rc.Date
	cur.Proof = rc.Proof
	cur.Notes = rc.Notes
	cur.LastUpdatedAt = rc.LastUpdatedAt
	cur.LastUpdatedBy = rc.LastUpdatedBy
	st.recharges[rc.RechargeID] = cur
	return nil
}

func (r *rechargeRepo) DeleteRecharge(_ context.Context, rechargeID string) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, ok := st.recharges[rechargeID]; !ok {
		return fmt.Errorf("%w: recharge %s", apperrors.ErrNotFound, rechargeID)
	}
	delete(st.recharges, rechargeID)
	return nil
}
