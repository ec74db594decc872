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

type saleRepo struct {
	v view
}

var _ portsrepo.SaleRepositoryFacade = (*saleRepo)(nil)

func (r *saleRepo) withNames(s domain.Sale) domain.Sale {
	st := r.v.st()
	s.ClientName = st.clients[s.ClientID].FullName()
	s.ProductName = st.products[s.ProductID].Name
	s.PlatformName = st.platforms[s.PlatformID].Name
	return s
}

func (r *saleRepo) FindSaleByID(_ context.Context, saleID string) (*domain.Sale, error) {
	defer r.v.lock()()
	s, ok := r.v.st().sales[saleID]
	if !ok {
		return nil, fmt.Errorf("%w: sale %s", apperrors.ErrNotFound, saleID)
	}
	s = r.withNames(s)
	return &s, nil
}

func (r *saleRepo) matches(s domain.Sale, f portsrepo.SaleFilter) bool {
	switch {
	case f.ClientID != "" && s.ClientID != f.ClientID:
		return false
	case f.ProductID != "" && s.ProductID != f.ProductID:
		return false
	case f.PlatformID != "" && s.PlatformID != f.PlatformID:
		return false
	case f.PaymentStatus != "" && s.PaymentStatus != f.PaymentStatus:
		return false
	case f.From != nil && s.Date.Before(*f.From):
		return false
	case f.To != nil && !s.Date.Before(*f.To):
		return false
	}
	return true
}

func newestFirst(a, b domain.Sale) int {
	return cmp.Or(b.Date.Compare(a.Date), b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.SaleID, b.SaleID))
}

func (r *saleRepo) ListSales(_ context.Context, filter portsrepo.SaleFilter) ([]domain.Sale, int, error) {
	defer r.v.lock()()
	var out []domain.Sale
	for s := range maps.Values(r.v.st().sales) {
		if r.matches(s, filter) {
			out = append(out, r.withNames(s))
		}
	}
	slices.SortFunc(out, newestFirst)
	return paginate(out, filter.Page), len(out), nil
}

func (r *saleRepo) FindAllSalesForUpdate(_ context.Context) ([]domain.Sale, error) {
	defer r.v.lock()()
	out := []domain.Sale{}
	for s := range maps.Values(r.v.st().sales) {
		out = append(out, r.withNames(s))
	}
	slices.SortFunc(out, func(a, b domain.Sale) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.SaleID, b.SaleID))
	})
	return out, nil
}

func (r *saleRepo) SaveSale(_ context.Context, s domain.Sale) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, exists := st.sales[s.SaleID]; exists {
		return fmt.Errorf("%w: sale %s", apperrors.ErrDuplicate, s.SaleID)
	}
	_, hasClient := st.clients[s.ClientID]
	_, hasProduct := st.products[s.ProductID]
	_, hasPlatform := st.platforms[s.PlatformID]
	if !hasClient || !hasProduct || !hasPlatform {
		return fmt.Errorf("%w: sale %s references a missing row", apperrors.ErrConflict, s.SaleID)
	}
	if !s.SnapshotConsistent() {
		return fmt.Errorf("%w: sale %s balance snapshot is inconsistent", apperrors.ErrValidation, s.SaleID)
	}
	s.ClientName, s.ProductName, s.PlatformName = "", "", ""
	st.sales[s.SaleID] = s
	return nil
}

func (r *saleRepo) UpdateSale(_ context.Context, s domain.Sale) error {
	defer r.v.lock()()
	st := r.v.st()
	cur, ok := st.sales[s.SaleID]
	if !ok {
		return fmt.Errorf("%w: sale %s", apperrors.ErrNotFound, s.SaleID)
	}
	if _, ok := st.clients[s.ClientID]; !ok {
		return fmt.Errorf("%w: sale %s references a missing client", apperrors.ErrConflict, s.SaleID)
	}
	cur.ClientID = s.ClientID
	cur.UnitPrice = s.UnitPrice
	cur.Total = s.Total
	cur.Date = s.Date
	cur.PaymentMethod = s.PaymentMethod
	cur.PaymentStatus = s.PaymentStatus
	cur.Notes = s.Notes
	cur.LastUpdatedAt = s.LastUpdatedAt
	cur.LastUpdatedBy = s.LastUpdatedBy
	st.sales[s.SaleID] = cur
	return nil
}

func (r *saleRepo) DeleteSale(_ context.Context, saleID string) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, ok := st.sales[saleID]; !ok {
		return fmt.Errorf("%w: sale %s", apperrors.ErrNotFound, saleID)
	}
	delete(st.sales, saleID)
	return nil
}

func (r *saleRepo) DeleteAllSales(_ context.Context) (int64, error) {
	defer r.v.lock()()
	st := r.v.st()
	n := int64(len(st.sales))
	clear(st.sales)
	return n, nil
}
