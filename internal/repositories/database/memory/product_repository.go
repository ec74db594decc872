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
)

type productRepo struct {
	v view
}

var _ portsrepo.ProductRepositoryFacade = (*productRepo)(nil)

func (r *productRepo) get(productID string) (domain.Product, error) {
	st := r.v.st()
	p, ok := st.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
	}
	p.PlatformName = st.platforms[p.PlatformID].Name
	return p, nil
}

func (r *productRepo) FindProductByID(_ context.Context, productID string) (*domain.Product, error) {
	defer r.v.lock()()
	p, err := r.get(productID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindProductByIDForUpdate(ctx context.Context, productID string) (*domain.Product, error) {
	return r.FindProductByID(ctx, productID)
}

func (r *productRepo) ListProducts(_ context.Context, filter portsrepo.ProductFilter) ([]domain.Product, int, error) {
	defer r.v.lock()()
	var out []domain.Product
	for id := range maps.Keys(r.v.st().products) {
		p, _ := r.get(id)
		if filter.PlatformID != "" && p.PlatformID != filter.PlatformID {
			continue
		}
		if filter.LowStock && !p.IsLowStock() {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ProductID, b.ProductID))
	})
	return paginate(out, filter.Page), len(out), nil
}

func (r *productRepo) SaveProduct(_ context.Context, p domain.Product) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, exists := st.products[p.ProductID]; exists {
		return fmt.Errorf("%w: product %s", apperrors.ErrDuplicate, p.ProductID)
	}
	if _, ok := st.platforms[p.PlatformID]; !ok {
		return fmt.Errorf("%w: product %s references a missing platform", apperrors.ErrConflict, p.ProductID)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: product %s has negative stock", apperrors.ErrValidation, p.ProductID)
	}
	p.PlatformName = ""
	st.products[p.ProductID] = p
	return nil
}

func (r *productRepo) UpdateProduct(_ context.Context, p domain.Product) error {
	defer r.v.lock()()
	st := r.v.st()
	cur, ok := st.products[p.ProductID]
	if !ok {
		return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, p.ProductID)
	}
	cur.Name = p.Name
	cur.Category = p.Category
	cur.AlertThreshold = p.AlertThreshold
	cur.AvgPurchaseCost = p.AvgPurchaseCost
	cur.MarginPercent = p.MarginPercent
	cur.SalePrice = p.SalePrice
	cur.CostType = p.CostType
	cur.DefaultCost = p.DefaultCost
	cur.LastUpdatedAt = p.LastUpdatedAt
	cur.LastUpdatedBy = p.LastUpdatedBy
	st.products[p.ProductID] = cur
	return nil
}

func (r *productRepo) DeleteProduct(_ context.Context, productID string) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, ok := st.products[productID]; !ok {
		return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
	}
	for _, s := range st.sales {
		if s.ProductID == productID {
			return fmt.Errorf("%w: product %s is still referenced", apperrors.ErrConflict, productID)
		}
	}
	delete(st.products, productID)
	return nil
}

func (r *productRepo) CountProductSales(_ context.Context, productID string) (int, error) {
	defer r.v.lock()()
	n := 0
	for _, s := range r.v.st().sales {
		if s.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *productRepo) DecrementStockIfAvailable(_ context.Context, productID string, qty int, userID string, now time.Time) (int, bool, error) {
	defer r.v.lock()()
	st := r.v.st()
	p, ok := st.products[productID]
	if !ok || p.Stock < qty {
		return 0, false, nil
	}
	p.Stock -= qty
	p.Touch(userID, now)
	st.products[productID] = p
	return p.Stock, true, nil
}

func (r *productRepo) IncrementStock(_ context.Context, productID string, qty int, userID string, now time.Time) error {
	defer r.v.lock()()
	st := r.v.st()
	p, ok := st.products[productID]
	if !ok {
		return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
	}
	p.Stock += qty
	p.Touch(userID, now)
	st.products[productID] = p
	return nil
}
