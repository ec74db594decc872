package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
)

type clientRepo struct {
	v view
}

var _ portsrepo.ClientRepositoryFacade = (*clientRepo)(nil)

func (r *clientRepo) phoneTaken(phone, exceptID string) bool {
	if phone == "" {
		return false
	}
	for _, c := range r.v.st().clients {
		if c.Phone == phone && c.ClientID != exceptID {
			return true
		}
	}
	return false
}

func (r *clientRepo) FindClientByID(_ context.Context, clientID string) (*domain.Client, error) {
	defer r.v.lock()()
	c, ok := r.v.st().clients[clientID]
	if !ok {
		return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	return &c, nil
}

func (r *clientRepo) ListClients(_ context.Context, filter portsrepo.ClientFilter) ([]domain.Client, int, error) {
	defer r.v.lock()()
	needle := strings.ToLower(filter.Search)
	var out []domain.Client
	for c := range maps.Values(r.v.st().clients) {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.LastName), needle) &&
			!strings.Contains(strings.ToLower(c.FirstName), needle) &&
			!strings.Contains(strings.ToLower(c.Phone), needle) {
			continue
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b domain.Client) int {
		return cmp.Or(cmp.Compare(a.LastName, b.LastName), cmp.Compare(a.FirstName, b.FirstName), cmp.Compare(a.ClientID, b.ClientID))
	})
	return paginate(out, filter.Page), len(out), nil
}

func (r *clientRepo) SaveClient(_ context.Context, c domain.Client) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, exists := st.clients[c.ClientID]; exists || r.phoneTaken(c.Phone, c.ClientID) {
		return fmt.Errorf("%w: client with phone %s", apperrors.ErrDuplicate, c.Phone)
	}
	st.clients[c.ClientID] = c
	return nil
}

func (r *clientRepo) UpdateClient(_ context.Context, c domain.Client) error {
	defer r.v.lock()()
	st := r.v.st()
	cur, ok := st.clients[c.ClientID]
	if !ok {
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, c.ClientID)
	}
	if r.phoneTaken(c.Phone, c.ClientID) {
		return fmt.Errorf("%w: client with phone %s", apperrors.ErrDuplicate, c.Phone)
	}
	c.CreatedAt, c.CreatedBy = cur.CreatedAt, cur.CreatedBy
	st.clients[c.ClientID] = c
	return nil
}

func (r *clientRepo) DeleteClient(_ context.Context, clientID string) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, ok := st.clients[clientID]; !ok {
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	for _, s := range st.sales {
		if s.ClientID == clientID {
			return fmt.Errorf("%w: client %s is still referenced", apperrors.ErrConflict, clientID)
		}
	}
	delete(st.clients, clientID)
	return nil
}

func (r *clientRepo) CountClientSales(_ context.Context, clientID string) (int, error) {
	defer r.v.lock()()
	n := 0
	for _, s := range r.v.st().sales {
		if s.ClientID == clientID {
			n++
		}
	}
	return n, nil
}
