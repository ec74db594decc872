package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
)

type ledgerRepo struct {
	v view
}

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepo)(nil)

func (r *ledgerRepo) AppendEntry(_ context.Context, e domain.LedgerEntry) error {
	defer r.v.lock()()
	st := r.v.st()
	st.ledger = append(st.ledger, e)
	return nil
}

// ListEntries returns newest first; entries appended later win ties on CreatedAt.
func (r *ledgerRepo) ListEntries(_ context.Context, platformID string, page portsrepo.Page) ([]domain.LedgerEntry, int, error) {
	defer r.v.lock()()
	type indexed struct {
		i int
		e domain.LedgerEntry
	}
	var matched []indexed
	for i, e := range r.v.st().ledger {
		if e.PlatformID == platformID {
			matched = append(matched, indexed{i, e})
		}
	}
	slices.SortFunc(matched, func(a, b indexed) int {
		return cmp.Or(b.e.CreatedAt.Compare(a.e.CreatedAt), cmp.Compare(b.i, a.i))
	})
	out := make([]domain.LedgerEntry, len(matched))
	for i, m := range matched {
		out[i] = m.e
	}
	return paginate(out, page), len(out), nil
}
