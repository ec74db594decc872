package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPlatform(t *testing.T, s *Store, id string, balance int64) {
	t.Helper()
	now := time.Now()
	err := s.Repositories().PlatformRepo.SavePlatform(context.Background(), domain.Platform{
		PlatformID:     id,
		Name:           "Panel " + id,
		InitialBalance: decimal.NewFromInt(balance),
		Balance:        decimal.NewFromInt(balance),
		BalanceType:    domain.BalanceCurrency,
		BalanceUnit:    "DZD",
		IsActive:       true,
		AuditFields:    domain.NewAuditFields("tester", now),
	})
	require.NoError(t, err)
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedPlatform(t, s, "p1", 100)

	boom := errors.New("boom")
	err := s.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		_, err := repos.PlatformRepo.AdjustBalance(ctx, "p1", decimal.NewFromInt(50), "tester", time.Now())
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := s.Repositories().PlatformRepo.FindPlatformByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.Balance.Equal(decimal.NewFromInt(100)), "balance restored, got %s", p.Balance)
}

func TestRunInTx_Commit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedPlatform(t, s, "p1", 100)

	err := s.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		_, err := repos.PlatformRepo.AdjustBalance(ctx, "p1", decimal.NewFromInt(-30), "tester", time.Now())
		return err
	})
	require.NoError(t, err)

	p, err := s.Repositories().PlatformRepo.FindPlatformByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "70", p.Balance.String())
}

func TestDebitBalanceIfSufficient(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedPlatform(t, s, "p1", 100)
	repo := s.Repositories().PlatformRepo

	after, ok, err := repo.DebitBalanceIfSufficient(ctx, "p1", decimal.NewFromInt(100), "tester", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, after.IsZero())

	_, ok, err = repo.DebitBalanceIfSufficient(ctx, "p1", decimal.NewFromInt(1), "tester", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = repo.DebitBalanceIfSufficient(ctx, "missing", decimal.NewFromInt(1), "tester", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClientDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Repositories().ClientRepo

	require.NoError(t, repo.SaveClient(ctx, domain.Client{ClientID: "c1", LastName: "A", Phone: "0555"}))
	err := repo.SaveClient(ctx, domain.Client{ClientID: "c2", LastName: "B", Phone: "0555"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	require.NoError(t, repo.SaveClient(ctx, domain.Client{ClientID: "c3", LastName: "C"}))
	require.NoError(t, repo.SaveClient(ctx, domain.Client{ClientID: "c4", LastName: "D"}), "empty phones never collide")
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, paginate(items, portsrepo.Page{Limit: 2, Offset: 2}))
	assert.Equal(t, []int{5}, paginate(items, portsrepo.Page{Limit: 2, Offset: 4}))
	assert.Empty(t, paginate(items, portsrepo.Page{Limit: 2, Offset: 10}))
	assert.Equal(t, items, paginate(items, portsrepo.Page{}))
}
