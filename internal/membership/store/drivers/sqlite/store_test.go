package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/parishtools/flock/internal/membership/domain"
	"github.com/parishtools/flock/internal/membership/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "membership.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedProfile(t *testing.T, s *Store, id string, role domain.Role) domain.Profile {
	t.Helper()

	now := time.Now().UTC()
	p := domain.Profile{
		ID:          id,
		Email:       id + "@example.org",
		DisplayName: id,
		Role:        role,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.Profiles().CreateProfile(context.Background(), p))
	return p
}

func TestInvitationRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	issuer := seedProfile(t, s, "pastor-1", domain.RolePastor)

	now := time.Now().UTC().Truncate(time.Second)
	inv := domain.Invitation{
		ID:        "inv-1",
		TokenHash: "fingerprint-1",
		Role:      domain.RoleCoLeader,
		CreatedBy: issuer.ID,
		ExpiresAt: now.Add(48 * time.Hour),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Invitations().CreateInvitation(ctx, inv))

	got, err := s.Invitations().GetInvitationByTokenHash(ctx, "fingerprint-1")
	require.NoError(t, err)
	require.Equal(t, inv.ID, got.ID)
	require.Equal(t, domain.RoleCoLeader, got.Role)
	require.Equal(t, issuer.ID, got.CreatedBy)
	require.True(t, got.Active)
	require.False(t, got.Used())
	require.True(t, got.ExpiresAt.Equal(inv.ExpiresAt), "expires_at should survive the round trip in UTC")

	_, err = s.Invitations().GetInvitationByTokenHash(ctx, "no-such-fingerprint")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateInvitationDuplicateFingerprint(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	issuer := seedProfile(t, s, "admin-1", domain.RoleAdmin)

	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:        "inv-a",
		TokenHash: "same-fingerprint",
		Role:      domain.RoleLeader,
		CreatedBy: issuer.ID,
		ExpiresAt: now.Add(time.Hour),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Invitations().CreateInvitation(ctx, inv))

	dup := inv
	dup.ID = "inv-b"
	require.ErrorIs(t, s.Invitations().CreateInvitation(ctx, dup), store.ErrAlreadyExists)
}

func TestMarkInvitationUsedExactlyOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	issuer := seedProfile(t, s, "admin-2", domain.RoleAdmin)

	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:        "inv-race",
		TokenHash: "race-fingerprint",
		Role:      domain.RoleCoLeader,
		CreatedBy: issuer.ID,
		ExpiresAt: now.Add(time.Hour),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Invitations().CreateInvitation(ctx, inv))

	const attempts = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := range attempts {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := s.Invitations().MarkInvitationUsed(ctx, inv.ID, "identity-"+string(rune('a'+n)), time.Now().UTC())

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case err == store.ErrAlreadyUsed:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, successes, "exactly one redemption must win")
	require.Equal(t, attempts-1, conflicts)

	got, err := s.Invitations().GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	require.True(t, got.Used())
	require.NotNil(t, got.UsedAt)
}

func TestSetInvitationActive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	issuer := seedProfile(t, s, "admin-3", domain.RoleAdmin)

	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:        "inv-rev",
		TokenHash: "rev-fingerprint",
		Role:      domain.RoleLeader,
		CreatedBy: issuer.ID,
		ExpiresAt: now.Add(time.Hour),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Invitations().CreateInvitation(ctx, inv))

	require.NoError(t, s.Invitations().SetInvitationActive(ctx, inv.ID, false))

	got, err := s.Invitations().GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	require.False(t, got.Active)

	require.ErrorIs(t, s.Invitations().SetInvitationActive(ctx, "missing", false), store.ErrNotFound)
}

func TestProfilesRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	empty, err := s.Profiles().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	p := seedProfile(t, s, "leader-1", domain.RoleLeader)

	empty, err = s.Profiles().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)

	t.Run("duplicate id rejected", func(t *testing.T) {
		dup := p
		dup.Email = "other@example.org"
		require.ErrorIs(t, s.Profiles().CreateProfile(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := p
		dup.ID = "leader-2"
		require.ErrorIs(t, s.Profiles().CreateProfile(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("lookup by email", func(t *testing.T) {
		got, err := s.Profiles().GetProfileByEmail(ctx, p.Email)
		require.NoError(t, err)
		require.Equal(t, p.ID, got.ID)
	})

	t.Run("update mutates fields and keeps id", func(t *testing.T) {
		p.DisplayName = "Renamed Leader"
		p.Group = "youth"
		p.Role = domain.RolePastor
		require.NoError(t, s.Profiles().UpdateProfile(ctx, p))

		got, err := s.Profiles().GetProfileByID(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, "Renamed Leader", got.DisplayName)
		require.Equal(t, "youth", got.Group)
		require.Equal(t, domain.RolePastor, got.Role)
	})

	t.Run("deactivate keeps the row", func(t *testing.T) {
		require.NoError(t, s.Profiles().SetProfileActive(ctx, p.ID, false))

		got, err := s.Profiles().GetProfileByID(ctx, p.ID)
		require.NoError(t, err)
		require.False(t, got.Active)
	})

	t.Run("missing profile maps to not found", func(t *testing.T) {
		_, err := s.Profiles().GetProfileByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()
		p := domain.Profile{
			ID: "tx-profile", Email: "tx@example.org", DisplayName: "Tx",
			Role: domain.RoleCoLeader, Active: true, CreatedAt: now, UpdatedAt: now,
		}
		if err := tx.Profiles().CreateProfile(ctx, p); err != nil {
			return err
		}
		return context.Canceled // force rollback
	})
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.Profiles().GetProfileByID(ctx, "tx-profile")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteInvitationsExpiredBefore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	issuer := seedProfile(t, s, "admin-4", domain.RoleAdmin)

	now := time.Now().UTC()
	old := domain.Invitation{
		ID: "inv-old", TokenHash: "old-fp", Role: domain.RoleCoLeader,
		CreatedBy: issuer.ID, ExpiresAt: now.Add(-100 * 24 * time.Hour),
		Active: true, CreatedAt: now, UpdatedAt: now,
	}
	fresh := domain.Invitation{
		ID: "inv-fresh", TokenHash: "fresh-fp", Role: domain.RoleCoLeader,
		CreatedBy: issuer.ID, ExpiresAt: now.Add(time.Hour),
		Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Invitations().CreateInvitation(ctx, old))
	require.NoError(t, s.Invitations().CreateInvitation(ctx, fresh))

	deleted, err := s.Invitations().DeleteInvitationsExpiredBefore(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	_, err = s.Invitations().GetInvitationByID(ctx, "inv-old")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Invitations().GetInvitationByID(ctx, "inv-fresh")
	require.NoError(t, err)
}
