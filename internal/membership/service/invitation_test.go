package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parishtools/flock/internal/membership/domain"
)

func TestIssueInvitation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &InvitationService{Store: s}

	admin := seedProfile(t, s, "admin", domain.RoleAdmin)
	pastor := seedProfile(t, s, "pastor", domain.RolePastor)
	coLeader := seedProfile(t, s, "co-leader", domain.RoleCoLeader)

	t.Run("pastor can invite a co_leader", func(t *testing.T) {
		inv, token, err := svc.IssueInvitation(ctx, pastor, domain.RoleCoLeader, 48*time.Hour)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, domain.RoleCoLeader, inv.Role)
		require.Equal(t, pastor.ID, inv.CreatedBy)
		require.True(t, inv.Active)
		require.NotEqual(t, token, inv.TokenHash, "the raw token must never be stored")

		got, err := s.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, inv.TokenHash, got.TokenHash)
	})

	t.Run("issuer cannot grant their own role", func(t *testing.T) {
		_, _, err := svc.IssueInvitation(ctx, pastor, domain.RolePastor, time.Hour)
		require.ErrorIs(t, err, ErrInsufficientPrivilege)
	})

	t.Run("issuer cannot grant a higher role", func(t *testing.T) {
		_, _, err := svc.IssueInvitation(ctx, pastor, domain.RoleAdmin, time.Hour)
		require.ErrorIs(t, err, ErrInsufficientPrivilege)
	})

	t.Run("co_leader cannot invite anyone", func(t *testing.T) {
		for _, role := range domain.Roles() {
			_, _, err := svc.IssueInvitation(ctx, coLeader, role, time.Hour)
			require.ErrorIs(t, err, ErrInsufficientPrivilege, "role %s", role)
		}
	})

	t.Run("admin can invite every lower role", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RolePastor, domain.RoleLeader, domain.RoleCoLeader} {
			_, token, err := svc.IssueInvitation(ctx, admin, role, time.Hour)
			require.NoError(t, err, "role %s", role)
			require.NotEmpty(t, token)
		}
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, _, err := svc.IssueInvitation(ctx, admin, domain.Role("bishop"), time.Hour)
		require.ErrorIs(t, err, domain.ErrInvalidRole)
	})

	t.Run("non-positive ttl rejected", func(t *testing.T) {
		_, _, err := svc.IssueInvitation(ctx, admin, domain.RoleLeader, 0)
		require.ErrorIs(t, err, ErrInvalidInvitationRequest)

		_, _, err = svc.IssueInvitation(ctx, admin, domain.RoleLeader, -time.Hour)
		require.ErrorIs(t, err, ErrInvalidInvitationRequest)
	})

	t.Run("deactivated issuer rejected", func(t *testing.T) {
		inactive := admin
		inactive.Active = false
		_, _, err := svc.IssueInvitation(ctx, inactive, domain.RoleLeader, time.Hour)
		require.ErrorIs(t, err, ErrInsufficientPrivilege)
	})
}

func TestRedeemInvitation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &InvitationService{Store: s}
	pastor := seedProfile(t, s, "pastor", domain.RolePastor)

	t.Run("valid token grants the role once", func(t *testing.T) {
		_, token, err := svc.IssueInvitation(ctx, pastor, domain.RoleCoLeader, 48*time.Hour)
		require.NoError(t, err)

		role, err := svc.RedeemInvitation(ctx, token, "identity-1")
		require.NoError(t, err)
		require.Equal(t, domain.RoleCoLeader, role)

		_, err = svc.RedeemInvitation(ctx, token, "identity-2")
		require.ErrorIs(t, err, ErrTokenAlreadyUsed)

		// Even the original redeemer cannot reuse it.
		_, err = svc.RedeemInvitation(ctx, token, "identity-1")
		require.ErrorIs(t, err, ErrTokenAlreadyUsed)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.RedeemInvitation(ctx, "definitely-not-a-token", "identity-3")
		require.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("expired token", func(t *testing.T) {
		_, token, err := svc.IssueInvitation(ctx, pastor, domain.RoleCoLeader, time.Nanosecond)
		require.NoError(t, err)

		time.Sleep(time.Millisecond)

		_, err = svc.RedeemInvitation(ctx, token, "identity-4")
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("revoked token", func(t *testing.T) {
		inv, token, err := svc.IssueInvitation(ctx, pastor, domain.RoleCoLeader, time.Hour)
		require.NoError(t, err)
		require.NoError(t, svc.RevokeInvitation(ctx, pastor, inv.ID))

		_, err = svc.RedeemInvitation(ctx, token, "identity-5")
		require.ErrorIs(t, err, ErrTokenInactive)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.RedeemInvitation(ctx, "", "identity-6")
		require.ErrorIs(t, err, ErrInvalidInvitationRequest)

		_, err = svc.RedeemInvitation(ctx, "some-token", "")
		require.ErrorIs(t, err, ErrInvalidInvitationRequest)
	})
}

func TestRedeemInvitationConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &InvitationService{Store: s}
	pastor := seedProfile(t, s, "pastor", domain.RolePastor)

	_, token, err := svc.IssueInvitation(ctx, pastor, domain.RoleCoLeader, time.Hour)
	require.NoError(t, err)

	const racers = 12

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := range racers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.RedeemInvitation(ctx, token, "racer-"+string(rune('a'+n)))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case err == ErrTokenAlreadyUsed:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, successes, "exactly one concurrent redemption must win")
	require.Equal(t, racers-1, conflicts)
}

func TestRevokeInvitation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &InvitationService{Store: s}

	admin := seedProfile(t, s, "admin", domain.RoleAdmin)
	pastor := seedProfile(t, s, "pastor", domain.RolePastor)
	other := seedProfile(t, s, "other-pastor", domain.RolePastor)

	inv, _, err := svc.IssueInvitation(ctx, pastor, domain.RoleLeader, time.Hour)
	require.NoError(t, err)

	t.Run("unrelated non-admin cannot revoke", func(t *testing.T) {
		require.ErrorIs(t, svc.RevokeInvitation(ctx, other, inv.ID), ErrInsufficientPrivilege)
	})

	t.Run("deactivated issuer cannot revoke", func(t *testing.T) {
		inactive := pastor
		inactive.Active = false
		require.ErrorIs(t, svc.RevokeInvitation(ctx, inactive, inv.ID), ErrInsufficientPrivilege)
	})

	t.Run("issuer can revoke", func(t *testing.T) {
		require.NoError(t, svc.RevokeInvitation(ctx, pastor, inv.ID))

		got, err := s.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.False(t, got.Active)
	})

	t.Run("admin can revoke anyone's invitation", func(t *testing.T) {
		inv2, _, err := svc.IssueInvitation(ctx, pastor, domain.RoleLeader, time.Hour)
		require.NoError(t, err)
		require.NoError(t, svc.RevokeInvitation(ctx, admin, inv2.ID))
	})

	t.Run("missing invitation", func(t *testing.T) {
		require.ErrorIs(t, svc.RevokeInvitation(ctx, admin, "missing"), ErrTokenNotFound)
	})
}

func TestListInvitations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &InvitationService{Store: s}

	admin := seedProfile(t, s, "admin", domain.RoleAdmin)
	pastor := seedProfile(t, s, "pastor", domain.RolePastor)

	_, _, err := svc.IssueInvitation(ctx, admin, domain.RolePastor, time.Hour)
	require.NoError(t, err)
	_, _, err = svc.IssueInvitation(ctx, pastor, domain.RoleCoLeader, time.Hour)
	require.NoError(t, err)

	adminView, err := svc.ListInvitations(ctx, admin)
	require.NoError(t, err)
	require.Len(t, adminView, 2)

	pastorView, err := svc.ListInvitations(ctx, pastor)
	require.NoError(t, err)
	require.Len(t, pastorView, 1)
	require.Equal(t, pastor.ID, pastorView[0].CreatedBy)

	inactive := pastor
	inactive.Active = false
	_, err = svc.ListInvitations(ctx, inactive)
	require.ErrorIs(t, err, ErrInsufficientPrivilege)
}

// TestInvitationLifecycle walks the full mint/redeem flow end to end: a
// pastor invites a co_leader, the invitee joins within the window, retries
// are rejected, and a token redeemed after its window would have expired.
func TestInvitationLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	invitations := &InvitationService{Store: s}
	profiles := &ProfileService{Store: s}

	pastor := seedProfile(t, s, "pastor", domain.RolePastor)

	_, token, err := invitations.IssueInvitation(ctx, pastor, domain.RoleCoLeader, 48*time.Hour)
	require.NoError(t, err)

	role, err := invitations.RedeemInvitation(ctx, token, "new-member")
	require.NoError(t, err)
	require.Equal(t, domain.RoleCoLeader, role)

	p, err := profiles.CompleteRegistration(ctx, "new-member", "new@example.org", "New Member", role, "youth")
	require.NoError(t, err)

	resolved, err := profiles.ResolveProfile(ctx, "new-member")
	require.NoError(t, err)
	require.Equal(t, p.ID, resolved.Profile.ID)
	require.True(t, resolved.Capabilities.IsCoLeader)
	require.False(t, resolved.Capabilities.IsLeader)
	require.False(t, resolved.Capabilities.IsPastor)
	require.False(t, resolved.Capabilities.IsAdmin)

	_, err = invitations.RedeemInvitation(ctx, token, "someone-else")
	require.ErrorIs(t, err, ErrTokenAlreadyUsed)
}
