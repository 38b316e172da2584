package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parishtools/flock/internal/membership/domain"
)

func TestResolveProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &ProfileService{Store: s}

	seedProfile(t, s, "leader", domain.RoleLeader)

	t.Run("capabilities follow the hierarchy", func(t *testing.T) {
		got, err := svc.ResolveProfile(ctx, "leader")
		require.NoError(t, err)
		require.Equal(t, domain.RoleLeader, got.Profile.Role)
		require.True(t, got.Capabilities.IsCoLeader)
		require.True(t, got.Capabilities.IsLeader)
		require.False(t, got.Capabilities.IsPastor)
		require.False(t, got.Capabilities.IsAdmin)
	})

	t.Run("unknown identity", func(t *testing.T) {
		_, err := svc.ResolveProfile(ctx, "nobody")
		require.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestCompleteRegistration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &ProfileService{Store: s}

	t.Run("creates a fresh profile", func(t *testing.T) {
		p, err := svc.CompleteRegistration(ctx, "m-1", "m1@example.org", "Member One", domain.RoleCoLeader, "worship")
		require.NoError(t, err)
		require.True(t, p.Active)
		require.Equal(t, "worship", p.Group)
		require.Equal(t, domain.RoleCoLeader, p.Role)
	})

	t.Run("re-registration promotes in place", func(t *testing.T) {
		p, err := svc.CompleteRegistration(ctx, "m-1", "m1@example.org", "Member One", domain.RoleLeader, "")
		require.NoError(t, err)
		require.Equal(t, domain.RoleLeader, p.Role)
		require.Equal(t, "worship", p.Group, "empty group must not clobber the existing one")

		got, err := svc.ResolveProfile(ctx, "m-1")
		require.NoError(t, err)
		require.Equal(t, domain.RoleLeader, got.Profile.Role)
	})

	t.Run("reactivates a deactivated profile", func(t *testing.T) {
		require.NoError(t, s.Profiles().SetProfileActive(ctx, "m-1", false))

		p, err := svc.CompleteRegistration(ctx, "m-1", "m1@example.org", "Member One", domain.RoleCoLeader, "")
		require.NoError(t, err)
		require.True(t, p.Active)

		stored, err := s.Profiles().GetProfileByID(ctx, "m-1")
		require.NoError(t, err)
		require.True(t, stored.Active, "stored row must match what the service returned")
		require.Equal(t, domain.RoleCoLeader, stored.Role)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := svc.CompleteRegistration(ctx, "m-2", "m2@example.org", "Member Two", domain.Role("elder"), "")
		require.ErrorIs(t, err, domain.ErrInvalidRole)
	})
}

func TestDeactivateProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &ProfileService{Store: s}

	admin := seedProfile(t, s, "admin", domain.RoleAdmin)
	pastor := seedProfile(t, s, "pastor", domain.RolePastor)
	member := seedProfile(t, s, "member", domain.RoleCoLeader)

	t.Run("non-admin cannot deactivate", func(t *testing.T) {
		require.ErrorIs(t, svc.DeactivateProfile(ctx, pastor, member.ID), ErrInsufficientPrivilege)
	})

	t.Run("admin deactivates and capabilities survive", func(t *testing.T) {
		require.NoError(t, svc.DeactivateProfile(ctx, admin, member.ID))

		got, err := svc.ResolveProfile(ctx, member.ID)
		require.NoError(t, err)
		require.False(t, got.Profile.Active)
		require.Equal(t, domain.RoleCoLeader, got.Profile.Role, "deactivation must not strip the role")
	})

	t.Run("deactivated admin loses the ability", func(t *testing.T) {
		inactive := admin
		inactive.Active = false
		require.ErrorIs(t, svc.DeactivateProfile(ctx, inactive, pastor.ID), ErrInsufficientPrivilege)
	})

	t.Run("missing profile", func(t *testing.T) {
		require.ErrorIs(t, svc.DeactivateProfile(ctx, admin, "missing"), ErrProfileNotFound)
	})
}

func TestListProfiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &ProfileService{Store: s}

	leader := seedProfile(t, s, "leader", domain.RoleLeader)
	coLeader := seedProfile(t, s, "co-leader", domain.RoleCoLeader)

	got, err := svc.ListProfiles(ctx, leader)
	require.NoError(t, err)
	require.Len(t, got, 2)

	_, err = svc.ListProfiles(ctx, coLeader)
	require.ErrorIs(t, err, ErrInsufficientPrivilege)
}
