package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoleAtLeast(t *testing.T) {
	t.Parallel()

	order := Roles()

	t.Run("reflexive", func(t *testing.T) {
		for _, r := range order {
			require.True(t, r.AtLeast(r), "role %s should satisfy itself", r)
		}
	})

	t.Run("consistent with hierarchy order", func(t *testing.T) {
		for i, higher := range order {
			for j, lower := range order {
				want := i <= j // Roles() lists most privileged first
				require.Equal(t, want, higher.AtLeast(lower),
					"AtLeast(%s, %s)", higher, lower)
			}
		}
	})

	t.Run("unknown roles satisfy nothing", func(t *testing.T) {
		require.False(t, Role("deacon").AtLeast(RoleCoLeader))
		require.False(t, RoleAdmin.AtLeast(Role("deacon")))
	})
}

func TestRoleAbove(t *testing.T) {
	t.Parallel()

	require.True(t, RoleAdmin.Above(RolePastor))
	require.True(t, RolePastor.Above(RoleCoLeader))
	require.False(t, RoleLeader.Above(RoleLeader))
	require.False(t, RoleCoLeader.Above(RoleAdmin))
	require.False(t, Role("").Above(RoleCoLeader))
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, r := range Roles() {
		parsed, err := ParseRole(r.String())
		require.NoError(t, err)
		require.Equal(t, r, parsed)
	}

	_, err := ParseRole("superuser")
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = ParseRole("")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestProfileCapabilities(t *testing.T) {
	t.Parallel()

	t.Run("admin has every flag", func(t *testing.T) {
		caps := Profile{Role: RoleAdmin}.Capabilities()
		require.Equal(t, Capabilities{IsAdmin: true, IsPastor: true, IsLeader: true, IsCoLeader: true}, caps)
	})

	t.Run("co_leader has only the lowest flag", func(t *testing.T) {
		caps := Profile{Role: RoleCoLeader}.Capabilities()
		require.Equal(t, Capabilities{IsCoLeader: true}, caps)
	})

	t.Run("flags are monotonic", func(t *testing.T) {
		for _, r := range Roles() {
			caps := Profile{Role: r}.Capabilities()
			if caps.IsAdmin {
				require.True(t, caps.IsPastor)
			}
			if caps.IsPastor {
				require.True(t, caps.IsLeader)
			}
			if caps.IsLeader {
				require.True(t, caps.IsCoLeader)
			}
		}
	})
}

func TestInvitationRedeemable(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	base := Invitation{Active: true, ExpiresAt: now.Add(time.Hour)}

	require.True(t, base.Redeemable(now))

	t.Run("expiry boundary is exclusive", func(t *testing.T) {
		require.True(t, base.Redeemable(base.ExpiresAt.Add(-time.Second)))
		require.False(t, base.Redeemable(base.ExpiresAt))
		require.False(t, base.Redeemable(base.ExpiresAt.Add(time.Second)))
	})

	t.Run("inactive is not redeemable", func(t *testing.T) {
		inv := base
		inv.Active = false
		require.False(t, inv.Redeemable(now))
	})

	t.Run("used stays non-redeemable even when reactivated", func(t *testing.T) {
		usedAt := now
		inv := base
		inv.UsedBy = "someone"
		inv.UsedAt = &usedAt
		require.False(t, inv.Redeemable(now))

		inv.Active = true
		require.False(t, inv.Redeemable(now))
	})
}
