package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parishtools/flock/internal/membership/domain"
	"github.com/parishtools/flock/internal/membership/store"
	"github.com/parishtools/flock/internal/membership/store/drivers/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "membership.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedProfile(t *testing.T, s store.Store, id string, role domain.Role) domain.Profile {
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
