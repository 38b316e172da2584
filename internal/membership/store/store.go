package store

import (
	"context"
	"errors"
	"time"

	"github.com/parishtools/flock/internal/membership/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrAlreadyUsed is returned by the conditional mark-used update when
	// another redemption won the race.
	ErrAlreadyUsed = errors.New("store: invitation already used")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable, and a Tx wrapper for multi-step operations that must
// be atomic.
type Store interface {
	Invitations() Invitations
	Profiles() Profiles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Prefer this
	// over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invitations interface {
	// CreateInvitation inserts a new invitation. Returns ErrAlreadyExists
	// on a token fingerprint collision.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByTokenHash returns the invitation for a token
	// fingerprint regardless of its state; callers decide redeemability.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// GetInvitationByID fetches an invitation by id.
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// MarkInvitationUsed conditionally records the redemption. The update
	// is guarded on used_by still being unset and is the single write that
	// makes a concurrent double-redeem impossible. Returns ErrAlreadyUsed
	// when the guard matched no row.
	MarkInvitationUsed(ctx context.Context, id, usedBy string, usedAt time.Time) error

	// SetInvitationActive toggles the active flag (revocation).
	SetInvitationActive(ctx context.Context, id string, active bool) error

	// ListInvitationsByCreator returns invitations minted by one profile,
	// newest first.
	ListInvitationsByCreator(ctx context.Context, createdBy string) ([]domain.Invitation, error)

	// ListInvitations returns every invitation, newest first.
	ListInvitations(ctx context.Context) ([]domain.Invitation, error)

	// DeleteInvitationsExpiredBefore removes unredeemed invitations whose
	// expiry predates cutoff. Redeemed rows are kept as an audit trail.
	// Retention housekeeping only; the services never call this on the
	// request path.
	DeleteInvitationsExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Profiles interface {
	// GetProfileByID fetches a profile by identity id.
	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)

	// GetProfileByEmail fetches a profile by email address.
	GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error)

	// CreateProfile inserts a new profile. Returns ErrAlreadyExists when
	// the identity id or email is taken.
	CreateProfile(ctx context.Context, p domain.Profile) error

	// UpdateProfile mutates email, display name, role, group, and the
	// active flag for an existing profile and bumps updated_at.
	UpdateProfile(ctx context.Context, p domain.Profile) error

	// SetProfileActive toggles the active flag. Profiles are never
	// deleted.
	SetProfileActive(ctx context.Context, id string, active bool) error

	// ListProfiles returns all profiles ordered by display name.
	ListProfiles(ctx context.Context) ([]domain.Profile, error)

	// IsEmpty reports whether no profiles exist yet (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}
