package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/parishtools/flock/internal/membership/domain"
	"github.com/parishtools/flock/internal/membership/store"
	"github.com/parishtools/flock/pkg/slogx"
)

var ErrProfileNotFound = errors.New("profile not found")

// ResolvedProfile is a profile with its derived capability flags, which is
// what clients consume to build their UI.
type ResolvedProfile struct {
	Profile      domain.Profile
	Capabilities domain.Capabilities
}

type ProfileService struct {
	Store store.Store
}

// ResolveProfile fetches a profile by identity id and derives its
// capabilities.
func (s *ProfileService) ResolveProfile(ctx context.Context, id string) (ResolvedProfile, error) {
	p, err := s.Store.Profiles().GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ResolvedProfile{}, ErrProfileNotFound
		}
		return ResolvedProfile{}, err
	}

	return ResolvedProfile{
		Profile:      p,
		Capabilities: p.Capabilities(),
	}, nil
}

// CompleteRegistration records the outcome of a successful invitation
// redemption. New identities get a fresh profile with the granted role;
// identities that already have a profile are updated in place so a
// higher-role invitation acts as a promotion.
func (s *ProfileService) CompleteRegistration(
	ctx context.Context,
	id string,
	email string,
	displayName string,
	role domain.Role,
	group string,
) (domain.Profile, error) {
	log := slogx.FromContext(ctx)

	if !role.Valid() {
		return domain.Profile{}, domain.ErrInvalidRole
	}

	now := time.Now().UTC()

	existing, err := s.Store.Profiles().GetProfileByID(ctx, id)
	switch {
	case err == nil:
		existing.Email = email
		existing.DisplayName = displayName
		existing.Role = role
		if group != "" {
			existing.Group = group
		}
		existing.Active = true
		existing.UpdatedAt = now

		if err := s.Store.Profiles().UpdateProfile(ctx, existing); err != nil {
			log.Error("failed to update profile after redemption",
				slog.String("profile_id", id),
				slog.Any("error", err),
			)
			return domain.Profile{}, err
		}

		log.Info("profile updated after redemption",
			slog.String("profile_id", id),
			slog.String("role", role.String()),
		)
		return existing, nil

	case errors.Is(err, store.ErrNotFound):
		p := domain.Profile{
			ID:          id,
			Email:       email,
			DisplayName: displayName,
			Role:        role,
			Group:       group,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := s.Store.Profiles().CreateProfile(ctx, p); err != nil {
			log.Error("failed to create profile after redemption",
				slog.String("profile_id", id),
				slog.Any("error", err),
			)
			return domain.Profile{}, err
		}

		log.Info("profile created after redemption",
			slog.String("profile_id", id),
			slog.String("role", role.String()),
		)
		return p, nil

	default:
		log.Error("failed to fetch profile", slog.Any("error", err))
		return domain.Profile{}, err
	}
}

// DeactivateProfile marks a profile inactive. Admin only. A deactivated
// profile keeps its role but fails every capability-gated action.
func (s *ProfileService) DeactivateProfile(
	ctx context.Context,
	actor domain.Profile,
	id string,
) error {
	log := slogx.FromContext(ctx)

	if !actor.Role.AtLeast(domain.RoleAdmin) || !actor.Active {
		log.Warn("deactivation privilege check failed",
			slog.String("actor_id", actor.ID),
			slog.String("target_id", id),
		)
		return ErrInsufficientPrivilege
	}

	if err := s.Store.Profiles().SetProfileActive(ctx, id, false); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	log.Info("profile deactivated",
		slog.String("profile_id", id),
		slog.String("actor_id", actor.ID),
	)
	return nil
}

// ListProfiles returns the membership directory. Leaders and above may
// browse it.
func (s *ProfileService) ListProfiles(
	ctx context.Context,
	actor domain.Profile,
) ([]domain.Profile, error) {
	if !actor.Role.AtLeast(domain.RoleLeader) || !actor.Active {
		return nil, ErrInsufficientPrivilege
	}
	return s.Store.Profiles().ListProfiles(ctx)
}
