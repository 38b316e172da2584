package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/parishtools/flock/internal/membership/domain"
	"github.com/parishtools/flock/internal/membership/store"
	"github.com/parishtools/flock/pkg/cryptox"
	"github.com/parishtools/flock/pkg/idx"
	"github.com/parishtools/flock/pkg/slogx"
)

var (
	ErrInvalidInvitationRequest = errors.New("invalid invitation request")
	ErrInsufficientPrivilege    = errors.New("insufficient privilege")
	ErrTokenGenerationFailed    = errors.New("failed to generate a unique invitation token")
	ErrTokenNotFound            = errors.New("invitation token not found")
	ErrTokenExpired             = errors.New("invitation token has expired")
	ErrTokenAlreadyUsed         = errors.New("invitation token has already been used")
	ErrTokenInactive            = errors.New("invitation token has been revoked")
)

// tokenGenerationAttempts bounds the regenerate loop on a fingerprint
// collision. A collision needs two identical 256-bit random values, so one
// retry is already generous.
const tokenGenerationAttempts = 3

type InvitationService struct {
	Store store.Store
}

// IssueInvitation mints a new invitation granting targetRole, valid for ttl.
// Policy: an issuer may only grant roles strictly below their own, which
// makes privilege escalation via invitations impossible. Returns the stored
// record and the raw token; the token is the secret to hand to the invitee
// and is never persisted.
func (s *InvitationService) IssueInvitation(
	ctx context.Context,
	issuer domain.Profile,
	targetRole domain.Role,
	ttl time.Duration,
) (domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate the requested role before consulting any policy.
	if !targetRole.Valid() {
		log.Warn("invitation requested for unknown role",
			slog.String("role", targetRole.String()),
			slog.String("issuer_id", issuer.ID),
		)
		return domain.Invitation{}, "", domain.ErrInvalidRole
	}

	// 2. Validate the ttl.
	if ttl <= 0 {
		log.Warn("invitation requested with non-positive ttl",
			slog.String("issuer_id", issuer.ID),
			slog.Duration("ttl", ttl),
		)
		return domain.Invitation{}, "", ErrInvalidInvitationRequest
	}

	// 3. Deactivated profiles keep their role but lose the ability to act.
	if !issuer.Active {
		log.Warn("deactivated profile attempted to mint invitation",
			slog.String("issuer_id", issuer.ID),
		)
		return domain.Invitation{}, "", ErrInsufficientPrivilege
	}

	// 4. Enforce the strictly-lower grant policy.
	if !issuer.Role.Above(targetRole) {
		log.Warn("invitation privilege check failed",
			slog.String("issuer_id", issuer.ID),
			slog.String("issuer_role", issuer.Role.String()),
			slog.String("target_role", targetRole.String()),
		)
		return domain.Invitation{}, "", ErrInsufficientPrivilege
	}

	// 5. Generate and persist, regenerating on a fingerprint collision.
	for attempt := 0; attempt < tokenGenerationAttempts; attempt++ {
		token, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			log.Error("failed to generate invitation token", slog.Any("error", err))
			return domain.Invitation{}, "", ErrTokenGenerationFailed
		}

		now := time.Now().UTC()
		inv := domain.Invitation{
			ID:        idx.New().String(),
			TokenHash: cryptox.FingerprintToken(token),
			Role:      targetRole,
			CreatedBy: issuer.ID,
			ExpiresAt: now.Add(ttl),
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = s.Store.Invitations().CreateInvitation(ctx, inv)
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("invitation token fingerprint collision, regenerating",
				slog.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			log.Error("failed to store invitation",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", err),
			)
			return domain.Invitation{}, "", err
		}

		log.Debug("invitation created",
			slog.String("invitation_id", inv.ID),
			slog.String("issuer_id", issuer.ID),
			slog.String("target_role", targetRole.String()),
			slog.Time("expires_at", inv.ExpiresAt),
		)

		// Return the raw token (not the fingerprint).
		return inv, token, nil
	}

	log.Error("exhausted invitation token generation attempts")
	return domain.Invitation{}, "", ErrTokenGenerationFailed
}

// RedeemInvitation validates an invitation token and consumes it exactly
// once, returning the granted role. The caller is responsible for creating
// or updating the redeeming identity's profile with that role.
//
// The read determines which rejection the caller sees; the conditional
// mark-used update is what actually guarantees at-most-one redemption, so
// two concurrent calls on the same token produce exactly one success no
// matter how the reads interleave.
func (s *InvitationService) RedeemInvitation(
	ctx context.Context,
	token string,
	identityID string,
) (domain.Role, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	if token == "" || identityID == "" {
		log.Warn("invitation redemption missing required fields")
		return "", ErrInvalidInvitationRequest
	}

	// 2. Fingerprint the token and look it up.
	fingerprint := cryptox.FingerprintToken(token)
	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("redemption attempted with unknown invitation token")
			return "", ErrTokenNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return "", err
	}

	// 3. Reject revoked, used, and expired invitations with distinct
	// errors so the caller can give the right guidance.
	now := time.Now().UTC()
	switch {
	case !inv.Active:
		log.Warn("redemption attempted with revoked invitation",
			slog.String("invitation_id", inv.ID),
		)
		return "", ErrTokenInactive
	case inv.Used():
		log.Warn("redemption attempted with already-used invitation",
			slog.String("invitation_id", inv.ID),
			slog.String("used_by", inv.UsedBy),
		)
		return "", ErrTokenAlreadyUsed
	case !now.Before(inv.ExpiresAt):
		log.Warn("redemption attempted with expired invitation",
			slog.String("invitation_id", inv.ID),
			slog.Time("expires_at", inv.ExpiresAt),
		)
		return "", ErrTokenExpired
	}

	// 4. Consume the invitation. The guard on used_by in the store makes
	// this safe under concurrent redemption.
	err = s.Store.Invitations().MarkInvitationUsed(ctx, inv.ID, identityID, now)
	if errors.Is(err, store.ErrAlreadyUsed) {
		log.Warn("lost redemption race",
			slog.String("invitation_id", inv.ID),
		)
		return "", ErrTokenAlreadyUsed
	}
	if err != nil {
		log.Error("failed to mark invitation used",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Info("invitation redeemed",
		slog.String("invitation_id", inv.ID),
		slog.String("identity_id", identityID),
		slog.String("granted_role", inv.Role.String()),
	)

	return inv.Role, nil
}

// RevokeInvitation deactivates an invitation so it can no longer be
// redeemed. Only the active issuer or an active admin may revoke. Used
// invitations stay non-redeemable regardless of the active flag, so revoking
// one is a no-op in practice but is still recorded.
func (s *InvitationService) RevokeInvitation(
	ctx context.Context,
	actor domain.Profile,
	invitationID string,
) error {
	log := slogx.FromContext(ctx)

	if !actor.Active {
		log.Warn("deactivated profile attempted to revoke invitation",
			slog.String("actor_id", actor.ID),
		)
		return ErrInsufficientPrivilege
	}

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return err
	}

	if inv.CreatedBy != actor.ID && !actor.Role.AtLeast(domain.RoleAdmin) {
		log.Warn("revocation privilege check failed",
			slog.String("actor_id", actor.ID),
			slog.String("invitation_id", invitationID),
		)
		return ErrInsufficientPrivilege
	}

	if err := s.Store.Invitations().SetInvitationActive(ctx, invitationID, false); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenNotFound
		}
		return err
	}

	log.Info("invitation revoked",
		slog.String("invitation_id", invitationID),
		slog.String("actor_id", actor.ID),
	)
	return nil
}

// ListInvitations returns the invitations visible to the actor: admins see
// everything, everyone else only what they minted.
func (s *InvitationService) ListInvitations(
	ctx context.Context,
	actor domain.Profile,
) ([]domain.Invitation, error) {
	if !actor.Active {
		return nil, ErrInsufficientPrivilege
	}
	if actor.Role.AtLeast(domain.RoleAdmin) {
		return s.Store.Invitations().ListInvitations(ctx)
	}
	return s.Store.Invitations().ListInvitationsByCreator(ctx, actor.ID)
}
