package http

import (
	"errors"
	"net/http"

	"github.com/parishtools/flock/internal/membership/domain"
	"github.com/parishtools/flock/internal/membership/service"
	"github.com/parishtools/flock/pkg/httpx"
	"github.com/parishtools/flock/pkg/membersdk"
)

// resolveActor maps the authenticated identity on the request to its
// membership profile. Identities without a profile have not redeemed an
// invitation yet and are rejected with 403. Writes the error response
// itself; callers just return on !ok.
func resolveActor(
	w http.ResponseWriter,
	r *http.Request,
	resolver *service.ProfileService,
) (domain.Profile, bool) {
	ctx := r.Context()

	identityID, ok := httpx.IdentityFromContext(ctx)
	if !ok || identityID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeUnauthorized,
			ErrorDescription: "Authentication required",
		})
		return domain.Profile{}, false
	}

	resolved, err := resolver.ResolveProfile(ctx, identityID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			httpx.WriteJSON(w, http.StatusForbidden, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeForbidden,
				ErrorDescription: "No membership profile for this identity",
			})
			return domain.Profile{}, false
		}
		httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeServerError,
			ErrorDescription: "Failed to resolve membership profile",
		})
		return domain.Profile{}, false
	}

	return resolved.Profile, true
}

func profileResponse(p domain.Profile) membersdk.ProfileResponse {
	caps := p.Capabilities()
	return membersdk.ProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        p.Role.String(),
		Group:       p.Group,
		Active:      p.Active,
		Capabilities: membersdk.CapabilityFlags{
			IsAdmin:    caps.IsAdmin,
			IsPastor:   caps.IsPastor,
			IsLeader:   caps.IsLeader,
			IsCoLeader: caps.IsCoLeader,
		},
		CreatedAt: p.CreatedAt.Unix(),
		UpdatedAt: p.UpdatedAt.Unix(),
	}
}

func invitationSummary(inv domain.Invitation) membersdk.InvitationSummary {
	s := membersdk.InvitationSummary{
		ID:        inv.ID,
		Role:      inv.Role.String(),
		CreatedBy: inv.CreatedBy,
		ExpiresAt: inv.ExpiresAt.Unix(),
		Active:    inv.Active,
		UsedBy:    inv.UsedBy,
		CreatedAt: inv.CreatedAt.Unix(),
	}
	if inv.UsedAt != nil {
		s.UsedAt = inv.UsedAt.Unix()
	}
	return s
}
