package http

import (
	"errors"
	"net/http"

	"github.com/parishtools/flock/internal/membership/service"
	"github.com/parishtools/flock/pkg/httpx"
	"github.com/parishtools/flock/pkg/membersdk"
	"github.com/parishtools/flock/pkg/slogx"
)

type ProfileHandler struct {
	ProfileService *service.ProfileService
}

// ServeHTTP godoc
//
//	@Summary		Resolve Profile Endpoint
//	@Description	Resolve the authenticated identity's membership profile, including the derived capability flags clients use to gate UI.
//	@Tags			Profiles
//	@Produce		json
//	@Success		200	{object}	membersdk.ProfileResponse	"id, email, display_name, role, capabilities"
//	@Failure		401	{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		404	{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	membersdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/profile [get].
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identityID, ok := httpx.IdentityFromContext(ctx)
	if !ok || identityID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeUnauthorized,
			ErrorDescription: "Authentication required",
		})
		return
	}

	resolved, err := h.ProfileService.ResolveProfile(ctx, identityID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeNotFound,
				ErrorDescription: "No membership profile for this identity, redeem an invitation first",
			})
			return
		}
		log.Error("failed to resolve profile", "identity_id", identityID, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeServerError,
			ErrorDescription: "Failed to resolve profile",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileResponse(resolved.Profile))
}
