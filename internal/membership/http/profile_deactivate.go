package http

import (
	"errors"
	"net/http"

	"github.com/parishtools/flock/internal/membership/service"
	"github.com/parishtools/flock/pkg/httpx"
	"github.com/parishtools/flock/pkg/membersdk"
	"github.com/parishtools/flock/pkg/slogx"
)

type ProfileDeactivateHandler struct {
	ProfileService *service.ProfileService
	Resolver       *service.ProfileService
}

// ServeHTTP godoc
//
//	@Summary		Deactivate Profile Endpoint
//	@Description	Mark a membership profile inactive. The profile keeps its role but fails every capability-gated action. Admin only.
//	@Tags			Profiles
//	@Produce		json
//	@Param			id	path	string	true	"Profile ID"
//	@Success		204	"Profile deactivated"
//	@Failure		401	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/profiles/{id}/deactivate [post].
func (h *ProfileDeactivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	profileID := r.PathValue("id")
	if profileID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Profile id is required",
		})
		return
	}

	actor, ok := resolveActor(w, r, h.Resolver)
	if !ok {
		return
	}

	if err := h.ProfileService.DeactivateProfile(ctx, actor, profileID); err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientPrivilege):
			httpx.WriteJSON(w, http.StatusForbidden, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeForbidden,
				ErrorDescription: "Deactivating profiles requires admin",
			})
		case errors.Is(err, service.ErrProfileNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeNotFound,
				ErrorDescription: "Profile not found",
			})
		default:
			log.Error("failed to deactivate profile", "profile_id", profileID, "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeServerError,
				ErrorDescription: "Failed to deactivate profile",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
