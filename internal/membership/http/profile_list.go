package http

import (
	"errors"
	"net/http"

	"github.com/parishtools/flock/internal/membership/service"
	"github.com/parishtools/flock/pkg/httpx"
	"github.com/parishtools/flock/pkg/membersdk"
	"github.com/parishtools/flock/pkg/slogx"
)

type ProfileListHandler struct {
	ProfileService *service.ProfileService
	Resolver       *service.ProfileService
}

// ServeHTTP godoc
//
//	@Summary		List Profiles Endpoint
//	@Description	Return the membership directory. Requires leader or above.
//	@Tags			Profiles
//	@Produce		json
//	@Success		200	{object}	membersdk.ListProfilesResponse	"profiles"
//	@Failure		401	{object}	membersdk.ErrorResponse			"error, error_description"
//	@Failure		403	{object}	membersdk.ErrorResponse			"error, error_description"
//	@Failure		500	{object}	membersdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/profiles [get].
func (h *ProfileListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := resolveActor(w, r, h.Resolver)
	if !ok {
		return
	}

	profiles, err := h.ProfileService.ListProfiles(ctx, actor)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientPrivilege) {
			httpx.WriteJSON(w, http.StatusForbidden, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeForbidden,
				ErrorDescription: "Listing profiles requires leader or above",
			})
			return
		}
		log.Error("failed to list profiles", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list profiles",
		})
		return
	}

	response := membersdk.ListProfilesResponse{
		Profiles: make([]membersdk.ProfileResponse, len(profiles)),
	}
	for i, p := range profiles {
		response.Profiles[i] = profileResponse(p)
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
