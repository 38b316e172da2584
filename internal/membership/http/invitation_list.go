package http

import (
	"errors"
	"net/http"

	"github.com/parishtools/flock/internal/membership/service"
	"github.com/parishtools/flock/pkg/httpx"
	"github.com/parishtools/flock/pkg/membersdk"
	"github.com/parishtools/flock/pkg/slogx"
)

type InvitationListHandler struct {
	InvitationService *service.InvitationService
	Resolver          *service.ProfileService
}

// ServeHTTP godoc
//
//	@Summary		List Invitations Endpoint
//	@Description	List invitations visible to the caller. Admins see every invitation; everyone else sees only the ones they minted. Raw tokens are never included.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	membersdk.ListInvitationsResponse	"invitations"
//	@Failure		401	{object}	membersdk.ErrorResponse				"error, error_description"
//	@Failure		403	{object}	membersdk.ErrorResponse				"error, error_description"
//	@Failure		500	{object}	membersdk.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [get].
func (h *InvitationListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := resolveActor(w, r, h.Resolver)
	if !ok {
		return
	}

	invitations, err := h.InvitationService.ListInvitations(ctx, actor)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientPrivilege) {
			httpx.WriteJSON(w, http.StatusForbidden, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeForbidden,
				ErrorDescription: "Profile is deactivated",
			})
			return
		}
		log.Error("failed to list invitations", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list invitations",
		})
		return
	}

	response := membersdk.ListInvitationsResponse{
		Invitations: make([]membersdk.InvitationSummary, len(invitations)),
	}
	for i, inv := range invitations {
		response.Invitations[i] = invitationSummary(inv)
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
