package http

import (
	"errors"
	"net/http"

	"github.com/parishtools/flock/internal/membership/service"
	"github.com/parishtools/flock/pkg/httpx"
	"github.com/parishtools/flock/pkg/membersdk"
	"github.com/parishtools/flock/pkg/slogx"
)

type InvitationRevokeHandler struct {
	InvitationService *service.InvitationService
	Resolver          *service.ProfileService
}

// ServeHTTP godoc
//
//	@Summary		Revoke Invitation Endpoint
//	@Description	Deactivate an invitation so it can no longer be redeemed. Only the issuer or an admin may revoke.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path	string	true	"Invitation ID"
//	@Success		204	"Invitation revoked"
//	@Failure		401	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/revoke [post].
func (h *InvitationRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	invitationID := r.PathValue("id")
	if invitationID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invitation id is required",
		})
		return
	}

	actor, ok := resolveActor(w, r, h.Resolver)
	if !ok {
		return
	}

	if err := h.InvitationService.RevokeInvitation(ctx, actor, invitationID); err != nil {
		switch {
		case errors.Is(err, service.ErrTokenNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeNotFound,
				ErrorDescription: "Invitation not found",
			})
		case errors.Is(err, service.ErrInsufficientPrivilege):
			httpx.WriteJSON(w, http.StatusForbidden, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeForbidden,
				ErrorDescription: "Only the issuer or an admin may revoke an invitation",
			})
		default:
			log.Error("failed to revoke invitation", "invitation_id", invitationID, "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeServerError,
				ErrorDescription: "Failed to revoke invitation",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
