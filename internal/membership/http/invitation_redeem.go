package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parishtools/flock/internal/membership/service"
	"github.com/parishtools/flock/pkg/httpx"
	"github.com/parishtools/flock/pkg/membersdk"
	"github.com/parishtools/flock/pkg/slogx"
)

type InvitationRedeemHandler struct {
	InvitationService *service.InvitationService
	ProfileService    *service.ProfileService
}

// ServeHTTP godoc
//
//	@Summary		Redeem Invitation Endpoint
//	@Description	Redeem a single-use invitation token, creating or updating the membership profile for the authenticated identity with the granted role.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.RedeemInvitationRequest	true	"Redemption request"
//	@Success		200		{object}	membersdk.RedeemInvitationResponse	"profile"
//	@Failure		400		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Failure		401		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Failure		409		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Failure		410		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Failure		500		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/redeem [post].
func (h *InvitationRedeemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req membersdk.RedeemInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	if req.InviteToken == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeInvalidRequest,
			ErrorDescription: "invite_token is required",
		})
		return
	}

	identityID, ok := httpx.IdentityFromContext(ctx)
	if !ok || identityID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeUnauthorized,
			ErrorDescription: "Authentication required",
		})
		return
	}

	role, err := h.InvitationService.RedeemInvitation(ctx, req.InviteToken, identityID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenNotFound):
			httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeInvalidGrant,
				ErrorDescription: "Invitation token is invalid",
			})
		case errors.Is(err, service.ErrTokenExpired):
			httpx.WriteJSON(w, http.StatusGone, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeInvalidGrant,
				ErrorDescription: "Invitation token has expired",
			})
		case errors.Is(err, service.ErrTokenAlreadyUsed):
			httpx.WriteJSON(w, http.StatusConflict, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeConflict,
				ErrorDescription: "Invitation has already been used",
			})
		case errors.Is(err, service.ErrTokenInactive):
			httpx.WriteJSON(w, http.StatusGone, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeInvalidGrant,
				ErrorDescription: "Invitation has been revoked",
			})
		case errors.Is(err, service.ErrInvalidInvitationRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeInvalidRequest,
				ErrorDescription: "Invalid redemption parameters",
			})
		default:
			log.Error("failed to redeem invitation", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
				Error:            membersdk.ErrorCodeServerError,
				ErrorDescription: "Failed to redeem invitation",
			})
		}
		return
	}

	// The token is consumed at this point. Profile identity details come
	// from the verified bearer token, not the request body.
	email, _ := ctx.Value(httpx.CtxKeyEmail).(string)
	displayName := req.DisplayName
	if displayName == "" {
		displayName, _ = ctx.Value(httpx.CtxKeyName).(string)
	}

	profile, err := h.ProfileService.CompleteRegistration(ctx, identityID, email, displayName, role, req.Group)
	if err != nil {
		log.Error("failed to complete registration after redemption",
			"identity_id", identityID, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
			Error:            membersdk.ErrorCodeServerError,
			ErrorDescription: "Invitation was consumed but profile creation failed",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, membersdk.RedeemInvitationResponse{
		Profile: profileResponse(profile),
	})
}
